// Package mbgen holds the error types shared by the mbgen packages.
//
// mbgen turns a database-agnostic generation request into a MyBatis
// Generator job and runs it. The work is split across packages:
//
//   - dialect: per-dialect policy (scoping, delimiters, driver, URL, capabilities)
//   - compiler/gen: job assembly and plugin selection
//   - compiler: the generation pipeline and the mapping descriptor guard
//   - compiler/load: loading generation files
//   - engine, engine/mbg: the generation engine boundary and its MyBatis Generator implementation
//   - connector: connector artifact resolution
//   - introspect: optional table inspection before generation
//
// # Errors
//
// Every failure returned by the pipeline matches one of the sentinels:
//
//	errors.Is(err, mbgen.ErrConfig)        // invalid request, profile or rules
//	errors.Is(err, mbgen.ErrDriver)        // connector artifact not found
//	errors.Is(err, mbgen.ErrIntrospection) // database unreachable or unreadable
//	errors.Is(err, mbgen.ErrGeneration)    // engine failure
//
// Configuration and driver errors are always detected before the engine runs.
package mbgen
