// Package gen assembles MyBatis Generator jobs.
//
// A job is built in two steps. Assemble merges a Request, its column rules
// and a resolved dialect.Policy into a base job, and SelectPlugins attaches
// the flag dependent plugins the dialect can honor:
//
//	job, err := gen.Assemble(req, rules, policy)
//	if err != nil {
//	    return err
//	}
//	gen.SelectPlugins(job, req.Flags, policy)
//	if err := job.Validate(); err != nil {
//	    return err
//	}
//
// # Plugins
//
// The plugin catalog is a fixed set of package variables (PluginLombok,
// PluginLimit, ...). Every plugin claims one or more responsibilities and a
// job never carries two plugins that claim the same one. The accessor
// plugins form one mutual exclusion group selected by Flags.Accessors.
//
// A flag the dialect cannot honor is inert: no plugin is added and no error
// is returned, so one request can be reused across dialects.
//
// # Errors
//
// Invalid requests, conflicting column rules and jobs breaking an invariant
// fail with a *mbgen.ConfigError.
package gen
