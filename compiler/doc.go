// Package compiler runs a generation job end to end. It resolves the dialect
// policy of a connection profile, assembles and validates the job, locates
// the JDBC driver, clears a stale mapping file when asked to and hands the
// job to an engine.
package compiler
