// Package dialect resolves the per-dialect policy of a generation run.
//
// Every supported database is one row of a closed table. A row decides how
// tables are scoped (schema or catalog), how identifiers are quoted, which
// JDBC driver class and URL shape apply, which JDBC properties are set and
// which generation-time extensions the dialect can honor. Adding a dialect
// is a pure data addition.
//
// # Supported Dialects
//
//   - MySQL, MySQL_8: schema scoping, backtick delimiters
//   - Oracle: catalog scoping, schema pinned to the connection user when prefixed
//   - PostgreSQL: catalog scoping, identifiers always delimited
//   - SQL_Server, Sqlite: catalog scoping, engine defaults
//
// # Usage
//
//	policy, err := dialect.Resolve(dialect.Profile{
//	    Dialect:  "MySQL",
//	    Host:     "localhost",
//	    Username: "root",
//	    Schema:   "shop",
//	}, dialect.Options{SchemaPrefix: true})
//	if err != nil {
//	    return err // errors.Is(err, mbgen.ErrConfig)
//	}
//	policy.Scope.Schema() // "shop"
//
// An unknown dialect name always fails; there is no default dialect.
package dialect
