package dialect

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/mbgen"
)

// Tag identifies a database dialect.
type Tag string

// Supported dialects.
const (
	MySQL      Tag = "MySQL"
	MySQL8     Tag = "MySQL_8"
	Oracle     Tag = "Oracle"
	PostgreSQL Tag = "PostgreSQL"
	SQLServer  Tag = "SQL_Server"
	SQLite     Tag = "Sqlite"
)

// String implements the fmt.Stringer interface.
func (t Tag) String() string { return string(t) }

// A ScopeMode defines how a dialect groups tables.
type ScopeMode uint8

const (
	// ScopeCatalog scopes the table by catalog.
	ScopeCatalog ScopeMode = iota + 1
	// ScopeSchema scopes the table by schema.
	ScopeSchema
)

// String implements the fmt.Stringer interface.
func (m ScopeMode) String() string {
	switch m {
	case ScopeCatalog:
		return "catalog"
	case ScopeSchema:
		return "schema"
	default:
		return fmt.Sprintf("ScopeMode(%d)", m)
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (m ScopeMode) MarshalText() ([]byte, error) {
	if m != ScopeCatalog && m != ScopeSchema {
		return nil, fmt.Errorf("dialect: invalid scope mode %d", m)
	}
	return []byte(m.String()), nil
}

// PrefixSource decides where the scope comes from when schema prefixing is requested.
type PrefixSource uint8

const (
	// PrefixSchema scopes by schema using the configured schema.
	PrefixSchema PrefixSource = iota + 1
	// PrefixUsername scopes by schema using the connection username.
	// An account may see same-named tables owned by other users; pinning to
	// the own schema keeps them from being generated twice.
	PrefixUsername
	// PrefixCatalog scopes by catalog using the configured schema.
	PrefixCatalog
)

// A Capability is a generation-time extension a dialect can honor.
type Capability uint

const (
	// CapPaging allows limit/offset clauses in generated queries.
	CapPaging Capability = 1 << iota

	// CapRowLock allows "FOR UPDATE" query variants.
	CapRowLock

	// CapDAOInterface allows the common DAO interface shape.
	CapDAOInterface
)

// Has reports whether c includes every bit of o.
func (c Capability) Has(o Capability) bool { return o != 0 && c&o == o }

// String implements the fmt.Stringer interface.
func (c Capability) String() string {
	var names []string
	for _, v := range []struct {
		c    Capability
		name string
	}{
		{CapPaging, "paging"},
		{CapRowLock, "rowlock"},
		{CapDAOInterface, "dao"},
	} {
		if c.Has(v.c) {
			names = append(names, v.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Delimiters is the identifier quoting pair. The zero value keeps the engine default.
type Delimiters struct {
	Begin string `yaml:"begin,omitempty"`
	End   string `yaml:"end,omitempty"`
}

// IsZero reports whether the engine default delimiters apply.
func (d Delimiters) IsZero() bool { return d.Begin == "" && d.End == "" }

// Property is a single named driver or engine property.
type Property struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Spec is the static policy of one dialect.
type Spec struct {
	Tag          Tag
	DriverClass  string
	DefaultPort  int
	Scope        ScopeMode    // scope without schema prefixing.
	Prefix       PrefixSource // scope with schema prefixing.
	Delimiters   Delimiters
	DelimitAll   bool // identifiers are always delimited in table configuration.
	Capabilities Capability
	Properties   []Property // JDBC properties.
	Connector    string     // connector artifact name.
	Fileless     bool       // the database is addressed by path, no host.
	url          func(p *Profile) string
}

var backticks = Delimiters{Begin: "`", End: "`"}

var mysqlProperties = []Property{
	{Name: "nullCatalogMeansCurrent", Value: "true"},
	// information_schema metadata exposes table comments.
	{Name: "useInformationSchema", Value: "true"},
}

var specs = []*Spec{
	{
		Tag:          MySQL,
		DriverClass:  "com.mysql.jdbc.Driver",
		DefaultPort:  3306,
		Scope:        ScopeSchema,
		Prefix:       PrefixSchema,
		Delimiters:   backticks,
		Capabilities: CapPaging | CapRowLock | CapDAOInterface,
		Properties:   mysqlProperties,
		Connector:    "mysql-connector-java-5.1.38.jar",
		url: func(p *Profile) string {
			return fmt.Sprintf("jdbc:mysql://%s:%d/%s?useUnicode=true&useSSL=false&characterEncoding=%s", p.Host, p.Port, p.Schema, p.Encoding)
		},
	},
	{
		Tag:          MySQL8,
		DriverClass:  "com.mysql.cj.jdbc.Driver",
		DefaultPort:  3306,
		Scope:        ScopeSchema,
		Prefix:       PrefixSchema,
		Delimiters:   backticks,
		Capabilities: CapPaging | CapDAOInterface,
		Properties:   mysqlProperties,
		Connector:    "mysql-connector-java-8.0.11.jar",
		url: func(p *Profile) string {
			return fmt.Sprintf("jdbc:mysql://%s:%d/%s?serverTimezone=UTC&useUnicode=true&useSSL=false&characterEncoding=%s", p.Host, p.Port, p.Schema, p.Encoding)
		},
	},
	{
		Tag:         Oracle,
		DriverClass: "oracle.jdbc.OracleDriver",
		DefaultPort: 1521,
		Scope:       ScopeCatalog,
		Prefix:      PrefixUsername,
		Properties: []Property{
			{Name: "remarksReporting", Value: "true"},
		},
		Connector: "ojdbc6.jar",
		url: func(p *Profile) string {
			return fmt.Sprintf("jdbc:oracle:thin:@//%s:%d/%s", p.Host, p.Port, p.Schema)
		},
	},
	{
		Tag:          PostgreSQL,
		DriverClass:  "org.postgresql.Driver",
		DefaultPort:  5432,
		Scope:        ScopeCatalog,
		Prefix:       PrefixCatalog,
		DelimitAll:   true,
		Capabilities: CapPaging | CapRowLock | CapDAOInterface,
		Connector:    "postgresql-9.4.1209.jar",
		url: func(p *Profile) string {
			return fmt.Sprintf("jdbc:postgresql://%s:%d/%s", p.Host, p.Port, p.Schema)
		},
	},
	{
		Tag:         SQLServer,
		DriverClass: "com.microsoft.sqlserver.jdbc.SQLServerDriver",
		DefaultPort: 1433,
		Scope:       ScopeCatalog,
		Prefix:      PrefixCatalog,
		Connector:   "sqljdbc4-4.0.jar",
		url: func(p *Profile) string {
			return fmt.Sprintf("jdbc:sqlserver://%s:%d;databaseName=%s", p.Host, p.Port, p.Schema)
		},
	},
	{
		Tag:         SQLite,
		DriverClass: "org.sqlite.JDBC",
		Scope:       ScopeCatalog,
		Prefix:      PrefixCatalog,
		Connector:   "sqlite-jdbc-3.19.3.jar",
		Fileless:    true,
		url: func(p *Profile) string {
			return "jdbc:sqlite:" + p.Schema
		},
	},
}

// Lookup returns the static policy of the given dialect name.
// Names are matched case-insensitively. There is no fallback dialect:
// an unknown or empty name is a configuration error.
func Lookup(name string) (*Spec, error) {
	if name == "" {
		return nil, mbgen.NewConfigError("Dialect", nil, "dialect is required")
	}
	for _, s := range specs {
		if strings.EqualFold(name, string(s.Tag)) {
			return s, nil
		}
	}
	return nil, mbgen.NewConfigError("Dialect", name, fmt.Sprintf("unknown dialect; use one of %s", strings.Join(Names(), ", ")))
}

// Parse returns the canonical tag of the given dialect name.
func Parse(name string) (Tag, error) {
	s, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return s.Tag, nil
}

// Names returns the names of all supported dialects.
func Names() []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, string(s.Tag))
	}
	return names
}

// Specs returns the static policies of all supported dialects, in declaration order.
func Specs() []*Spec {
	return slices.Clone(specs)
}

// MySQLFamily reports whether the tag belongs to the MySQL family.
func (t Tag) MySQLFamily() bool { return t == MySQL || t == MySQL8 }
