package dialect

import (
	"slices"

	"github.com/syssam/mbgen"
)

// DefaultEncoding is the connection character encoding used when the profile has none.
const DefaultEncoding = "utf8"

// Profile describes a database connection. It is owned by the caller and
// never modified by this package.
type Profile struct {
	Dialect  string `koanf:"dialect" yaml:"dialect"`
	Host     string `koanf:"host" yaml:"host,omitempty"`
	Port     int    `koanf:"port" yaml:"port,omitempty"`
	Username string `koanf:"username" yaml:"username,omitempty"`
	Password string `koanf:"password" yaml:"-"`
	Schema   string `koanf:"schema" yaml:"schema,omitempty"`
	Encoding string `koanf:"encoding" yaml:"encoding,omitempty"`
	// URL is a raw JDBC connection string. When set it is used verbatim.
	URL string `koanf:"url" yaml:"url,omitempty"`
}

// Options controls policy resolution.
type Options struct {
	// SchemaPrefix qualifies the table with its schema (or catalog) in generated SQL.
	SchemaPrefix bool
}

// Scope is the table scoping of a resolved policy. A scope carries exactly
// one mode; Name may be empty when the connection does not name a schema.
type Scope struct {
	Mode ScopeMode `yaml:"mode"`
	Name string    `yaml:"name,omitempty"`
}

// Schema returns the schema name, or empty if the scope is catalog-based.
func (s Scope) Schema() string {
	if s.Mode == ScopeSchema {
		return s.Name
	}
	return ""
}

// Catalog returns the catalog name, or empty if the scope is schema-based.
func (s Scope) Catalog() string {
	if s.Mode == ScopeCatalog {
		return s.Name
	}
	return ""
}

// Policy is the resolved dialect policy of one generation run.
type Policy struct {
	Tag                Tag
	Scope              Scope
	Delimiters         Delimiters
	DelimitIdentifiers bool
	DriverClass        string
	ConnectionURL      string
	Username           string
	Password           string
	JDBCProperties     []Property
	Capabilities       Capability
	Connector          string
}

// Supports reports whether the policy honors the given capability.
func (p *Policy) Supports(c Capability) bool { return p.Capabilities.Has(c) }

// Resolve validates the profile and returns a fresh policy for it.
func Resolve(p Profile, opts Options) (*Policy, error) {
	spec, err := Lookup(p.Dialect)
	if err != nil {
		return nil, err
	}
	if p.Port == 0 {
		p.Port = spec.DefaultPort
	}
	if p.Encoding == "" {
		p.Encoding = DefaultEncoding
	}
	if err := spec.validate(&p); err != nil {
		return nil, err
	}
	scope, err := spec.scope(&p, opts)
	if err != nil {
		return nil, err
	}
	url := p.URL
	if url == "" {
		url = spec.url(&p)
	}
	return &Policy{
		Tag:                spec.Tag,
		Scope:              scope,
		Delimiters:         spec.Delimiters,
		DelimitIdentifiers: spec.DelimitAll,
		DriverClass:        spec.DriverClass,
		ConnectionURL:      url,
		Username:           p.Username,
		Password:           p.Password,
		JDBCProperties:     slices.Clone(spec.Properties),
		Capabilities:       spec.Capabilities,
		Connector:          spec.Connector,
	}, nil
}

func (s *Spec) validate(p *Profile) error {
	if p.Port < 0 || p.Port > 65535 {
		return mbgen.NewConfigError("Port", p.Port, "port out of range")
	}
	if p.URL != "" {
		return nil
	}
	if p.Host == "" && !s.Fileless {
		return mbgen.NewConfigError("Host", nil, "host is required for "+string(s.Tag))
	}
	if p.Schema == "" {
		return mbgen.NewConfigError("Schema", nil, "schema is required to build the connection URL")
	}
	return nil
}

func (s *Spec) scope(p *Profile, opts Options) (Scope, error) {
	if !opts.SchemaPrefix {
		return Scope{Mode: s.Scope, Name: p.Schema}, nil
	}
	switch s.Prefix {
	case PrefixSchema:
		return Scope{Mode: ScopeSchema, Name: p.Schema}, nil
	case PrefixUsername:
		if p.Username == "" {
			return Scope{}, mbgen.NewConfigError("Username", nil, "username is required to prefix "+string(s.Tag)+" tables with their schema")
		}
		return Scope{Mode: ScopeSchema, Name: p.Username}, nil
	default:
		return Scope{Mode: ScopeCatalog, Name: p.Schema}, nil
	}
}
