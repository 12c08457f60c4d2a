package gen

import (
	"slices"

	"github.com/syssam/mbgen/dialect"
)

// Engine level constants of every job.
const (
	ContextID     = "mbgen"
	TargetRuntime = "MyBatis3"
	ModelType     = "flat"
	// ClientType generates mapper interfaces backed by XML descriptors.
	ClientType = "XMLMAPPER"
)

// Property is a named engine property.
type Property = dialect.Property

// Properties is an ordered property list with unique names.
type Properties []Property

// Set sets the value of the named property. An existing property keeps its
// position, so a later setting never duplicates an earlier one.
func (ps *Properties) Set(name, value string) {
	for i := range *ps {
		if (*ps)[i].Name == name {
			(*ps)[i].Value = value
			return
		}
	}
	*ps = append(*ps, Property{Name: name, Value: value})
}

// Get returns the value of the named property.
func (ps Properties) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Job is the fully merged, ready to execute description of one generation.
// A job is built fresh for each run and consumed once by the engine.
type Job struct {
	ID            string         `yaml:"id"`
	TargetRuntime string         `yaml:"target_runtime"`
	ModelType     string         `yaml:"model_type"`
	Properties    Properties     `yaml:"properties,omitempty"`
	ClassPath     []string       `yaml:"classpath,omitempty"`
	Connection    Connection     `yaml:"connection"`
	TypeResolver  *TypeResolver  `yaml:"type_resolver,omitempty"`
	Model         Target         `yaml:"model"`
	SQLMap        Target         `yaml:"sqlmap"`
	Client        Target         `yaml:"client"`
	Comment       CommentOptions `yaml:"comment"`
	Table         Table          `yaml:"table"`
	Plugins       []PluginConfig `yaml:"plugins"`
	// Dialect the job was resolved for. Not part of the engine configuration.
	Dialect dialect.Tag `yaml:"dialect"`
}

// Connection holds the JDBC connection of the engine.
type Connection struct {
	DriverClass string     `yaml:"driver_class"`
	URL         string     `yaml:"url"`
	Username    string     `yaml:"username,omitempty"`
	Password    string     `yaml:"-"`
	Properties  Properties `yaml:"properties,omitempty"`
}

// TypeResolver replaces the engine's default Java type resolver.
type TypeResolver struct {
	Type       string     `yaml:"type"`
	Properties Properties `yaml:"properties,omitempty"`
}

// Target is the output location of one generated layer.
type Target struct {
	// Package is the dotted Java package.
	Package string `yaml:"package"`
	// Project is the source folder the package is written under.
	Project string `yaml:"project"`
	// Type is the client type, set on the client target only.
	Type       string     `yaml:"type,omitempty"`
	Properties Properties `yaml:"properties,omitempty"`
}

// CommentOptions configures the comment generator.
type CommentOptions struct {
	Type       string     `yaml:"type"`
	Properties Properties `yaml:"properties,omitempty"`
}

// Statements toggles the example based statement family of a table.
type Statements struct {
	SelectByExample bool `yaml:"select_by_example"`
	UpdateByExample bool `yaml:"update_by_example"`
	DeleteByExample bool `yaml:"delete_by_example"`
	CountByExample  bool `yaml:"count_by_example"`
}

// Example returns the statement set with the example family switched on or off.
func Example(enabled bool) Statements {
	return Statements{
		SelectByExample: enabled,
		UpdateByExample: enabled,
		DeleteByExample: enabled,
		CountByExample:  enabled,
	}
}

// ColumnOverride customizes how one column is generated.
type ColumnOverride struct {
	Column      string `yaml:"column"`
	Property    string `yaml:"property,omitempty"`
	JavaType    string `yaml:"java_type,omitempty"`
	JDBCType    string `yaml:"jdbc_type,omitempty"`
	TypeHandler string `yaml:"type_handler,omitempty"`
	Delimited   bool   `yaml:"delimited,omitempty"`
}

// Table is the single table a job generates.
type Table struct {
	Name               string           `yaml:"name"`
	DomainObject       string           `yaml:"domain_object"`
	Scope              dialect.Scope    `yaml:"scope"`
	Alias              string           `yaml:"alias,omitempty"`
	MapperName         string           `yaml:"mapper_name,omitempty"`
	DelimitIdentifiers bool             `yaml:"delimit_identifiers,omitempty"`
	Statements         Statements       `yaml:"statements"`
	Ignored            []string         `yaml:"ignored,omitempty"`
	Overrides          []ColumnOverride `yaml:"overrides,omitempty"`
	Properties         Properties       `yaml:"properties,omitempty"`
}

// HasPlugin reports whether the job carries the given plugin.
func (j *Job) HasPlugin(p Plugin) bool {
	return slices.ContainsFunc(j.Plugins, func(c PluginConfig) bool { return c.Type == p.Type })
}

// PluginNames returns the catalog names of the job plugins, in order.
func (j *Job) PluginNames() []string {
	names := make([]string, len(j.Plugins))
	for i, p := range j.Plugins {
		names[i] = p.Name
	}
	return names
}
