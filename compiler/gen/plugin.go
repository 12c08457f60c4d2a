package gen

import (
	"strconv"
	"strings"

	"github.com/syssam/mbgen/dialect"
)

// A Responsibility is a part of the generated code a plugin takes over.
// No two plugins of a job may claim the same responsibility.
type Responsibility uint

// Responsibilities of the plugin catalog.
const (
	RespSerialization Responsibility = 1 << iota
	RespAccessors
	RespEquality
	RespStringer
	RespPaging
	RespRowLock
	RespDAOShape
)

// String implements the fmt.Stringer interface.
func (r Responsibility) String() string {
	var names []string
	for _, v := range []struct {
		r    Responsibility
		name string
	}{
		{RespSerialization, "serialization"},
		{RespAccessors, "accessors"},
		{RespEquality, "equality"},
		{RespStringer, "stringer"},
		{RespPaging, "paging"},
		{RespRowLock, "rowlock"},
		{RespDAOShape, "dao"},
	} {
		if r&v.r != 0 {
			names = append(names, v.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// A Plugin is a generation-time extension of the engine.
type Plugin struct {
	// Name of the plugin in this catalog.
	Name string

	// Type is the engine class implementing the plugin.
	Type string

	// Claims is the set of responsibilities the plugin takes over.
	Claims Responsibility

	// Requires is the dialect capability the plugin depends on. Zero means
	// the plugin applies to every dialect.
	Requires dialect.Capability

	// A Description of this plugin.
	Description string
}

// Eligible reports whether the plugin can be used with the given policy.
func (p Plugin) Eligible(policy *dialect.Policy) bool {
	return p.Requires == 0 || policy.Supports(p.Requires)
}

// PluginConfig is a plugin attached to a job.
type PluginConfig struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Claims     Responsibility `yaml:"-"`
	Properties Properties     `yaml:"properties,omitempty"`
}

func (p Plugin) config(props ...Property) PluginConfig {
	return PluginConfig{Name: p.Name, Type: p.Type, Claims: p.Claims, Properties: props}
}

// Engine classes that are not plugins.
const (
	CommentGenerator   = "com.zzg.mybatis.generator.plugins.DbRemarksCommentGenerator"
	JSR310TypeResolver = "com.zzg.mybatis.generator.plugins.JavaTypeResolverJsr310Impl"
)

var (
	// PluginSerializable makes the generated model serializable. It is
	// attached to every job.
	PluginSerializable = Plugin{
		Name:        "serializable",
		Type:        "org.mybatis.generator.plugins.SerializablePlugin",
		Claims:      RespSerialization,
		Description: "Adds java.io.Serializable to the generated model",
	}

	// PluginLombok replaces accessors, equals/hashCode and toString with
	// Lombok annotations.
	PluginLombok = Plugin{
		Name:        "lombok",
		Type:        "com.softwareloop.mybatis.generator.plugins.LombokPlugin",
		Claims:      RespAccessors | RespEquality | RespStringer,
		Description: "Generates Lombok annotations instead of accessor methods",
	}

	// PluginEqualsHashCode adds equals and hashCode to the generated model.
	PluginEqualsHashCode = Plugin{
		Name:        "equalshashcode",
		Type:        "org.mybatis.generator.plugins.EqualsHashCodePlugin",
		Claims:      RespEquality,
		Description: "Adds structural equals and hashCode methods",
	}

	// PluginToString adds toString to the generated model.
	PluginToString = Plugin{
		Name:        "tostring",
		Type:        "org.mybatis.generator.plugins.ToStringPlugin",
		Claims:      RespStringer,
		Description: "Adds a toString method",
	}

	// PluginLimit adds limit/offset paging to generated queries.
	PluginLimit = Plugin{
		Name:        "limit",
		Type:        "com.zzg.mybatis.generator.plugins.MySQLLimitPlugin",
		Claims:      RespPaging,
		Requires:    dialect.CapPaging,
		Description: "Adds limit and offset clauses to select statements",
	}

	// PluginForUpdate adds "FOR UPDATE" query variants.
	PluginForUpdate = Plugin{
		Name:        "forupdate",
		Type:        "com.zzg.mybatis.generator.plugins.MySQLForUpdatePlugin",
		Claims:      RespRowLock,
		Requires:    dialect.CapRowLock,
		Description: "Adds row locking select variants",
	}

	// PluginCommonDAO shapes mappers after a common DAO interface.
	PluginCommonDAO = Plugin{
		Name:        "commondao",
		Type:        "com.zzg.mybatis.generator.plugins.CommonDAOInterfacePlugin",
		Claims:      RespDAOShape,
		Requires:    dialect.CapDAOInterface,
		Description: "Generates mappers extending a common DAO interface",
	}

	// AllPlugins holds the plugin catalog.
	AllPlugins = []Plugin{
		PluginSerializable,
		PluginLombok,
		PluginEqualsHashCode,
		PluginToString,
		PluginLimit,
		PluginForUpdate,
		PluginCommonDAO,
	}
)

// accessorGroup is the mutual exclusion group of accessor strategies.
var accessorGroup = map[AccessorStrategy][]Plugin{
	AccessorLombok:                 {PluginLombok},
	AccessorEqualsHashCodeToString: {PluginEqualsHashCode, PluginToString},
}

// SelectPlugins evaluates the flags against the dialect policy and attaches
// the selected plugins to the job in a fixed order:
//
//	accessors, paging, type resolver, row locking, DAO shape
//
// A toggle the dialect cannot honor is inert. SelectPlugins returns the
// names of the plugins that were requested but not eligible.
func SelectPlugins(job *Job, flags Flags, policy *dialect.Policy) (inert []string) {
	add := func(p Plugin, props ...Property) bool {
		if !p.Eligible(policy) {
			inert = append(inert, p.Name)
			return false
		}
		if !job.HasPlugin(p) {
			job.Plugins = append(job.Plugins, p.config(props...))
		}
		return true
	}
	for _, p := range accessorGroup[flags.Accessors] {
		add(p)
	}
	if flags.OffsetLimit {
		add(PluginLimit)
	}
	if flags.JSR310 {
		job.TypeResolver = &TypeResolver{Type: JSR310TypeResolver}
	}
	if flags.ForUpdate {
		add(PluginForUpdate)
	}
	if flags.CustomDAO {
		useExample := Property{Name: "useExample", Value: strconv.FormatBool(flags.UseExample)}
		if add(PluginCommonDAO, useExample) && flags.UseExample {
			job.Table.Statements = Example(true)
		}
	}
	return inert
}
