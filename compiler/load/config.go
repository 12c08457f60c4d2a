package load

import (
	"fmt"
	"strings"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/compiler/gen"
	"github.com/syssam/mbgen/dialect"
)

// Config represents a generation file after all configuration layers were
// merged.
type Config struct {
	Connection          dialect.Profile `koanf:"connection"`
	Project             string          `koanf:"project"`
	Encoding            string          `koanf:"encoding"`
	Model               Layer           `koanf:"model"`
	Mapper              Layer           `koanf:"mapper"`
	Mapping             Layer           `koanf:"mapping"`
	ModelRootClass      string          `koanf:"model_root_class"`
	MapperRootInterface string          `koanf:"mapper_root_interface"`
	DriverDir           string          `koanf:"driver_dir"`
	Preflight           bool            `koanf:"preflight"`
	Workers             int             `koanf:"workers"`
	Engine              Engine          `koanf:"engine"`
	Flags               Flags           `koanf:"flags"`
	Tables              []Table         `koanf:"tables"`
	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// Layer is the output location of one generated artifact kind.
type Layer struct {
	Package string `koanf:"package"`
	Folder  string `koanf:"folder"`
}

// Engine configures the MyBatis Generator process.
type Engine struct {
	Java       string   `koanf:"java"`
	ClassPath  []string `koanf:"classpath"`
	KeepConfig bool     `koanf:"keep_config"`
}

// Flags holds the feature toggles shared by every table of the file.
type Flags struct {
	SchemaPrefix         bool   `koanf:"schema_prefix"`
	ActualColumnNames    bool   `koanf:"actual_column_names"`
	TableAlias           bool   `koanf:"table_alias"`
	OptimisticLockColumn string `koanf:"optimistic_lock_column"`
	LogicDeleteColumn    string `koanf:"logic_delete_column"`
	Comment              bool   `koanf:"comment"`
	// Accessors names the accessor strategy. When empty the legacy Lombok
	// and EqualsHashCodeToString toggles select it.
	Accessors              string `koanf:"accessors"`
	Lombok                 bool   `koanf:"lombok"`
	EqualsHashCodeToString bool   `koanf:"equals_hashcode_tostring"`
	OffsetLimit            bool   `koanf:"offset_limit"`
	ForUpdate              bool   `koanf:"for_update"`
	JSR310                 bool   `koanf:"jsr310"`
	CustomDAO              bool   `koanf:"custom_dao"`
	UseExample             bool   `koanf:"use_example"`
	OverwriteMapping       bool   `koanf:"overwrite_mapping"`
}

// Table is one table entry of the file.
type Table struct {
	Name      string     `koanf:"name"`
	Object    string     `koanf:"object"`
	Ignore    []string   `koanf:"ignore"`
	Overrides []Override `koanf:"overrides"`
}

// Override customizes one column of a table.
type Override struct {
	Column      string `koanf:"column"`
	Property    string `koanf:"property"`
	JavaType    string `koanf:"java_type"`
	JDBCType    string `koanf:"jdbc_type"`
	TypeHandler string `koanf:"type_handler"`
	Delimited   bool   `koanf:"delimited"`
}

// Task is the generation request of one table with its column rules.
type Task struct {
	Request gen.Request
	Rules   []gen.ColumnRule
}

// GenFlags converts the file toggles to generation flags.
func (f Flags) GenFlags() (gen.Flags, error) {
	accessors := gen.AccessorsFor(f.Lombok, f.EqualsHashCodeToString)
	if f.Accessors != "" {
		a, err := gen.ParseAccessorStrategy(f.Accessors)
		if err != nil {
			return gen.Flags{}, err
		}
		accessors = a
	}
	return gen.Flags{
		SchemaPrefix:         f.SchemaPrefix,
		ActualColumnNames:    f.ActualColumnNames,
		TableAlias:           f.TableAlias,
		OptimisticLockColumn: f.OptimisticLockColumn,
		LogicDeleteColumn:    f.LogicDeleteColumn,
		Comment:              f.Comment,
		Accessors:            accessors,
		OffsetLimit:          f.OffsetLimit,
		ForUpdate:            f.ForUpdate,
		JSR310:               f.JSR310,
		CustomDAO:            f.CustomDAO,
		UseExample:           f.UseExample,
		OverwriteMapping:     f.OverwriteMapping,
	}, nil
}

// Rules returns the column rules of the table, ignores first.
func (t Table) Rules() []gen.ColumnRule {
	rules := make([]gen.ColumnRule, 0, len(t.Ignore)+len(t.Overrides))
	for _, c := range t.Ignore {
		rules = append(rules, gen.Ignore(c))
	}
	for _, o := range t.Overrides {
		rules = append(rules, gen.ColumnRule{
			Kind:        gen.RuleOverride,
			Column:      o.Column,
			Property:    o.Property,
			JavaType:    o.JavaType,
			JDBCType:    o.JDBCType,
			TypeHandler: o.TypeHandler,
			Delimited:   o.Delimited,
		})
	}
	return rules
}

// Tasks returns one task per table of the file. When only is non-empty,
// tables whose name is not in it are skipped.
func (c *Config) Tasks(only ...string) ([]Task, error) {
	flags, err := c.Flags.GenFlags()
	if err != nil {
		return nil, err
	}
	if len(c.Tables) == 0 {
		return nil, mbgen.NewConfigError("Tables", nil, "no table configured")
	}
	tasks := make([]Task, 0, len(c.Tables))
	for i, t := range c.Tables {
		if len(only) > 0 && !contains(only, t.Name) {
			continue
		}
		if strings.TrimSpace(t.Name) == "" {
			return nil, mbgen.NewConfigError(fmt.Sprintf("Tables[%d]", i), nil, "table name is required")
		}
		tasks = append(tasks, Task{
			Request: gen.Request{
				TableName:           t.Name,
				ObjectName:          t.Object,
				ProjectFolder:       c.Project,
				Model:               gen.Layer(c.Model),
				Mapper:              gen.Layer(c.Mapper),
				Mapping:             gen.Layer(c.Mapping),
				Encoding:            c.Encoding,
				ModelRootClass:      c.ModelRootClass,
				MapperRootInterface: c.MapperRootInterface,
				Flags:               flags,
			},
			Rules: t.Rules(),
		})
	}
	if len(tasks) == 0 {
		return nil, mbgen.NewConfigError("Tables", only, "no configured table matches")
	}
	return tasks, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
