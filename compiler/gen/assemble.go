package gen

import (
	"path/filepath"
	"slices"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/dialect"
)

// Assemble merges the request, the column rules and the resolved dialect
// policy into a base job. The returned job carries the baseline plugins
// only; SelectPlugins adds the flag dependent ones.
func Assemble(req Request, rules []ColumnRule, policy *dialect.Policy) (*Job, error) {
	if policy == nil {
		return nil, mbgen.NewConfigError("Policy", nil, "dialect policy is required")
	}
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	rules, err = ValidateRules(rules)
	if err != nil {
		return nil, err
	}
	job := &Job{
		ID:            ContextID,
		TargetRuntime: TargetRuntime,
		ModelType:     ModelType,
		Dialect:       policy.Tag,
		Connection: Connection{
			DriverClass: policy.DriverClass,
			URL:         policy.ConnectionURL,
			Username:    policy.Username,
			Password:    policy.Password,
			Properties:  Properties(slices.Clone(policy.JDBCProperties)),
		},
	}
	job.Properties.Set("javaFileEncoding", DefaultEncoding)
	job.Properties.Set("autoDelimitKeywords", "true")
	if !policy.Delimiters.IsZero() {
		job.Properties.Set("beginningDelimiter", policy.Delimiters.Begin)
		job.Properties.Set("endingDelimiter", policy.Delimiters.End)
	}
	job.Properties.Set("javaFileEncoding", req.Encoding)

	job.Table = table(req, policy)
	for _, r := range rules {
		switch r.Kind {
		case RuleIgnore:
			job.Table.Ignored = append(job.Table.Ignored, r.Column)
		case RuleOverride:
			job.Table.Overrides = append(job.Table.Overrides, ColumnOverride{
				Column:      r.Column,
				Property:    r.Property,
				JavaType:    r.JavaType,
				JDBCType:    r.JDBCType,
				TypeHandler: r.TypeHandler,
				Delimited:   r.Delimited,
			})
		}
	}

	job.Model = Target{Package: req.Model.Package, Project: projectDir(req, req.Model)}
	if req.ModelRootClass != "" {
		job.Model.Properties.Set("rootClass", expand(req.ModelRootClass, req.ObjectName))
	}
	job.SQLMap = Target{Package: req.Mapping.Package, Project: projectDir(req, req.Mapping)}
	job.Client = Target{Package: req.Mapper.Package, Project: projectDir(req, req.Mapper), Type: ClientType}
	if req.MapperRootInterface != "" {
		job.Client.Properties.Set("rootInterface", expand(req.MapperRootInterface, req.ObjectName))
	}

	job.Comment = comment(req.Flags)
	job.Plugins = append(job.Plugins, PluginSerializable.config())
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func table(req Request, policy *dialect.Policy) Table {
	t := Table{
		Name:               req.TableName,
		DomainObject:       req.ObjectName,
		Scope:              policy.Scope,
		DelimitIdentifiers: policy.DelimitIdentifiers,
		Statements:         Example(false),
		// The engine treats the mapper name as a naming hint only.
		MapperName: req.Flags.LogicDeleteColumn,
	}
	if req.Flags.TableAlias {
		t.Alias = req.TableName
	}
	if req.Flags.ActualColumnNames {
		t.Properties.Set("useActualColumnNames", "true")
	}
	return t
}

func comment(f Flags) CommentOptions {
	c := CommentOptions{Type: CommentGenerator}
	if f.Comment {
		c.Properties.Set("columnRemarks", "true")
	}
	if f.OptimisticLockColumn != "" {
		c.Properties.Set("optimisticLockerColumnName", f.OptimisticLockColumn)
	}
	if f.LogicDeleteColumn != "" {
		c.Properties.Set("logicDeleteFlagColumnName", f.LogicDeleteColumn)
	}
	return c
}

func projectDir(req Request, l Layer) string {
	return filepath.Join(req.ProjectFolder, l.Folder)
}
