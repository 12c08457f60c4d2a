package gen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/dialect"
)

// Validate checks the invariants every job must hold before it reaches the
// engine: one scope mode, named table and object, plugins with disjoint
// responsibilities and layers that never write the same file.
func (j *Job) Validate() error {
	switch j.Table.Scope.Mode {
	case dialect.ScopeCatalog, dialect.ScopeSchema:
	default:
		return mbgen.NewConfigError("Table.Scope", j.Table.Scope.Mode, "table must be scoped by exactly one of schema or catalog")
	}
	if j.Table.Name == "" {
		return mbgen.NewConfigError("Table.Name", nil, "table name is required")
	}
	if j.Table.DomainObject == "" {
		return mbgen.NewConfigError("Table.DomainObject", nil, "domain object name is required")
	}
	var (
		claimed Responsibility
		owner   = make(map[Responsibility]string)
	)
	for _, p := range j.Plugins {
		if overlap := claimed & p.Claims; overlap != 0 {
			return mbgen.NewConfigError("Plugins", p.Name, fmt.Sprintf("plugin claims %s already claimed by %s", overlap, owners(owner, overlap)))
		}
		claimed |= p.Claims
		for r := Responsibility(1); r <= p.Claims; r <<= 1 {
			if p.Claims&r != 0 {
				owner[r] = p.Name
			}
		}
	}
	seen := make(map[string]string)
	for _, l := range j.layerFiles() {
		for _, name := range l.files {
			path := filepath.Join(l.target.Dir(), name)
			key := strings.ToLower(path)
			if other, ok := seen[key]; ok && other != l.name {
				return mbgen.NewConfigError(l.name, path, "output file collides with the "+other+" layer")
			}
			seen[key] = l.name
		}
	}
	return nil
}

type layerOutput struct {
	name   string
	target Target
	files  []string
}

// layerFiles returns the file names each layer may write. Validate compares
// the resulting paths case-insensitively.
func (j *Job) layerFiles() []layerOutput {
	object := j.Table.DomainObject
	mapper := j.Table.MapperName
	if mapper == "" {
		mapper = object + "Mapper"
	}
	return []layerOutput{
		{"Model", j.Model, []string{object + ".java", object + "Example.java", object + "Key.java", object + "WithBLOBs.java"}},
		{"Client", j.Client, []string{mapper + ".java"}},
		{"SQLMap", j.SQLMap, []string{mapper + ".xml"}},
	}
}

// Dir returns the directory the target is written to.
func (t Target) Dir() string {
	return Layer{Package: t.Package}.Dir(t.Project)
}

func owners(owner map[Responsibility]string, r Responsibility) string {
	for b := Responsibility(1); b <= r; b <<= 1 {
		if r&b != 0 {
			return owner[b]
		}
	}
	return ""
}
