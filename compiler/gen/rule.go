package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/mbgen"
)

// RuleKind is the intent of a column rule.
type RuleKind uint8

const (
	// RuleIgnore excludes the column from generation.
	RuleIgnore RuleKind = iota + 1
	// RuleOverride renames the column property or customizes its types.
	RuleOverride
)

// String implements the fmt.Stringer interface.
func (k RuleKind) String() string {
	switch k {
	case RuleIgnore:
		return "ignore"
	case RuleOverride:
		return "override"
	default:
		return fmt.Sprintf("RuleKind(%d)", k)
	}
}

// ColumnRule is one per-column directive applied to the generated table.
type ColumnRule struct {
	Kind   RuleKind `yaml:"kind"`
	Column string   `yaml:"column"`
	// Override directives. Empty values keep the engine defaults.
	Property    string `yaml:"property,omitempty"`
	JavaType    string `yaml:"java_type,omitempty"`
	JDBCType    string `yaml:"jdbc_type,omitempty"`
	TypeHandler string `yaml:"type_handler,omitempty"`
	Delimited   bool   `yaml:"delimited,omitempty"`
}

// Ignore returns a rule that excludes the given column.
func Ignore(column string) ColumnRule {
	return ColumnRule{Kind: RuleIgnore, Column: column}
}

// key identifies the column a rule targets. Column names are matched
// case-insensitively, as the engine does.
func (r ColumnRule) key() string {
	return strings.ToLower(strings.TrimSpace(r.Column))
}

// ValidateRules checks that no two rules target the same column with
// contradictory intents and returns the rules with exact duplicates
// removed, in their original order.
func ValidateRules(rules []ColumnRule) ([]ColumnRule, error) {
	var (
		seen = make(map[string]ColumnRule, len(rules))
		out  = make([]ColumnRule, 0, len(rules))
	)
	for i, r := range rules {
		k := r.key()
		if k == "" {
			return nil, mbgen.NewConfigError(fmt.Sprintf("ColumnRules[%d]", i), nil, "column name is required")
		}
		if r.Kind != RuleIgnore && r.Kind != RuleOverride {
			return nil, mbgen.NewConfigError(fmt.Sprintf("ColumnRules[%d]", i), r.Kind, "unknown rule kind")
		}
		prev, ok := seen[k]
		switch {
		case !ok:
			seen[k] = r
			out = append(out, r)
		case prev.Kind != r.Kind:
			return nil, mbgen.NewConfigError("ColumnRules", r.Column, "column is both ignored and overridden")
		case prev.Kind == RuleOverride && !prev.sameDirectives(r):
			return nil, mbgen.NewConfigError("ColumnRules", r.Column, "column has conflicting overrides")
		}
	}
	return out, nil
}

func (r ColumnRule) sameDirectives(o ColumnRule) bool {
	return r.Property == o.Property &&
		r.JavaType == o.JavaType &&
		r.JDBCType == o.JDBCType &&
		r.TypeHandler == o.TypeHandler &&
		r.Delimited == o.Delimited
}
