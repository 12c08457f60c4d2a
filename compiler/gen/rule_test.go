package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mbgen"
)

func TestValidateRules(t *testing.T) {
	rename := ColumnRule{Kind: RuleOverride, Column: "created_at", Property: "createdTime"}

	tests := []struct {
		name    string
		rules   []ColumnRule
		want    []ColumnRule
		wantErr string
	}{
		{
			name: "no rules",
			want: []ColumnRule{},
		},
		{
			name:  "independent rules",
			rules: []ColumnRule{Ignore("password"), rename},
			want:  []ColumnRule{Ignore("password"), rename},
		},
		{
			name:  "exact duplicates collapse",
			rules: []ColumnRule{Ignore("password"), rename, Ignore("PASSWORD"), rename},
			want:  []ColumnRule{Ignore("password"), rename},
		},
		{
			name:    "ignored and overridden",
			rules:   []ColumnRule{Ignore("created_at"), rename},
			wantErr: "both ignored and overridden",
		},
		{
			name:    "overridden and ignored with other case",
			rules:   []ColumnRule{rename, Ignore("CREATED_AT")},
			wantErr: "both ignored and overridden",
		},
		{
			name:    "conflicting overrides",
			rules:   []ColumnRule{rename, {Kind: RuleOverride, Column: "created_at", JavaType: "java.time.Instant"}},
			wantErr: "conflicting overrides",
		},
		{
			name:    "empty column",
			rules:   []ColumnRule{Ignore(" ")},
			wantErr: "column name is required",
		},
		{
			name:    "unknown kind",
			rules:   []ColumnRule{{Column: "id"}},
			wantErr: "unknown rule kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRules(tt.rules)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, mbgen.ErrConfig)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleKindString(t *testing.T) {
	assert.Equal(t, "ignore", RuleIgnore.String())
	assert.Equal(t, "override", RuleOverride.String())
	assert.Equal(t, "RuleKind(0)", RuleKind(0).String())
}
