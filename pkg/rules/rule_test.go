package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPattern(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		replacement string
		description string
		opts        []Option
		wantError   string
	}{
		{
			name:        "valid",
			pattern:     `TRUNC\((\w+)\)`,
			replacement: `DATE_TRUNC('DAY',$1)`,
			description: "trunc",
		},
		{
			name:        "missing_pattern",
			replacement: "x",
			description: "empty",
			wantError:   "pattern is required",
		},
		{
			name:        "missing_description",
			pattern:     "a",
			replacement: "b",
			wantError:   "description is required",
		},
		{
			name:        "bad_regex",
			pattern:     `(unclosed`,
			description: "bad",
			wantError:   "compiling pattern",
		},
		{
			name:        "matches_empty_string",
			pattern:     `a*`,
			description: "empty match",
			wantError:   "matches the empty string",
		},
		{
			name:        "template_group_out_of_range",
			pattern:     `(a)`,
			replacement: `$2`,
			description: "range",
			wantError:   "references group 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewPattern(tt.pattern, tt.replacement, tt.description, tt.opts...)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.pattern, r.Source())
			assert.Equal(t, tt.description, r.Description())
			assert.Equal(t, MatchPattern, r.Kind())
			assert.Equal(t, tt.replacement, r.Replacement().String())
		})
	}
}

func TestRuleApply(t *testing.T) {
	tests := []struct {
		name      string
		rule      func(t *testing.T) Rule
		text      string
		want      string
		wantCount int
	}{
		{
			name: "pattern_global",
			rule: func(t *testing.T) Rule {
				return MustPattern(`\bSYSTIMESTAMP\b`, `CURRENT_TIMESTAMP()`, "sys")
			},
			text:      "SYSTIMESTAMP, systimestamp, SYSTIMESTAMP_X",
			want:      "CURRENT_TIMESTAMP(), CURRENT_TIMESTAMP(), SYSTIMESTAMP_X",
			wantCount: 2,
		},
		{
			name: "pattern_case_sensitive",
			rule: func(t *testing.T) Rule {
				return MustPattern(`\bLOCAL\.`, ``, "local", CaseSensitive())
			},
			text:      "LOCAL.a, local.b, Local.c",
			want:      "a, local.b, Local.c",
			wantCount: 1,
		},
		{
			name: "pattern_group_reorder",
			rule: func(t *testing.T) Rule {
				return MustPattern(`f\((\w+),\s*(\w+)\)`, `g($2,$1)`, "swap")
			},
			text:      "f(a, b) + f(c,d)",
			want:      "g(b,a) + g(d,c)",
			wantCount: 2,
		},
		{
			name: "literal_case_insensitive",
			rule: func(t *testing.T) Rule {
				r, err := NewLiteral("dbtimezone", "'UTC'", "tz")
				require.NoError(t, err)
				return r
			},
			text:      "DBTIMEZONE dbtimezone DbTimeZone",
			want:      "'UTC' 'UTC' 'UTC'",
			wantCount: 3,
		},
		{
			name: "literal_case_sensitive",
			rule: func(t *testing.T) Rule {
				r, err := NewLiteral("NVL(", "COALESCE(", "nvl", CaseSensitive())
				require.NoError(t, err)
				return r
			},
			text:      "NVL(a, 0) nvl(b, 0)",
			want:      "COALESCE(a, 0) nvl(b, 0)",
			wantCount: 1,
		},
		{
			name: "literal_replacement_is_verbatim",
			rule: func(t *testing.T) Rule {
				r, err := NewLiteral("x", "$1", "dollar", CaseSensitive())
				require.NoError(t, err)
				return r
			},
			text:      "x",
			want:      "$1",
			wantCount: 1,
		},
		{
			name: "pattern_escaped_dollar",
			rule: func(t *testing.T) Rule {
				return MustPattern(`\bUSD\b`, `$$`, "currency")
			},
			text:      "10 USD, 20 usd",
			want:      "10 $, 20 $",
			wantCount: 2,
		},
		{
			name: "no_match",
			rule: func(t *testing.T) Rule {
				return MustPattern(`\bTRUNC\(`, `DATE_TRUNC(`, "trunc")
			},
			text:      "SELECT DATE_TRUNC('DAY', x)",
			want:      "SELECT DATE_TRUNC('DAY', x)",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.rule(t)
			assert.Equal(t, tt.wantCount, r.Count(tt.text))

			got, n := r.Apply(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCount, n)
		})
	}
}

func TestMustPatternPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustPattern(`(`, ``, "broken")
	})
}

func TestSetIsReadOnly(t *testing.T) {
	a := MustPattern(`a`, `b`, "a to b")
	b := MustPattern(`c`, `d`, "c to d")

	src := []Rule{a, b}
	set := NewSet(src...)
	src[0] = b

	got := set.Rules()
	require.Len(t, got, 2)
	assert.Equal(t, "a to b", got[0].Description())

	got[0] = b
	assert.Equal(t, "a to b", set.At(0).Description())

	extended := set.With(MustPattern(`e`, `f`, "e to f"))
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 3, extended.Len())
	assert.Equal(t, "e to f", extended.At(2).Description())
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name      string
		spec      Spec
		wantKind  MatchKind
		wantError string
	}{
		{
			name:     "pattern",
			spec:     Spec{Pattern: `\bNVL\s*\(`, Replacement: "COALESCE(", Description: "NVL"},
			wantKind: MatchPattern,
		},
		{
			name:     "literal",
			spec:     Spec{Literal: "NOW()", Replacement: "CURRENT_TIMESTAMP()", Description: "now", CaseSensitive: true},
			wantKind: MatchLiteral,
		},
		{
			name:      "both",
			spec:      Spec{Pattern: "a", Literal: "a", Description: "both"},
			wantError: "mutually exclusive",
		},
		{
			name:      "neither",
			spec:      Spec{Description: "nothing"},
			wantError: "one of pattern or literal is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Compile(tt.spec)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, r.Kind())
			assert.Equal(t, tt.spec.CaseSensitive, r.IsCaseSensitive())
		})
	}
}

func TestCompileAllReportsIndex(t *testing.T) {
	_, err := CompileAll([]Spec{
		{Literal: "a", Replacement: "b", Description: "ok"},
		{Pattern: "(", Description: "broken"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1")
}
