package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

func defaultRegistry(t *testing.T, variable string) []taxonomy.Category {
	t.Helper()
	cats, err := taxonomy.Default().CategoriesFor(variable)
	require.NoError(t, err)
	return cats
}

func TestMatch_ExactAndCaseInsensitive(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarEducation)

	r := m.Match("Bachelor's degree", cats)
	assert.Equal(t, MethodExact, r.Method)
	assert.Equal(t, 1.0, r.Score)
	assert.True(t, r.Confident)

	r = m.Match("bachelor's DEGREE", cats)
	assert.Equal(t, MethodCaseInsensitive, r.Method)
	assert.Equal(t, "Bachelor's degree", r.Matched)
	assert.Equal(t, 1.0, r.Score)
	assert.True(t, r.Confident)
}

func TestMatch_ScoreOneReservedForExact(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarEducation)

	inputs := []string{"bachelor", "graduate degree", "some college", "HS grad"}
	for _, in := range inputs {
		r := m.Match(in, cats)
		assert.Less(t, r.Score, 1.0, "input %q", in)
	}
}

func TestMatch_Substring(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarProfession)

	r := m.Match("Service", cats)
	assert.Equal(t, MethodSubstring, r.Method)
	assert.Equal(t, "Service occupations", r.Matched)
	assert.GreaterOrEqual(t, r.Score, 0.6)
	assert.Less(t, r.Score, 0.95)
	assert.True(t, r.Confident)
}

func TestMatch_IncomeShorthand(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarIncome)

	r := m.Match("50k-60k", cats)
	assert.Equal(t, "$50,000 to $59,999", r.Matched)
	assert.GreaterOrEqual(t, r.Score, 0.6)
	assert.Equal(t, MethodNumericRange, r.Method)
	assert.True(t, r.Confident)
	assert.Contains(t, r.Explanation, "overlap")
}

func TestMatch_NumericPointInsideBracket(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarIncome)

	r := m.Match("$27,500", cats)
	assert.Equal(t, "$25,000 to $29,999", r.Matched)
	assert.InDelta(t, 0.9, r.Score, 1e-9)
}

func TestMatch_NumericDisjointUsesClosestMidpoint(t *testing.T) {
	m := New(DefaultConfig())
	cats := []taxonomy.Category{
		{Label: "low", Bounds: &taxonomy.Bounds{Min: 0, Max: 9}},
		{Label: "high", Bounds: &taxonomy.Bounds{Min: 100, Max: 109}},
	}

	r := m.Match("60 to 70", cats)
	assert.Equal(t, MethodNumericRange, r.Method)
	assert.Equal(t, "high", r.Matched)
	assert.GreaterOrEqual(t, r.Score, 0.3)
	assert.LessOrEqual(t, r.Score, 0.9)
	assert.Contains(t, r.Explanation, "numeric distance")
}

func TestMatch_AgePhrases(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarAge)

	r := m.Match("under 5", cats)
	assert.Equal(t, "Under 5 years", r.Matched)

	r = m.Match("30s", cats)
	assert.Equal(t, MethodNumericRange, r.Method)
	assert.Equal(t, "30 to 34 years", r.Matched)
}

func TestMatch_TokenOverlap(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarProfession)

	r := m.Match("transportation and production jobs", cats)
	assert.Equal(t, MethodTokenOverlap, r.Method)
	assert.Equal(t, "Production, transportation, and material moving occupations", r.Matched)
	assert.Greater(t, r.Score, 0.0)
}

func TestMatch_NonsenseNeverFails(t *testing.T) {
	m := New(DefaultConfig())
	cats := defaultRegistry(t, taxonomy.VarEducation)

	r := m.Match("xyz-nonsense", cats)
	assert.NotEmpty(t, r.Matched, "best-effort candidate must be returned")
	assert.False(t, r.Confident)
	assert.NotEmpty(t, r.Explanation)
}

func TestMatch_EmptyCandidates(t *testing.T) {
	m := New(DefaultConfig())

	r := m.Match("anything", nil)
	assert.Empty(t, r.Matched)
	assert.False(t, r.Confident)
}

func TestExtractRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max float64
		ok       bool
	}{
		{"$50,000 to $59,999", 50000, 59999, true},
		{"50k-60k", 50000, 60000, true},
		{"1.5m", 1500000, 1500000, true},
		{"under 25", 0, 24, true},
		{"less than $10,000", 0, 9999, true},
		{"$200,000 or more", 200000, 500000, true},
		{"65 and over", 65, 162.5, true},
		{"100k+", 100000, 250000, true},
		{"42", 42, 42, true},
		{"60 to 20", 20, 60, true},
		{"no numbers here", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			min, max, ok := extractRange(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.min, min, 1e-6)
				assert.InDelta(t, tt.max, max, 1e-6)
			}
		})
	}
}

func TestTokenizeAndJaccard(t *testing.T) {
	assert.Equal(t, []string{"sales", "office", "occupations"}, tokenize("Sales and office occupations"))
	assert.Equal(t, []string{"cafe"}, tokenize("Café"))

	assert.InDelta(t, 1.0, jaccard([]string{"a", "b"}, []string{"b", "a"}), 1e-9)
	assert.InDelta(t, 0.0, jaccard([]string{"a"}, []string{"b"}), 1e-9)
	assert.InDelta(t, 1.0/3, jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
	assert.Zero(t, jaccard(nil, []string{"x"}))
}

func TestTierLabels(t *testing.T) {
	m := New(DefaultConfig())
	assert.Equal(t, "Perfect Match", m.tier(0.99))
	assert.Equal(t, "Very Good Match", m.tier(0.85))
	assert.Equal(t, "Good Match", m.tier(0.6))
	assert.Equal(t, "Limited Match", m.tier(0.2))
}
