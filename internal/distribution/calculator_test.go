package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/dataset"
	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

func ageByGenderTable() *dataset.Table {
	return &dataset.Table{
		ID:            "B01001",
		GeographyID:   "g1",
		Source:        "test",
		RowVariable:   taxonomy.VarAge,
		ColVariable:   taxonomy.VarGender,
		RowCategories: []string{"Under 5 years", "5 to 9 years", "10 to 14 years"},
		ColCategories: []string{"Male", "Female"},
		Counts: map[dataset.Cell]int64{
			{Row: "Under 5 years", Col: "Male"}:    10,
			{Row: "Under 5 years", Col: "Female"}:  30,
			{Row: "5 to 9 years", Col: "Male"}:     25,
			{Row: "5 to 9 years", Col: "Female"}:   15,
			{Row: "10 to 14 years", Col: "Male"}:   5,
			{Row: "10 to 14 years", Col: "Female"}: 15,
		},
	}
}

func TestMarginal(t *testing.T) {
	tbl := ageByGenderTable()

	dist, err := Marginal(tbl, taxonomy.VarGender)
	require.NoError(t, err)
	assert.Equal(t, int64(100), dist.Total)
	require.Len(t, dist.Items, 2)
	assert.Equal(t, Item{Category: "Male", Count: 40, Percentage: 40}, dist.Items[0])
	assert.Equal(t, Item{Category: "Female", Count: 60, Percentage: 60}, dist.Items[1])
	assert.Empty(t, dist.ConditionVariable)

	// Marginal over the row axis preserves category order.
	byAge, err := Marginal(tbl, taxonomy.VarAge)
	require.NoError(t, err)
	assert.Equal(t, []string{"Under 5 years", "5 to 9 years", "10 to 14 years"},
		categories(byAge.Items))
	assert.Equal(t, int64(100), byAge.Total)
}

func TestMarginal_WrongVariable(t *testing.T) {
	_, err := Marginal(ageByGenderTable(), taxonomy.VarIncome)
	assert.Error(t, err)
}

func TestConditional(t *testing.T) {
	tbl := ageByGenderTable()

	dist, err := Conditional(tbl, taxonomy.VarAge, "5 to 9 years")
	require.NoError(t, err)
	assert.Equal(t, taxonomy.VarGender, dist.Variable)
	assert.Equal(t, taxonomy.VarAge, dist.ConditionVariable)
	assert.Equal(t, "5 to 9 years", dist.ConditionCategory)
	assert.Equal(t, int64(40), dist.Total)
	assert.Equal(t, Item{Category: "Male", Count: 25, Percentage: 62.5}, dist.Items[0])
	assert.Equal(t, Item{Category: "Female", Count: 15, Percentage: 37.5}, dist.Items[1])
}

func TestConditional_ColumnCondition(t *testing.T) {
	tbl := ageByGenderTable()

	dist, err := Conditional(tbl, taxonomy.VarGender, "Male")
	require.NoError(t, err)
	assert.Equal(t, taxonomy.VarAge, dist.Variable)
	assert.Equal(t, int64(40), dist.Total)
	assert.Equal(t, int64(10), dist.Items[0].Count)
	assert.Equal(t, int64(25), dist.Items[1].Count)
	assert.Equal(t, int64(5), dist.Items[2].Count)
}

func TestConditional_UnknownCategory(t *testing.T) {
	_, err := Conditional(ageByGenderTable(), taxonomy.VarGender, "Other")
	assert.Error(t, err)
}

func TestConditional_ZeroPopulation(t *testing.T) {
	tbl := ageByGenderTable()
	for cell := range tbl.Counts {
		tbl.Counts[cell] = 0
	}

	dist, err := Conditional(tbl, taxonomy.VarGender, "Female")
	require.NoError(t, err)
	assert.Equal(t, int64(0), dist.Total)
	for _, item := range dist.Items {
		assert.Zero(t, item.Count)
		assert.Zero(t, item.Percentage)
	}
}

func TestPercentagesSumToHundred(t *testing.T) {
	dist, err := Marginal(ageByGenderTable(), taxonomy.VarAge)
	require.NoError(t, err)

	var sum float64
	for _, item := range dist.Items {
		sum += item.Percentage
	}
	assert.InDelta(t, 100, sum, 0.1)
}

func categories(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Category
	}
	return out
}
