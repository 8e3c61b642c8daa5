package optimizer

import (
	"fmt"
	"subsidyopt/internal/calc"
	"subsidyopt/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flat builds a definition that pays amount once for every profile.
func flat(id string, amount int64, excludes ...string) models.SubsidyDefinition {
	return models.SubsidyDefinition{
		ID:                id,
		Name:              id,
		Calculation:       models.CalculationSpec{Type: calc.TypePerEmployeeMonthly, MonthlyAmount: amount, MaxMonths: 1},
		MutuallyExclusive: excludes,
	}
}

func ids(c *models.Combination) []string {
	var out []string
	for _, s := range c.Subsidies {
		out = append(out, s.SubsidyID)
	}
	return out
}

func TestFindOptimal_Empty(t *testing.T) {
	assert.Nil(t, FindOptimal(nil, models.Profile{}, Options{}))
}

func TestFindOptimal_IndependentSubsidiesAllTaken(t *testing.T) {
	eligible := []models.SubsidyDefinition{flat("a", 100), flat("b", 200), flat("c", 300)}
	best := FindOptimal(eligible, models.Profile{}, Options{})
	require.NotNil(t, best)
	assert.Equal(t, int64(600), best.TotalAmount)
	assert.Equal(t, 3, best.Count)
	assert.Equal(t, []string{"a", "b", "c"}, ids(best))
	assert.Equal(t, StrategyExhaustive, best.Strategy)
}

func TestFindOptimal_MutualExclusionPicksHigher(t *testing.T) {
	eligible := []models.SubsidyDefinition{flat("low", 100, "high"), flat("high", 500, "low")}
	best := FindOptimal(eligible, models.Profile{}, Options{})
	require.NotNil(t, best)
	assert.Equal(t, []string{"high"}, ids(best))
	assert.Equal(t, int64(500), best.TotalAmount)
}

func TestFindOptimal_OneSidedDeclarationStillBlocks(t *testing.T) {
	eligible := []models.SubsidyDefinition{flat("a", 100), flat("b", 200, "a")}
	assert.Equal(t, []string{"b"}, ids(FindOptimal(eligible, models.Profile{}, Options{})))
	assert.False(t, Compatible(eligible))
}

func TestFindOptimal_TieKeepsLowestMask(t *testing.T) {
	// {a} and {b} tie at 300; mask 0b01 is seen first.
	eligible := []models.SubsidyDefinition{flat("a", 300, "b"), flat("b", 300, "a")}
	assert.Equal(t, []string{"a"}, ids(FindOptimal(eligible, models.Profile{}, Options{})))
}

func TestFindOptimal_AllZeroReturnsFirstCombination(t *testing.T) {
	zero := models.SubsidyDefinition{ID: "js", Calculation: models.CalculationSpec{Type: calc.TypeJobSeeker}}
	best := FindOptimal([]models.SubsidyDefinition{zero}, models.Profile{}, Options{})
	require.NotNil(t, best)
	assert.Zero(t, best.TotalAmount)
	assert.Equal(t, 1, best.Count)
}

func TestFindOptimal_NeverBelowBestSingle(t *testing.T) {
	eligible := []models.SubsidyDefinition{
		flat("a", 400, "b", "c"),
		flat("b", 250),
		flat("c", 250),
		flat("d", 50, "a"),
	}
	best := FindOptimal(eligible, models.Profile{}, Options{})
	require.NotNil(t, best)
	assert.Equal(t, int64(550), best.TotalAmount)
	assert.Equal(t, []string{"b", "c", "d"}, ids(best))
	for _, e := range eligible {
		assert.GreaterOrEqual(t, best.TotalAmount, calc.Calculate(e, models.Profile{}, calc.Options{}).TotalAmount)
	}
}

func TestFindOptimal_NoConflictingPairInResult(t *testing.T) {
	eligible := []models.SubsidyDefinition{
		flat("a", 10, "b"), flat("b", 20, "c"), flat("c", 30, "d"), flat("d", 40, "a"), flat("e", 5),
	}
	best := FindOptimal(eligible, models.Profile{}, Options{})
	require.NotNil(t, best)
	byID := map[string]models.SubsidyDefinition{}
	for _, e := range eligible {
		byID[e.ID] = e
	}
	var members []models.SubsidyDefinition
	for _, id := range ids(best) {
		members = append(members, byID[id])
	}
	assert.True(t, Compatible(members))
	assert.Equal(t, int64(65), best.TotalAmount)
}

func TestOptimize_GreedyAboveCap(t *testing.T) {
	eligible := []models.SubsidyDefinition{
		flat("a", 100, "c"), flat("b", 50), flat("c", 300), flat("d", 300, "c"),
	}
	best := FindOptimal(eligible, models.Profile{}, Options{MaxExhaustive: 2})
	require.NotNil(t, best)
	assert.Equal(t, StrategyGreedy, best.Strategy)
	assert.Equal(t, []string{"b", "c"}, ids(best))
	assert.Equal(t, int64(350), best.TotalAmount)
}

func TestOptimize_GreedyHandlesLargeLists(t *testing.T) {
	var eligible []models.SubsidyDefinition
	for i := 0; i < 80; i++ {
		eligible = append(eligible, flat(fmt.Sprintf("s%02d", i), int64(i+1)))
	}
	best := FindOptimal(eligible, models.Profile{}, Options{})
	require.NotNil(t, best)
	assert.Equal(t, 80, best.Count)
	assert.Equal(t, int64(80*81/2), best.TotalAmount)
}

func TestOptimize_MismatchedAmounts(t *testing.T) {
	assert.Nil(t, Optimize([]models.SubsidyDefinition{flat("a", 1)}, nil, Options{}))
}

func TestCombinations(t *testing.T) {
	eligible := []models.SubsidyDefinition{flat("a", 1, "b"), flat("b", 1), flat("c", 1)}
	combos := Combinations(eligible, Options{})
	// 7 subsets minus {a,b} and {a,b,c}
	require.Len(t, combos, 5)
	assert.Equal(t, "a", combos[0][0].ID)
	assert.Equal(t, "b", combos[1][0].ID)
	for _, c := range combos {
		assert.True(t, Compatible(c))
	}
	assert.Nil(t, Combinations(nil, Options{}))
}

func TestCombinations_RespectsExhaustiveCap(t *testing.T) {
	eligible := []models.SubsidyDefinition{flat("a", 1), flat("b", 1), flat("c", 1)}
	assert.Nil(t, Combinations(eligible, Options{MaxExhaustive: 2}))
	assert.Len(t, Combinations(eligible, Options{MaxExhaustive: 3}), 7)

	var large []models.SubsidyDefinition
	for i := 0; i <= DefaultMaxExhaustive; i++ {
		large = append(large, flat(fmt.Sprintf("s%d", i), 1))
	}
	assert.Nil(t, Combinations(large, Options{}))
}

func TestCompare(t *testing.T) {
	assert.Empty(t, Compare(nil))
	assert.NotNil(t, Compare(nil))

	single := Compare([]models.CalculatedAmount{{SubsidyID: "a", TotalAmount: 40}})
	require.Len(t, single, 1)
	assert.Equal(t, 1, single[0].Rank)
	assert.Equal(t, 100.0, single[0].PercentageOfBest)

	ranked := Compare([]models.CalculatedAmount{
		{SubsidyID: "a", TotalAmount: 100},
		{SubsidyID: "b", TotalAmount: 400},
		{SubsidyID: "c", TotalAmount: 100},
	})
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].SubsidyID)
	assert.Equal(t, "a", ranked[1].SubsidyID)
	assert.Equal(t, "c", ranked[2].SubsidyID)
	assert.Equal(t, 3, ranked[2].Rank)
	assert.InDelta(t, 25.0, ranked[1].PercentageOfBest, 1e-9)
}

func TestCompare_ZeroTop(t *testing.T) {
	ranked := Compare([]models.CalculatedAmount{{SubsidyID: "a"}, {SubsidyID: "b"}})
	for _, r := range ranked {
		assert.Zero(t, r.PercentageOfBest)
	}
	assert.Equal(t, "a", ranked[0].SubsidyID)
}
