package engine

import (
	"subsidyopt/internal/calc"
	"subsidyopt/internal/catalog"
	"subsidyopt/internal/models"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type list []models.SubsidyDefinition

func (l list) Subsidies() []models.SubsidyDefinition { return l }
func (l list) Version() string                       { return "test" }

func flat(id string, amount int64, excludes ...string) models.SubsidyDefinition {
	return models.SubsidyDefinition{
		ID:                id,
		Name:              id,
		Calculation:       models.CalculationSpec{Type: calc.TypePerEmployeeMonthly, MonthlyAmount: amount, MaxMonths: 1},
		MutuallyExclusive: excludes,
	}
}

func busanManufacturer() models.Profile {
	return models.Profile{
		ApplicantType:       models.ApplicantCompany,
		Region:              "부산",
		Industry:            "제조업",
		TotalEmployees:      20,
		YouthEmployees:      2,
		SeniorEmployees:     1,
		MiddleAgedEmployees: 1,
		NonRegularEmployees: 2,
		ChildcareWorkers:    1,
		WageIncrease:        250000,
		HasRetirementAge:    true,
	}
}

func TestAnalyze_NoCategoriesMeansNothingEligible(t *testing.T) {
	res := Analyze(catalog.Builtin(), models.Profile{}, Options{})
	assert.Empty(t, res.Eligible)
	assert.Len(t, res.NotEligible, 8)
	assert.Nil(t, res.Optimal)
	assert.Empty(t, res.Comparison)
	assert.NotNil(t, res.Comparison)
	for _, r := range res.NotEligible {
		assert.NotEmpty(t, r.Reasons, r.Subsidy.ID)
	}
}

func TestAnalyze_ExclusivePairPicksHigher(t *testing.T) {
	c := list{flat("x", 700, "y"), flat("y", 900, "x")}
	res := Analyze(c, models.Profile{}, Options{})
	require.NotNil(t, res.Optimal)
	require.Len(t, res.Optimal.Subsidies, 1)
	assert.Equal(t, "y", res.Optimal.Subsidies[0].SubsidyID)
	assert.Equal(t, int64(900), res.Optimal.TotalAmount)
}

func TestAnalyze_IndependentSubsidiesSum(t *testing.T) {
	c := list{flat("a", 100), flat("b", 200), flat("c", 300)}
	res := Analyze(c, models.Profile{}, Options{})
	require.NotNil(t, res.Optimal)
	assert.Equal(t, int64(600), res.Optimal.TotalAmount)
	assert.Equal(t, 3, res.Optimal.Count)
	assert.Equal(t, "c", res.Comparison[0].SubsidyID)
	assert.Equal(t, "test", res.CatalogVersion)
}

func TestAnalyze_MetropolitanYouthGetsEmployerShareOnly(t *testing.T) {
	p := models.Profile{Region: "서울", TotalEmployees: 10, YouthEmployees: 1}
	res := Analyze(catalog.Builtin(), p, Options{})
	var youth *models.CalculatedAmount
	for i := range res.Calculations {
		if res.Calculations[i].SubsidyID == "youth-job-leap-2026" {
			youth = &res.Calculations[i]
		}
	}
	require.NotNil(t, youth)
	assert.Equal(t, int64(7200000), youth.TotalAmount)
	assert.Contains(t, youth.Details, "수도권 해당 없음")
}

func TestAnalyze_BuiltinCatalog(t *testing.T) {
	res := Analyze(catalog.Builtin(), busanManufacturer(), Options{})

	var eligible []string
	for _, e := range res.Eligible {
		eligible = append(eligible, e.ID)
	}
	assert.Equal(t, []string{
		"youth-job-leap-2026",
		"elderly-continued-employment-2026",
		"regular-conversion-2026",
		"labor-shortage-2026",
		"parental-10am-2026",
	}, eligible)

	require.NotNil(t, res.Optimal)
	assert.Equal(t, int64(48000000), res.Optimal.TotalAmount)
	assert.Equal(t, 4, res.Optimal.Count)
	for _, s := range res.Optimal.Subsidies {
		assert.NotEqual(t, "regular-conversion-2026", s.SubsidyID)
	}

	require.Len(t, res.Comparison, 5)
	assert.Equal(t, "youth-job-leap-2026", res.Comparison[0].SubsidyID)
	assert.Equal(t, int64(24000000), res.Comparison[0].TotalAmount)
	assert.Equal(t, "elderly-continued-employment-2026", res.Comparison[1].SubsidyID)
	assert.Equal(t, "regular-conversion-2026", res.Comparison[2].SubsidyID)
	assert.InDelta(t, 60.0, res.Comparison[1].PercentageOfBest, 1e-9)
	assert.Empty(t, Faults(res.Calculations))
}

func TestAnalyze_OptimalNotBelowBestSingle(t *testing.T) {
	res := Analyze(catalog.Builtin(), busanManufacturer(), Options{})
	require.NotNil(t, res.Optimal)
	for _, c := range res.Calculations {
		assert.GreaterOrEqual(t, res.Optimal.TotalAmount, c.TotalAmount)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	p := busanManufacturer()
	a, err := json.Marshal(Analyze(catalog.Builtin(), p, Options{}))
	require.NoError(t, err)
	b, err := json.Marshal(Analyze(catalog.Builtin(), p, Options{}))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAnalyze_FaultyEntryDoesNotStopBatch(t *testing.T) {
	broken := models.SubsidyDefinition{ID: "broken", Calculation: models.CalculationSpec{Type: "lottery"}}
	res := Analyze(list{broken, flat("ok", 500)}, models.Profile{}, Options{})
	require.Len(t, res.Calculations, 2)
	assert.Zero(t, res.Calculations[0].TotalAmount)
	assert.Equal(t, map[string]string{"broken": "알 수 없는 계산 유형: lottery"}, Faults(res.Calculations))
	require.NotNil(t, res.Optimal)
	assert.Equal(t, int64(500), res.Optimal.TotalAmount)
}

func TestAnalyze_GenderPolicyOption(t *testing.T) {
	p := models.Profile{TotalEmployees: 60, SevereDisabledEmployees: 1}
	avg := Analyze(catalog.Builtin(), p, Options{})
	female := Analyze(catalog.Builtin(), p, Options{GenderPolicy: calc.GenderFemale})
	require.NotNil(t, avg.Optimal)
	require.NotNil(t, female.Optimal)
	assert.Equal(t, int64(4800000), avg.Optimal.TotalAmount)
	assert.Equal(t, int64(5400000), female.Optimal.TotalAmount)
}
