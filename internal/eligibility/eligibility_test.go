package eligibility

import (
	"subsidyopt/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func boolp(b bool) *bool { return &b }

func def(id string, e models.Eligibility) models.SubsidyDefinition {
	return models.SubsidyDefinition{ID: id, Name: id, Eligibility: e}
}

func TestCheck_EmptyPredicateSetIsEligible(t *testing.T) {
	r := Check(def("open", models.Eligibility{}), models.Profile{})
	assert.True(t, r.Eligible)
	assert.Empty(t, r.Reasons)
	assert.NotNil(t, r.Reasons)
}

func TestCheck_CollectsEveryFailure(t *testing.T) {
	d := def("strict", models.Eligibility{
		MinEmployees:               intp(5),
		RequiredEmployeeTypes:      []models.EmployeeCategory{models.CategoryYouth, models.CategorySenior},
		RequiresBusinessDifficulty: true,
		RequiresRetirementAge:      true,
	})
	r := Check(d, models.Profile{TotalEmployees: 2})
	assert.False(t, r.Eligible)
	require.Len(t, r.Reasons, 5)
	assert.Equal(t, "최소 근로자 수 5명 미만", r.Reasons[0])
	assert.Equal(t, "청년 근로자(15-34세) 고용 필요", r.Reasons[1])
	assert.Equal(t, "고령자(60세 이상) 고용 필요", r.Reasons[2])
}

func TestCheck_EmployeeBounds(t *testing.T) {
	d := def("bounds", models.Eligibility{MinEmployees: intp(5), MaxEmployees: intp(30)})
	assert.True(t, Check(d, models.Profile{TotalEmployees: 5}).Eligible)
	assert.True(t, Check(d, models.Profile{TotalEmployees: 30}).Eligible)
	assert.Equal(t, []string{"최대 근로자 수 30명 초과"}, Check(d, models.Profile{TotalEmployees: 31}).Reasons)

	size := def("size", models.Eligibility{CompanySize: &models.SizeRange{Min: intp(50)}})
	assert.Equal(t, []string{"최소 근로자 수 50명 이상 필요"}, Check(size, models.Profile{TotalEmployees: 10}).Reasons)
	assert.True(t, Check(size, models.Profile{TotalEmployees: 50}).Eligible)
}

func TestCheck_NegativeCountsTreatedAsZero(t *testing.T) {
	d := def("youth", models.Eligibility{RequiredEmployeeTypes: []models.EmployeeCategory{models.CategoryYouth}})
	assert.False(t, Check(d, models.Profile{YouthEmployees: -3}).Eligible)
}

func TestCheck_CategoryFallbacks(t *testing.T) {
	mid := def("mid", models.Eligibility{RequiredEmployeeTypes: []models.EmployeeCategory{models.CategoryMiddleAged}})
	assert.True(t, Check(mid, models.Profile{SeniorEmployees: 1}).Eligible)
	dis := def("dis", models.Eligibility{RequiredEmployeeTypes: []models.EmployeeCategory{models.CategoryDisabled}})
	assert.True(t, Check(dis, models.Profile{SevereDisabledEmployees: 1}).Eligible)
	assert.False(t, Check(dis, models.Profile{}).Eligible)
}

func TestCheck_Industry(t *testing.T) {
	ex := def("ex", models.Eligibility{IndustryExclusions: []string{"유흥주점업"}})
	assert.Equal(t, []string{"제외 업종: 유흥 주점업"}, Check(ex, models.Profile{Industry: "유흥 주점업"}).Reasons)
	assert.True(t, Check(ex, models.Profile{Industry: "제조업"}).Eligible)

	byKey := def("by-key", models.Eligibility{IndustryExclusions: []string{"유흥업", "도박업"}})
	assert.Equal(t, []string{"제외 업종: 유흥주점업"}, Check(byKey, models.Profile{Industry: "유흥주점업"}).Reasons)
	assert.False(t, Check(byKey, models.Profile{Industry: "사행성 게임장"}).Eligible)
	assert.True(t, Check(byKey, models.Profile{Industry: "숙박음식업"}).Eligible)

	tg := def("tg", models.Eligibility{TargetIndustries: []string{"제조업 (뿌리산업)", "물류/배송"}})
	assert.True(t, Check(tg, models.Profile{Industry: "제조업"}).Eligible)
	assert.True(t, Check(tg, models.Profile{Industry: "물류"}).Eligible)
	r := Check(tg, models.Profile{Industry: "정보통신업"})
	require.Len(t, r.Reasons, 1)
	assert.Contains(t, r.Reasons[0], "제조업 (뿌리산업), 물류/배송")
}

func TestCheck_Wage(t *testing.T) {
	d := def("wage", models.Eligibility{MaxWage: 3000000})
	assert.True(t, Check(d, models.Profile{AvgWage: 3000000}).Eligible)
	assert.Equal(t, []string{"평균 월급여 3,000,000원 이하 필요"}, Check(d, models.Profile{AvgWage: 3000001}).Reasons)
}

func TestCheck_Quota(t *testing.T) {
	exceed := def("q", models.Eligibility{QuotaRequirement: &models.QuotaRequirement{Type: models.QuotaExceed, BaseRate: 0.031}})
	assert.Equal(t, []string{"장애인 의무고용률(3.1%) 초과 고용 필요"}, Check(exceed, models.Profile{}).Reasons)
	assert.True(t, Check(exceed, models.Profile{ExceedsDisabilityQuota: true}).Eligible)

	meet := def("m", models.Eligibility{QuotaRequirement: &models.QuotaRequirement{Type: models.QuotaMeet}})
	assert.False(t, Check(meet, models.Profile{}).Eligible)

	notMet := def("n", models.Eligibility{QuotaRequirement: &models.QuotaRequirement{Type: models.QuotaNotMet}})
	assert.True(t, Check(notMet, models.Profile{}).Eligible)
}

func TestCheck_SevereDisabled(t *testing.T) {
	d := def("sd", models.Eligibility{RequiresSevereDisabled: true})
	assert.False(t, Check(d, models.Profile{}).Eligible)
	assert.True(t, Check(d, models.Profile{HasSevereDisabled: true}).Eligible)
	assert.True(t, Check(d, models.Profile{SevereDisabledEmployees: 2}).Eligible)
}

func TestCheck_ApplicantGating(t *testing.T) {
	ind := def("ind", models.Eligibility{IndividualOnly: true})
	assert.False(t, Check(ind, models.Profile{}).Eligible)
	assert.True(t, Check(ind, models.Profile{ApplicantType: models.ApplicantIndividual}).Eligible)

	js := def("js", models.Eligibility{ForJobSeekers: true})
	assert.Equal(t, []string{"구직자 대상 프로그램 (기업 지원금 아님)"}, Check(js, models.Profile{ApplicantType: models.ApplicantCompany}).Reasons)
	assert.True(t, Check(js, models.Profile{ApplicantType: models.ApplicantIndividual}).Eligible)
}

func TestCheck_PrerequisiteOnlyFailsOnExplicitFalse(t *testing.T) {
	d := def("pre", models.Eligibility{Prerequisite: "직업훈련 수료"})
	assert.True(t, Check(d, models.Profile{}).Eligible)
	assert.True(t, Check(d, models.Profile{HasTrainingCertificate: boolp(true)}).Eligible)
	assert.False(t, Check(d, models.Profile{HasTrainingCertificate: boolp(false)}).Eligible)
}

func TestCheck_FlagRequirements(t *testing.T) {
	d := def("flags", models.Eligibility{
		RequiresUnemployed:           true,
		RequiresNonRegularConversion: true,
		RequiresMiddleAgedHiring:     true,
		RequiresChildcareWorkers:     true,
		IncomeRequirement:            true,
		TargetWorkers:                true,
	})
	assert.Len(t, Check(d, models.Profile{}).Reasons, 6)
	ok := models.Profile{
		HiringUnemployed: true, NonRegularEmployees: 1, MiddleAgedEmployees: 1,
		ChildcareWorkers: 1, MeetsIncomeRequirement: true, HasTargetWorkers: true,
	}
	assert.True(t, Check(d, ok).Eligible)
}

func TestPartition(t *testing.T) {
	defs := []models.SubsidyDefinition{
		def("a", models.Eligibility{}),
		def("b", models.Eligibility{RequiredEmployeeTypes: []models.EmployeeCategory{models.CategoryYouth}}),
		def("c", models.Eligibility{}),
	}
	eligible, rejected := Partition(defs, models.Profile{})
	require.Len(t, eligible, 2)
	assert.Equal(t, "a", eligible[0].ID)
	assert.Equal(t, "c", eligible[1].ID)
	require.Len(t, rejected, 1)
	assert.Equal(t, "b", rejected[0].Subsidy.ID)
	assert.NotEmpty(t, rejected[0].Reasons)
}

func TestPartition_VerdictMatchesReasons(t *testing.T) {
	defs := []models.SubsidyDefinition{
		def("a", models.Eligibility{MaxEmployees: intp(3)}),
		def("b", models.Eligibility{RequiresRetirementAge: true}),
	}
	profiles := []models.Profile{{}, {TotalEmployees: 10}, {HasRetirementAge: true}}
	for _, p := range profiles {
		for _, d := range defs {
			r := Check(d, p)
			assert.Equal(t, r.Eligible, len(r.Reasons) == 0)
		}
	}
}

func TestDisplayReasons(t *testing.T) {
	assert.Equal(t, []string{ConfirmMessage}, DisplayReasons(models.EligibilityResult{Eligible: true, Reasons: []string{}}))
	assert.Equal(t, []string{"x"}, DisplayReasons(models.EligibilityResult{Reasons: []string{"x"}}))
}
