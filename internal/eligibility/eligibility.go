// Package eligibility evaluates a profile against the predicate set of a
// subsidy definition. Every predicate is checked so callers get the full list
// of unmet requirements, not just the first one.
package eligibility

import (
	"fmt"
	"strings"
	"subsidyopt/internal/industry"
	"subsidyopt/internal/krw"
	"subsidyopt/internal/models"
)

// ConfirmMessage is shown in place of reasons for an eligible subsidy.
const ConfirmMessage = "모든 요건 충족"

// categoryReasons is the rejection text for a missing employee category.
var categoryReasons = map[models.EmployeeCategory]string{
	models.CategoryYouth:          "청년 근로자(15-34세) 고용 필요",
	models.CategorySenior:         "고령자(60세 이상) 고용 필요",
	models.CategoryMiddleAged:     "중장년(50세 이상) 근로자 고용 필요",
	models.CategoryDisabled:       "장애인 근로자 고용 필요",
	models.CategorySevereDisabled: "중증장애인 근로자 고용 필요",
	models.CategoryNonRegular:     "비정규직 근로자 고용 필요",
	models.CategoryChildcare:      "육아기 근로자 고용 필요",
}

// Check returns the verdict of one definition for one profile.
// Reasons is empty iff Eligible.
func Check(def models.SubsidyDefinition, p models.Profile) models.EligibilityResult {
	e := def.Eligibility
	total := p.Total()
	var reasons []string
	fail := func(format string, args ...interface{}) {
		reasons = append(reasons, fmt.Sprintf(format, args...))
	}

	if e.MinEmployees != nil && total < *e.MinEmployees {
		fail("최소 근로자 수 %d명 미만", *e.MinEmployees)
	}
	if e.MaxEmployees != nil && total > *e.MaxEmployees {
		fail("최대 근로자 수 %d명 초과", *e.MaxEmployees)
	}

	for _, c := range e.RequiredEmployeeTypes {
		if !hasCategory(p, c) {
			if msg, ok := categoryReasons[c]; ok {
				fail("%s", msg)
			} else {
				fail("%s 근로자 고용 필요", c)
			}
		}
	}

	if e.MaxWage > 0 && p.AvgWage > e.MaxWage {
		fail("평균 월급여 %s 이하 필요", krw.Won(e.MaxWage))
	}
	if e.RequiresBusinessDifficulty && !p.HasBusinessDifficulty {
		fail("경영상 어려움 증빙 필요")
	}
	if e.RequiresUnemployed && !p.HiringUnemployed {
		fail("미취업 청년 채용 필요")
	}
	if e.ForJobSeekers && p.Applicant() == models.ApplicantCompany {
		fail("구직자 대상 프로그램 (기업 지원금 아님)")
	}
	if excluded(p.Industry, e.IndustryExclusions) {
		fail("제외 업종: %s", p.Industry)
	}
	if e.RequiresRetirementAge && !p.HasRetirementAge {
		fail("정년 규정이 있는 사업장만 해당 (취업규칙에 60세 이상 정년 규정 필요)")
	}
	if e.RequiresSevereDisabled && !p.HasSevereDisabled && p.Count(models.CategorySevereDisabled) == 0 {
		fail("중증장애인 근로자 고용 필요 (장애등급 1~3급 또는 중증기준 해당자)")
	}

	if q := e.QuotaRequirement; q != nil {
		switch q.Type {
		case models.QuotaExceed:
			if !p.ExceedsDisabilityQuota {
				fail("장애인 의무고용률(%s) 초과 고용 필요", krw.Percent(q.BaseRate*100))
			}
		case models.QuotaMeet:
			if !p.MeetsDisabilityQuota {
				fail("장애인 의무고용률 충족 필요")
			}
		}
	}

	if len(e.TargetIndustries) > 0 && !targeted(p.Industry, e.TargetIndustries) {
		fail("지정 업종만 해당 (%s)", strings.Join(e.TargetIndustries, ", "))
	}
	if e.Prerequisite != "" && p.HasTrainingCertificate != nil && !*p.HasTrainingCertificate {
		fail("해당 근로자 직업훈련 수료 필요")
	}
	if e.IncomeRequirement && !p.MeetsIncomeRequirement {
		fail("소득 요건 미충족 (기준중위소득 확인 필요)")
	}
	if e.TargetWorkers && !p.HasTargetWorkers {
		fail("지원 대상 근로자 고용 필요")
	}
	if e.IndividualOnly && p.Applicant() == models.ApplicantCompany {
		fail("개인 대상 지원금 (기업 신청 불가, 근로자 직접 신청 필요)")
	}
	if e.RequiresNonRegularConversion && p.Count(models.CategoryNonRegular) == 0 {
		fail("전환 대상 비정규직(기간제/파견/사내하도급) 근로자 필요 (6개월 이상 근무)")
	}
	if e.RequiresMiddleAgedHiring && p.Count(models.CategoryMiddleAged) == 0 {
		fail("중장년(50세 이상) 신규 채용 필요")
	}
	if e.RequiresChildcareWorkers && p.Count(models.CategoryChildcare) == 0 {
		fail("육아기 근로자(8세 이하 또는 초등 2학년 이하 자녀) 고용 필요")
	}

	if s := e.CompanySize; s != nil {
		if s.Min != nil && total < *s.Min {
			fail("최소 근로자 수 %d명 이상 필요", *s.Min)
		}
		if s.Max != nil && total > *s.Max {
			fail("최대 근로자 수 %d명 이하 필요", *s.Max)
		}
	}

	return models.EligibilityResult{Eligible: len(reasons) == 0, Reasons: orEmpty(reasons)}
}

// Partition splits defs into eligible definitions and rejections, both in catalog order.
func Partition(defs []models.SubsidyDefinition, p models.Profile) ([]models.SubsidyDefinition, []models.Rejection) {
	eligible := make([]models.SubsidyDefinition, 0, len(defs))
	rejected := make([]models.Rejection, 0)
	for _, d := range defs {
		r := Check(d, p)
		if r.Eligible {
			eligible = append(eligible, d)
			continue
		}
		rejected = append(rejected, models.Rejection{Subsidy: d, Reasons: r.Reasons})
	}
	return eligible, rejected
}

// DisplayReasons returns what a UI shows for a verdict: the reasons, or the
// confirmation message when there are none.
func DisplayReasons(r models.EligibilityResult) []string {
	if r.Eligible {
		return []string{ConfirmMessage}
	}
	return r.Reasons
}

func hasCategory(p models.Profile, c models.EmployeeCategory) bool {
	switch c {
	case models.CategoryMiddleAged:
		return p.Count(models.CategoryMiddleAged) > 0 || p.Count(models.CategorySenior) > 0
	case models.CategoryDisabled:
		return p.Count(models.CategoryDisabled) > 0 || p.Count(models.CategorySevereDisabled) > 0
	}
	return p.Count(c) > 0
}

func excluded(name string, list []string) bool {
	for _, x := range list {
		if industry.Excludes(name, x) {
			return true
		}
	}
	return false
}

func targeted(name string, list []string) bool {
	for _, t := range list {
		if industry.Matches(name, t) {
			return true
		}
	}
	return false
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
