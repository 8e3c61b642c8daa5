package handlers

import (
	"strings"
	"subsidyopt/internal/models"
)

// validateProfile returns the first problem with p, in the wording the form shows.
func validateProfile(p models.Profile) (string, bool) {
	switch p.ApplicantType {
	case "", models.ApplicantCompany, models.ApplicantIndividual:
	default:
		return "신청자 유형은 company 또는 individual이어야 합니다", false
	}
	if p.BusinessNumber != "" && !validBusinessNumber(p.BusinessNumber) {
		return "유효하지 않은 사업자등록번호입니다", false
	}
	counts := []int{
		p.TotalEmployees, p.YouthEmployees, p.SeniorEmployees, p.MiddleAgedEmployees,
		p.DisabledEmployees, p.SevereDisabledEmployees, p.NonRegularEmployees,
		p.RegularConversions, p.ChildcareWorkers,
	}
	for _, n := range counts {
		if n < 0 {
			return "모든 인원 수는 0 이상이어야 합니다", false
		}
	}
	if p.Applicant() == models.ApplicantCompany && p.TotalEmployees < 1 {
		return "전체 근로자 수를 입력해주세요", false
	}
	if p.YouthEmployees+p.SeniorEmployees+p.DisabledEmployees > p.TotalEmployees && p.TotalEmployees > 0 {
		return "청년/고령자/장애인 근로자 합계가 전체 근로자 수를 초과할 수 없습니다", false
	}
	if p.SevereDisabledEmployees > p.DisabledEmployees && p.DisabledEmployees > 0 {
		return "중증장애인 근로자 수는 장애인 근로자 수를 초과할 수 없습니다", false
	}
	if p.AvgWage < 0 || p.WageIncrease < 0 {
		return "급여 금액은 0 이상이어야 합니다", false
	}
	return "", true
}

// validBusinessNumber accepts ten digits with optional separators, e.g. 123-45-67890.
func validBusinessNumber(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == ' ':
		default:
			return false
		}
	}
	return digits == 10
}

// formatBusinessNumber renders ten digits as 123-45-67890.
func formatBusinessNumber(s string) string {
	d := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(d) != 10 {
		return s
	}
	return d[:3] + "-" + d[3:5] + "-" + d[5:]
}
