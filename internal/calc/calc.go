// Package calc computes the payout of a subsidy for a profile. Catalog
// descriptors are decoded into a closed set of formulas; a descriptor that
// cannot be decoded yields a zero amount with a diagnostic instead of an error,
// so one bad entry never stops the rest of a batch.
package calc

import (
	"fmt"
	"strings"
	"subsidyopt/internal/krw"
	"subsidyopt/internal/models"
	"subsidyopt/internal/region"

	"github.com/shopspring/decimal"
)

// GenderPolicy selects the per-person rate of a gender-differentiated subsidy.
type GenderPolicy string

const (
	GenderAverage GenderPolicy = "average"
	GenderMale    GenderPolicy = "male"
	GenderFemale  GenderPolicy = "female"
)

// ParseGenderPolicy accepts average, male or female. Empty means average.
func ParseGenderPolicy(s string) (GenderPolicy, error) {
	switch GenderPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", GenderAverage:
		return GenderAverage, nil
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender policy %q", s)
}

func (g GenderPolicy) label() string {
	switch g {
	case GenderMale:
		return "남성 기준"
	case GenderFemale:
		return "여성 기준"
	}
	return "평균"
}

// Options carries caller-level parameters. The zero value is usable.
type Options struct {
	GenderPolicy GenderPolicy
}

type input struct {
	def  models.SubsidyDefinition
	p    models.Profile
	opts Options
}

type outcome struct {
	total   decimal.Decimal
	months  int
	details []string
}

// Calculate returns the payout of def for p. It never fails: a malformed
// descriptor produces a zero amount with Fault set.
func Calculate(def models.SubsidyDefinition, p models.Profile, opts Options) models.CalculatedAmount {
	res := models.CalculatedAmount{SubsidyID: def.ID, SubsidyName: def.Name}
	f, err := Decode(def.Calculation)
	if err != nil {
		res.Details = err.Error()
		res.Fault = err.Error()
		return res
	}
	out := f.evaluate(input{def: def, p: p, opts: opts})
	total := out.total.Round(0)
	if total.IsNegative() {
		res.Fault = "음수 금액이 계산되어 0원으로 처리"
		total = decimal.Zero
	}
	res.TotalAmount = total.IntPart()
	if out.months > 0 {
		res.MonthlyAverage = total.Div(decimal.NewFromInt(int64(out.months))).Round(0).IntPart()
	}
	res.Details = strings.Join(out.details, ", ")
	return res
}

// CalculateAll calculates every definition in order.
func CalculateAll(defs []models.SubsidyDefinition, p models.Profile, opts Options) []models.CalculatedAmount {
	out := make([]models.CalculatedAmount, 0, len(defs))
	for _, d := range defs {
		out = append(out, Calculate(d, p, opts))
	}
	return out
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func nonNeg(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// headcount returns the count for c, falling back to a related category when c is empty.
func headcount(p models.Profile, c models.EmployeeCategory) int {
	if n := p.Count(c); n > 0 {
		return n
	}
	switch c {
	case models.CategoryMiddleAged:
		return p.Count(models.CategorySenior)
	case models.CategorySevereDisabled:
		return p.Count(models.CategoryDisabled)
	case models.CategoryDisabled:
		return p.Count(models.CategorySevereDisabled)
	}
	return 0
}

// targetCategory is the employee category a definition pays for, if any.
func targetCategory(e models.Eligibility) (models.EmployeeCategory, bool) {
	switch {
	case len(e.RequiredEmployeeTypes) > 0:
		return e.RequiredEmployeeTypes[0], true
	case e.RequiresChildcareWorkers:
		return models.CategoryChildcare, true
	case e.RequiresMiddleAgedHiring:
		return models.CategoryMiddleAged, true
	case e.RequiresNonRegularConversion:
		return models.CategoryNonRegular, true
	}
	return "", false
}

func (f Regional2026) evaluate(in input) outcome {
	n := in.p.Count(models.CategoryYouth)
	tier := region.Classify(in.p)
	per := dec(f.Employer.Total())
	employer := per.Mul(dec(int64(n)))

	out := outcome{months: f.Employer.MaxMonths}
	out.details = append(out.details, fmt.Sprintf("기업 지원: %s (인당 %s × %d명)", krw.Won(employer.IntPart()), krw.Won(per.IntPart()), n))

	beneficiary := decimal.Zero
	if r, ok := f.Beneficiary[tier]; ok && r.Total() > 0 {
		beneficiary = dec(r.Total()).Mul(dec(int64(n)))
		out.details = append(out.details, fmt.Sprintf("청년 직접지원: %s (%s, 인당 %s)", krw.Won(beneficiary.IntPart()), tier.Label(), krw.Won(r.Total())))
	} else {
		out.details = append(out.details, fmt.Sprintf("청년 직접지원: %s 해당 없음", tier.Label()))
	}
	out.total = employer.Add(beneficiary)
	return out
}

func (f RegionalQuarterly) evaluate(in input) outcome {
	n := in.p.Count(models.CategorySenior)
	r, label := f.NonMetro, "비수도권"
	if region.IsMetropolitan(in.p) {
		r, label = f.Metro, "수도권"
	}
	months := firstPositive(r.MaxMonths)
	return outcome{
		total:   dec(r.Total()).Mul(dec(int64(n))),
		months:  months,
		details: []string{fmt.Sprintf("월 %s × %d명 × %d개월 (%s)", krw.Won(r.MonthlyAmount), n, months, label)},
	}
}

func (f ByGender) evaluate(in input) outcome {
	n := headcount(in.p, models.CategorySevereDisabled)
	policy := f.Policy
	if policy == "" {
		policy = in.opts.GenderPolicy
	}
	male, female := dec(f.Male.Total()), dec(f.Female.Total())
	var per decimal.Decimal
	switch policy {
	case GenderMale:
		per = male
	case GenderFemale:
		per = female
	default:
		policy = GenderAverage
		per = male.Add(female).Div(dec(2))
	}
	return outcome{
		total:  per.Mul(dec(int64(n))),
		months: firstPositive(f.Male.MaxMonths, f.Female.MaxMonths),
		details: []string{fmt.Sprintf("중증장애인 %d명 × 연 %s (%s, 남성: %s, 여성: %s)",
			n, krw.Won(per.Round(0).IntPart()), policy.label(), krw.Won(f.Male.Total()), krw.Won(f.Female.Total()))},
	}
}

func (f WageIncrease) evaluate(in input) outcome {
	n := nonNeg(in.p.RegularConversions)
	if n == 0 {
		n = in.p.Count(models.CategoryNonRegular)
	}
	rate, label := f.Base, "기본 지원"
	if f.High != nil && in.p.WageIncrease >= f.Threshold {
		rate, label = *f.High, fmt.Sprintf("임금 %s 이상 인상", krw.Won(f.Threshold))
	}
	return outcome{
		total:   dec(rate.MonthlyAmount).Mul(dec(int64(n))).Mul(dec(int64(f.Months))),
		months:  f.Months,
		details: []string{fmt.Sprintf("월 %s × %d명 × %d개월 (%s)", krw.Won(rate.MonthlyAmount), n, f.Months, label)},
	}
}

func (f Milestone) evaluate(in input) outcome {
	n := headcount(in.p, models.CategoryMiddleAged)
	total := dec(f.PerPerson).Mul(dec(int64(n)))
	out := outcome{total: total, months: f.Months}
	if len(f.Milestones) == 0 {
		out.details = []string{fmt.Sprintf("%s × %d명", krw.Won(f.PerPerson), n)}
		return out
	}
	steps := make([]string, len(f.Milestones))
	for i, m := range f.Milestones {
		steps[i] = fmt.Sprintf("%d개월: %s", m.Months, krw.Won(m.Amount))
	}
	out.details = []string{fmt.Sprintf("%d명 × (%s) = %s", n, strings.Join(steps, ", "), krw.Won(total.IntPart()))}
	return out
}

func (f PerEmployeeMonthly) evaluate(in input) outcome {
	monthly := f.Monthly
	if r, ok := f.SizeRates[in.p.CompanySize]; ok && in.p.CompanySize != "" {
		monthly = r
	}
	n := 1
	if c, ok := targetCategory(in.def.Eligibility); ok {
		n = headcount(in.p, c)
	}
	return outcome{
		total:   dec(monthly).Mul(dec(int64(n))).Mul(dec(int64(f.Months))),
		months:  f.Months,
		details: []string{fmt.Sprintf("월 %s × %d명 × %d개월", krw.Won(monthly), n, f.Months)},
	}
}

func (f PerEmployeeQuarterly) evaluate(in input) outcome {
	n := 1
	for _, c := range in.def.Eligibility.RequiredEmployeeTypes {
		if c == models.CategorySenior {
			n = in.p.Count(models.CategorySenior)
			break
		}
	}
	return outcome{
		total:   dec(f.Quarterly).Mul(dec(int64(n))).Mul(dec(int64(f.Quarters))),
		months:  f.Quarters * 3,
		details: []string{fmt.Sprintf("분기당 %s × %d명 × %d분기", krw.Won(f.Quarterly), n, f.Quarters)},
	}
}

func (f WageCompensation) evaluate(in input) outcome {
	rate, ceiling := f.Rate, f.DailyCap
	total := in.p.Total()
	for _, c := range f.SizeRules {
		if (c.CompanySize != "" && c.CompanySize == in.p.CompanySize) ||
			(c.CompanySize == PrioritySupportLabel && total < PrioritySupportMaxEmployees) {
			if c.CompensationRate > 0 {
				rate = c.CompensationRate
			}
			if c.MaxDailyAmount > 0 {
				ceiling = c.MaxDailyAmount
			}
			break
		}
	}
	wage := in.p.AvgWage
	if wage < 0 {
		wage = 0
	}
	daily := dec(wage).Div(dec(30)).Mul(decimal.NewFromFloat(rate))
	daily = decimal.Min(daily, dec(ceiling))
	return outcome{
		total:   daily.Mul(dec(int64(total))).Mul(dec(int64(f.Days))),
		details: []string{fmt.Sprintf("일일 %s × %d명 × %d일", krw.Won(daily.Round(0).IntPart()), total, f.Days)},
	}
}

func (f JobSeeker) evaluate(input) outcome {
	return outcome{total: decimal.Zero, details: []string{"구직자 대상 (기업 지원 아님)"}}
}
