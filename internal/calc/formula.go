package calc

import (
	"fmt"
	"sort"
	"subsidyopt/internal/models"
	"subsidyopt/internal/region"
)

// Calculation type tags as they appear in catalog files.
const (
	TypeRegional2026         = "regional-differentiated-2026"
	TypeRegionalQuarterly    = "regional-differentiated-quarterly"
	TypeByGender             = "per-employee-monthly-by-gender"
	TypeWageIncrease         = "monthly-based-on-wage-increase"
	TypeMilestone            = "milestone-based"
	TypePerEmployeeMonthly   = "per-employee-monthly"
	TypePerEmployeeQuarterly = "per-employee-quarterly"
	TypeWageCompensation     = "wage-compensation"
	TypeMonthlyJobSeeker     = "monthly-jobseeker-support"
	TypeJobSeeker            = "job-seeker-support"
)

// Defaults applied when a catalog entry leaves a parameter out.
const (
	DefaultWageIncreaseThreshold int64 = 200000
	DefaultWageIncreaseMonths          = 12
	DefaultMonthlyMonths               = 12
	DefaultQuarters                    = 4
	DefaultCompensationRate            = 0.67
	DefaultMaxDailyAmount        int64 = 66000
	DefaultCompensationDays            = 90
	PrioritySupportLabel               = "우선지원대상기업"
	PrioritySupportMaxEmployees        = 500
)

// Formula is one payout strategy with exactly the parameters it reads.
// The set of implementations is closed: every variant lives in this file.
type Formula interface {
	Kind() string
	evaluate(in input) outcome
}

// Regional2026 pays a flat employer amount per person plus a beneficiary amount
// that depends on the applicant's region tier.
type Regional2026 struct {
	Employer    models.Rate
	Beneficiary map[region.Tier]models.Rate
}

// RegionalQuarterly pays a metropolitan or non-metropolitan rate per senior.
type RegionalQuarterly struct {
	Metro    models.Rate
	NonMetro models.Rate
}

// ByGender pays a per-person total that depends on gender. Profiles carry no
// gender breakdown, so Policy (or the caller's Options) decides which total applies.
type ByGender struct {
	Male   models.Rate
	Female models.Rate
	Policy GenderPolicy
}

// WageIncrease pays High when the profile's wage increase reaches Threshold, else Base.
type WageIncrease struct {
	Threshold int64
	High      *models.Rate
	Base      models.Rate
	Months    int
}

// Milestone pays PerPerson once every milestone is reached.
type Milestone struct {
	Milestones []models.Milestone
	PerPerson  int64
	Months     int
}

// PerEmployeeMonthly pays Monthly per targeted employee for Months, with
// company-size overrides.
type PerEmployeeMonthly struct {
	Monthly   int64
	Months    int
	SizeRates map[string]int64
}

type PerEmployeeQuarterly struct {
	Quarterly int64
	Quarters  int
}

// WageCompensation pays a share of the average daily wage, capped per day,
// for every employee.
type WageCompensation struct {
	Rate      float64
	DailyCap  int64
	Days      int
	SizeRules []models.SizeCondition
}

// JobSeeker programs pay individuals directly and contribute nothing to an employer total.
type JobSeeker struct {
	Type string
}

func (Regional2026) Kind() string         { return TypeRegional2026 }
func (RegionalQuarterly) Kind() string    { return TypeRegionalQuarterly }
func (ByGender) Kind() string             { return TypeByGender }
func (WageIncrease) Kind() string         { return TypeWageIncrease }
func (Milestone) Kind() string            { return TypeMilestone }
func (PerEmployeeMonthly) Kind() string   { return TypePerEmployeeMonthly }
func (PerEmployeeQuarterly) Kind() string { return TypePerEmployeeQuarterly }
func (WageCompensation) Kind() string     { return TypeWageCompensation }
func (j JobSeeker) Kind() string          { return j.Type }

// FaultError is a data-integrity problem in a calculation descriptor.
type FaultError struct {
	Type   string
	Field  string
	Reason string
}

func (e *FaultError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("계산 설정 오류 (%s): %s", e.Type, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("계산 파라미터 누락 (%s): %s", e.Type, e.Field)
	}
	return fmt.Sprintf("알 수 없는 계산 유형: %s", e.Type)
}

func missing(typ, field string) error { return &FaultError{Type: typ, Field: field} }

// Decode validates a flat calculation descriptor and returns its formula.
func Decode(spec models.CalculationSpec) (Formula, error) {
	if err := checkNonNegative(spec); err != nil {
		return nil, err
	}
	switch spec.Type {
	case TypeRegional2026:
		if spec.Company == nil {
			return nil, missing(spec.Type, "company")
		}
		f := Regional2026{Employer: *spec.Company, Beneficiary: make(map[region.Tier]models.Rate, len(spec.Beneficiary))}
		for _, k := range sortedKeys(spec.Beneficiary) {
			r := spec.Beneficiary[k]
			t, ok := region.ParseTier(k)
			if !ok {
				return nil, &FaultError{Type: spec.Type, Reason: "알 수 없는 지역 구분 " + k}
			}
			f.Beneficiary[t] = r
		}
		return f, nil

	case TypeRegionalQuarterly:
		var f RegionalQuarterly
		var hasMetro, hasNonMetro bool
		for _, k := range sortedKeys(spec.Regional) {
			r := spec.Regional[k]
			t, ok := region.ParseTier(k)
			if !ok {
				return nil, &FaultError{Type: spec.Type, Reason: "알 수 없는 지역 구분 " + k}
			}
			switch t {
			case region.Metropolitan:
				f.Metro, hasMetro = r, true
			case region.General:
				f.NonMetro, hasNonMetro = r, true
			}
		}
		if !hasMetro {
			return nil, missing(spec.Type, "regional.수도권")
		}
		if !hasNonMetro {
			f.NonMetro = f.Metro
		}
		return f, nil

	case TypeByGender:
		if spec.Male == nil && spec.Female == nil {
			return nil, missing(spec.Type, "male/female")
		}
		f := ByGender{}
		if spec.Male != nil {
			f.Male = *spec.Male
		}
		if spec.Female != nil {
			f.Female = *spec.Female
		}
		if spec.GenderPolicy != "" {
			p, err := ParseGenderPolicy(spec.GenderPolicy)
			if err != nil {
				return nil, &FaultError{Type: spec.Type, Reason: err.Error()}
			}
			f.Policy = p
		}
		return f, nil

	case TypeWageIncrease:
		if spec.Base == nil {
			return nil, missing(spec.Type, "base")
		}
		f := WageIncrease{
			Threshold: spec.WageIncreaseThreshold,
			High:      spec.HighIncrease,
			Base:      *spec.Base,
			Months:    spec.MaxMonths,
		}
		if f.Threshold == 0 {
			f.Threshold = DefaultWageIncreaseThreshold
		}
		if f.Months == 0 {
			f.Months = firstPositive(spec.Base.MaxMonths, DefaultWageIncreaseMonths)
		}
		return f, nil

	case TypeMilestone:
		f := Milestone{Milestones: spec.Milestones, PerPerson: spec.TotalAmount, Months: spec.MaxMonths}
		if len(spec.Milestones) > 0 {
			var sum int64
			for _, m := range spec.Milestones {
				sum += m.Amount
				if m.Months > f.Months && spec.MaxMonths == 0 {
					f.Months = m.Months
				}
			}
			f.PerPerson = sum
		}
		if f.PerPerson == 0 {
			return nil, missing(spec.Type, "milestones/total_amount")
		}
		return f, nil

	case TypePerEmployeeMonthly:
		f := PerEmployeeMonthly{
			Monthly: firstPositive64(spec.MonthlyAmount, spec.BaseAmount),
			Months:  firstPositive(spec.MaxMonths, DefaultMonthlyMonths),
		}
		if len(spec.Conditions) > 0 {
			f.SizeRates = make(map[string]int64, len(spec.Conditions))
			for _, c := range spec.Conditions {
				if _, dup := f.SizeRates[c.CompanySize]; !dup {
					f.SizeRates[c.CompanySize] = c.MonthlyAmount
				}
			}
		}
		if f.Monthly == 0 && len(f.SizeRates) == 0 {
			return nil, missing(spec.Type, "monthly_amount")
		}
		return f, nil

	case TypePerEmployeeQuarterly:
		if spec.QuarterlyAmount == 0 {
			return nil, missing(spec.Type, "quarterly_amount")
		}
		return PerEmployeeQuarterly{
			Quarterly: spec.QuarterlyAmount,
			Quarters:  firstPositive(spec.MaxQuarters, DefaultQuarters),
		}, nil

	case TypeWageCompensation:
		return WageCompensation{
			Rate:      DefaultCompensationRate,
			DailyCap:  DefaultMaxDailyAmount,
			Days:      firstPositive(spec.MaxDays, DefaultCompensationDays),
			SizeRules: spec.Conditions,
		}, nil

	case TypeMonthlyJobSeeker, TypeJobSeeker:
		return JobSeeker{Type: spec.Type}, nil
	}
	return nil, &FaultError{Type: spec.Type}
}

// Types lists every calculation type Decode accepts, sorted.
func Types() []string {
	t := []string{
		TypeRegional2026, TypeRegionalQuarterly, TypeByGender, TypeWageIncrease, TypeMilestone,
		TypePerEmployeeMonthly, TypePerEmployeeQuarterly, TypeWageCompensation,
		TypeMonthlyJobSeeker, TypeJobSeeker,
	}
	sort.Strings(t)
	return t
}

func checkNonNegative(spec models.CalculationSpec) error {
	neg := func(field string) error {
		return &FaultError{Type: spec.Type, Reason: "음수 금액 " + field}
	}
	rate := func(field string, r *models.Rate) error {
		if r != nil && (r.MonthlyAmount < 0 || r.QuarterlyAmount < 0 || r.TotalAmount < 0 || r.MaxMonths < 0) {
			return neg(field)
		}
		return nil
	}
	named := []struct {
		field string
		r     *models.Rate
	}{
		{"company", spec.Company}, {"male", spec.Male}, {"female", spec.Female},
		{"high_increase", spec.HighIncrease}, {"base", spec.Base},
	}
	for _, n := range named {
		if err := rate(n.field, n.r); err != nil {
			return err
		}
	}
	for _, group := range []map[string]models.Rate{spec.Beneficiary, spec.Regional, spec.Types} {
		for _, k := range sortedKeys(group) {
			r := group[k]
			if err := rate(k, &r); err != nil {
				return err
			}
		}
	}
	if spec.MonthlyAmount < 0 || spec.BaseAmount < 0 || spec.QuarterlyAmount < 0 || spec.TotalAmount < 0 {
		return neg("amount")
	}
	if spec.MaxMonths < 0 || spec.MaxQuarters < 0 || spec.MaxDays < 0 || spec.WageIncreaseThreshold < 0 {
		return neg("duration")
	}
	for _, m := range spec.Milestones {
		if m.Amount < 0 {
			return neg("milestones")
		}
	}
	for _, c := range spec.Conditions {
		if c.MonthlyAmount < 0 || c.MaxDailyAmount < 0 || c.CompensationRate < 0 {
			return neg("conditions")
		}
	}
	return nil
}

func firstPositive(v ...int) int {
	for _, n := range v {
		if n > 0 {
			return n
		}
	}
	return 0
}

func firstPositive64(v ...int64) int64 {
	for _, n := range v {
		if n > 0 {
			return n
		}
	}
	return 0
}

func sortedKeys(m map[string]models.Rate) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
