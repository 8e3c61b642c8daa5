package models

// ApplicantType distinguishes employer applications from individual ones.
type ApplicantType string

const (
	ApplicantCompany    ApplicantType = "company"
	ApplicantIndividual ApplicantType = "individual"
)

// TargetType is who a subsidy pays.
type TargetType string

const (
	TargetEmployer   TargetType = "employer"
	TargetIndividual TargetType = "individual"
)

// EmployeeCategory names a headcount bucket on the Profile.
type EmployeeCategory string

const (
	CategoryYouth          EmployeeCategory = "youth"
	CategorySenior         EmployeeCategory = "senior"
	CategoryMiddleAged     EmployeeCategory = "middle_aged"
	CategoryDisabled       EmployeeCategory = "disabled"
	CategorySevereDisabled EmployeeCategory = "severe_disabled"
	CategoryNonRegular     EmployeeCategory = "non_regular"
	CategoryChildcare      EmployeeCategory = "childcare"
)

// Profile is the applicant's input. Missing numeric fields are zero.
type Profile struct {
	ApplicantType    ApplicantType `json:"applicant_type,omitempty"`
	CompanyName      string        `json:"company_name,omitempty"`
	BusinessNumber   string        `json:"business_number,omitempty"`
	Region           string        `json:"region"`
	RegionType       string        `json:"region_type,omitempty"`
	IsSpecialRegion  bool          `json:"is_special_region,omitempty"`
	IsPriorityRegion bool          `json:"is_priority_region,omitempty"`
	Industry         string        `json:"industry"`
	CompanySize      string        `json:"company_size,omitempty"`

	TotalEmployees          int `json:"total_employees"`
	YouthEmployees          int `json:"youth_employees"`
	SeniorEmployees         int `json:"senior_employees"`
	MiddleAgedEmployees     int `json:"middle_aged_employees"`
	DisabledEmployees       int `json:"disabled_employees"`
	SevereDisabledEmployees int `json:"severe_disabled_employees"`
	NonRegularEmployees     int `json:"non_regular_employees"`
	RegularConversions      int `json:"regular_conversions,omitempty"`
	ChildcareWorkers        int `json:"childcare_workers"`

	AvgWage      int64 `json:"avg_wage"`
	WageIncrease int64 `json:"wage_increase,omitempty"`

	HasRetirementAge       bool  `json:"has_retirement_age"`
	ExceedsDisabilityQuota bool  `json:"exceeds_disability_quota"`
	MeetsDisabilityQuota   bool  `json:"meets_disability_quota"`
	HasSevereDisabled      bool  `json:"has_severe_disabled"`
	HasBusinessDifficulty  bool  `json:"has_business_difficulty"`
	HiringUnemployed       bool  `json:"hiring_unemployed"`
	MeetsIncomeRequirement bool  `json:"meets_income_requirement"`
	HasTargetWorkers       bool  `json:"has_target_workers"`
	HasTrainingCertificate *bool `json:"has_training_certificate,omitempty"`
}

// Applicant returns the applicant type, defaulting to company.
func (p Profile) Applicant() ApplicantType {
	if p.ApplicantType == "" {
		return ApplicantCompany
	}
	return p.ApplicantType
}

// Count returns the non-negative headcount for a category.
func (p Profile) Count(c EmployeeCategory) int {
	var n int
	switch c {
	case CategoryYouth:
		n = p.YouthEmployees
	case CategorySenior:
		n = p.SeniorEmployees
	case CategoryMiddleAged:
		n = p.MiddleAgedEmployees
	case CategoryDisabled:
		n = p.DisabledEmployees
	case CategorySevereDisabled:
		n = p.SevereDisabledEmployees
	case CategoryNonRegular:
		n = p.NonRegularEmployees
	case CategoryChildcare:
		n = p.ChildcareWorkers
	}
	return nonNeg(n)
}

// Total returns the non-negative total headcount.
func (p Profile) Total() int { return nonNeg(p.TotalEmployees) }

func nonNeg(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// SizeRange bounds the total employee count. Nil bounds are open.
type SizeRange struct {
	Min  *int   `json:"min"`
	Max  *int   `json:"max"`
	Note string `json:"note,omitempty"`
}

// QuotaType is the disability-quota condition kind.
type QuotaType string

const (
	QuotaExceed QuotaType = "exceed"
	QuotaMeet   QuotaType = "meet"
	QuotaNotMet QuotaType = "not_met"
)

type QuotaRequirement struct {
	Type     QuotaType `json:"type"`
	BaseRate float64   `json:"base_rate,omitempty"`
	Note     string    `json:"note,omitempty"`
}

// Eligibility is the predicate set of a subsidy. Every field is optional.
type Eligibility struct {
	MinEmployees          *int               `json:"min_employees,omitempty"`
	MaxEmployees          *int               `json:"max_employees,omitempty"`
	CompanySize           *SizeRange         `json:"company_size,omitempty"`
	RequiredEmployeeTypes []EmployeeCategory `json:"required_employee_types,omitempty"`
	IndustryExclusions    []string           `json:"industry_exclusions,omitempty"`
	TargetIndustries      []string           `json:"target_industries,omitempty"`
	MaxWage               int64              `json:"max_wage,omitempty"`

	RequiresBusinessDifficulty   bool `json:"requires_business_difficulty,omitempty"`
	RequiresUnemployed           bool `json:"requires_unemployed,omitempty"`
	ForJobSeekers                bool `json:"for_job_seekers,omitempty"`
	RequiresRetirementAge        bool `json:"requires_retirement_age,omitempty"`
	RequiresSevereDisabled       bool `json:"requires_severe_disabled,omitempty"`
	RequiresNonRegularConversion bool `json:"requires_non_regular_conversion,omitempty"`
	RequiresMiddleAgedHiring     bool `json:"requires_middle_aged_hiring,omitempty"`
	RequiresChildcareWorkers     bool `json:"requires_childcare_workers,omitempty"`
	IndividualOnly               bool `json:"individual_only,omitempty"`
	IncomeRequirement            bool `json:"income_requirement,omitempty"`
	TargetWorkers                bool `json:"target_workers,omitempty"`

	QuotaRequirement *QuotaRequirement `json:"quota_requirement,omitempty"`
	Prerequisite     string            `json:"prerequisite,omitempty"`

	IndustryType    string   `json:"industry_type,omitempty"`
	OtherConditions []string `json:"other_conditions,omitempty"`
}

// Rate is one payout schedule: a monthly rate over a number of months, or a flat total.
type Rate struct {
	MonthlyAmount   int64  `json:"monthly_amount,omitempty"`
	QuarterlyAmount int64  `json:"quarterly_amount,omitempty"`
	MaxMonths       int    `json:"max_months,omitempty"`
	TotalAmount     int64  `json:"total_amount,omitempty"`
	Note            string `json:"note,omitempty"`
}

// Total returns TotalAmount, or MonthlyAmount × MaxMonths when no total is declared.
func (r Rate) Total() int64 {
	if r.TotalAmount > 0 {
		return r.TotalAmount
	}
	return r.MonthlyAmount * int64(r.MaxMonths)
}

type Milestone struct {
	Months int    `json:"months"`
	Amount int64  `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// SizeCondition overrides rates for a company-size label.
type SizeCondition struct {
	CompanySize      string  `json:"company_size"`
	MonthlyAmount    int64   `json:"monthly_amount,omitempty"`
	CompensationRate float64 `json:"compensation_rate,omitempty"`
	MaxDailyAmount   int64   `json:"max_daily_amount,omitempty"`
}

// CalculationSpec is the catalog's flat calculation descriptor. Type selects the formula;
// only the fields that formula reads are meaningful.
type CalculationSpec struct {
	Type string `json:"type"`

	Company     *Rate           `json:"company,omitempty"`
	Beneficiary map[string]Rate `json:"beneficiary,omitempty"`
	Regional    map[string]Rate `json:"regional,omitempty"`

	Male         *Rate  `json:"male,omitempty"`
	Female       *Rate  `json:"female,omitempty"`
	GenderPolicy string `json:"gender_policy,omitempty"`

	WageIncreaseThreshold int64 `json:"wage_increase_threshold,omitempty"`
	HighIncrease          *Rate `json:"high_increase,omitempty"`
	Base                  *Rate `json:"base,omitempty"`

	Milestones []Milestone `json:"milestones,omitempty"`

	MonthlyAmount   int64           `json:"monthly_amount,omitempty"`
	BaseAmount      int64           `json:"base_amount,omitempty"`
	QuarterlyAmount int64           `json:"quarterly_amount,omitempty"`
	TotalAmount     int64           `json:"total_amount,omitempty"`
	MaxMonths       int             `json:"max_months,omitempty"`
	MaxQuarters     int             `json:"max_quarters,omitempty"`
	MaxDays         int             `json:"max_days,omitempty"`
	Conditions      []SizeCondition `json:"conditions,omitempty"`

	Types map[string]Rate `json:"types,omitempty"`
}

type DocumentGuide struct {
	Required          []string `json:"required,omitempty"`
	ApplicationMethod string   `json:"application_method,omitempty"`
	Deadline          string   `json:"deadline,omitempty"`
}

// SubsidyDefinition is one catalog entry. The engine never mutates it.
type SubsidyDefinition struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	TargetType        TargetType      `json:"target_type"`
	Eligibility       Eligibility     `json:"eligibility"`
	Calculation       CalculationSpec `json:"calculation"`
	MutuallyExclusive []string        `json:"mutually_exclusive"`
	DocumentGuide     DocumentGuide   `json:"document_guide"`
	Notes             []string        `json:"notes,omitempty"`
}

// Excludes reports whether d declares id as mutually exclusive.
func (d SubsidyDefinition) Excludes(id string) bool {
	for _, x := range d.MutuallyExclusive {
		if x == id {
			return true
		}
	}
	return false
}

// EligibilityResult is the verdict for one subsidy. Reasons is empty iff Eligible.
type EligibilityResult struct {
	Eligible bool     `json:"is_eligible"`
	Reasons  []string `json:"reasons"`
}

type Rejection struct {
	Subsidy SubsidyDefinition `json:"subsidy"`
	Reasons []string          `json:"reasons"`
}

// CalculatedAmount is the payout of one subsidy for one profile, in KRW.
type CalculatedAmount struct {
	SubsidyID      string `json:"subsidy_id"`
	SubsidyName    string `json:"subsidy_name"`
	TotalAmount    int64  `json:"total_amount"`
	MonthlyAverage int64  `json:"monthly_average"`
	Details        string `json:"details"`
	Fault          string `json:"fault,omitempty"`
}

type RankedCalculation struct {
	CalculatedAmount
	Rank             int     `json:"rank"`
	PercentageOfBest float64 `json:"percentage_of_best"`
}

// Combination is a conflict-free set of eligible subsidies and its aggregate payout.
type Combination struct {
	Subsidies   []CalculatedAmount `json:"subsidies"`
	TotalAmount int64              `json:"total_amount"`
	Count       int                `json:"count"`
	Strategy    string             `json:"strategy"`
}

// AnalysisResult is the output of the full pipeline.
type AnalysisResult struct {
	CatalogVersion string              `json:"catalog_version,omitempty"`
	Eligible       []SubsidyDefinition `json:"eligible"`
	NotEligible    []Rejection         `json:"not_eligible"`
	Calculations   []CalculatedAmount  `json:"calculations"`
	Comparison     []RankedCalculation `json:"comparison"`
	Optimal        *Combination        `json:"optimal"`
}
