package catalog

import (
	"subsidyopt/internal/calc"
	"subsidyopt/internal/industry"
	"subsidyopt/internal/region"
)

// SizeCategory is a company-size bracket by total employees. Max 0 means unbounded.
type SizeCategory struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max,omitempty"`
}

var CompanySizeCategories = []SizeCategory{
	{Label: "5인미만", Min: 0, Max: 4},
	{Label: "5인이상30인미만", Min: 5, Max: 29},
	{Label: "30인이상50인미만", Min: 30, Max: 49},
	{Label: "50인이상100인미만", Min: 50, Max: 99},
	{Label: "100인이상", Min: 100},
}

// SizeCategoryFor returns the bracket label for a total headcount.
func SizeCategoryFor(total int) string {
	for _, c := range CompanySizeCategories {
		if total >= c.Min && (c.Max == 0 || total <= c.Max) {
			return c.Label
		}
	}
	return CompanySizeCategories[0].Label
}

// RegionOption is one selectable region with its default tier.
type RegionOption struct {
	Name string      `json:"name"`
	Tier region.Tier `json:"tier"`
}

// TierOption is a selectable region-type value.
type TierOption struct {
	Value region.Tier `json:"value"`
	Label string      `json:"label"`
}

// Options is the form data a client needs to build a profile.
type Options struct {
	Regions        []RegionOption `json:"regions"`
	RegionTypes    []TierOption   `json:"region_types"`
	Industries     []string       `json:"industries"`
	CompanySizes   []SizeCategory `json:"company_sizes"`
	Categories     []string       `json:"categories"`
	GenderPolicies []string       `json:"gender_policies"`
}

// Regions lists metropolitan regions first, then the rest as general tier.
func Regions() []RegionOption {
	out := make([]RegionOption, 0, len(region.MetropolitanRegions)+len(region.NonMetropolitanRegions))
	for _, r := range region.MetropolitanRegions {
		out = append(out, RegionOption{Name: r, Tier: region.Metropolitan})
	}
	for _, r := range region.NonMetropolitanRegions {
		out = append(out, RegionOption{Name: r, Tier: region.General})
	}
	return out
}

// FormOptions assembles the option lists for c.
func (c *Catalog) FormOptions() Options {
	tiers := make([]TierOption, len(region.Tiers))
	for i, t := range region.Tiers {
		tiers[i] = TierOption{Value: t, Label: t.Label()}
	}
	return Options{
		Regions:        Regions(),
		RegionTypes:    tiers,
		Industries:     industry.Names,
		CompanySizes:   CompanySizeCategories,
		Categories:     c.Categories(),
		GenderPolicies: []string{string(calc.GenderAverage), string(calc.GenderMale), string(calc.GenderFemale)},
	}
}
