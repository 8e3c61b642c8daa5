// Package region classifies an applicant's location into the support tiers used by
// regionally differentiated subsidies.
package region

import (
	"regexp"
	"strings"
	"subsidyopt/internal/models"

	"golang.org/x/text/unicode/norm"
)

// Tier is a regional support classification.
type Tier string

const (
	Metropolitan Tier = "metropolitan"
	General      Tier = "general"
	Priority     Tier = "priority"
	Special      Tier = "special"
)

// Label returns the Korean display name of the tier.
func (t Tier) Label() string {
	switch t {
	case Metropolitan:
		return "수도권"
	case General:
		return "일반비수도권"
	case Priority:
		return "우대지원지역"
	case Special:
		return "특별지원지역"
	}
	return string(t)
}

// Tiers lists all tiers, metropolitan first.
var Tiers = []Tier{Metropolitan, General, Priority, Special}

var (
	MetropolitanRegions    = []string{"서울", "인천", "경기"}
	NonMetropolitanRegions = []string{"부산", "대구", "광주", "대전", "울산", "세종", "강원", "충북", "충남", "전북", "전남", "경북", "경남", "제주"}
)

var parenRe = regexp.MustCompile(`\s*\(.*?\)\s*`)

var tierAliases = map[string]Tier{
	"수도권":             Metropolitan,
	"metropolitan":    Metropolitan,
	"비수도권":            General,
	"일반비수도권":          General,
	"일반":              General,
	"general":         General,
	"nonmetropolitan": General,
	"우대지원지역":          Priority,
	"우대":              Priority,
	"priority":        Priority,
	"특별지원지역":          Special,
	"특별":              Special,
	"special":         Special,
}

// ParseTier maps a free-text region type ("우대지원지역 (44개 지역)", "special", ...) to a Tier.
func ParseTier(s string) (Tier, bool) {
	key := norm.NFC.String(strings.TrimSpace(s))
	key = parenRe.ReplaceAllString(key, "")
	key = strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key))
	if key == "" {
		return "", false
	}
	t, ok := tierAliases[key]
	return t, ok
}

// IsMetropolitan reports whether the profile is located in the capital area.
// An empty region counts as metropolitan, the tier with the lowest regional support.
func IsMetropolitan(p models.Profile) bool {
	r := norm.NFC.String(strings.TrimSpace(p.Region))
	if r == "" || r == "수도권" {
		return true
	}
	for _, m := range MetropolitanRegions {
		if strings.Contains(r, m) {
			return true
		}
	}
	t, ok := ParseTier(p.RegionType)
	return ok && t == Metropolitan
}

// Classify derives the support tier of a profile. Explicit flags win over the
// region-type text; special outranks priority.
func Classify(p models.Profile) Tier {
	if IsMetropolitan(p) {
		return Metropolitan
	}
	switch {
	case p.IsSpecialRegion:
		return Special
	case p.IsPriorityRegion:
		return Priority
	}
	if t, ok := ParseTier(p.RegionType); ok {
		return t
	}
	return General
}
