// Package industry normalizes free-text industry names into a fixed key set so
// eligibility rules can compare them without inline string heuristics.
package industry

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key is an enumerated industry class.
type Key string

const (
	Manufacturing    Key = "manufacturing"
	Construction     Key = "construction"
	Retail           Key = "retail"
	Hospitality      Key = "hospitality"
	ICT              Key = "ict"
	Professional     Key = "professional"
	BusinessServices Key = "business_services"
	Agriculture      Key = "agriculture"
	Care             Key = "care"
	Logistics        Key = "logistics"
	Entertainment    Key = "entertainment"
	Gambling         Key = "gambling"
	Other            Key = "other"
)

// Names is the industry option list offered to applicants.
var Names = []string{
	"제조업", "건설업", "도소매업", "숙박음식업", "정보통신업", "전문과학기술업", "사업서비스업",
	"농림어업", "요양/돌봄 서비스", "물류/배송", "기타",
}

// keywords are checked in order; the first match wins.
var keywords = []struct {
	key   Key
	terms []string
}{
	{Manufacturing, []string{"제조", "뿌리산업", "manufactur"}},
	{Construction, []string{"건설", "construction"}},
	{Retail, []string{"도소매", "도매", "소매", "retail", "wholesale"}},
	{Hospitality, []string{"숙박", "음식", "hospitality", "restaurant"}},
	{ICT, []string{"정보통신", "ict", "software"}},
	{Professional, []string{"전문과학", "과학기술", "professional"}},
	{BusinessServices, []string{"사업서비스", "사업지원", "businessservice"}},
	{Agriculture, []string{"농림", "농업", "임업", "어업", "agricultur", "fishery"}},
	{Care, []string{"요양", "돌봄", "보건", "사회복지", "care"}},
	{Logistics, []string{"물류", "배송", "운수", "창고", "logistic", "delivery"}},
	{Entertainment, []string{"유흥"}},
	{Gambling, []string{"도박", "사행", "gambling"}},
}

var parenRe = regexp.MustCompile(`\([^)]*\)`)

var stripper = strings.NewReplacer(" ", "", "/", "", "·", "", ",", "", "-", "", "_", "")

// Normalize folds an industry name for comparison: NFC, parentheticals removed,
// separators and spaces dropped, lower-cased.
func Normalize(name string) string {
	s := norm.NFC.String(name)
	s = parenRe.ReplaceAllString(s, "")
	return strings.ToLower(stripper.Replace(s))
}

// Classify maps an industry name to its Key, or Other.
func Classify(name string) Key {
	n := Normalize(name)
	if n == "" {
		return Other
	}
	for _, k := range keywords {
		for _, t := range k.terms {
			if strings.Contains(n, t) {
				return k.key
			}
		}
	}
	return Other
}

// Matches reports whether an applicant's industry falls under a target industry.
// Two names match when they classify to the same known key, or when one
// normalized name contains the other.
func Matches(applicant, target string) bool {
	a, t := Normalize(applicant), Normalize(target)
	if a == "" || t == "" {
		return false
	}
	if ka, kt := Classify(applicant), Classify(target); ka != Other && ka == kt {
		return true
	}
	return strings.Contains(a, t) || strings.Contains(t, a)
}

// Equal reports whether two industry names are the same after normalization.
func Equal(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na != "" && na == nb
}

// Excludes reports whether an applicant's industry falls under an excluded
// industry: equal after normalization, or the same known key.
func Excludes(applicant, exclusion string) bool {
	if Equal(applicant, exclusion) {
		return true
	}
	ka := Classify(applicant)
	return ka != Other && ka == Classify(exclusion)
}
