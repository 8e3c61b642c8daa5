package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"
	"subsidyopt/internal/models"

	json "github.com/goccy/go-json"
)

// compactProfile holds only non-identifying fields for the profile code.
// Company name and business number never leave the client this way.
type compactProfile struct {
	ApplicantType    models.ApplicantType `json:"a,omitempty"`
	Region           string               `json:"r,omitempty"`
	RegionType       string               `json:"rt,omitempty"`
	SpecialRegion    bool                 `json:"sr,omitempty"`
	PriorityRegion   bool                 `json:"pr,omitempty"`
	Industry         string               `json:"i,omitempty"`
	CompanySize      string               `json:"cs,omitempty"`
	Total            int                  `json:"t,omitempty"`
	Youth            int                  `json:"y,omitempty"`
	Senior           int                  `json:"s,omitempty"`
	MiddleAged       int                  `json:"m,omitempty"`
	Disabled         int                  `json:"d,omitempty"`
	SevereDisabled   int                  `json:"sd,omitempty"`
	NonRegular       int                  `json:"nr,omitempty"`
	Conversions      int                  `json:"rc,omitempty"`
	Childcare        int                  `json:"c,omitempty"`
	AvgWage          int64                `json:"w,omitempty"`
	WageIncrease     int64                `json:"wi,omitempty"`
	RetirementAge    bool                 `json:"ra,omitempty"`
	ExceedsQuota     bool                 `json:"eq,omitempty"`
	MeetsQuota       bool                 `json:"mq,omitempty"`
	HasSevere        bool                 `json:"hs,omitempty"`
	Difficulty       bool                 `json:"bd,omitempty"`
	HiringUnemployed bool                 `json:"hu,omitempty"`
	Income           bool                 `json:"ir,omitempty"`
	TargetWorkers    bool                 `json:"tw,omitempty"`
	Training         *bool                `json:"tc,omitempty"`
}

func toCompact(p models.Profile) compactProfile {
	return compactProfile{
		ApplicantType: p.ApplicantType, Region: p.Region, RegionType: p.RegionType,
		SpecialRegion: p.IsSpecialRegion, PriorityRegion: p.IsPriorityRegion,
		Industry: p.Industry, CompanySize: p.CompanySize,
		Total: p.TotalEmployees, Youth: p.YouthEmployees, Senior: p.SeniorEmployees,
		MiddleAged: p.MiddleAgedEmployees, Disabled: p.DisabledEmployees,
		SevereDisabled: p.SevereDisabledEmployees, NonRegular: p.NonRegularEmployees,
		Conversions: p.RegularConversions, Childcare: p.ChildcareWorkers,
		AvgWage: p.AvgWage, WageIncrease: p.WageIncrease,
		RetirementAge: p.HasRetirementAge, ExceedsQuota: p.ExceedsDisabilityQuota,
		MeetsQuota: p.MeetsDisabilityQuota, HasSevere: p.HasSevereDisabled,
		Difficulty: p.HasBusinessDifficulty, HiringUnemployed: p.HiringUnemployed,
		Income: p.MeetsIncomeRequirement, TargetWorkers: p.HasTargetWorkers,
		Training: p.HasTrainingCertificate,
	}
}

func fromCompact(c compactProfile) models.Profile {
	return models.Profile{
		ApplicantType: c.ApplicantType, Region: c.Region, RegionType: c.RegionType,
		IsSpecialRegion: c.SpecialRegion, IsPriorityRegion: c.PriorityRegion,
		Industry: c.Industry, CompanySize: c.CompanySize,
		TotalEmployees: c.Total, YouthEmployees: c.Youth, SeniorEmployees: c.Senior,
		MiddleAgedEmployees: c.MiddleAged, DisabledEmployees: c.Disabled,
		SevereDisabledEmployees: c.SevereDisabled, NonRegularEmployees: c.NonRegular,
		RegularConversions: c.Conversions, ChildcareWorkers: c.Childcare,
		AvgWage: c.AvgWage, WageIncrease: c.WageIncrease,
		HasRetirementAge: c.RetirementAge, ExceedsDisabilityQuota: c.ExceedsQuota,
		MeetsDisabilityQuota: c.MeetsQuota, HasSevereDisabled: c.HasSevere,
		HasBusinessDifficulty: c.Difficulty, HiringUnemployed: c.HiringUnemployed,
		MeetsIncomeRequirement: c.Income, HasTargetWorkers: c.TargetWorkers,
		HasTrainingCertificate: c.Training,
	}
}

const (
	codePrefix    = "ESO-"
	maxCodeLength = 512
)

// EncodeProfileCode returns the shareable code of p.
func EncodeProfileCode(p models.Profile) (string, error) {
	data, err := json.Marshal(toCompact(p))
	if err != nil {
		return "", err
	}
	return codePrefix + base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeProfileCode reverses EncodeProfileCode. The message is user-facing.
func DecodeProfileCode(code string) (models.Profile, string, bool) {
	if !strings.HasPrefix(code, codePrefix) {
		return models.Profile{}, "유효하지 않은 코드입니다", false
	}
	if len(code) > maxCodeLength {
		return models.Profile{}, "코드가 너무 깁니다", false
	}
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(code, codePrefix))
	if err != nil {
		return models.Profile{}, "손상된 코드입니다", false
	}
	var c compactProfile
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Profile{}, "해석할 수 없는 코드입니다", false
	}
	p := fromCompact(c)
	if msg, ok := validateProfile(p); !ok {
		return models.Profile{}, msg, false
	}
	return p, "", true
}

// EncodeProfile encodes the posted profile into a shareable code.
func (h *Handler) EncodeProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := decodeProfile(w, r)
	if !ok {
		return
	}
	code, err := EncodeProfileCode(profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "코드 생성에 실패했습니다")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

// DecodeProfile decodes ?code= back to a profile.
func (h *Handler) DecodeProfile(w http.ResponseWriter, r *http.Request) {
	p, msg, ok := DecodeProfileCode(r.URL.Query().Get("code"))
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, p)
}
