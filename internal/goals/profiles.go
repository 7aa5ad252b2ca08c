package goals

import "strings"

// Type identifies a goal horizon category.
type Type string

// Goal horizon categories.
const (
	TypeShort Type = "short"
	TypeMid   Type = "mid"
	TypeLong  Type = "long"
)

// Profile is the static description of a goal type.
type Profile struct {
	Type                 Type     `json:"-" yaml:"type"`
	Name                 string   `json:"name" yaml:"name"`
	Description          string   `json:"description" yaml:"description"`
	TypicalMonths        int      `json:"typical_months" yaml:"typical_months"`
	RecommendedReturn    float64  `json:"recommended_return" yaml:"recommended_return"`
	RiskLevel            string   `json:"risk_level" yaml:"risk_level"`
	SuggestedInvestments []string `json:"suggested_investments" yaml:"suggested_investments"`
}

var profiles = map[Type]Profile{
	TypeShort: {
		Type:              TypeShort,
		Name:              "Short-term Goal",
		Description:       "Goals under 1 year - Emergency fund, vacation, small purchases",
		TypicalMonths:     12,
		RecommendedReturn: 4.0,
		RiskLevel:         "Low",
		SuggestedInvestments: []string{
			"High-yield savings account",
			"Money market fund",
			"Short-term CDs",
		},
	},
	TypeMid: {
		Type:              TypeMid,
		Name:              "Mid-term Goal",
		Description:       "Goals 1-5 years - Car purchase, home down payment, education",
		TypicalMonths:     36,
		RecommendedReturn: 6.0,
		RiskLevel:         "Moderate",
		SuggestedInvestments: []string{
			"Bond funds",
			"Balanced funds",
			"Certificate of deposits",
		},
	},
	TypeLong: {
		Type:              TypeLong,
		Name:              "Long-term Goal",
		Description:       "Goals 5+ years - Retirement, children education, wealth building",
		TypicalMonths:     120,
		RecommendedReturn: 10.0,
		RiskLevel:         "Higher",
		SuggestedInvestments: []string{
			"Stock index funds",
			"Diversified equity funds",
			"Real estate",
		},
	},
}

// ParseType maps free-form input onto a goal type. Anything unrecognised is mid.
func ParseType(value string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := profiles[t]; ok {
		return t
	}
	return TypeMid
}

// LookupProfile returns the profile for a goal type name, falling back to mid.
// The returned profile is a copy and may be modified freely.
func LookupProfile(goalType string) Profile {
	p := profiles[ParseType(goalType)]
	p.SuggestedInvestments = append([]string(nil), p.SuggestedInvestments...)
	return p
}

// Profiles lists every goal type profile from shortest to longest horizon.
func Profiles() []Profile {
	return []Profile{
		LookupProfile(string(TypeShort)),
		LookupProfile(string(TypeMid)),
		LookupProfile(string(TypeLong)),
	}
}
