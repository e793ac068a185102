// Package cv holds the CV data model, the rule-based completeness scorer and
// the CV template catalogue.
package cv

import "unicode/utf8"

// minProfileLength is the number of characters a profile text must exceed to count as present.
// Characters are Unicode code points (runes), not UTF-16 units or bytes.
const minProfileLength = 50

// Record is a CV as submitted by the CV builder.
type Record struct {
	PersonalInfo PersonalInfo `json:"personalInfo" mapstructure:"personalInfo"`
	Experiences  []Experience `json:"experiences" mapstructure:"experiences"`
	Education    []Education  `json:"education" mapstructure:"education"`
	Skills       []string     `json:"skills" mapstructure:"skills"`
	ProfileText  string       `json:"profileText" mapstructure:"profileText"`
}

type PersonalInfo struct {
	Name     string `json:"name,omitempty" mapstructure:"name"`
	Email    string `json:"email,omitempty" mapstructure:"email"`
	Phone    string `json:"phone,omitempty" mapstructure:"phone"`
	Location string `json:"location,omitempty" mapstructure:"location"`
}

// Experience is a single work experience entry. Position, StartDate and
// EndDate are alternative spellings some clients send instead of Title and
// Duration.
type Experience struct {
	Title       string `json:"title,omitempty" mapstructure:"title"`
	Position    string `json:"position,omitempty" mapstructure:"position"`
	Company     string `json:"company,omitempty" mapstructure:"company"`
	Duration    string `json:"duration,omitempty" mapstructure:"duration"`
	StartDate   string `json:"startDate,omitempty" mapstructure:"startDate"`
	EndDate     string `json:"endDate,omitempty" mapstructure:"endDate"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// Education is a single education entry. School is an alias of Institution.
type Education struct {
	Degree      string `json:"degree,omitempty" mapstructure:"degree"`
	Institution string `json:"institution,omitempty" mapstructure:"institution"`
	School      string `json:"school,omitempty" mapstructure:"school"`
	Year        string `json:"year,omitempty" mapstructure:"year"`
	StartDate   string `json:"startDate,omitempty" mapstructure:"startDate"`
	EndDate     string `json:"endDate,omitempty" mapstructure:"endDate"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// JobTitle returns Title, falling back to Position.
func (e Experience) JobTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Position
}

// Period returns Duration, or "start - end" when only dates are set.
func (e Experience) Period() string {
	if e.Duration != "" {
		return e.Duration
	}
	return period(e.StartDate, e.EndDate)
}

// InstitutionName returns Institution, falling back to School.
func (e Education) InstitutionName() string {
	if e.Institution != "" {
		return e.Institution
	}
	return e.School
}

// Period returns Year, or "start - end" when only dates are set.
func (e Education) Period() string {
	if e.Year != "" {
		return e.Year
	}
	return period(e.StartDate, e.EndDate)
}

func period(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " -"
	default:
		return start + " - " + end
	}
}

// Completeness holds the presence predicates the scorer works from.
// They test presence only, never quality.
type Completeness struct {
	HasExperience bool
	HasEducation  bool
	HasSkills     bool
	HasProfile    bool
}

// Completeness evaluates the presence predicates. A nil record has none.
func (r *Record) Completeness() Completeness {
	if r == nil {
		return Completeness{}
	}

	return Completeness{
		HasExperience: len(r.Experiences) > 0,
		HasEducation:  len(r.Education) > 0,
		HasSkills:     len(r.Skills) > 0,
		HasProfile:    utf8.RuneCountInString(r.ProfileText) > minProfileLength,
	}
}
