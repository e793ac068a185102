package cv

// Source tells which path produced an assessment.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Assessment is the completeness/quality evaluation of a CV. Field names
// follow the JSON contract shared by the AI service and the fallback scorer.
type Assessment struct {
	OverallScore        int                 `json:"overall_score" mapstructure:"overall_score"`
	Strengths           []string            `json:"strengths" mapstructure:"strengths"`
	Improvements        []string            `json:"improvements" mapstructure:"improvements"`
	SpecificSuggestions SpecificSuggestions `json:"specific_suggestions" mapstructure:"specific_suggestions"`
	OptimizedProfile    string              `json:"optimized_profile" mapstructure:"optimized_profile"`
	Source              Source              `json:"source" mapstructure:"-"`
}

type SpecificSuggestions struct {
	ProfileText            string                  `json:"profile_text" mapstructure:"profile_text"`
	SkillsToAdd            []string                `json:"skills_to_add" mapstructure:"skills_to_add"`
	SkillsToRemove         []string                `json:"skills_to_remove" mapstructure:"skills_to_remove"`
	ExperienceImprovements []ExperienceImprovement `json:"experience_improvements" mapstructure:"experience_improvements"`
}

type ExperienceImprovement struct {
	Position   string `json:"position" mapstructure:"position"`
	Suggestion string `json:"suggestion" mapstructure:"suggestion"`
}

// Normalize replaces nil slices with empty ones so the assessment always
// encodes arrays, and clamps the score to [0,100].
func (a *Assessment) Normalize() {
	if a == nil {
		return
	}

	a.OverallScore = clampScore(a.OverallScore)
	a.Strengths = nonNil(a.Strengths)
	a.Improvements = nonNil(a.Improvements)
	a.SpecificSuggestions.SkillsToAdd = nonNil(a.SpecificSuggestions.SkillsToAdd)
	a.SpecificSuggestions.SkillsToRemove = nonNil(a.SpecificSuggestions.SkillsToRemove)
	if a.SpecificSuggestions.ExperienceImprovements == nil {
		a.SpecificSuggestions.ExperienceImprovements = []ExperienceImprovement{}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clampScore(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
