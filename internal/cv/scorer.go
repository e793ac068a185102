package cv

const (
	MinScore = 0
	MaxScore = 100

	baseScore       = 50
	experienceBonus = 15
	educationBonus  = 10
	skillsBonus     = 15
	profileBonus    = 10
)

const (
	strengthExperience = "Solid work experience showing progression"
	strengthStructure  = "Basic CV structure is in place"
	strengthSkills     = "Good selection of relevant skills"
	strengthContact    = "Contact information is complete"
	strengthProfile    = "Profile text makes a good impression"
	strengthEducation  = "Clear presentation of education"

	improveAddProfile    = "Add a compelling profile text"
	improveRefineProfile = "Make the profile text more specific"
	improveAddExperience = "Add work experience"
	improveMeasurable    = "Add more measurable results to your work experience"
	improveAddSkills     = "Add relevant skills"
	improveUpdateSkills  = "Consider updating the skill list"
	improveATS           = "Optimize the CV for ATS systems"
	suggestRefineProfile = "Make the profile text more concrete with specific examples of your results"
	suggestWriteProfile  = "Write a profile text that highlights your main strengths"
	positionMostRecent   = "Most recent position"
	positionGeneral      = "General"
	suggestAddNumbers    = "Add concrete numbers and results to show your impact"
	suggestAddExperience = "Add work experience or volunteer work"
	optimizedExperienced = "Experienced professional with documented results in your field. Specialised in delivering concrete solutions and driving positive change."
	optimizedEntryLevel  = "Motivated candidate with a solid educational background and a strong desire to learn. Ready to contribute positively to your team."
)

// DefaultSkillsToAdd is the fixed skill suggestion set used by the fallback.
// It is not personalised; only the AI path tailors skill suggestions.
var DefaultSkillsToAdd = []string{"Project management", "Data analysis", "Problem solving", "Teamwork"}

// Score computes the rule-based completeness assessment of r. It is total
// over its input: a nil or empty record is valid and scores the base score.
func Score(r *Record) *Assessment {
	c := r.Completeness()

	a := &Assessment{
		OverallScore: c.Score(),
		Strengths: collect(
			pick(c.HasExperience, strengthExperience, strengthStructure),
			pick(c.HasSkills, strengthSkills, strengthContact),
			pick(c.HasProfile, strengthProfile, strengthEducation),
		),
		Improvements: collect(
			pick(c.HasProfile, improveRefineProfile, improveAddProfile),
			pick(c.HasExperience, improveMeasurable, improveAddExperience),
			pick(c.HasSkills, improveUpdateSkills, improveAddSkills),
			improveATS,
		),
		SpecificSuggestions: SpecificSuggestions{
			ProfileText:    pick(c.HasProfile, suggestRefineProfile, suggestWriteProfile),
			SkillsToAdd:    append([]string(nil), DefaultSkillsToAdd...),
			SkillsToRemove: []string{},
			ExperienceImprovements: []ExperienceImprovement{
				pickImprovement(c.HasExperience),
			},
		},
		OptimizedProfile: pick(c.HasProfile, optimizedExperienced, optimizedEntryLevel),
		Source:           SourceFallback,
	}

	return a
}

// Score returns the additive completeness score, clamped to [MinScore, MaxScore].
func (c Completeness) Score() int {
	score := baseScore
	if c.HasExperience {
		score += experienceBonus
	}
	if c.HasEducation {
		score += educationBonus
	}
	if c.HasSkills {
		score += skillsBonus
	}
	if c.HasProfile {
		score += profileBonus
	}
	return clampScore(score)
}

func pickImprovement(hasExperience bool) ExperienceImprovement {
	if hasExperience {
		return ExperienceImprovement{Position: positionMostRecent, Suggestion: suggestAddNumbers}
	}
	return ExperienceImprovement{Position: positionGeneral, Suggestion: suggestAddExperience}
}

func pick(cond bool, whenTrue, whenFalse string) string {
	if cond {
		return whenTrue
	}
	return whenFalse
}

// collect keeps the non-empty candidates in their original order. Every
// current rule yields text, but a rule may be conditionally empty.
func collect(candidates ...string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
