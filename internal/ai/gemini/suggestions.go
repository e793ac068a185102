package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/ai"
	"github.com/spigell/career-coach/internal/utils"
)

const (
	maxContextFieldRunes = 300
	maxAchievements      = 4
	minAchievementRunes  = 10
)

var (
	// ErrEmptyPrompt is returned when a suggestion request has no prompt.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrUnknownSection is returned for sections without a prompt profile.
	ErrUnknownSection = errors.New("unknown cv section")

	bulletPrefix = regexp.MustCompile(`^(?:[•*-]|\d+[.)])\s*`)
)

const suggestionGuidelines = `
Guidelines:
- Write professional, concise language
- Adapt to the Danish job market and its recruitment expectations
- Be specific and avoid clichés and filler words`

type contextField struct {
	key   string
	label string
}

type sectionProfile struct {
	system string
	opts   Options
	fields []contextField
	// achievements enables splitting the answer into result bullet points.
	achievements bool
}

var industryField = contextField{key: "industry", label: "Industry"}

var sectionProfiles = map[ai.Section]sectionProfile{
	ai.SectionExperience: {
		system: "You are a professional career advisor. Help write professional CV job descriptions and achievements. Focus on concrete, measurable results and use active verbs." + suggestionGuidelines,
		opts:   Options{Temperature: 0.7, MaxOutputTokens: 300},
		fields: []contextField{
			{key: "jobTitle", label: "Job title"},
			{key: "company", label: "Company"},
			industryField,
		},
		achievements: true,
	},
	ai.SectionEducation: {
		system: "You are a professional career advisor. Help write relevant education descriptions. Highlight practical skills, projects and theses that employers value, and avoid academic jargon." + suggestionGuidelines,
		opts:   Options{Temperature: 0.6, MaxOutputTokens: 200},
		fields: []contextField{
			{key: "degree", label: "Degree"},
			{key: "school", label: "School"},
			{key: "field", label: "Field of study"},
			{key: "type", label: "Education type"},
			industryField,
		},
	},
	ai.SectionSkills: {
		system: "You are a CV assistant. Suggest relevant, modern skills that are in demand. Reply with a short comma-separated list of skills and nothing else, without numbers or bullets." + suggestionGuidelines,
		opts:   Options{Temperature: 0.4, MaxOutputTokens: 150},
		fields: []contextField{
			{key: "category", label: "Category"},
			industryField,
			{key: "existingSkills", label: "Existing skills"},
		},
	},
	ai.SectionProfile: {
		system: "You are a CV expert. Write personal, engaging and professional CV profile texts. Highlight value creation, unique strengths and motivation." + suggestionGuidelines,
		opts:   Options{Temperature: 0.7, MaxOutputTokens: 300},
		fields: []contextField{
			{key: "promptType", label: "Profile type"},
			industryField,
		},
	},
	ai.SectionProject: {
		system: "You are a professional career advisor with expertise in project descriptions. Focus on measurable results, technical solutions and business value, using numbers where possible." + suggestionGuidelines,
		opts:   Options{Temperature: 0.6, MaxOutputTokens: 250},
		fields: []contextField{
			{key: "projectName", label: "Project name"},
			{key: "projectType", label: "Project type"},
			{key: "technologies", label: "Technologies"},
			industryField,
		},
	},
}

// achievementKeywords mark prompts asking for results rather than a description.
var achievementKeywords = []string{"achievement", "result", "præstation", "resultater"}

// Suggester writes CV section texts. It implements ai.SectionSuggester.
type Suggester struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.SectionSuggester = (*Suggester)(nil)

func NewSuggester(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Suggester {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Suggester{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (s *Suggester) Suggest(ctx context.Context, req ai.SuggestionRequest) (*ai.Suggestion, error) {
	if s == nil || s.generator == nil {
		return nil, ai.Unavailable()
	}

	profile, ok := sectionProfiles[req.Section]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, req.Section)
	}

	message, err := buildSuggestionMessage(profile, req)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("cv_section", string(req.Section)))
	log.Debug("gemini suggestion request",
		zap.String("prompt_preview", utils.TruncateForLog(message, s.maxLogLen)),
	)

	raw, err := s.generator.Generate(ctx, profile.system, message, profile.opts)
	if err != nil {
		return nil, ai.Upstream(err)
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ai.Malformed(raw, errors.New("empty suggestion"))
	}

	log.Debug("gemini suggestion response",
		zap.String("response_preview", utils.TruncateForLog(text, s.maxLogLen)),
	)

	suggestion := &ai.Suggestion{Text: text}
	if profile.achievements && asksForAchievements(req.Prompt) {
		suggestion.Achievements = extractAchievements(text)
	}

	return suggestion, nil
}

func buildSuggestionMessage(profile sectionProfile, req ai.SuggestionRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	var b strings.Builder
	b.WriteString(prompt)

	for _, field := range profile.fields {
		if value := sanitizeLine(req.Context[field.key]); value != "" {
			fmt.Fprintf(&b, "\n%s: %s", field.label, value)
		}
	}

	return b.String(), nil
}

func asksForAchievements(prompt string) bool {
	prompt = strings.ToLower(prompt)
	for _, keyword := range achievementKeywords {
		if strings.Contains(prompt, keyword) {
			return true
		}
	}
	return false
}

// extractAchievements splits the answer into at most maxAchievements bullet points.
func extractAchievements(text string) []string {
	achievements := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if utf8.RuneCountInString(line) <= minAchievementRunes {
			continue
		}
		achievements = append(achievements, line)
		if len(achievements) == maxAchievements {
			break
		}
	}
	return achievements
}

// sanitizeLine collapses whitespace so context fields cannot inject extra
// prompt lines, and caps their length.
func sanitizeLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxContextFieldRunes {
		return s
	}
	return string([]rune(s)[:maxContextFieldRunes])
}
