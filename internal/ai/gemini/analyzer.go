package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/ai"
	"github.com/spigell/career-coach/internal/cv"
	"github.com/spigell/career-coach/internal/utils"
)

type contentGenerator interface {
	Generate(ctx context.Context, system, message string, opts Options) (string, error)
}

//go:embed cv_analysis_prompt.md
var cvAnalysisTemplate string

const (
	defaultMaxLogLength = 200
	notProvided         = "Not provided"

	cvAnalysisSystem = "You are a professional CV advisor. Analyse the CV and return the result as JSON in the requested format. Reply with valid JSON only."
)

var cvAnalysisOptions = Options{Temperature: 0.3, MaxOutputTokens: 1200, JSON: true}

// Analyzer asks Gemini for a CV assessment. It implements ai.CVAnalyzer.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.CVAnalyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Analyze renders the CV into the analysis prompt and parses the model's JSON answer.
func (a *Analyzer) Analyze(ctx context.Context, record *cv.Record) (*cv.Assessment, error) {
	if a == nil || a.generator == nil {
		return nil, ai.Unavailable()
	}

	prompt := buildCVPrompt(record)

	a.logger.Debug("gemini cv analysis request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.Generate(ctx, cvAnalysisSystem, prompt, cvAnalysisOptions)
	if err != nil {
		return nil, ai.Upstream(err)
	}

	a.logger.Debug("gemini cv analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	assessment, err := parseAssessment(raw)
	if err != nil {
		return nil, ai.Malformed(raw, err)
	}

	return assessment, nil
}

func buildCVPrompt(record *cv.Record) string {
	template := cvAnalysisTemplate
	if strings.TrimSpace(template) == "" {
		template = "CV:\n{{CV}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{CV}}", renderCV(record))
}

func renderCV(record *cv.Record) string {
	if record == nil {
		record = &cv.Record{}
	}

	var b strings.Builder

	b.WriteString("Personal information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orNotProvided(record.PersonalInfo.Name))
	fmt.Fprintf(&b, "- Email: %s\n", orNotProvided(record.PersonalInfo.Email))
	fmt.Fprintf(&b, "- Phone: %s\n", orNotProvided(record.PersonalInfo.Phone))
	fmt.Fprintf(&b, "- Location: %s\n", orNotProvided(record.PersonalInfo.Location))

	b.WriteString("\nWork experience:\n")
	if len(record.Experiences) == 0 {
		b.WriteString("No work experience provided\n")
	}
	for _, exp := range record.Experiences {
		fmt.Fprintf(&b, "- %s at %s (%s)\n", orNotProvided(exp.JobTitle()), orNotProvided(exp.Company), orNotProvided(exp.Period()))
		fmt.Fprintf(&b, "  Description: %s\n", orDefault(exp.Description, "No description"))
	}

	b.WriteString("\nEducation:\n")
	if len(record.Education) == 0 {
		b.WriteString("No education provided\n")
	}
	for _, edu := range record.Education {
		fmt.Fprintf(&b, "- %s from %s (%s)\n", orNotProvided(edu.Degree), orNotProvided(edu.InstitutionName()), orNotProvided(edu.Period()))
		if edu.Description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", edu.Description)
		}
	}

	b.WriteString("\nSkills:\n")
	if len(record.Skills) == 0 {
		b.WriteString("No skills provided\n")
	} else {
		b.WriteString(strings.Join(record.Skills, ", "))
		b.WriteString("\n")
	}

	b.WriteString("\nProfile text:\n")
	b.WriteString(orDefault(record.ProfileText, "No profile text provided"))

	return b.String()
}

func orNotProvided(s string) string {
	return orDefault(s, notProvided)
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

// parseAssessment decodes the model output. overall_score, strengths and
// improvements are required; the score must be within (0,100].
func parseAssessment(raw string) (*cv.Assessment, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("no json object in response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	for _, key := range []string{"overall_score", "strengths", "improvements"} {
		if data[key] == nil {
			return nil, fmt.Errorf("invalid response structure: missing required field %q", key)
		}
	}

	var assessment cv.Assessment
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &assessment,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	if assessment.OverallScore <= cv.MinScore || assessment.OverallScore > cv.MaxScore {
		return nil, fmt.Errorf("overall_score %d is out of range", assessment.OverallScore)
	}

	assessment.Normalize()
	assessment.Source = cv.SourceAI

	return &assessment, nil
}

// extractJSON strips markdown fences and any prose around the outermost JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
