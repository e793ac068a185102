package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/career-coach/internal/ai"
	"github.com/spigell/career-coach/internal/cv"
)

type stubGenerator struct {
	response string
	err      error

	calls   int
	system  string
	message string
	opts    Options
}

func (s *stubGenerator) Generate(_ context.Context, system, message string, opts Options) (string, error) {
	s.calls++
	s.system = system
	s.message = message
	s.opts = opts
	return s.response, s.err
}

const validAssessmentJSON = `{
  "overall_score": 82,
  "strengths": ["Clear structure"],
  "improvements": ["Quantify results"],
  "specific_suggestions": {
    "profile_text": "Shorten the profile",
    "skills_to_add": ["SQL"],
    "experience_improvements": [{"position": "Developer", "suggestion": "Add numbers"}]
  },
  "optimized_profile": "Experienced developer"
}`

func sampleRecord() *cv.Record {
	return &cv.Record{
		PersonalInfo: cv.PersonalInfo{Name: "Mette Hansen", Email: "mette@example.dk"},
		Experiences: []cv.Experience{
			{Position: "Developer", Company: "Acme", StartDate: "2020", EndDate: "2023", Description: "Built services"},
		},
		Education: []cv.Education{{Degree: "BSc", School: "DTU", Year: "2019"}},
		Skills:    []string{"Go", "SQL"},
	}
}

func TestAnalyzerReturnsParsedAssessment(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + validAssessmentJSON + "\n```"}
	analyzer := NewAnalyzer(gen, 0, zap.NewNop())

	got, err := analyzer.Analyze(context.Background(), sampleRecord())
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if got.OverallScore != 82 {
		t.Fatalf("expected score 82, got %d", got.OverallScore)
	}
	if got.Source != cv.SourceAI {
		t.Fatalf("expected source %q, got %q", cv.SourceAI, got.Source)
	}
	if len(got.SpecificSuggestions.ExperienceImprovements) != 1 || got.SpecificSuggestions.ExperienceImprovements[0].Position != "Developer" {
		t.Fatalf("unexpected experience improvements: %+v", got.SpecificSuggestions.ExperienceImprovements)
	}
	if got.SpecificSuggestions.SkillsToRemove == nil {
		t.Fatal("expected missing skills_to_remove to be normalised to an empty slice")
	}

	if gen.system != cvAnalysisSystem {
		t.Fatalf("unexpected system instruction: %q", gen.system)
	}
	if gen.opts != cvAnalysisOptions {
		t.Fatalf("unexpected options: %+v", gen.opts)
	}
	for _, want := range []string{"Mette Hansen", "Developer at Acme (2020 - 2023)", "BSc from DTU (2019)", "Go, SQL", "Phone: Not provided"} {
		if !strings.Contains(gen.message, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, gen.message)
		}
	}
}

func TestAnalyzerFailures(t *testing.T) {
	cases := []struct {
		name     string
		response string
		err      error
		kind     ai.FailureKind
	}{
		{name: "generator error", err: errors.New("boom"), kind: ai.FailureUpstream},
		{name: "not json", response: "I cannot help with that", kind: ai.FailureMalformed},
		{name: "broken json", response: `{"overall_score": 70,`, kind: ai.FailureMalformed},
		{name: "missing score", response: `{"strengths": [], "improvements": []}`, kind: ai.FailureMalformed},
		{name: "zero score", response: `{"overall_score": 0, "strengths": [], "improvements": []}`, kind: ai.FailureMalformed},
		{name: "score above range", response: `{"overall_score": 140, "strengths": [], "improvements": []}`, kind: ai.FailureMalformed},
		{name: "missing improvements", response: `{"overall_score": 70, "strengths": ["a"]}`, kind: ai.FailureMalformed},
		{name: "null strengths", response: `{"overall_score": 70, "strengths": null, "improvements": []}`, kind: ai.FailureMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := NewAnalyzer(&stubGenerator{response: tc.response, err: tc.err}, 0, nil)

			got, err := analyzer.Analyze(context.Background(), sampleRecord())
			if got != nil {
				t.Fatalf("expected nil assessment, got %+v", got)
			}

			var failure *ai.Failure
			if !errors.As(err, &failure) {
				t.Fatalf("expected *ai.Failure, got %T (%v)", err, err)
			}
			if failure.Kind != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, failure.Kind)
			}
			if tc.kind == ai.FailureMalformed && failure.Raw != tc.response {
				t.Fatalf("expected raw response to be kept, got %q", failure.Raw)
			}
		})
	}
}

func TestAnalyzerNilIsUnavailable(t *testing.T) {
	var analyzer *Analyzer

	_, err := analyzer.Analyze(context.Background(), sampleRecord())

	var failure *ai.Failure
	if !errors.As(err, &failure) || failure.Kind != ai.FailureUnavailable {
		t.Fatalf("expected unavailable failure, got %v", err)
	}
}

func TestAnalyzerLogsTruncatedPreview(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gen := &stubGenerator{response: validAssessmentJSON}
	analyzer := NewAnalyzer(gen, 10, zap.New(core))

	if _, err := analyzer.Analyze(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	entries := logs.FilterMessage("gemini cv analysis response").All()
	if len(entries) != 1 {
		t.Fatalf("expected one response log entry, got %d", len(entries))
	}
	preview, ok := entries[0].ContextMap()["response_preview"].(string)
	if !ok {
		t.Fatalf("response_preview missing: %v", entries[0].ContextMap())
	}
	if preview != validAssessmentJSON[:10]+"..." {
		t.Fatalf("unexpected preview %q", preview)
	}
}

func TestParseAssessmentWeakTypes(t *testing.T) {
	got, err := parseAssessment(`Here you go: {"overall_score": "75", "strengths": "Good layout", "improvements": ["More detail"]} Thanks!`)
	if err != nil {
		t.Fatalf("parseAssessment returned error: %v", err)
	}
	if got.OverallScore != 75 {
		t.Fatalf("expected score 75, got %d", got.OverallScore)
	}
	if len(got.Strengths) != 1 || got.Strengths[0] != "Good layout" {
		t.Fatalf("expected single strength to become a slice, got %v", got.Strengths)
	}
}

func TestRenderCVEmptyRecord(t *testing.T) {
	text := renderCV(nil)

	for _, want := range []string{"Name: Not provided", "No work experience provided", "No education provided", "No skills provided", "No profile text provided"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in rendered CV:\n%s", want, text)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"prefix {\"a\":{}} tail": `{"a":{}}`,
		"no object":              "",
	}

	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
