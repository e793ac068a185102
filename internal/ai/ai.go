// Package ai defines the contracts of the language-model collaborators.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/career-coach/internal/cv"
)

// CVAnalyzer produces an AI assessment of a CV. Every error it returns is a
// *Failure so callers can decide to recover with the rule-based scorer.
type CVAnalyzer interface {
	Analyze(ctx context.Context, record *cv.Record) (*cv.Assessment, error)
}

// Section is a CV builder section the AI can write text for.
type Section string

const (
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
	SectionProfile    Section = "profile"
	SectionProject    Section = "project"
)

// Sections lists the sections in the order their routes are registered.
var Sections = []Section{SectionExperience, SectionEducation, SectionSkills, SectionProfile, SectionProject}

// SuggestionRequest is the input of a section text suggestion. Context holds
// the optional section fields (job title, degree, industry and so on) keyed
// by their request name.
type SuggestionRequest struct {
	Section Section
	Prompt  string
	Context map[string]string
}

// Suggestion is generated CV text. Achievements is set for experience
// suggestions asking for results.
type Suggestion struct {
	Text         string
	Achievements []string
}

// SectionSuggester writes text for a CV builder section.
type SectionSuggester interface {
	Suggest(ctx context.Context, req SuggestionRequest) (*Suggestion, error)
}

// Pinger reports whether the AI service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FailureKind classifies why the AI path did not produce a result.
type FailureKind string

const (
	// FailureUnavailable means no AI client is configured.
	FailureUnavailable FailureKind = "unavailable"
	// FailureUpstream covers transport, auth, quota and timeout errors.
	FailureUpstream FailureKind = "upstream"
	// FailureMalformed means the service answered but the payload is unusable.
	FailureMalformed FailureKind = "malformed"
)

// ErrNotConfigured is the cause of FailureUnavailable failures.
var ErrNotConfigured = errors.New("ai service is not configured")

// Failure is the error side of an AI call.
type Failure struct {
	Kind FailureKind
	// Raw is the unusable response text, set for FailureMalformed.
	Raw string
	Err error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("ai %s", f.Kind)
	}
	return fmt.Sprintf("ai %s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Unavailable returns a FailureUnavailable failure.
func Unavailable() *Failure {
	return &Failure{Kind: FailureUnavailable, Err: ErrNotConfigured}
}

// Upstream wraps err as a FailureUpstream failure.
func Upstream(err error) *Failure {
	return &Failure{Kind: FailureUpstream, Err: err}
}

// Malformed wraps err as a FailureMalformed failure carrying the raw response.
func Malformed(raw string, err error) *Failure {
	return &Failure{Kind: FailureMalformed, Raw: raw, Err: err}
}

// AsFailure extracts a *Failure from err. Errors that are not failures are
// reported as upstream failures.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Upstream(err)
}
