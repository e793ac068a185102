// Package analysis produces CV assessments, preferring the AI service and
// recovering with the rule-based scorer.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/ai"
	"github.com/spigell/career-coach/internal/cv"
	"github.com/spigell/career-coach/internal/logger"
	"github.com/spigell/career-coach/internal/utils"
)

const (
	DefaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 200
)

var errEmptyAssessment = errors.New("analyzer returned no assessment")

type Config struct {
	// Timeout bounds a single AI call. Zero means DefaultTimeout.
	Timeout      time.Duration
	MaxLogLength int
}

// Service runs CV analysis. A nil analyzer means the fallback is always used.
type Service struct {
	analyzer  ai.CVAnalyzer
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

func NewService(analyzer ai.CVAnalyzer, cfg Config, log *zap.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &Service{
		analyzer:  analyzer,
		timeout:   cfg.Timeout,
		maxLogLen: cfg.MaxLogLength,
		logger:    logger.WithFields(log),
	}
}

// AIEnabled reports whether an AI analyzer is configured.
func (s *Service) AIEnabled() bool {
	return s != nil && s.analyzer != nil
}

// Analyze returns the AI assessment of record, or the rule-based one when the
// AI path fails for any reason. It never returns nil.
func (s *Service) Analyze(ctx context.Context, record *cv.Record) *cv.Assessment {
	log := zap.NewNop()
	if s != nil {
		log = s.logger
	}

	assessment, err := s.analyzeWithAI(ctx, record)
	if err != nil {
		failure := ai.AsFailure(err)
		fields := []zap.Field{zap.String("failure_kind", string(failure.Kind)), zap.Error(failure)}
		if failure.Raw != "" {
			fields = append(fields, zap.String("raw_preview", utils.TruncateForLog(failure.Raw, s.logLimit())))
		}
		if failure.Kind == ai.FailureUnavailable {
			log.Debug("ai analysis unavailable, using fallback scorer", fields...)
		} else {
			log.Warn("ai analysis failed, using fallback scorer", fields...)
		}

		assessment = cv.Score(record)
	}

	completeness := record.Completeness()
	log.Info("cv analysis completed",
		zap.String(logger.FieldSource, string(assessment.Source)),
		zap.Int("overall_score", assessment.OverallScore),
		zap.Int("strengths", len(assessment.Strengths)),
		zap.Int("improvements", len(assessment.Improvements)),
		zap.Bool("has_experience", completeness.HasExperience),
		zap.Bool("has_education", completeness.HasEducation),
		zap.Bool("has_skills", completeness.HasSkills),
		zap.Bool("has_profile", completeness.HasProfile),
	)

	if ce := log.Check(zap.DebugLevel, "cv analysis result"); ce != nil {
		// do not bother error since the assessment is always encodable
		pretty, _ := json.Marshal(assessment)
		ce.Write(zap.String("result", utils.TruncateForLog(string(pretty), s.logLimit())))
	}

	return assessment
}

func (s *Service) analyzeWithAI(ctx context.Context, record *cv.Record) (*cv.Assessment, error) {
	if !s.AIEnabled() {
		return nil, ai.Unavailable()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	assessment, err := s.analyzer.Analyze(ctx, record)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ai.Malformed("", errEmptyAssessment)
	}

	assessment.Normalize()
	assessment.Source = cv.SourceAI

	return assessment, nil
}

func (s *Service) logLimit() int {
	if s == nil || s.maxLogLen <= 0 {
		return defaultMaxLogLength
	}
	return s.maxLogLen
}
