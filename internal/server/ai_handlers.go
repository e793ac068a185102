package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/ai"
	"github.com/spigell/career-coach/internal/cv"
)

type cvAnalysisRequest struct {
	CVData json.RawMessage `json:"cvData"`
}

// cvAnalysis answers 200 with an assessment for any request carrying a cvData object.
func (h *handler) cvAnalysis(c *gin.Context) {
	var req cvAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "CV data is required")
		return
	}

	record, err := cv.ParseRecord(req.CVData)
	if err != nil {
		h.requestLogger(c).Debug("rejecting cv data", zap.Error(err))
		errorResponse(c, http.StatusBadRequest, "CV data is required")
		return
	}

	c.JSON(http.StatusOK, h.analysis.Analyze(c.Request.Context(), record))
}

// suggestions serves the text suggestion endpoint of one CV builder section.
// Every body field besides prompt is forwarded as section context.
func (h *handler) suggestions(section ai.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			errorResponse(c, http.StatusBadRequest, "Prompt is required")
			return
		}

		prompt := strings.TrimSpace(contextValue(body["prompt"]))
		if prompt == "" {
			errorResponse(c, http.StatusBadRequest, "Prompt is required")
			return
		}

		if h.suggester == nil {
			errorResponse(c, http.StatusServiceUnavailable, "The AI service is not available.")
			return
		}

		sectionContext := make(map[string]string, len(body))
		for key, value := range body {
			if key == "prompt" {
				continue
			}
			if s := contextValue(value); s != "" {
				sectionContext[key] = s
			}
		}

		suggestion, err := h.suggester.Suggest(c.Request.Context(), ai.SuggestionRequest{
			Section: section,
			Prompt:  prompt,
			Context: sectionContext,
		})
		if err != nil {
			failure := ai.AsFailure(err)
			h.requestLogger(c).Error("section suggestion failed",
				zap.String("cv_section", string(section)),
				zap.String("failure_kind", string(failure.Kind)),
				zap.Any("context", sectionContext),
				zap.Error(err),
			)

			if errors.Is(err, ai.ErrNotConfigured) {
				errorResponse(c, http.StatusServiceUnavailable, "The AI service is not available.")
				return
			}
			errorResponse(c, http.StatusInternalServerError, "AI generation failed.")
			return
		}

		response := gin.H{"success": true, "suggestion": suggestion.Text}
		if suggestion.Achievements != nil {
			response["achievements"] = suggestion.Achievements
		}
		c.JSON(http.StatusOK, response)
	}
}

// contextValue renders a JSON value as a single string. Lists are joined with
// commas, objects are dropped.
func contextValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if s := strings.TrimSpace(contextValue(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
