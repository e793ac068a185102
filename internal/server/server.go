// Package server exposes the career-coach HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/ai"
	"github.com/spigell/career-coach/internal/analysis"
	"github.com/spigell/career-coach/internal/logger"
	"github.com/spigell/career-coach/internal/resources"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultStatusTimeout   = 5 * time.Second
)

// Deps are the collaborators of the HTTP handlers. Suggestions and Status may
// be nil when no AI service is configured.
type Deps struct {
	Analysis    *analysis.Service
	Suggestions ai.SectionSuggester
	Status      ai.Pinger
	Resources   resources.Store
	Logger      *zap.Logger
}

type Config struct {
	RateLimit     RateLimitConfig
	StatusTimeout time.Duration
}

type handler struct {
	analysis      *analysis.Service
	suggester     ai.SectionSuggester
	pinger        ai.Pinger
	store         resources.Store
	logger        *zap.Logger
	statusTimeout time.Duration
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(cfg Config, deps Deps) *gin.Engine {
	log := logger.WithFields(deps.Logger)

	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = defaultStatusTimeout
	}
	store := deps.Resources
	if store == nil {
		store = resources.NewMemoryStore()
	}

	h := &handler{
		analysis:      deps.Analysis,
		suggester:     deps.Suggestions,
		pinger:        deps.Status,
		store:         store,
		logger:        log,
		statusTimeout: cfg.StatusTimeout,
	}

	router := gin.New()
	router.Use(requestID(), accessLog(log), gin.CustomRecovery(recovery(log)))

	api := router.Group("/api")
	api.GET("/health", h.health)
	api.GET("/status", h.status)

	aiGroup := api.Group("/ai", NewRateLimiter(cfg.RateLimit).Middleware())
	aiGroup.POST("/cv-analysis", h.cvAnalysis)
	for _, section := range ai.Sections {
		aiGroup.POST("/"+string(section)+"-suggestions", h.suggestions(section))
	}

	templates := api.Group("/cv-templates")
	templates.GET("", h.listTemplates)
	templates.GET("/popular", h.popularTemplates)
	templates.GET("/style/:style", h.templatesByStyle)
	templates.GET("/:id", h.getTemplate)

	res := api.Group("/resources")
	res.GET("", h.listResources)
	res.GET("/premium", h.listPremiumResources)
	res.GET("/category/:category", h.listResourcesByCategory)
	res.GET("/type/:type", h.listResourcesByType)
	res.GET("/type/:type/category/:category", h.listResourcesByTypeAndCategory)
	res.GET("/:id", h.getResource)
	res.POST("", h.createResource)
	res.PUT("/:id", h.updateResource)
	res.DELETE("/:id", h.deleteResource)

	return router
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, log *zap.Logger) error {
	log = logger.WithFields(log)
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down http server", zap.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// status reports whether the AI service answers.
func (h *handler) status(c *gin.Context) {
	if h.pinger == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.statusTimeout)
	defer cancel()

	err := h.pinger.Ping(ctx)
	if err != nil {
		h.requestLogger(c).Warn("ai status check failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"connected": err == nil})
}

func (h *handler) requestLogger(c *gin.Context) *zap.Logger {
	return logger.WithRequestID(h.logger, c.GetString(requestIDKey))
}

func errorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}
