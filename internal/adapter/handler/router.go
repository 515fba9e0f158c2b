package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/voice-memo/errors"
	"github.com/johnquangdev/voice-memo/internal/adapter/dto/common"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/storage"
	"github.com/johnquangdev/voice-memo/pkg/config"
)

// multipartOverhead is allowed on top of the file limit for form boundaries and headers
const multipartOverhead = 1 << 20

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	memoHandler    *Memo
	commentHandler *Comment
	aiController   *AIController
	capabilities   common.Capabilities
	probes         []Probe
}

// Probe checks one external dependency for the readiness endpoint
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, memoHandler *Memo, commentHandler *Comment, aiController *AIController, capabilities common.Capabilities) *Router {
	return &Router{
		cfg:            cfg,
		memoHandler:    memoHandler,
		commentHandler: commentHandler,
		aiController:   aiController,
		capabilities:   capabilities,
	}
}

// WithProbes registers readiness checks
func (rt *Router) WithProbes(probes ...Probe) *Router {
	rt.probes = append(rt.probes, probes...)
	return rt
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/health/ready", rt.readyCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Audio written without an object store
	if rt.cfg.Server.UploadsDir != "" {
		e.Static(storage.LocalURLPrefix, rt.cfg.Server.UploadsDir)
	}

	api := e.Group("/api")
	rt.setupMemoRoutes(api)
	rt.setupCommentRoutes(api)
	rt.setupAIRoutes(api)
}

// setupMemoRoutes configures upload, memo, transcript and audio routes
func (rt *Router) setupMemoRoutes(g *echo.Group) {
	limit := fmt.Sprintf("%dB", rt.cfg.Server.MaxUploadBytes+multipartOverhead)
	g.POST("/upload", rt.memoHandler.Upload, middleware.BodyLimit(limit))

	memos := g.Group("/memos")
	memos.GET("/:id", rt.memoHandler.GetMemo)
	memos.GET("/:id/transcript", rt.memoHandler.GetTranscript)
	memos.GET("/:id/transcript.txt", rt.memoHandler.DownloadTranscript)
	memos.GET("/:id/audio", rt.memoHandler.StreamAudio)
}

// setupCommentRoutes configures comment and reaction routes
func (rt *Router) setupCommentRoutes(g *echo.Group) {
	comments := g.Group("/memos/:id/comments")
	comments.GET("", rt.commentHandler.ListComments)
	comments.POST("", rt.commentHandler.CreateComment)
	comments.POST("/:commentId/reactions", rt.commentHandler.React)
}

// setupAIRoutes configures the rate limited question endpoint
func (rt *Router) setupAIRoutes(g *echo.Group) {
	perMin := rt.cfg.Server.AskRatePerMin
	if perMin <= 0 {
		g.POST("/memos/:id/ask", rt.aiController.Ask)
		return
	}

	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMin) / 60),
			Burst:     perMin,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return HandleError(rt.aiController.logger, c, errors.ErrInvalidArgument("missing client address"))
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return HandleError(rt.aiController.logger, c, errors.ErrRateLimited())
		},
	})
	g.POST("/memos/:id/ask", rt.aiController.Ask, limiter)
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, common.HealthResponse{
		OK:           true,
		Environment:  rt.cfg.Server.Environment,
		Capabilities: rt.capabilities,
	})
}

// readyCheck runs every probe and reports 503 when one fails
// @Summary      Readiness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.ReadinessResponse
// @Failure      503  {object}  common.ReadinessResponse
// @Router       /health/ready [get]
func (rt *Router) readyCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := common.ReadinessResponse{OK: true, Checks: make(map[string]string, len(rt.probes))}
	for _, p := range rt.probes {
		if err := p.Check(ctx); err != nil {
			resp.OK = false
			resp.Checks[p.Name] = "unavailable"
			if rt.memoHandler != nil && rt.memoHandler.logger != nil {
				rt.memoHandler.logger.Warn("readiness probe failed", zap.String("probe", p.Name), zap.Error(err))
			}
			continue
		}
		resp.Checks[p.Name] = "ok"
	}

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}
