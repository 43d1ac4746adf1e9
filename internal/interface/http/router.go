package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/solarcook/internal/domain/prediction"
	"github.com/yanqian/solarcook/internal/infra/config"
	"github.com/yanqian/solarcook/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, m *metrics.Metrics, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	log := logger.With("component", "http.router")
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(log),
		metricsMiddleware(m),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(log),
		rateLimitMiddleware(cfg.HTTP.RateLimit, log),
	)

	router.GET("/", handler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		api.GET("/weather", handler.Weather)
		api.GET("/without_pcm", handler.WithoutPCM)
		api.GET("/pcm_temp", handler.PCMTemperature)
		api.GET("/with_pcm", handler.WithPCM)
		api.GET("/eval", handler.Evaluate)
		api.GET("/eval/history", handler.EvaluationHistory)
		for _, recipe := range prediction.Recipes() {
			api.GET("/"+string(recipe), handler.CookingTime(recipe))
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, log),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
