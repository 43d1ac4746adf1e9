package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/solarcook/internal/domain/efficiency"
	"github.com/yanqian/solarcook/internal/domain/prediction"
	"github.com/yanqian/solarcook/internal/domain/weather"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	predictionSvc prediction.Service
	efficiencySvc efficiency.Service
	weatherSvc    weather.Service
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(predictionSvc prediction.Service, efficiencySvc efficiency.Service, weatherSvc weather.Service, logger *slog.Logger) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		efficiencySvc: efficiencySvc,
		weatherSvc:    weatherSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Backend is running!"})
}

// Weather returns the geocoded location and half-hourly irradiance for a day.
func (h *Handler) Weather(c *gin.Context) {
	place, ok := c.GetQuery("place")
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidRequest, "query parameter place is required", nil))
		return
	}
	date, ok := c.GetQuery("date")
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidRequest, "query parameter date is required", nil))
		return
	}

	report, err := h.weatherSvc.Lookup(c.Request.Context(), weather.Request{Place: place, Date: date})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// WithoutPCM predicts water and box temperature for the plain cooker.
func (h *Handler) WithoutPCM(c *gin.Context) {
	minutes, irradiances, ok := bindSeries(c)
	if !ok {
		return
	}
	preds, err := h.predictionSvc.PredictWithoutPCM(c.Request.Context(), minutes, irradiances)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": preds})
}

// PCMTemperature predicts the PCM temperature alone.
func (h *Handler) PCMTemperature(c *gin.Context) {
	minutes, irradiances, ok := bindSeries(c)
	if !ok {
		return
	}
	preds, err := h.predictionSvc.PredictPCMTemperature(c.Request.Context(), minutes, irradiances)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": preds})
}

// WithPCM runs the two-phase cascade for the PCM cooker.
func (h *Handler) WithPCM(c *gin.Context) {
	minutes, irradiances, ok := bindSeries(c)
	if !ok {
		return
	}
	preds, err := h.predictionSvc.PredictWithPCM(c.Request.Context(), minutes, irradiances)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": preds})
}

// Evaluate computes the thermal figures of merit.
func (h *Handler) Evaluate(c *gin.Context) {
	var (
		req efficiency.Request
		err error
	)
	if req.AvgRadiation, err = queryFloat(c, "avg_radiation"); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}
	if req.Tw2WithPCM, err = queryFloat(c, "Tw2_with_pcm", "Tw2withpcm"); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}
	if req.Tw2WithoutPCM, err = queryFloat(c, "Tw2_without_pcm", "Tw2withoutpcm"); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}

	result, err := h.efficiencySvc.Evaluate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// EvaluationHistory lists recent evaluations, newest first.
func (h *Handler) EvaluationHistory(c *gin.Context) {
	limit := 0
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidRequest, "limit must be a non-negative integer", err))
			return
		}
		limit = n
	}
	records, err := h.efficiencySvc.History(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": records})
}

// CookingTime returns a handler for one recipe/condition model.
func (h *Handler) CookingTime(recipe prediction.Recipe) gin.HandlerFunc {
	return func(c *gin.Context) {
		labels, err := queryLabels(c, "time")
		if err != nil {
			abortWithError(c, invalidRequest(err))
			return
		}
		water, err := queryFloats(c, "water_temp")
		if err != nil {
			abortWithError(c, invalidRequest(err))
			return
		}
		box, err := queryFloats(c, "box_temp")
		if err != nil {
			abortWithError(c, invalidRequest(err))
			return
		}

		preds, err := h.predictionSvc.PredictCookingTime(c.Request.Context(), recipe, prediction.DurationRequest{
			Labels:     labels,
			WaterTemps: water,
			BoxTemps:   box,
		})
		if err != nil {
			abortWithError(c, fromDomainError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"predictions": preds})
	}
}

func bindSeries(c *gin.Context) ([]int, []float64, bool) {
	minutes, err := queryInts(c, "total_minutes")
	if err != nil {
		abortWithError(c, invalidRequest(err))
		return nil, nil, false
	}
	irradiances, err := queryFloats(c, "solar_radiation")
	if err != nil {
		abortWithError(c, invalidRequest(err))
		return nil, nil, false
	}
	return minutes, irradiances, true
}
