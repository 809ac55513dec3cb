package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"RetailPulse/internal/domain/errs"
	models "RetailPulse/internal/domain/models"
	icache "RetailPulse/internal/service/cache"
	"RetailPulse/internal/service/metrics"
	"RetailPulse/internal/service/ratelimit"
	"RetailPulse/internal/usecase"
	xhttp "RetailPulse/pkg/http"
	xlogger "RetailPulse/pkg/logger"
	"RetailPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// DecisionEchoHandler exposes the decision engine over HTTP.
type DecisionEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.DecisionPipeline
	sim      *usecase.ScenarioSimulator
	hist     *usecase.HistoryUseCase
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
}

func NewDecisionEchoHandler(
	logger *xlogger.Logger,
	pipeline *usecase.DecisionPipeline,
	sim *usecase.ScenarioSimulator,
	hist *usecase.HistoryUseCase,
) *DecisionEchoHandler {
	metrics.Register()
	return &DecisionEchoHandler{
		logger:   logger,
		pipeline: pipeline,
		sim:      sim,
		hist:     hist,
		rl:       ratelimit.New(),
	}
}

// SetCache injects a response cache.
func (h *DecisionEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *DecisionEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/recommendations", h.Recommendations)
	g.POST("/scenario", h.Scenario)
	g.GET("/history", h.History)
	g.GET("/vocab", h.Vocab)
}

func (h *DecisionEchoHandler) Recommendations(c echo.Context) error {
	start := time.Now()
	endpoint := "recommendations"
	defer func() {
		metrics.DecisionLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.RecommendationsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 10, 5) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	cacheKey := fmt.Sprintf("rec:%s:%s:%d:%g", req.Product, req.Location, req.Horizon, req.Threshold)
	if b, ok := h.cacheGet(cacheKey); ok {
		return c.JSONBlob(200, b)
	}

	res, err := h.pipeline.Run(c.Request().Context(), usecase.RunParams{
		ProductID:  req.Product,
		LocationID: req.Location,
		Horizon:    req.Horizon,
		Threshold:  req.Threshold,
	})
	if err != nil {
		metrics.DecisionErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("recommendations usecase error", xlogger.Error(err))
		return h.domainErrorResponse(c, err)
	}
	metrics.SafeWindows.WithLabelValues(endpoint).Observe(float64(res.SafeCount()))

	h.cachePut(cacheKey, res, 30*time.Second)
	return xhttp.SuccessResponse(c, res)
}

func (h *DecisionEchoHandler) Scenario(c echo.Context) error {
	start := time.Now()
	endpoint := "scenario"
	defer func() {
		metrics.DecisionLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.ScenarioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	res, err := h.sim.Simulate(c.Request().Context(), usecase.RunParams{
		ProductID:  req.Product,
		LocationID: req.Location,
		Horizon:    req.Horizon,
		Threshold:  req.Threshold,
	}, req.Deltas)
	if err != nil {
		metrics.DecisionErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("scenario usecase error", xlogger.Error(err))
		return h.domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DecisionEchoHandler) History(c echo.Context) error {
	start := time.Now()
	endpoint := "history"
	defer func() {
		metrics.DecisionLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.AddDate(-1, 0, 0))
	to := xhttp.ParseTimeDefault(req.To, now)

	cacheKey := fmt.Sprintf("hist:%s:%s:%s:%s:%d",
		req.Product, req.Location,
		util.Day(from).Format(util.DateLayout), util.Day(to).Format(util.DateLayout),
		req.Limit)
	if b, ok := h.cacheGet(cacheKey); ok {
		return c.JSONBlob(200, b)
	}

	res, err := h.hist.GetHistory(c.Request().Context(), usecase.GetHistoryParams{
		ProductID:  req.Product,
		LocationID: req.Location,
		From:       from,
		To:         to,
		Limit:      req.Limit,
	})
	if err != nil {
		metrics.DecisionErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("history usecase error", xlogger.Error(err))
		return h.domainErrorResponse(c, err)
	}
	h.cachePut(cacheKey, res, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *DecisionEchoHandler) Vocab(c echo.Context) error {
	endpoint := "vocab"
	if b, ok := h.cacheGet("vocab"); ok {
		return c.JSONBlob(200, b)
	}
	products, locations, err := h.hist.Vocabulary(c.Request().Context())
	if err != nil {
		metrics.DecisionErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("vocab usecase error", xlogger.Error(err))
		return h.domainErrorResponse(c, err)
	}
	res := map[string][]string{"products": products, "locations": locations}
	h.cachePut("vocab", res, 10*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

// domainErrorResponse maps domain defects to HTTP status: data defects
// are the caller's problem (400), model defects an upstream one (502).
func (h *DecisionEchoHandler) domainErrorResponse(c echo.Context, err error) error {
	switch {
	case errs.IsDataDefect(err):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	case errs.IsModelDefect(err):
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError(err.Error()).WithError(err))
	}
	var mis *errs.MisalignedSeriesError
	if errors.As(err, &mis) {
		return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()).WithError(err))
	}
	return xhttp.AppErrorResponse(c, xhttp.InternalError("internal error").WithError(err))
}

func (h *DecisionEchoHandler) cacheGet(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *DecisionEchoHandler) cachePut(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	// cache the full envelope so hits and misses serve identical bodies
	b, err := json.Marshal(xhttp.APIResponse{Status: 200, Message: "OK", Data: v})
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
	}
}
