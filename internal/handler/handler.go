package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/alex-user-go/serpgateway/internal/middleware"
	"github.com/alex-user-go/serpgateway/internal/obs"
	"github.com/alex-user-go/serpgateway/internal/serp"
	"github.com/alex-user-go/serpgateway/internal/upstream"
)

const maxBodyBytes = 1 << 20

// Upstream performs one provider call.
type Upstream interface {
	Call(ctx context.Context, ep upstream.Endpoint, payload any) (any, error)
}

// Endpoints maps each gateway route to its provider endpoint.
type Endpoints struct {
	AutoComplete upstream.Endpoint
	Hotels       upstream.Endpoint
	Region       upstream.Endpoint
}

// Handler handles HTTP requests.
type Handler struct {
	upstream  Upstream
	endpoints Endpoints
	metrics   *obs.Metrics
	logger    *zap.Logger
}

// New creates a new Handler.
func New(client Upstream, endpoints Endpoints, metrics *obs.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		upstream:  client,
		endpoints: endpoints,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register mounts the gateway routes.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/autocomplete", h.AutoComplete)
	r.POST("/hotels", h.Hotels)
	r.POST("/region", h.Region)
}

// transformFunc turns a decoded provider body into the client response.
type transformFunc func(doc any) (any, error)

// AutoComplete handles POST /autocomplete.
func (h *Handler) AutoComplete(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		h.fail(c, h.endpoints.AutoComplete, err)
		return
	}

	var req serp.AutoCompleteRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		h.fail(c, h.endpoints.AutoComplete, &requestBodyError{Err: err})
		return
	}

	if err := serp.ValidateAutoComplete(req); err != nil {
		h.fail(c, h.endpoints.AutoComplete, err)
		return
	}

	h.dispatch(c, h.endpoints.AutoComplete, raw, func(doc any) (any, error) {
		return serp.TransformAutoComplete(doc), nil
	})
}

// Hotels handles POST /hotels.
func (h *Handler) Hotels(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		h.fail(c, h.endpoints.Hotels, err)
		return
	}

	var req serp.SerpRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		h.fail(c, h.endpoints.Hotels, &requestBodyError{Err: err})
		return
	}

	h.dispatch(c, h.endpoints.Hotels, raw, func(doc any) (any, error) {
		return serp.TransformHotels(doc, req)
	})
}

// Region handles POST /region.
func (h *Handler) Region(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		h.fail(c, h.endpoints.Region, err)
		return
	}

	h.dispatch(c, h.endpoints.Region, raw, func(doc any) (any, error) {
		return serp.TransformRegion(doc)
	})
}

// dispatch forwards the raw inbound body to the provider and writes either the
// transformed result or the mapped error.
func (h *Handler) dispatch(c *gin.Context, ep upstream.Endpoint, raw json.RawMessage, transform transformFunc) {
	ctx := c.Request.Context()

	doc, err := h.upstream.Call(ctx, ep, raw)
	if err != nil {
		h.fail(c, ep, err)
		return
	}

	resp, err := transform(doc)
	if err != nil {
		h.fail(c, ep, err)
		return
	}

	if msg, ok := resp.(serp.StatusMessage); ok && msg.Status == serp.StatusUnavailable {
		h.metrics.Observe(ep.Name, obs.OutcomeUnavailable)
		h.logger.Info("no results from provider",
			zap.String("request_id", middleware.RequestID(ctx)),
			zap.String("endpoint", ep.Name),
			zap.Any("reason", msg.Message),
		)
	} else {
		h.metrics.Observe(ep.Name, obs.OutcomeOK)
	}

	c.JSON(http.StatusOK, resp)
}

// readBody reads the inbound body and checks that it is JSON.
func readBody(c *gin.Context) (json.RawMessage, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	raw, err := c.GetRawData()
	if err != nil {
		return nil, &requestBodyError{Err: err}
	}
	if !json.Valid(raw) {
		return nil, &requestBodyError{Err: errInvalidJSON}
	}
	return raw, nil
}
