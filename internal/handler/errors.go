package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alex-user-go/serpgateway/internal/middleware"
	"github.com/alex-user-go/serpgateway/internal/obs"
	"github.com/alex-user-go/serpgateway/internal/serp"
	"github.com/alex-user-go/serpgateway/internal/upstream"
)

var errInvalidJSON = errors.New("body is not valid JSON")

// requestBodyError is an inbound body that could not be read or decoded.
type requestBodyError struct {
	Err error
}

func (e *requestBodyError) Error() string {
	return "Invalid request body: " + e.Err.Error()
}

func (e *requestBodyError) Unwrap() error {
	return e.Err
}

// mapError converts any failure into the HTTP status and message of the
// error envelope.
func mapError(err error) (int, string) {
	var (
		validationErr *serp.ValidationError
		bodyErr       *requestBodyError
		statusErr     *upstream.StatusError
		transportErr  *upstream.TransportError
		malformedErr  *upstream.MalformedBodyError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Reason
	case errors.As(err, &bodyErr):
		return http.StatusBadRequest, bodyErr.Error()
	case errors.As(err, &statusErr):
		return http.StatusInternalServerError, "HTTP error! Status: " + statusErr.Status()
	case errors.As(err, &transportErr):
		return http.StatusInternalServerError, "Something went wrong: " + transportErr.Err.Error()
	case errors.As(err, &malformedErr):
		return http.StatusInternalServerError, "Something went wrong: " + malformedErr.Err.Error()
	default:
		return http.StatusInternalServerError, "Something went wrong: " + err.Error()
	}
}

// fail writes the error envelope for err and records it.
func (h *Handler) fail(c *gin.Context, ep upstream.Endpoint, err error) {
	status, message := mapError(err)
	requestID := middleware.RequestID(c.Request.Context())

	if status < http.StatusInternalServerError {
		h.metrics.Observe(ep.Name, obs.OutcomeValidation)
		h.logger.Debug("request rejected",
			zap.String("request_id", requestID),
			zap.String("endpoint", ep.Name),
			zap.Error(err),
		)
	} else {
		h.metrics.Observe(ep.Name, obs.OutcomeUpstreamError)
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("endpoint", ep.Name),
			zap.Error(err),
		}
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			fields = append(fields, zap.String("upstream_body", statusErr.Body))
		}
		h.logger.Error("upstream request failed", fields...)
	}

	c.JSON(status, serp.Error(message))
}
