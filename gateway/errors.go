package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/resilience"
)

// ErrBadRequest marks malformed input from the caller.
var ErrBadRequest = errors.New("gateway: bad request")

type errorBody struct {
	Error     string            `json:"error"`
	Status    int               `json:"status,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Errors    []pco.ErrorObject `json:"errors,omitempty"`
}

// statusFor maps an error to the response status code. Validation errors
// describe a bad remote payload and fall through to 502.
func statusFor(err error) int {
	var apiErr *pco.APIError
	switch {
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, ErrBadRequest), errors.Is(err, pco.ErrMissingID):
		return http.StatusBadRequest
	case resilience.IsRejected(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	body := errorBody{Error: err.Error()}

	var apiErr *pco.APIError
	if errors.As(err, &apiErr) {
		body.Status = apiErr.StatusCode
		body.RequestID = apiErr.RequestID
		body.Errors = apiErr.Errors
	}
	if code >= http.StatusInternalServerError {
		s.logger.Warn(r.Context(), "request failed", logFields(r, code, err)...)
	}
	writeJSON(w, code, body)
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
}
