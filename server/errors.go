package server

import (
	"encoding/json"
	"errors"
	"net/http"

	reservoir "github.com/flywave/go-reservoir"
	"github.com/flywave/go-reservoir/ingest"
)

// badRequest marks malformed request parameters or bodies.
type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	var br badRequest
	var ve *ingest.ValidationError
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &ve), errors.Is(err, ingest.ErrUnsupportedFormat):
		return http.StatusBadRequest, "invalid_file"
	case errors.Is(err, reservoir.ErrInvalidInput), errors.Is(err, reservoir.ErrInvalidResolution):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, reservoir.ErrDataInsufficient):
		return http.StatusBadRequest, "insufficient_data"
	case errors.Is(err, reservoir.ErrDegenerateExtent):
		return http.StatusBadRequest, "degenerate_extent"
	case errors.Is(err, reservoir.ErrInterpolationFailure):
		return http.StatusUnprocessableEntity, "interpolation_failed"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("request_id", requestID(r.Context())).Error("handler error")
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code, RequestID: requestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
