package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/logger"
	"github.com/julianstephens/theseus/internal/storage"
	"github.com/julianstephens/theseus/internal/validation"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed request: bad JSON, a non-numeric id or an
// unusable query parameter.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

type errorBody struct {
	Detail string                  `json:"detail"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// fail maps err onto a status code and writes the error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	var rerr *requestError
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: verrs.Error(), Errors: verrs})
	case errors.As(err, &rerr):
		writeDetail(w, http.StatusBadRequest, rerr.msg)
	case errors.Is(err, storage.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrConflict):
		writeDetail(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is required")
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s: %q", name, raw)
	}
	return id, nil
}

// dateParam returns a YYYY-MM-DD path parameter.
func dateParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if err := validation.Date(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// queryInt parses an optional integer query parameter bounded by [lo, hi].
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	if n < lo || n > hi {
		return 0, badRequest("%s must be between %d and %d", name, lo, hi)
	}
	return n, nil
}

// queryBool parses an optional boolean query parameter; nil means absent.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, badRequest("%s must be true or false", name)
	}
	return &b, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (string, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", nil
	}
	if err := validation.Date(raw); err != nil {
		return "", badRequest("%s must be a date in YYYY-MM-DD format", name)
	}
	return raw, nil
}
