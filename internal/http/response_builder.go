// This file implements a small builder for JSON responses and the mapping
// from service errors to status codes.

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"gigledger/internal/log"
	"gigledger/internal/services"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a response header.
func (b *JSONResponseBuilder) Header(key, value string) *JSONResponseBuilder {
	b.headers[key] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the response. A nil body with 204 writes no content.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) error {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	return json.NewEncoder(w).Encode(b.body)
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	_ = NewJSONResponse().Status(status).Body(body).Write(w)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorBody{Error: msg})
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case services.IsNotFound(err), errors.Is(err, ErrUnknownKind):
		return http.StatusNotFound
	case services.IsInvalidInput(err), isRequestError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func isRequestError(err error) bool {
	for _, target := range []error{ErrInvalidWindow, ErrInvalidYear, ErrInvalidFilter, ErrInvalidBody} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError answers with the status for err. Server errors are logged and
// their detail is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery))
		writeJSONError(w, status, http.StatusText(status))
		return
	}
	writeJSONError(w, status, err.Error())
}
