package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gigledger/internal/core"
)

func TestJSONResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	err := NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/gigs/1").
		Body(map[string]string{"id": "1"}).
		Write(rr)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if rr.Code != http.StatusCreated || rr.Header().Get("Location") != "/api/gigs/1" {
		t.Errorf("code=%d headers=%v", rr.Code, rr.Header())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rr.Body.String() != "{\"id\":\"1\"}\n" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestJSONResponseBuilderNoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := NewJSONResponse().Status(http.StatusNoContent).Write(rr); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Fatalf("code=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("delete gig: %w", core.ErrGigNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: x", ErrUnknownKind), http.StatusNotFound},
		{fmt.Errorf("parse month: %w", core.ErrInvalidMonthKey), http.StatusBadRequest},
		{fmt.Errorf("save gig: %w", core.ErrInvalidRecord), http.StatusBadRequest},
		{ErrInvalidWindow, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteErrorHidesServerDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	writeError(rr, r, "summary", errors.New("sqlite: database is locked"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rr.Code)
	}
	var body ErrorBody
	decode(t, rr, &body)
	if body.Error != "Internal Server Error" {
		t.Errorf("error = %q", body.Error)
	}
}
