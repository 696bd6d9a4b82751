// This file holds the query and body parsing shared by the API handlers.
// Every parser returns an error wrapping a core sentinel so writeError can
// answer 400.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"gigledger/internal/core"
)

const (
	maxBodyBytes = 1 << 20
	maxWindow    = 120
)

var (
	ErrInvalidWindow = errors.New("invalid window")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidBody   = errors.New("invalid request body")
	ErrUnknownKind   = errors.New("unknown record kind")
)

// WindowParams is a forecast or analytics window.
type WindowParams struct {
	Start  core.MonthKey
	Months int
}

// ParseMonthParam reads a YYYY-MM query parameter, defaulting to fallback
// when the parameter is missing.
func ParseMonthParam(r *http.Request, name string, fallback core.MonthKey) (core.MonthKey, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return fallback, nil
	}
	month, err := core.ParseMonthKey(v)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	return month, nil
}

// ParseWindowParams reads start and months. Missing values fall back to the
// given start and count.
func ParseWindowParams(r *http.Request, start core.MonthKey, count int) (WindowParams, error) {
	month, err := ParseMonthParam(r, "start", start)
	if err != nil {
		return WindowParams{}, err
	}
	params := WindowParams{Start: month, Months: count}

	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxWindow {
			return WindowParams{}, fmt.Errorf("%w: months must be between 1 and %d, got %q", ErrInvalidWindow, maxWindow, v)
		}
		params.Months = n
	}
	return params, nil
}

// ParseYearParam reads a four-digit year, defaulting to fallback.
func ParseYearParam(r *http.Request, fallback int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" {
		return fallback, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 1000 || year > 9999 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, v)
	}
	return year, nil
}

// ParseAnalyticsFilter reads the category and essential parameters.
func ParseAnalyticsFilter(r *http.Request) (core.AnalyticsFilter, error) {
	q := r.URL.Query()
	essential, ok := core.ParseEssentialFilter(q.Get("essential"))
	if !ok {
		return core.AnalyticsFilter{}, fmt.Errorf("%w: essential must be all, essential or non-essential", ErrInvalidFilter)
	}
	category := sanitizeInput(q.Get("category"))
	if category == "" {
		category = core.CategoryAll
	}
	return core.AnalyticsFilter{Category: category, Essential: essential}, nil
}

// DecodeJSONBody decodes a bounded JSON body into dst, rejecting unknown
// fields and trailing data.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidBody)
	}
	return nil
}
