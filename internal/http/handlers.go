package http

import (
	"net/http"
	"time"

	"gigledger/internal/core"
	"gigledger/internal/log"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady verifies the store answers within the request deadline.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{}
	status, httpStatus := "ready", http.StatusOK

	if err := s.ledger.Ready(r.Context()); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		checks["store"] = "failed: " + err.Error()
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}
	if s.limiter != nil {
		checks["rate_limiter"] = map[string]any{"active_clients": s.limiter.ActiveClients()}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) currentMonth() core.MonthKey {
	return core.MonthKeyOfTime(s.now())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r, "month", s.currentMonth())
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}
	report, err := s.ledger.MonthReport(r.Context(), month)
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryView(report))
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r, "month", s.currentMonth())
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}
	report, err := s.ledger.MonthReport(r.Context(), month)
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}
	writeJSON(w, http.StatusOK, newIncomeView(report.Income))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	window, err := ParseWindowParams(r, s.currentMonth(), s.forecastMonths)
	if err != nil {
		writeError(w, r, log.OpForecast, err)
		return
	}
	forecast, err := s.ledger.Forecast(r.Context(), window.Start, window.Months)
	if err != nil {
		writeError(w, r, log.OpForecast, err)
		return
	}
	writeJSON(w, http.StatusOK, newForecastView(forecast))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	window, err := ParseWindowParams(r, s.currentMonth(), s.forecastMonths)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	filter, err := ParseAnalyticsFilter(r)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	analytics, err := s.ledger.Analytics(r.Context(), window.Start, window.Months, filter)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnalyticsView(analytics))
}

func (s *Server) handleYearlyIncome(w http.ResponseWriter, r *http.Request) {
	year, err := ParseYearParam(r, s.now().Year())
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	report, err := s.ledger.YearlyIncome(r.Context(), year)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, newYearlyView(report))
}

func (s *Server) handlePackageUsage(w http.ResponseWriter, r *http.Request) {
	reports, err := s.ledger.PackageUsage(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, newPackageUsageViews(reports))
}

func (s *Server) handleListGigs(w http.ResponseWriter, r *http.Request) {
	filter := core.ParseGigFilter(r.URL.Query().Get("filter"))
	gigs, err := s.ledger.Gigs(r.Context(), filter)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, newGigViews(gigs))
}
