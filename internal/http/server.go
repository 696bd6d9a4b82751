package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gigledger/internal/core"
	"gigledger/internal/log"
	"gigledger/internal/middleware/ratelimit"
	"gigledger/internal/middleware/security"
	"gigledger/internal/middleware/trace"
	"gigledger/internal/services"
)

// Ledger is the part of the ledger service the API exposes.
type Ledger interface {
	Ready(ctx context.Context) error
	MonthReport(ctx context.Context, month core.MonthKey) (services.MonthReport, error)
	Forecast(ctx context.Context, start core.MonthKey, count int) (services.Forecast, error)
	Analytics(ctx context.Context, start core.MonthKey, count int, filter core.AnalyticsFilter) (core.ExpenseAnalytics, error)
	YearlyIncome(ctx context.Context, year int) (services.YearlyReport, error)
	PackageUsage(ctx context.Context) ([]services.PackageReport, error)
	Gigs(ctx context.Context, filter core.GigFilter) ([]core.Gig, error)

	SetOverride(ctx context.Context, expenseID string, month core.MonthKey, amount core.Money, notes string) (core.OverridePlan, error)
	ClearOverride(ctx context.Context, expenseID string, month core.MonthKey) error

	SaveExpense(ctx context.Context, e core.RecurringExpense) (core.RecurringExpense, error)
	DeleteExpense(ctx context.Context, id string) error
	SaveGig(ctx context.Context, g core.Gig) (core.Gig, error)
	DeleteGig(ctx context.Context, id string) error
	SavePackage(ctx context.Context, p core.Package) (core.Package, error)
	DeletePackage(ctx context.Context, id string) error
}

// Options configures the API server. Zero values pick defaults.
type Options struct {
	Registry           *prometheus.Registry
	Logger             *log.Logger
	RequestTimeout     time.Duration
	RateLimitPerMinute int // 0 disables rate limiting
	TrustedProxies     []string
	ForecastMonths     int
	Now                func() time.Time
}

// Server is the JSON API over the ledger service.
type Server struct {
	http.Server
	ledger         Ledger
	limiter        *ratelimit.Limiter
	clientIP       *security.ClientIPResolver
	requestTimeout time.Duration
	forecastMonths int
	now            func() time.Time
	started        time.Time
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger Ledger, opts Options) (*Server, error) {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.ForecastMonths <= 0 {
		opts.ForecastMonths = 12
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	resolver := security.NewClientIPResolver()
	for _, cidr := range opts.TrustedProxies {
		if err := resolver.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		ledger:         ledger,
		clientIP:       resolver,
		requestTimeout: opts.RequestTimeout,
		forecastMonths: opts.ForecastMonths,
		now:            opts.Now,
		started:        opts.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/income", s.handleIncome)
	mux.HandleFunc("GET /api/income/yearly", s.handleYearlyIncome)
	mux.HandleFunc("GET /api/packages/usage", s.handlePackageUsage)
	mux.HandleFunc("GET /api/gigs", s.handleListGigs)

	mux.HandleFunc("PUT /api/overrides", s.handleSetOverride)
	mux.HandleFunc("DELETE /api/overrides", s.handleClearOverride)

	mux.HandleFunc("POST /api/expenses", s.handleSaveExpense)
	mux.HandleFunc("POST /api/gigs", s.handleSaveGig)
	mux.HandleFunc("POST /api/packages", s.handleSavePackage)
	mux.HandleFunc("DELETE /api/{kind}/{id}", s.handleDeleteRecord)

	var handler http.Handler = mux
	handler = s.withTimeout(handler)
	if opts.RateLimitPerMinute > 0 {
		cfg := ratelimit.DefaultConfig()
		cfg.RequestsPerMinute = opts.RateLimitPerMinute
		s.limiter = ratelimit.NewLimiter(cfg, opts.Registry)
		handler = s.limiter.Middleware(resolver.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		})(handler)
	}
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(opts.Logger.WithComponent(log.ComponentHTTP))(handler)
	handler = trace.NewMiddleware(resolver.ExtractClientIP, opts.Registry).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// withTimeout bounds every request's work by the configured timeout.
func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Shutdown gracefully shuts down the server and the limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
