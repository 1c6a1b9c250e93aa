package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/metrics"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/services"
	appweb "budget/web"
)

// Budget is what the server needs from the tracker.
type Budget interface {
	Revision() uint64
	Snapshot() services.Snapshot
	Report() core.Report
	AddTransaction(ctx context.Context, in core.NewTransaction) (core.Transaction, error)
	RemoveTransaction(ctx context.Context, id core.TransactionID) (bool, error)
	AddCategory(ctx context.Context, name string) (string, error)
	DeleteCategory(ctx context.Context, name string) (bool, int, error)
	Ping(ctx context.Context) error
}

// Options configures the server. The zero value serves with defaults and
// without metrics.
type Options struct {
	CurrencySymbol  string
	RateLimitRPS    float64
	RateLimitBurst  int
	SummaryCacheTTL time.Duration
	TrustedProxies  []string
	Metrics         *metrics.Metrics
	Logger          *log.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	budget    Budget
	symbol    string

	metrics     *metrics.Metrics
	logger      *log.Logger
	rateLimiter *ratelimit.Limiter
	cache       *summaryCache
	clientIP    *security.ClientIP
	started     time.Time

	shutdownOnce sync.Once
}

func NewServer(addr string, budget Budget, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Config{Component: log.ComponentHTTP, Handler: slog.Default().Handler()})
	}
	if opts.TrustedProxies == nil {
		opts.TrustedProxies = security.DefaultTrustedProxies
	}
	clientIP, err := security.NewClientIP(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		budget:   budget,
		symbol:   opts.CurrencySymbol,
		metrics:  opts.Metrics,
		logger:   opts.Logger.WithComponent(log.ComponentHTTP),
		clientIP: clientIP,
		started:  time.Now(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerSecond: opts.RateLimitRPS,
			Burst:             opts.RateLimitBurst,
		}),
	}
	var lookup func(bool)
	if s.metrics != nil {
		lookup = s.metrics.CacheLookup
	}
	s.cache = newSummaryCache(opts.SummaryCacheTTL, lookup)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.rateLimiter.Stop()
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		s.rateLimiter.Stop()
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := security.StaticAssetMiddleware(3600)(http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	s.handle(mux, "/", http.HandlerFunc(s.handleIndex))
	s.handle(mux, "/static/", static)
	s.handle(mux, "/transactions", http.HandlerFunc(s.handleCreateTransaction))
	s.handle(mux, "/transactions/delete", http.HandlerFunc(s.handleDeleteTransaction))
	s.handle(mux, "/categories", http.HandlerFunc(s.handleCreateCategory))
	s.handle(mux, "/categories/delete", http.HandlerFunc(s.handleDeleteCategory))
	s.handle(mux, "/ui/summary", s.partial("summary"))
	s.handle(mux, "/ui/transactions", s.partial("transactions"))
	s.handle(mux, "/ui/chart", s.partial("chart"))
	s.handle(mux, "/ui/categories", s.partial("categories"))
	s.handle(mux, "/ui/category-options", s.partial("category-options"))
	s.handle(mux, "/report", http.HandlerFunc(s.handleReport))
	s.handle(mux, "/healthz", http.HandlerFunc(s.handleHealth))
	s.handle(mux, "/readyz", http.HandlerFunc(s.handleReady))
	if s.metrics != nil {
		s.handle(mux, "/metrics", s.metrics.Handler())
	}

	s.Handler = s.middleware(mux)
	return s, nil
}

// handle registers h and tags the request with its pattern for metrics.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace.SetRoute(r.Context(), pattern)
		h.ServeHTTP(w, r)
	}))
}

// middleware wraps the mux, outermost first: tracing, request logger,
// security headers, write rate limiting.
func (s *Server) middleware(next http.Handler) http.Handler {
	var observe trace.Observer
	if s.metrics != nil {
		observe = s.metrics.ObserveHTTP
	}

	limited := s.rateLimiter.Middleware(s.clientIP.Extract, ratelimit.WritesOnly, s.onRateLimited)(next)
	secured := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)
	withID := log.RequestIDMiddleware(trace.RequestIDFromRequest)(secured)
	withLogger := log.Middleware(s.logger)(withID)
	return trace.NewMiddleware(s.clientIP.Extract, observe).Middleware(withLogger)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RateLimited()
	}
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.Extract(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

// view returns the formatted page for the current revision, from cache
// when possible.
func (s *Server) view() *pageView {
	if v, ok := s.cache.get(s.budget.Revision()); ok {
		return v
	}
	v := buildPageView(s.symbol, s.budget.Snapshot())
	s.cache.set(v)
	return v
}

// invalidate drops cached views after a committed write.
func (s *Server) invalidate() {
	s.cache.flush()
}

// Shutdown stops background work and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.cache.flush()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
