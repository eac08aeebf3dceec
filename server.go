package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"reverseip/internal/clientip"
	"reverseip/internal/config"
	"reverseip/internal/diag"
	"reverseip/internal/render"
	"reverseip/internal/reqview"
)

type Server struct {
	config    config.Config
	resolver  *clientip.Resolver
	inspector *diag.Inspector
	limiters  sync.Map
}

func NewServer(cfg config.Config) (*Server, error) {
	resolver, err := clientip.NewResolver(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	return &Server{
		config:    cfg,
		resolver:  resolver,
		inspector: &diag.Inspector{Resolver: resolver},
	}, nil
}

// --- RATE LIMITER ---

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

func (s *Server) getLimiter(key string) *rate.Limiter {
	now := time.Now().UnixNano()
	if val, ok := s.limiters.Load(key); ok {
		cl := val.(*clientLimiter)
		cl.lastSeen.Store(now)
		return cl.limiter
	}

	cl := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.config.RateLimitRPS), s.config.RateLimitBurst)}
	cl.lastSeen.Store(now)
	actual, loaded := s.limiters.LoadOrStore(key, cl)
	if !loaded {
		activeLimiters.Inc()
	}
	return actual.(*clientLimiter).limiter
}

// sweepLimiters drops limiters idle for longer than ttl.
func (s *Server) sweepLimiters(ttl time.Duration) {
	cutoff := time.Now().Add(-ttl).UnixNano()
	s.limiters.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			s.limiters.Delete(key)
			activeLimiters.Dec()
		}
		return true
	})
}

func (s *Server) cleanupLimiters(ctx context.Context) {
	ticker := time.NewTicker(s.config.LimiterIdleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweepLimiters(s.config.LimiterIdleTTL)
		case <-ctx.Done():
			return
		}
	}
}

// limiterKey is the peer address unless trusted proxies are configured, so
// untrusted clients cannot dodge the limit with a forged forwarding header.
func (s *Server) limiterKey(v reqview.View) string {
	if len(s.config.TrustedProxies) == 0 {
		return v.RemoteAddr()
	}
	return s.resolver.Resolve(v)
}

// --- HANDLERS ---

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := s.inspector.Inspect(reqview.FromHTTP(r))
	pointerResults.WithLabelValues(rec.Pointer.Status.String()).Inc()
	slog.Debug("Diagnostic assembled", "client", rec.ClientIP, "pointer", rec.Pointer.String(), "status", rec.Pointer.Status.String())

	switch r.URL.Query().Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, render.Text(rec))
	case "json":
		doc, err := render.JSON(rec)
		if err != nil {
			slog.Error("Render failed", "format", "json", "error", err)
			http.Error(w, `{"error":"render failed"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := render.Page(w, s.config.Title, rec); err != nil {
			slog.Error("Render failed", "format", "html", "error", err)
		}
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (s *Server) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		key := s.limiterKey(reqview.FromHTTP(r))

		if s.config.RateLimitRPS > 0 && !s.getLimiter(key).Allow() {
			requestTotal.WithLabelValues("rate_limited").Inc()
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "html"
		}
		requestDuration.WithLabelValues(status, format).Observe(duration)
		requestTotal.WithLabelValues(status).Inc()

		slog.Info("Request", "ip", key, "status", rw.statusCode, "dur", duration, "path", r.URL.Path)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.middleware(s.handleDiagnostics))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", handleHealth)
	return mux
}

// --- LIFECYCLE ---

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.cleanupLimiters(ctx)

	server := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.Routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", s.config.Port)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		slog.Info("Server shutting down...")
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer timeoutCancel()

		if err := server.Shutdown(timeoutCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				slog.Error("Forced close failed", "error", err)
			}
			return err
		}
	}
	slog.Info("Server stopped")
	return nil
}
