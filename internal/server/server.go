// Package server exposes the analyses over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const (
	DefaultAddr          = ":8080"
	DefaultRate          = 5
	DefaultBurst         = 10
	DefaultMaxSweepItems = 500
	DefaultMaxBodyBytes  = 1 << 20
	shutdownTimeout      = 5 * time.Second
)

type Options struct {
	Addr          string
	Rate          rate.Limit
	Burst         int
	MaxSweepItems int
	MaxBodyBytes  int64
	Workers       int
}

func DefaultOptions() Options {
	return Options{
		Addr:          DefaultAddr,
		Rate:          DefaultRate,
		Burst:         DefaultBurst,
		MaxSweepItems: DefaultMaxSweepItems,
		MaxBodyBytes:  DefaultMaxBodyBytes,
	}
}

// OptionsFromEnv reads STRUCTDYN_ADDR, STRUCTDYN_RATE, STRUCTDYN_BURST and
// STRUCTDYN_MAX_SWEEP_ITEMS over the defaults.
func OptionsFromEnv() (Options, error) {
	o := DefaultOptions()
	if v := os.Getenv("STRUCTDYN_ADDR"); v != "" {
		o.Addr = v
	}
	if v := os.Getenv("STRUCTDYN_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return o, fmt.Errorf("STRUCTDYN_RATE: invalid value %q", v)
		}
		o.Rate = rate.Limit(f)
	}
	for _, e := range []struct {
		key string
		dst *int
	}{
		{"STRUCTDYN_BURST", &o.Burst},
		{"STRUCTDYN_MAX_SWEEP_ITEMS", &o.MaxSweepItems},
	} {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return o, fmt.Errorf("%s: invalid value %q", e.key, v)
		}
		*e.dst = n
	}
	return o, nil
}

type Server struct {
	opts    Options
	limiter *IPRateLimiter
}

func New(opts Options) *Server {
	d := DefaultOptions()
	if opts.Rate <= 0 {
		opts.Rate = d.Rate
	}
	if opts.Burst <= 0 {
		opts.Burst = d.Burst
	}
	if opts.MaxSweepItems <= 0 {
		opts.MaxSweepItems = d.MaxSweepItems
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = d.MaxBodyBytes
	}
	if opts.Addr == "" {
		opts.Addr = d.Addr
	}
	return &Server{opts: opts, limiter: NewIPRateLimiter(opts.Rate, opts.Burst)}
}

// Handler builds the router. Every route lives under /api and shares the
// rate limiter.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.limiter.Middleware)

	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/materials", s.materials).Methods(http.MethodGet)
	api.HandleFunc("/reactions", s.reactions).Methods(http.MethodPost)
	api.HandleFunc("/static", s.static).Methods(http.MethodPost)
	api.HandleFunc("/fatigue", s.fatigue).Methods(http.MethodPost)
	api.HandleFunc("/knuckle", s.knuckle).Methods(http.MethodPost)
	api.HandleFunc("/dynamic/{model:half-car|quarter-car|two-mass}", s.dynamic).Methods(http.MethodPost)
	api.HandleFunc("/beam", s.beam).Methods(http.MethodPost)
	api.HandleFunc("/sweep/{model:half-car|quarter-car|two-mass}", s.sweep).Methods(http.MethodPost)
	api.HandleFunc("/report/static", s.staticReport).Methods(http.MethodPost)
	api.HandleFunc("/report/fatigue", s.fatigueReport).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	log.Println("server stopped")
	return nil
}
