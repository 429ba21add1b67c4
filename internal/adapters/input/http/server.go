package http

import (
	"context"
	"errors"
	"fmt"
	"neosmart-shades/internal/domain/translator"
	"neosmart-shades/internal/ports"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Provider    ports.ProviderPort
	Translators *translator.Factory
	Gatherer    prometheus.Gatherer
	Logger      ports.Logger
	// AdvertiseIP and Port are handed to Hue clients in description.xml.
	AdvertiseIP string
	Port        int
}

// Server exposes the provider to the host and to Hue clients.
type Server struct {
	provider    ports.ProviderPort
	translators *translator.Factory
	gatherer    prometheus.Gatherer
	logger      ports.Logger
	ip          string
	port        int
}

func NewServer(opts Options) *Server {
	s := &Server{
		provider:    opts.Provider,
		translators: opts.Translators,
		gatherer:    opts.Gatherer,
		logger:      opts.Logger,
		ip:          opts.AdvertiseIP,
		port:        opts.Port,
	}
	if s.logger == nil {
		s.logger = ports.NoopLogger{}
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.NewRegistry()
	}
	if s.port == 0 {
		s.port = 80
	}
	if s.translators == nil {
		s.translators = defaultTranslators()
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/description.xml", s.handleDescription)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/plugin", func(r chi.Router) {
		r.Get("/create-settings", s.handleCreateSettings)
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleCreateDevice)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.handleReleaseDevice)
				r.Get("/settings", s.handleGetSettings)
				r.Put("/settings", s.handlePutSetting)
				r.Post("/open", s.handleOpen)
				r.Post("/close", s.handleClose)
			})
		})
	})

	r.Post("/api", s.handleRegister)
	r.Route("/api/{user}", func(r chi.Router) {
		r.Get("/", s.handleFullState)
		r.Get("/lights", s.handleGetLights)
		r.Get("/lights/{id}", s.handleGetLight)
		r.Put("/lights/{id}/state", s.handleSetLightState)
	})

	return r
}

// defaultTranslators has no open expression, so building it cannot fail.
func defaultTranslators() *translator.Factory {
	f, err := translator.NewFactory("")
	if err != nil {
		panic(fmt.Sprintf("building default translators: %v", err))
	}
	return f
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
