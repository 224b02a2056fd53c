package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/spektr-org/worlddash/helpers"
	"github.com/spektr-org/worlddash/report"
)

// ============================================================================
// SERVER — Interactive report page
// ============================================================================
// Every request reads through the Loader; the report is rebuilt only when
// the Loader hands back a different Dataset (i.e. a source file changed or
// the cache was invalidated).
// ============================================================================

// Invalidator is implemented by loaders that can drop cached data.
type Invalidator interface {
	Invalidate()
}

// Server serves the report page, chart images and JSON/CSV data.
type Server struct {
	cfg    report.Config
	loader helpers.Loader
	router *mux.Router

	mu      sync.Mutex
	dataset *helpers.Dataset
	report  *report.Report
}

// New wires the routes.
func New(cfg report.Config, loader helpers.Loader) *Server {
	s := &Server{cfg: cfg, loader: loader, router: mux.NewRouter()}

	r := s.router
	r.Use(requestLogger)
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/sections/{id:[a-z_]+}.svg", s.handleSectionSVG).Methods(http.MethodGet)
	r.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/api/sections/{id:[a-z_]+}.csv", s.handleSectionCSV).Methods(http.MethodGet)
	r.HandleFunc("/api/sections/{id:[a-z_]+}", s.handleSection).Methods(http.MethodGet)
	r.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🌍 Serving report on http://%s", displayAddr(s.cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("🛑 Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// currentReport loads the dataset and returns the report built from it.
func (s *Server) currentReport() (*report.Report, error) {
	ds, err := s.loader.Load(s.cfg.Source)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report != nil && s.dataset == ds {
		return s.report, nil
	}
	s.dataset = ds
	s.report = report.Build(ds, s.cfg)
	return s.report, nil
}

func (s *Server) reset() {
	if inv, ok := s.loader.(Invalidator); ok {
		inv.Invalidate()
	}
	s.mu.Lock()
	s.dataset, s.report = nil, nil
	s.mu.Unlock()
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

