// Package httpapi exposes the sync server over HTTP: delta upload, full
// fetch and photo presigning under /api/v1, plus an unauthenticated health
// probe.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/gorilla/mux"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Auth         Authenticator
	MaxBodyBytes int64
	Log          logging.Logger
}

func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	root := mux.NewRouter()
	root.Use(requestLogger(opts.Log), recoverer(opts.Log), limitBody(opts.MaxBodyBytes))

	api := root.PathPrefix(common.APIPrefix).Subrouter()
	api.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	secured := api.NewRoute().Subrouter()
	secured.Use(bearerAuth(opts.Auth, opts.Log))
	secured.HandleFunc("/sync", h.Sync).Methods(http.MethodPost)
	secured.HandleFunc("/sync", h.Fetch).Methods(http.MethodGet)
	secured.HandleFunc("/photos/presign", h.PresignUpload).Methods(http.MethodPost)
	secured.HandleFunc("/photos/presign/{key:.+}", h.PresignDownload).Methods(http.MethodGet)

	return root
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	srv             *http.Server
	log             logging.Logger
	shutdownTimeout time.Duration
}

func NewServer(addr string, handler http.Handler, log logging.Logger, shutdownTimeout time.Duration) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log:             log.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
