package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"ipvault/internal/platform/config"
	"ipvault/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the listener it is served on
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer reads API_PORT from cfg, defaulting to :4000
func NewServer(cfg config.Conf) *Server {
	addr := cfg.MayString("API_PORT", ":4000")
	m := chi.NewRouter()
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the mux for mounting
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr is the configured listen address
func (s *Server) Addr() string { return s.addr }

// ShutdownGrace bounds how long in flight requests get once ctx is done
var ShutdownGrace = 15 * time.Second

// Run starts the server and blocks until it stops or ctx is done
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.addr).Msg("http listening")

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownGrace)
			defer cancel()
			if err := s.srv.Shutdown(sctx); err != nil {
				log.Warn().Err(err).Msg("http shutdown")
			}
		case <-stopped:
		}
	}()

	err := s.srv.ListenAndServe()
	if err == stdhttp.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in flight requests until ctx ends
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
