package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"go-recruit-sse/internal/infrastructure/config"
)

type HTTPServer struct {
	handler http.Handler
	cfg     config.HTTPConfig
	srv     *http.Server
}

var _ Server = (*HTTPServer)(nil)

func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		handler: handler,
		cfg:     cfg,
		srv: &http.Server{
			Addr:        cfg.Addr,
			Handler:     handler,
			ReadTimeout: cfg.ReadTimeout,
			// No WriteTimeout: event streams stay open for as long as the
			// client does.
			IdleTimeout: cfg.IdleTimeout,
		},
	}
}

// Start listens and blocks until Stop. Requests see ctx's values but not its
// cancellation: open streams end when the hub closes their sinks.
func (h *HTTPServer) Start(ctx context.Context) error {
	base := context.WithoutCancel(ctx)
	h.srv.BaseContext = func(net.Listener) context.Context { return base }

	var eg errgroup.Group
	eg.Go(func() error {
		err := h.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	return eg.Wait()
}

func (h *HTTPServer) Stop(ctx context.Context) error {
	return h.srv.Shutdown(ctx)
}

func (h *HTTPServer) Addr() string {
	return h.cfg.Addr
}
