package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hashgraph/hedera-mirror-node-sub001/internal/config"
)

const shutdownTimeout = 5 * time.Second

type httpService struct {
	name     string
	srv      *http.Server
	listener net.Listener
}

func newHTTPService(name string, listener net.Listener, handler http.Handler, cfg config.RPCConfig) *httpService {
	return &httpService{
		name: name,
		srv: &http.Server{
			Addr:              listener.Addr().String(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout.Std(),
			ReadHeaderTimeout: cfg.ReadTimeout.Std(),
			WriteTimeout:      cfg.WriteTimeout.Std(),
		},
		listener: listener,
	}
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (h *httpService) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.srv.Serve(h.listener); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return h.srv.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return err
	}
}

// withRequestTimeout bounds every request by timeout. The rpc server
// answers a request whose context expires with a timeout error.
func withRequestTimeout(next http.Handler, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
