// Package server runs the HTTP listener with optional TLS and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"itams/pkg/config"
)

const shutdownTimeout = 5 * time.Second

// Run serves handler until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.ListenPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var certFile, keyFile string
	if cfg.TLS.Enabled {
		tlsCfg, cf, kf, err := BuildTLSConfig(cfg.TLS, cfg.App.Env)
		if err != nil {
			return fmt.Errorf("TLS setup: %w", err)
		}
		srv.TLSConfig = tlsCfg
		certFile, keyFile = cf, kf
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("tls", cfg.TLS.Enabled).Msg("server.listening")
		var err error
		if cfg.TLS.Enabled {
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server.stopped")
	return nil
}
