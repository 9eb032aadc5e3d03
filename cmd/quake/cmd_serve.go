package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/quake-report/internal/adapter/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control panel on HTTP_ADDR and open it in the browser",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.pipeline, a.panel, a.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	url := panelURL(a.cfg.HTTPAddr)
	a.logger.Info("control panel ready", "url", url)
	if err := a.opener.OpenURL(ctx, url); err != nil {
		a.logger.Warn("could not open control panel", "url", url, "error", err)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}

// panelURL turns a listen address into a browsable URL.
func panelURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
