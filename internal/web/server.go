// Package web serves the browser-facing side of the service: a single
// page that redirects visitors to the marketing site.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/degenstudios/degenbot/internal/config"
)

const shutdownTimeout = 5 * time.Second

const redirectPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta http-equiv="refresh" content="0; URL=%s">
    <title>Redirecting...</title>
</head>
<body>
    <p>If you are not redirected, <a href="%s">click here</a>.</p>
</body>
</html>`

// Server is the HTTP redirect stub.
type Server struct {
	logger *slog.Logger
	cfg    *config.ServerConfig
	srv    *http.Server
}

// NewServer builds the gin router and the underlying http.Server.
func NewServer(logger *slog.Logger, cfg *config.ServerConfig) *Server {
	log := logger.With("component", "web_server")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	page := fmt.Sprintf(redirectPage, cfg.RedirectURL, cfg.RedirectURL)
	router.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, page)
	})

	return &Server{
		logger: log,
		cfg:    cfg,
		srv: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.ListenAddr, "redirect_url", s.cfg.RedirectURL)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully.")
	return <-errCh
}
