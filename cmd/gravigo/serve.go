package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrjoshuak/gravigo/internal/api"
)

// shutdownGrace is how long in-flight requests get once the context ends.
const shutdownGrace = 5 * time.Second

// Run serves the HTTP API until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.API.Addr
	}

	ex, err := deps.NewExtractor()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(ex, api.Options{
		RateLimit: deps.Config.API.RateLimit,
		Burst:     deps.Config.API.Burst,
		Logger:    deps.Log,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		deps.Log.Error().Err(err).Msg("HTTP server forced shutdown")
		return err
	}
	deps.Log.Info().Msg("HTTP server drained gracefully")
	return nil
}
