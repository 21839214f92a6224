package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafehere/metrics"
	"cafehere/permission"
	"cafehere/route"
	"cafehere/service"
	"cafehere/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := metrics.Register(nil); err != nil {
		return err
	}
	files, err := storage.New(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}

	engine, err := route.New(route.Deps{
		Config:      a.cfg,
		Credentials: a.credentials(),
		Tokens:      a.tokens,
		Authorizer:  permission.NewCafeOwnership(a.store),
		Services:    service.New(a.store, files, a.cfg.MaxImageSize),
		Files:       files,
		Health:      a.healthChecks(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Port),
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", a.cfg.Port).Str("env", a.cfg.Env).Msg("cafehere listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}

func (a *app) healthChecks() []route.HealthCheck {
	var checks []route.HealthCheck
	if a.db != nil {
		checks = append(checks, route.HealthCheck{Name: "database", Check: func(ctx context.Context) error {
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if a.rdb != nil {
		checks = append(checks, route.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return a.rdb.Ping(ctx).Err()
		}})
	}
	return checks
}
