package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edopt/chatbot/pkg/cli/config"
	httpctrl "github.com/edopt/chatbot/pkg/controller/http"
	"github.com/edopt/chatbot/pkg/service/worker"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var adminToken string
	var trustProxy bool
	var enableMetrics bool
	var refreshInterval time.Duration
	var rt runtimeConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":5012",
			Sources:     cli.EnvVars("EDOPT_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "admin-token",
			Usage:       "Bearer token required by /api endpoints. Reindexing over HTTP is disabled without it.",
			Category:    "Authentication",
			Sources:     cli.EnvVars("EDOPT_ADMIN_TOKEN"),
			Destination: &adminToken,
		},
		&cli.BoolFlag{
			Name:        "trust-proxy",
			Usage:       "Take the client address from X-Forwarded-For / X-Real-IP (only behind a trusted proxy)",
			Sources:     cli.EnvVars("EDOPT_TRUST_PROXY"),
			Destination: &trustProxy,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Value:       true,
			Sources:     cli.EnvVars("EDOPT_METRICS"),
			Destination: &enableMetrics,
		},
		&cli.DurationFlag{
			Name:        "index-refresh-interval",
			Usage:       "How often the in-memory index is reloaded from storage (0 disables)",
			Value:       worker.DefaultRefreshInterval,
			Sources:     cli.EnvVars("EDOPT_INDEX_REFRESH_INTERVAL"),
			Destination: &refreshInterval,
		},
	}
	flags = append(flags, rt.chatFlags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, err := config.LoadAppConfiguration(rt.configPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}
			logging.Default().Info("Configuration loaded", "config", appCfg, "anthropic", rt.anthropic.LogAttrs(), "gemini", rt.gemini.LogAttrs())

			repo, err := rt.repo.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer closeRepository(ctx, repo)

			embedder, engine, err := setupSearch(ctx, repo, &rt.gemini, appCfg)
			if err != nil {
				return err
			}

			chat, err := setupChat(repo, engine, &rt.anthropic, appCfg)
			if err != nil {
				return err
			}

			ucOpts := []usecase.Option{usecase.WithChat(chat)}
			httpOpts := []httpctrl.Options{
				httpctrl.WithAllowedOrigins(appCfg.HTTP.AllowedOrigins),
				httpctrl.WithRateLimit(appCfg.HTTP.RateLimitPerMinute),
				httpctrl.WithAdminToken(adminToken),
				httpctrl.WithTrustProxy(trustProxy),
				httpctrl.WithMetrics(enableMetrics),
			}

			var refreshWorker *worker.IndexRefreshWorker
			if engine != nil {
				index := usecase.NewIndexUseCase(repo, embedder, engine)
				ucOpts = append(ucOpts, usecase.WithIndex(index))
				httpOpts = append(httpOpts, httpctrl.WithIndex(index))

				// Other processes may rebuild the shared index
				if refreshInterval > 0 {
					refreshWorker = worker.NewIndexRefreshWorker(engine, refreshInterval)
					if err := refreshWorker.Start(ctx); err != nil {
						return goerr.Wrap(err, "failed to start index refresh worker")
					}
				}
			}

			uc := usecase.New(repo, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Chat, uc.Conversation, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "admin_api", adminToken != "", "trust_proxy", trustProxy)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if refreshWorker != nil {
					refreshWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if refreshWorker != nil {
					refreshWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
