package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/electron/electron-website-updater/pkg/cli/config"
	controller "github.com/electron/electron-website-updater/pkg/controller/http"
	githubinfra "github.com/electron/electron-website-updater/pkg/infra/github"
	"github.com/electron/electron-website-updater/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		githubCfg   config.GitHub
		dispatchCfg config.Dispatch
		sentryCfg   config.Sentry
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, dispatchCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			policy, err := usecase.ParseRoutingPolicy(dispatchCfg.Policy)
			if err != nil {
				return err
			}

			privateKey, err := githubCfg.LoadPrivateKey()
			if err != nil {
				return err
			}

			githubClient, err := githubinfra.NewClient(
				githubCfg.AppID,
				githubCfg.InstallationID,
				privateKey,
				dispatchCfg.UpstreamRepo,
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			logger.Info("Starting webhook relay",
				slog.String("addr", serverCfg.Addr),
				slog.String("upstream", dispatchCfg.UpstreamRepo),
				slog.String("target", dispatchCfg.TargetOwner+"/"+dispatchCfg.TargetRepo),
				slog.String("policy", dispatchCfg.Policy),
			)

			// Create use cases
			webhookUC := usecase.NewWebhook(
				githubClient,
				usecase.WithPolicy(policy),
				usecase.WithUpstreamRepo(dispatchCfg.UpstreamRepo),
				usecase.WithTarget(dispatchCfg.TargetOwner, dispatchCfg.TargetRepo),
			)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
