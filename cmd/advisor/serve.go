package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	advisorpkg "github.com/futuretree/advisor"
	httpAdapter "github.com/futuretree/advisor/internal/adapters/http"
	"github.com/futuretree/advisor/internal/cli"
	"github.com/futuretree/advisor/internal/config"
	"github.com/futuretree/advisor/internal/presentation/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts the advisor in server mode, exposing the chat workflow as a JSON API over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		logger := newLogger(cmd, true)

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Service.Port = port
		}

		services, err := cli.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		handler := httpAdapter.NewHandler(services.Advisor, cfg.Service.CORSOrigins, services.Registry,
			httpAdapter.WithLogger(logger))

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Service.Port),
			Handler: handler,
		}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(advisorpkg.Version)
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("advisor server listening", "addr", srv.Addr, "env", cfg.Service.Environment)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("force close: %w", err)
				}
			}
			logger.Info("advisor server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
}
