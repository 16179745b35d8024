package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	v1 "github.com/vmunix/costar/internal/api/v1"
	"github.com/vmunix/costar/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until interrupted.

Routes:
  GET /healthz
  GET /api/v1/compare?actor1_id=&actor2_id=[&actor1_name=&actor2_name=]
  GET /api/v1/actors/search?q=
  GET /api/v1/actors/resolve?name=
  GET /api/v1/actors/{id}
  GET /api/v1/actors/{id}/movies`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.host/server.port)")
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	a, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	}

	api := v1.New(a.comparison, a.catalog, v1.Config{
		ImageBaseURL: a.cfg.TMDB.ImageBaseURL,
		Version:      version,
	}, a.log)

	runner := server.NewRunner(api.Handler(), a.store, server.Config{
		Addr:          addr,
		SweepInterval: a.cfg.Cache.SweepInterval,
		SweepLimit:    a.cfg.Cache.SweepLimit,
	}, a.log)

	a.log.Info("server starting",
		"addr", addr,
		"version", version,
		"cache_backend", a.cfg.Cache.Backend,
		"cache_version", a.cfg.Cache.Version,
		"tmdb_configured", a.client.Configured(),
		"log_level", a.cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		return err
	}
	a.log.Info("server stopped")
	return nil
}
