package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/songs/internal/server"
	"github.com/desertthunder/songs/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve loads the catalog and serves the HTTP API until SIGINT or SIGTERM.
//
// A catalog that fails to load aborts startup.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	if addr := cmd.String("addr"); addr != "" {
		if err := applyAddr(&r.config.Server, addr); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(server.ServerOpts{
		Config:  r.config.Server,
		Handler: server.NewRouter(catalog, r.config.Server, r.logger),
		Logger:  r.logger,
	})

	return srv.Run(ctx)
}

// applyAddr overrides host and port from a host:port string.
func applyAddr(cfg *shared.ServerConfig, addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: --addr %q: %v", shared.ErrInvalidArgument, addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: --addr %q: invalid port", shared.ErrInvalidArgument, addr)
	}

	cfg.Host = host
	cfg.Port = port
	return nil
}
