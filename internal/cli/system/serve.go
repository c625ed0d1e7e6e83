package system

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/theseus/internal/api"
	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/lockfile"
	"github.com/julianstephens/theseus/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr and THESEUS_ADDR)." placeholder:"HOST:PORT"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	defer ctx.Store.Close()

	cfg := ctx.Config.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	if entry, err := lockfile.Read(ctx.ConfigDir); err == nil {
		return fmt.Errorf("a server is already running at %s (pid %d)", entry.URL(), entry.PID)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	addr := ln.Addr().String()

	if err := lockfile.Write(ctx.ConfigDir, addr, os.Getpid()); err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if err := lockfile.Remove(ctx.ConfigDir); err != nil {
			logger.Warn("Failed to remove lockfile", "error", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.New(ctx.Store, api.WithCORSOrigins(cfg.CORSOrigins))
	fmt.Printf("Serving the %s API on %s (Ctrl+C to stop)\n", constants.AppName, lockfile.Entry{Addr: addr}.URL())
	logger.Info("Server started", "addr", addr, "pid", os.Getpid())
	return srv.Serve(sigCtx, ln, cfg)
}
