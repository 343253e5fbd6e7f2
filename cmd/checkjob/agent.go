package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dcos/checkjob/internal/localsched"
	"github.com/dcos/checkjob/internal/xdg"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func agentCommand() *cli.Command {
	return &cli.Command{
		Name:  "agent",
		Usage: "serve a Metronome-compatible API that runs jobs on this host",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "address to listen on",
				Value:   "127.0.0.1:9000",
				Sources: cli.EnvVars("CHECKJOB_AGENT_LISTEN"),
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "directory for compressed run outputs (default: XDG state dir)",
			},
		},
		Action: agentAction,
	}
}

func agentAction(ctx context.Context, cmd *cli.Command) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	log := slog.Default()

	outputDir := cmd.String("output-dir")
	if outputDir == "" {
		dirs := xdg.NewXDGDirs()
		outputDir = filepath.Join(dirs.AppStateDir("checkjob"), "outputs")
	}
	outputs, err := localsched.NewOutputStore(outputDir)
	if err != nil {
		return err
	}

	sched := localsched.New(outputs, localsched.WithLogger(log))
	srv := &http.Server{
		Addr:              cmd.String("listen"),
		Handler:           localsched.Handler(sched, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("agent listening", "addr", srv.Addr, "outputs", outputDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("agent server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down agent")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srvErr := srv.Shutdown(shutdownCtx)
		schedErr := sched.Shutdown(shutdownCtx)
		return errors.Join(srvErr, schedErr)
	})

	return g.Wait()
}
