package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dcos/checkjob/internal/checks"
	"github.com/dcos/checkjob/internal/environment"
	"github.com/dcos/checkjob/internal/jobs"
	"github.com/dcos/checkjob/internal/logging"
	"github.com/dcos/checkjob/internal/metronome"
	"github.com/dcos/checkjob/internal/reporter"
	"github.com/dcos/checkjob/internal/reporter/natsrep"
	"github.com/dcos/checkjob/internal/reporter/sqsrep"
	"github.com/dcos/checkjob/internal/reporter/termrep"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "checkjob",
		Usage: "run dcos-checks on an agent as a Metronome one-off job",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file to load before reading the environment",
				Value:   ".env",
				Sources: cli.EnvVars("CHECKJOB_ENV_FILE"),
			},
			&cli.StringFlag{
				Name:    "targets",
				Usage:   "TOML or YAML file with the dcos-checks subcommands to run",
				Sources: cli.EnvVars("CHECKJOB_TARGETS"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "submit the check job and wait for it to pass or fail",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "metronome-url",
						Usage: "Metronome v1 API root, overrides METRONOME_URL and DCOS_URL",
					},
				},
				Action: runAction,
			},
			{
				Name:   "show",
				Usage:  "print the job that would be submitted",
				Action: showAction,
			},
			agentCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("checkjob failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*environment.EnvConfig, error) {
	cfg, err := environment.ReadEnvConfig(cmd.String("env-file"))
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel)
	return cfg, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if u := cmd.String("metronome-url"); u != "" {
		cfg.MetronomeURL = u
	}
	if cfg.MetronomeURL == "" {
		return errors.New("no scheduler configured: set DCOS_URL, METRONOME_URL or --metronome-url")
	}

	targets, err := checks.LoadTargets(cmd.String("targets"))
	if err != nil {
		return err
	}

	rep, closeReporters, err := buildReporters(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeReporters()

	client := metronome.New(cfg.MetronomeURL,
		metronome.WithToken(cfg.ACSToken),
		metronome.WithPollInterval(cfg.PollInterval),
		metronome.WithTimeout(cfg.Timeout),
		metronome.WithLogger(slog.Default()),
	)

	submitter := jobs.NewSubmitter(client, rep, slog.Default())
	_, err = submitter.SubmitTargets(ctx, targets)
	return err
}

func buildReporters(ctx context.Context, cfg *environment.EnvConfig) (jobs.Reporter, func(), error) {
	reporters := []jobs.Reporter{termrep.New()}
	closeFn := func() {}

	if cfg.NatsURL != "" {
		natsRep, nc, err := natsrep.Connect(cfg.NatsURL, cfg.NatsSubject)
		if err != nil {
			return nil, nil, err
		}
		reporters = append(reporters, natsRep)
		closeFn = func() {
			if err := nc.Drain(); err != nil {
				slog.Warn("failed to drain NATS connection", "err", err)
			}
		}
	}

	if cfg.SqsURL != "" {
		sqsRep, err := sqsrep.New(ctx, cfg.SqsURL, cfg.AwsRegion)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		reporters = append(reporters, sqsRep)
	}

	return reporter.Multi(reporters...), closeFn, nil
}

func showAction(_ context.Context, cmd *cli.Command) error {
	targets, err := checks.LoadTargets(cmd.String("targets"))
	if err != nil {
		return err
	}

	for _, c := range checks.BuildCommands(targets) {
		fmt.Printf("%q\n", c)
	}

	b, err := json.MarshalIndent(jobs.NewCheckJob(checks.BuildCommand(targets)), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
