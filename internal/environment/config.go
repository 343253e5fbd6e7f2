package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dcos/checkjob/internal/metronome"
	"github.com/joho/godotenv"
)

type EnvConfig struct {
	// MetronomeURL is the Metronome v1 API root.
	MetronomeURL string
	ACSToken     string

	PollInterval time.Duration
	Timeout      time.Duration

	NatsURL     string
	NatsSubject string

	SqsURL    string
	AwsRegion string

	LogLevel slog.Level
}

// ReadEnvConfig loads the given .env files (a missing file is not an error)
// and builds the configuration from the process environment.
func ReadEnvConfig(envFiles ...string) (*EnvConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	result := &EnvConfig{
		MetronomeURL: os.Getenv("METRONOME_URL"),
		ACSToken:     os.Getenv("DCOS_ACS_TOKEN"),
		NatsURL:      os.Getenv("CHECKJOB_NATS_URL"),
		NatsSubject:  getenvDefault("CHECKJOB_NATS_SUBJECT", "dcos.checks.jobs"),
		SqsURL:       os.Getenv("CHECKJOB_SQS_URL"),
		AwsRegion:    getenvDefault("CHECKJOB_AWS_REGION", "us-east-1"),
	}

	if result.MetronomeURL == "" {
		if dcosURL := os.Getenv("DCOS_URL"); dcosURL != "" {
			result.MetronomeURL = metronome.BaseURLFromCluster(dcosURL)
		}
	}

	var err error
	result.PollInterval, err = durationFromEnv("CHECKJOB_POLL_INTERVAL", metronome.DefaultPollInterval)
	if err != nil {
		return nil, err
	}
	result.Timeout, err = durationFromEnv("CHECKJOB_TIMEOUT", metronome.DefaultTimeout)
	if err != nil {
		return nil, err
	}

	if lvl := os.Getenv("CHECKJOB_LOG_LEVEL"); lvl != "" {
		if err := result.LogLevel.UnmarshalText([]byte(strings.ToUpper(lvl))); err != nil {
			return nil, fmt.Errorf("invalid CHECKJOB_LOG_LEVEL %q: %w", lvl, err)
		}
	}

	return result, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
