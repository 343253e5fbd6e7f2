package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/dcos/checkjob/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNew_LevelAndPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("submitting check job", "job_id", "test-dcos-checks-abc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "submitting check job")
	assert.Contains(t, out, "job_id=test-dcos-checks-abc")
	assert.NotContains(t, out, "\x1b[")
}
