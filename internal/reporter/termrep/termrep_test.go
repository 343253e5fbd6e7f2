package termrep_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/reporter/termrep"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestTerminalReporter(t *testing.T) {
	color.NoColor = true

	job := api.Job{
		ID:  "test-dcos-checks-0123",
		Run: api.Run{Cpus: 0.1, Mem: 128, Disk: 0, Cmd: "/opt/mesosphere/bin/dcos-checks --role agent components "},
	}

	var buf bytes.Buffer
	r := termrep.NewWithWriter(&buf)
	r.StartJob(job)
	r.FinishJob(job, nil)

	out := buf.String()
	assert.Contains(t, out, "test-dcos-checks-0123 submitted")
	assert.Contains(t, out, "cpus=0.1 mem=128 disk=0")
	assert.Contains(t, out, "dcos-checks --role agent components")
	assert.Contains(t, out, "PASS test-dcos-checks-0123")

	buf.Reset()
	r.StartJob(job)
	r.FinishJob(job, errors.New("metronome job failed"))
	assert.Contains(t, buf.String(), "FAIL test-dcos-checks-0123")
	assert.Contains(t, buf.String(), "metronome job failed")
}
