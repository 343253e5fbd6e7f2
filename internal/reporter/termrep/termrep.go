package termrep

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dcos/checkjob/api"
	"github.com/fatih/color"
)

// TerminalReporter prints a human readable PASS/FAIL summary.
type TerminalReporter struct {
	out       io.Writer
	startedAt time.Time

	pass *color.Color
	fail *color.Color
	dim  *color.Color
}

func New() *TerminalReporter { return NewWithWriter(os.Stdout) }

func NewWithWriter(w io.Writer) *TerminalReporter {
	return &TerminalReporter{
		out:  w,
		pass: color.New(color.FgHiGreen, color.Bold),
		fail: color.New(color.FgHiRed, color.Bold),
		dim:  color.New(color.Faint),
	}
}

func (t *TerminalReporter) StartJob(job api.Job) {
	t.startedAt = time.Now()
	fmt.Fprintf(t.out, "== Check job %s submitted ==\n", job.ID)
	t.dim.Fprintf(t.out, "cpus=%g mem=%d disk=%d\n", job.Run.Cpus, job.Run.Mem, job.Run.Disk)
	t.dim.Fprintf(t.out, "cmd: %s\n", job.Run.Cmd)
}

func (t *TerminalReporter) FinishJob(job api.Job, err error) {
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	if err != nil {
		t.fail.Fprint(t.out, "FAIL")
		fmt.Fprintf(t.out, " %s after %s\n  %v\n", job.ID, dur, err)
		return
	}
	t.pass.Fprint(t.out, "PASS")
	fmt.Fprintf(t.out, " %s in %s\n", job.ID, dur)
}
