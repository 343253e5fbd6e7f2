package jobs

import (
	"encoding/hex"

	"github.com/dcos/checkjob/api"
	"github.com/google/uuid"
)

// IDPrefix marks jobs created by the checks runner.
const IDPrefix = "test-dcos-checks-"

// Fixed resource request of a check job.
const (
	Cpus = 0.1
	Mem  = 128
	Disk = 0
)

// NewID returns IDPrefix followed by 32 lowercase hex characters of a random
// UUID, so repeated or concurrent runs do not collide on the job id.
func NewID() string {
	u := uuid.New()
	return IDPrefix + hex.EncodeToString(u[:])
}

// NewCheckJob wraps a shell command into a one-off job descriptor.
func NewCheckJob(cmd string) api.Job {
	return api.Job{
		ID: NewID(),
		Run: api.Run{
			Cpus: Cpus,
			Mem:  Mem,
			Disk: Disk,
			Cmd:  cmd,
		},
	}
}
