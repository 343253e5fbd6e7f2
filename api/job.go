package api

// Job is a one-off job definition as accepted by Metronome.
type Job struct {
	ID  string `json:"id"`
	Run Run    `json:"run"`

	// History is only present when the job is fetched with embed=history.
	History *JobHistory `json:"history,omitempty"`
}

// Run describes what a job executes and the resources it requests.
type Run struct {
	Cpus float64 `json:"cpus"`
	Mem  int     `json:"mem"`
	Disk int     `json:"disk"`
	Cmd  string  `json:"cmd"`
}

// RunStatus is the lifecycle state of a single job run.
type RunStatus string

const (
	RunInitial   RunStatus = "INITIAL"
	RunStarting  RunStatus = "STARTING"
	RunActive    RunStatus = "ACTIVE"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// Finished reports whether the run reached a terminal state.
func (s RunStatus) Finished() bool {
	return s == RunCompleted || s == RunFailed
}

// JobRun is a single execution of a job.
type JobRun struct {
	ID         string    `json:"id"`
	JobID      string    `json:"jobId"`
	Status     RunStatus `json:"status"`
	CreatedAt  string    `json:"createdAt"`
	FinishedAt string    `json:"finishedAt,omitempty"`
}

// FinishedRun is a history entry of a run that reached a terminal state.
type FinishedRun struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"createdAt"`
	FinishedAt string `json:"finishedAt"`
}

// JobHistory summarises finished runs of a job.
type JobHistory struct {
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`

	LastSuccessAt *string `json:"lastSuccessAt"`
	LastFailureAt *string `json:"lastFailureAt"`

	SuccessfulFinishedRuns []FinishedRun `json:"successfulFinishedRuns"`
	FailedFinishedRuns     []FinishedRun `json:"failedFinishedRuns"`
}

// ErrorResponse is the body Metronome returns alongside non-2xx statuses.
type ErrorResponse struct {
	Message string `json:"message"`
}
