package reporter

import (
	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/jobs"
)

type multi []jobs.Reporter

// Multi fans lifecycle events out to every non-nil reporter, in order.
func Multi(reporters ...jobs.Reporter) jobs.Reporter {
	m := make(multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multi) StartJob(job api.Job) {
	for _, r := range m {
		r.StartJob(job)
	}
}

func (m multi) FinishJob(job api.Job, err error) {
	for _, r := range m {
		r.FinishJob(job, err)
	}
}
