package natsrep_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/reporter/natsrep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subj string, data []byte) error {
	f.msgs = append(f.msgs, published{subject: subj, data: data})
	return f.err
}

func TestNatsReporter_Events(t *testing.T) {
	pub := &fakePublisher{}
	r := natsrep.New(pub, "checks.results")

	job := api.Job{
		ID:  "test-dcos-checks-abc",
		Run: api.Run{Cpus: 0.1, Mem: 128, Disk: 0, Cmd: strings.Repeat("c", 200)},
	}
	r.StartJob(job)
	r.FinishJob(job, errors.New("metronome job failed"))
	r.FinishJob(job, nil)

	require.Len(t, pub.msgs, 3)
	for _, m := range pub.msgs {
		assert.Equal(t, "checks.results", m.subject)
	}

	var start api.StartJobEvent
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &start))
	assert.Equal(t, api.StartJobMsg, start.MsgType)
	assert.Equal(t, "test-dcos-checks-abc", start.JobID)
	assert.Equal(t, 0.1, start.Cpus)
	assert.Equal(t, 128, start.Mem)
	assert.Equal(t, strings.Repeat("c", api.MaxEventTextWidth)+"[...]", start.Cmd)

	var failed api.FinishJobEvent
	require.NoError(t, json.Unmarshal(pub.msgs[1].data, &failed))
	assert.Equal(t, api.FinishJobMsg, failed.MsgType)
	assert.False(t, failed.Passed)
	require.NotNil(t, failed.ErrorMessage)
	assert.Equal(t, "metronome job failed", *failed.ErrorMessage)

	var passed api.FinishJobEvent
	require.NoError(t, json.Unmarshal(pub.msgs[2].data, &passed))
	assert.True(t, passed.Passed)
	assert.Nil(t, passed.ErrorMessage)
}

func TestNatsReporter_PublishErrorIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	r := natsrep.New(pub, "checks.results")

	assert.NotPanics(t, func() {
		r.StartJob(api.Job{ID: "x"})
		r.FinishJob(api.Job{ID: "x"}, nil)
	})
	assert.Len(t, pub.msgs, 2)
}
