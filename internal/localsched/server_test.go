package localsched_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/checks"
	"github.com/dcos/checkjob/internal/jobs"
	"github.com/dcos/checkjob/internal/localsched"
	"github.com/dcos/checkjob/internal/metronome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, opts ...localsched.Option) (*httptest.Server, *localsched.Scheduler) {
	t.Helper()
	s, _ := newScheduler(t, opts...)
	srv := httptest.NewServer(localsched.Handler(s, nil))
	t.Cleanup(srv.Close)
	return srv, s
}

func newClient(srv *httptest.Server) *metronome.Client {
	return metronome.New(srv.URL+"/v1",
		metronome.WithPollInterval(10*time.Millisecond),
		metronome.WithTimeout(10*time.Second))
}

func TestHandler_SubmitterPasses(t *testing.T) {
	srv, s := newServer(t)

	sub := jobs.NewSubmitter(newClient(srv), nil, nil)
	job, err := sub.Submit(context.Background(), "echo checking && true")
	require.NoError(t, err)

	// the job definition is cleaned up after the run
	_, err = s.GetJob(job.ID, false)
	assert.ErrorIs(t, err, localsched.ErrJobNotFound)
}

func TestHandler_SubmitterFails(t *testing.T) {
	srv, _ := newServer(t)

	sub := jobs.NewSubmitter(newClient(srv), nil, nil)
	_, err := sub.Submit(context.Background(), "true && false")
	require.Error(t, err)
	assert.ErrorIs(t, err, metronome.ErrJobFailed)
}

func TestHandler_MissingChecksBinaryFails(t *testing.T) {
	if _, err := os.Stat(checks.BinaryPath); err == nil {
		t.Skip("running on a DC/OS node")
	}
	srv, _ := newServer(t)

	sub := jobs.NewSubmitter(newClient(srv), nil, nil)
	_, err := sub.SubmitTargets(context.Background(), checks.DefaultTargets())
	require.Error(t, err)
}

func TestHandler_JobLifecycle(t *testing.T) {
	srv, s := newServer(t)

	body, err := json.Marshal(newJob("lifecycle", "echo hello"))
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/v1/jobs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/jobs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/jobs/lifecycle/runs", "application/json", nil)
	require.NoError(t, err)
	var run api.JobRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, s.Wait())

	resp, err = http.Get(srv.URL + "/v1/jobs/lifecycle/runs/" + run.ID)
	require.NoError(t, err)
	var got api.JobRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, api.RunCompleted, got.Status)

	resp, err = http.Get(srv.URL + "/v1/jobs/lifecycle?embed=history")
	require.NoError(t, err)
	var job api.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
	resp.Body.Close()
	require.NotNil(t, job.History)
	assert.Equal(t, 1, job.History.SuccessCount)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/jobs/lifecycle", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// output survives the job definition
	resp, err = http.Get(srv.URL + "/v1/jobs/lifecycle/runs/" + run.ID + "/output")
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello\n", string(out))
}

func TestHandler_BadRequests(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/jobs", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/jobs", "application/json", bytes.NewReader([]byte(`{"id":"x","run":{}}`)))
	require.NoError(t, err)
	var apiErr api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, apiErr.Message)

	resp, err = http.Get(srv.URL + "/v1/jobs/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/jobs/missing/runs", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
