package metronome

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dcos/checkjob/api"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultTimeout      = 300 * time.Second
)

// Client talks to the Metronome jobs API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	PollInterval time.Duration
	Timeout      time.Duration

	log *slog.Logger
}

type Option func(*Client)

// WithToken sets the DC/OS authentication token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.PollInterval = d }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.Timeout = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the API rooted at baseURL, e.g.
// https://master.mesos/service/metronome/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		PollInterval: DefaultPollInterval,
		Timeout:      DefaultTimeout,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURLFromCluster derives the Metronome API root from a DC/OS cluster URL.
func BaseURLFromCluster(dcosURL string) string {
	return strings.TrimSuffix(dcosURL, "/") + "/service/metronome/v1"
}

// CreateJob registers a job definition.
func (c *Client) CreateJob(ctx context.Context, job api.Job) error {
	return c.do(ctx, http.MethodPost, "/jobs", nil, job, nil)
}

// StartRun triggers a new run of an existing job.
func (c *Client) StartRun(ctx context.Context, jobID string) (api.JobRun, error) {
	var run api.JobRun
	err := c.do(ctx, http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/runs", nil, nil, &run)
	return run, err
}

// GetRun fetches a single run of a job.
func (c *Client) GetRun(ctx context.Context, jobID, runID string) (api.JobRun, error) {
	var run api.JobRun
	path := "/jobs/" + url.PathEscape(jobID) + "/runs/" + url.PathEscape(runID)
	err := c.do(ctx, http.MethodGet, path, nil, nil, &run)
	return run, err
}

// GetJobHistory fetches the job with its run history embedded.
func (c *Client) GetJobHistory(ctx context.Context, jobID string) (api.JobHistory, error) {
	var job api.Job
	query := url.Values{"embed": []string{"history"}}
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID), query, nil, &job); err != nil {
		return api.JobHistory{}, err
	}
	if job.History == nil {
		return api.JobHistory{}, fmt.Errorf("job %s: response has no history", jobID)
	}
	return *job.History, nil
}

// DeleteJob removes the job definition, stopping runs that are still active.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	query := url.Values{"stopCurrentJobRuns": []string{"true"}}
	return c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(jobID), query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token="+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}
