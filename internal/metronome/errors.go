package metronome

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dcos/checkjob/api"
)

var (
	// ErrJobFailed means a run of the job finished with a non-zero exit status.
	ErrJobFailed = errors.New("metronome job failed")
	// ErrTimeout means the job did not finish within the client timeout.
	ErrTimeout = errors.New("timed out waiting for metronome job")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, StatusCode: status}
	var resp api.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		e.Message = resp.Message
	} else if len(body) > 0 && len(body) < 512 {
		e.Message = string(body)
	}
	return e
}
