package localsched

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// OutputStore keeps the combined output of every run, zstd-compressed,
// under <dir>/<job id>/<run id>.log.zst. Outputs outlive the job definition.
type OutputStore struct {
	dir string
}

func NewOutputStore(dir string) (*OutputStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &OutputStore{dir: dir}, nil
}

var ErrInvalidOutputKey = errors.New("invalid job or run id for output")

func (s *OutputStore) path(jobID, runID string) (string, error) {
	if !validID(jobID) || !validID(runID) {
		return "", fmt.Errorf("%w: %q/%q", ErrInvalidOutputKey, jobID, runID)
	}
	return filepath.Join(s.dir, jobID, runID+".log.zst"), nil
}

// Save writes the output of a run, replacing any previous content.
func (s *OutputStore) Save(jobID, runID string, output []byte) (err error) {
	path, err := s.path(jobID, runID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create job output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file %s: %w", path, cerr)
		}
	}()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if _, err := enc.Write(output); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush output file %s: %w", path, err)
	}
	return nil
}

// Load returns the decompressed output of a run.
func (s *OutputStore) Load(jobID, runID string) ([]byte, error) {
	path, err := s.path(jobID, runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %s: %w", path, err)
	}
	defer f.Close()

	d, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer d.Close()

	data, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file %s: %w", path, err)
	}
	return data, nil
}
