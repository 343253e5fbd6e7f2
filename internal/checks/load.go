package checks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type targetsFile struct {
	Targets []Target `toml:"targets" yaml:"targets"`
}

// LoadTargets reads a target table from a TOML file, or from YAML when the
// file has a .yaml/.yml extension. An empty path yields DefaultTargets.
func LoadTargets(path string) ([]Target, error) {
	if path == "" {
		return DefaultTargets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var file targetsFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("targets file %s contains no targets", path)
	}
	return file.Targets, nil
}
