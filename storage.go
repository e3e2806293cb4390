package condemus

import (
	"compress/gzip"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// The engine itself never touches disk; these helpers are the container
// format collaborators use. Projects are stored as JSON, gzipped when the
// path ends in .gz.

// SaveProject writes the project to path.
func SaveProject(path string, p *Project) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(f)
		if err := json.NewEncoder(zw).Encode(p); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		return nil
	}

	if err := json.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// LoadProject reads and validates a project from path.
func LoadProject(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	defer f.Close()

	var p Project
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("load project: %w", err)
		}
		defer zr.Close()
		if err := json.NewDecoder(zr).Decode(&p); err != nil {
			return nil, fmt.Errorf("load project: %w", err)
		}
	} else if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return &p, nil
}
