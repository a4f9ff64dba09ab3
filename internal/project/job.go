package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SawPlan/internal/dsl"
	"github.com/piwi3910/SawPlan/internal/model"
)

// ErrUnsupportedFormat is returned for job files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported job file format")

// JobExtensions lists the file extensions LoadJob and SaveJob understand.
var JobExtensions = []string{".json", ".yaml", ".yml", ".cut"}

// IsJobFile reports whether path has a job file extension.
func IsJobFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range JobExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadJob reads a job, choosing the decoder by file extension. JSON files may
// contain comments. Settings missing from JSON and YAML files keep the
// defaults of model.NewJob.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, err
	}

	job := model.NewJob()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(jsonc.ToJSON(data), &job)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &job)
	case ".cut":
		job, err = dsl.ParseJob(path, bytes.NewReader(data))
	default:
		return model.Job{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to parse job %s: %w", path, err)
	}
	if job.Panels == nil {
		job.Panels = []model.PanelPlacement{}
	}
	return job, nil
}

// SaveJob writes a job in the format given by the file extension, creating
// parent directories as needed.
func SaveJob(path string, job model.Job) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(job, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(job)
	case ".cut":
		data = []byte(dsl.Format(job))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
