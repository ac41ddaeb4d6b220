package submission

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohowland/digilab/internal/pkg/network"
	"github.com/ohowland/digilab/internal/pkg/optimize"
	"gopkg.in/yaml.v3"
)

// Format is a submission file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Submission is everything a student can hand in for one task. Each task
// reads only the parts it grades.
type Submission struct {
	Student     string           `json:"student" yaml:"student"`
	Task        string           `json:"task" yaml:"task"`
	Network     *network.Network `json:"network,omitempty" yaml:"network,omitempty"`
	Result      *optimize.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Values      []float64        `json:"values,omitempty" yaml:"values,omitempty"`
	Objective   []float64        `json:"objective,omitempty" yaml:"objective,omitempty"`
	Constraints [][]float64      `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported submission file %q", path)
	}
}

// Decode reads a submission and validates any network it carries.
func Decode(r io.Reader, format Format) (Submission, error) {
	sub := Submission{}
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&sub); err != nil {
			return Submission{}, fmt.Errorf("decode json submission: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&sub); err != nil {
			return Submission{}, fmt.Errorf("decode yaml submission: %w", err)
		}
	default:
		return Submission{}, fmt.Errorf("unsupported format %q", format)
	}

	if sub.Network != nil {
		if err := sub.Network.Validate(); err != nil {
			return Submission{}, fmt.Errorf("invalid network: %w", err)
		}
	}
	return sub, nil
}

// ReadFile decodes the submission at path.
func ReadFile(path string) (Submission, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Submission{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Submission{}, err
	}
	defer f.Close()
	return Decode(f, format)
}
