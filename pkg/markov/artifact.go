package markov

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/searchsim/pkg/domain"
)

// artifact is the on-disk form of a matrix. Labels stay strings so artifacts
// may use the alternative spellings accepted by domain.ParseAction.
type artifact struct {
	States []string    `json:"states" yaml:"states"`
	Rows   [][]float64 `json:"matrix" yaml:"matrix"`
}

// Load reads a matrix artifact. The format follows the extension:
// .json and .yaml/.yml are text, anything else is a gob blob written by Save.
// The matrix is validated before it is returned.
func Load(path string) (*TransitionMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix artifact: %w", err)
	}

	var a artifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &a)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &a)
	default:
		err = gob.NewDecoder(bytes.NewReader(data)).Decode(&a)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode matrix artifact %s: %w", path, err)
	}

	m, err := a.matrix()
	if err != nil {
		return nil, fmt.Errorf("matrix artifact %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("matrix artifact %s: %w", path, err)
	}
	return m, nil
}

// LoadChain loads an artifact and builds a chain from it.
func LoadChain(path string) (*Chain, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewChain(*m)
}

// Save writes m as a gob blob.
func Save(path string, m TransitionMatrix) error {
	a := artifact{Rows: m.Rows}
	for _, s := range m.States {
		a.States = append(a.States, s.String())
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write matrix artifact: %w", err)
	}
	return nil
}

func (a artifact) matrix() (*TransitionMatrix, error) {
	m := &TransitionMatrix{Rows: a.Rows}
	for _, label := range a.States {
		s, err := domain.ParseAction(label)
		if err != nil {
			return nil, err
		}
		m.States = append(m.States, s)
	}
	return m, nil
}
