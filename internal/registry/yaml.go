package registry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"gopkg.in/yaml.v3"
)

// File is the registry document layout.
type File struct {
	Entities []schema.EntitySpec `yaml:"entities" schema:"required,minItems=1"`
}

// YAMLSource reads entity declarations from a YAML file.
type YAMLSource struct {
	path string
}

var _ Source = (*YAMLSource)(nil)

func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

func (s *YAMLSource) Load(_ context.Context) ([]schema.EntitySpec, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open registry file: %w", err)
	}
	defer f.Close()

	entities, err := ParseYAML(f)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", s.path, err)
	}
	return entities, nil
}

// ParseYAML decodes a registry document. Unknown keys are rejected.
func ParseYAML(r io.Reader) ([]schema.EntitySpec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc File
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("registry document is empty")
		}
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	if err := validate(doc.Entities); err != nil {
		return nil, err
	}
	return doc.Entities, nil
}
