package suite

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/entity-search/internal/bench/metrics"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
	"github.com/DjordjeVuckovic/entity-search/internal/types/urn"
	"gopkg.in/yaml.v3"
)

// Suite is a set of judged queries run against the entity searcher.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Entities is the default entity list of every query.
	Entities []string `yaml:"entities"`
	Queries  []Query  `yaml:"queries"`
}

type Query struct {
	ID          string             `yaml:"id"`
	Description string             `yaml:"description"`
	Input       string             `yaml:"input"`
	Entities    []string           `yaml:"entities,omitempty"`
	Filter      *filter.Filter     `yaml:"filter,omitempty"`
	Flags       *query.SearchFlags `yaml:"flags,omitempty"`
	Judgments   []Judgment         `yaml:"judgments"`
}

type Judgment struct {
	Urn       string `yaml:"urn"`
	Relevance int    `yaml:"relevance"`
}

// JudgmentMap converts the judgments to a map keyed by urn.
func (q *Query) JudgmentMap() metrics.Judgments[string] {
	m := make(metrics.Judgments[string], len(q.Judgments))
	for _, j := range q.Judgments {
		m[j.Urn] = j.Relevance
	}
	return m
}

// EntityList returns the query entities, falling back to the suite's.
func (s *Suite) EntityList(q Query) []string {
	if len(q.Entities) > 0 {
		return q.Entities
	}
	return s.Entities
}

func LoadFromFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a suite. Unknown keys are rejected.
func Parse(data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Suite
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("suite document is empty")
		}
		return nil, fmt.Errorf("parse suite YAML: %w", err)
	}
	if len(s.Queries) == 0 {
		return nil, fmt.Errorf("suite has no queries")
	}

	seen := make(map[string]struct{}, len(s.Queries))
	for i, q := range s.Queries {
		if q.ID == "" {
			return nil, fmt.Errorf("query at index %d has no id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("query id %q is used twice", q.ID)
		}
		seen[q.ID] = struct{}{}

		if err := q.Filter.Validate(); err != nil {
			return nil, fmt.Errorf("query %q: %w", q.ID, err)
		}
		if len(q.Judgments) == 0 {
			return nil, fmt.Errorf("query %q has no judgments", q.ID)
		}
		for _, j := range q.Judgments {
			if _, err := urn.Parse(j.Urn); err != nil {
				return nil, fmt.Errorf("query %q: judgment urn %q: %w", q.ID, j.Urn, err)
			}
			if j.Relevance < 0 {
				return nil, fmt.Errorf("query %q: judgment %q has negative relevance", q.ID, j.Urn)
			}
		}
	}
	return &s, nil
}
