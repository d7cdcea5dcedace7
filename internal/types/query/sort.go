package query

import (
	"fmt"
	"strings"
)

type SortOrder string

const (
	Ascending  SortOrder = "ASCENDING"
	Descending SortOrder = "DESCENDING"
)

// ParseSortOrder accepts asc/desc and their long forms; empty means Descending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToUpper(s) {
	case "", "DESC", string(Descending):
		return Descending, nil
	case "ASC", string(Ascending):
		return Ascending, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", s)
	}
}

// SortCriterion orders results by a document field instead of relevance.
type SortCriterion struct {
	Field string    `json:"field" yaml:"field"`
	Order SortOrder `json:"order,omitempty" yaml:"order,omitempty"`
}

// GetOrder returns the order with Descending as fallback.
func (s *SortCriterion) GetOrder() SortOrder {
	if s.Order == "" {
		return Descending
	}
	return s.Order
}
