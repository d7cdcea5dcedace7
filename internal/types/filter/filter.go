package filter

import (
	"fmt"
	"strings"
)

// KeywordSuffix is the sub-field holding the non-analyzed value of a text field.
const KeywordSuffix = ".keyword"

// RemovedField marks soft-deleted entities.
const RemovedField = "removed"

// Condition is the comparison a Criterion applies to its field.
type Condition string

const (
	Equal              Condition = "EQUAL"
	Contain            Condition = "CONTAIN"
	StartWith          Condition = "START_WITH"
	EndWith            Condition = "END_WITH"
	Exists             Condition = "EXISTS"
	IsNull             Condition = "IS_NULL"
	GreaterThan        Condition = "GREATER_THAN"
	GreaterThanOrEqual Condition = "GREATER_THAN_OR_EQUAL_TO"
	LessThan           Condition = "LESS_THAN"
	LessThanOrEqual    Condition = "LESS_THAN_OR_EQUAL_TO"
)

// ParseCondition accepts a condition name case-insensitively; empty means Equal.
func ParseCondition(s string) (Condition, error) {
	if s == "" {
		return Equal, nil
	}
	c := Condition(strings.ToUpper(s))
	switch c {
	case Equal, Contain, StartWith, EndWith, Exists, IsNull,
		GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
		return c, nil
	default:
		return "", fmt.Errorf("invalid filter condition: %s", s)
	}
}

// NeedsValue reports whether the condition compares against at least one value.
func (c Condition) NeedsValue() bool {
	return c != Exists && c != IsNull
}

// IsRange reports whether the condition is a range comparison.
func (c Condition) IsRange() bool {
	switch c {
	case GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
		return true
	default:
		return false
	}
}

// Criterion is a single field comparison.
type Criterion struct {
	Field     string    `json:"field" yaml:"field"`
	Condition Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
	Values    []string  `json:"values,omitempty" yaml:"values,omitempty"`
	Negated   bool      `json:"negated,omitempty" yaml:"negated,omitempty"`
}

// GetCondition returns the condition with Equal as fallback.
func (c Criterion) GetCondition() Condition {
	if c.Condition == "" {
		return Equal
	}
	return c.Condition
}

// Validate checks the criterion is well formed. Whether the field maps to a
// facet is not checked here: unknown fields still filter on a best-effort basis.
func (c Criterion) Validate() error {
	if strings.TrimSpace(c.Field) == "" {
		return fmt.Errorf("criterion field is required")
	}
	cond := c.GetCondition()
	if _, err := ParseCondition(string(cond)); err != nil {
		return err
	}
	if cond.NeedsValue() && len(c.Values) == 0 {
		return fmt.Errorf("criterion on %q with condition %s requires at least one value", c.Field, cond)
	}
	if cond.IsRange() && len(c.Values) != 1 {
		return fmt.Errorf("criterion on %q with condition %s takes exactly one value", c.Field, cond)
	}
	return nil
}

// References reports whether the criterion targets field, by raw or keyword name.
func (c Criterion) References(field string) bool {
	return c.Field == field || c.Field == field+KeywordSuffix
}

// ConjunctiveCriterion is an AND of criteria.
type ConjunctiveCriterion struct {
	And []Criterion `json:"and" yaml:"and"`
}

// Filter is an OR of conjunctions.
type Filter struct {
	Or []ConjunctiveCriterion `json:"or" yaml:"or"`
}

// NewFilter builds a filter from conjunctions.
func NewFilter(conjunctions ...ConjunctiveCriterion) *Filter {
	return &Filter{Or: conjunctions}
}

// And builds a single conjunction from criteria.
func And(criteria ...Criterion) ConjunctiveCriterion {
	return ConjunctiveCriterion{And: criteria}
}

// IsEmpty reports whether f has no criteria at all. A nil filter is empty.
func (f *Filter) IsEmpty() bool {
	if f == nil {
		return true
	}
	for _, conj := range f.Or {
		if len(conj.And) > 0 {
			return false
		}
	}
	return true
}

// Validate validates every criterion.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	for i, conj := range f.Or {
		for j, c := range conj.And {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("or[%d].and[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

// References reports whether any conjunction has a criterion on field.
func (f *Filter) References(field string) bool {
	if f == nil {
		return false
	}
	for _, conj := range f.Or {
		for _, c := range conj.And {
			if c.References(field) {
				return true
			}
		}
	}
	return false
}

// Criteria returns every criterion across all conjunctions, in order.
func (f *Filter) Criteria() []Criterion {
	if f == nil {
		return nil
	}
	var all []Criterion
	for _, conj := range f.Or {
		all = append(all, conj.And...)
	}
	return all
}

// ToFacetField maps a filter field onto its facet field, e.g. platform.keyword -> platform.
// It reports false when the name cannot denote a facet.
func ToFacetField(field string) (string, bool) {
	facet := strings.TrimSuffix(field, KeywordSuffix)
	if facet == "" || strings.ContainsAny(facet, " \t\n") {
		return "", false
	}
	return facet, true
}

// ToKeywordField returns the non-analyzed field used for exact matching and aggregation.
// Fields already addressing the keyword sub-field, and the raw keyword fields in
// rawKeywordFields, are returned unchanged.
func ToKeywordField(field string) string {
	if strings.HasSuffix(field, KeywordSuffix) {
		return field
	}
	if _, ok := rawKeywordFields[field]; ok {
		return field
	}
	return field + KeywordSuffix
}

// Fields mapped as keyword or boolean at the top level, without a keyword sub-field.
var rawKeywordFields = map[string]struct{}{
	"urn":        {},
	RemovedField: {},
}
