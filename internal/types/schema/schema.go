package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
)

// UrnField is the identity field present on every search document.
// It is always queried by default.
const UrnField = "urn"

// FieldSpec declares how one entity field takes part in search.
type FieldSpec struct {
	FieldName      string  `json:"fieldName" yaml:"fieldName" schema:"required,minLength=1" description:"Document field name"`
	AddToFilters   bool    `json:"addToFilters" yaml:"addToFilters" description:"Expose the field as a facet"`
	QueryByDefault bool    `json:"queryByDefault" yaml:"queryByDefault" description:"Match free text against the field"`
	CaseSensitive  bool    `json:"caseSensitive" yaml:"caseSensitive" description:"Exact matches respect case"`
	FilterName     string  `json:"filterName,omitempty" yaml:"filterName,omitempty" description:"Facet display name"`
	Boost          float64 `json:"boost,omitempty" yaml:"boost,omitempty" schema:"minimum=0" description:"Relevance weight, 1 when unset"`
}

// EntitySpec is the searchable field list of one entity type.
type EntitySpec struct {
	Name   string      `json:"name" yaml:"name" schema:"required,minLength=1" description:"Entity type name"`
	Fields []FieldSpec `json:"fields" yaml:"fields" schema:"required,minItems=1"`
}

// Schema is the combined searchable view over one or more entity types.
// It is immutable once returned by Resolve.
type Schema struct {
	entities      []string
	fields        []FieldSpec
	facets        []string
	defaultFields []string
	displayNames  map[string]string
	boosts        map[string]float64
}

// Resolve derives facet fields, default query fields and display names
// from the declared field specs of all given entities.
func Resolve(specs []EntitySpec) (*Schema, error) {
	s := &Schema{
		displayNames: make(map[string]string),
		boosts:       make(map[string]float64),
	}

	facetSet := make(map[string]struct{})
	defaultSet := map[string]struct{}{UrnField: {}}

	for _, spec := range specs {
		s.entities = append(s.entities, spec.Name)
		for _, f := range spec.Fields {
			if strings.TrimSpace(f.FieldName) == "" {
				return nil, apperr.NewValidation(fmt.Sprintf("entity %q declares a field without a name", spec.Name))
			}
			s.fields = append(s.fields, f)

			if f.AddToFilters {
				if existing, ok := s.displayNames[f.FieldName]; ok && existing != f.FilterName {
					return nil, apperr.NewSchemaConflict(f.FieldName, existing, f.FilterName)
				}
				s.displayNames[f.FieldName] = f.FilterName
				facetSet[f.FieldName] = struct{}{}
			}

			if f.QueryByDefault {
				defaultSet[f.FieldName] = struct{}{}
				if f.Boost > s.boosts[f.FieldName] {
					s.boosts[f.FieldName] = f.Boost
				}
			}
		}
	}

	s.facets = sortedKeys(facetSet)
	s.defaultFields = sortedKeys(defaultSet)

	return s, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entities returns the entity names in the order they were resolved.
func (s *Schema) Entities() []string { return s.entities }

// FacetFields returns the sorted set of fields that can be filtered and aggregated on.
func (s *Schema) FacetFields() []string { return s.facets }

// DefaultQueryFields returns the sorted set of fields searched when no field is named.
func (s *Schema) DefaultQueryFields() []string { return s.defaultFields }

// SearchableFields returns every declared field spec across all entities.
func (s *Schema) SearchableFields() []FieldSpec { return s.fields }

// IsFacet reports whether field is a facet field.
func (s *Schema) IsFacet(field string) bool {
	_, ok := s.displayNames[field]
	return ok
}

// DisplayName returns the filter display name of a facet field.
func (s *Schema) DisplayName(field string) (string, bool) {
	name, ok := s.displayNames[field]
	return name, ok
}

// DisplayNameOrDefault falls back to the raw field name.
func (s *Schema) DisplayNameOrDefault(field string) string {
	if name, ok := s.displayNames[field]; ok && name != "" {
		return name
	}
	return field
}

// Boost returns the default-query boost of field, 1.0 when not declared.
func (s *Schema) Boost(field string) float64 {
	if b, ok := s.boosts[field]; ok && b > 0 {
		return b
	}
	return 1.0
}

// HighlightFields returns each default query field followed by its sub-field wildcard.
func (s *Schema) HighlightFields() []string {
	fields := make([]string, 0, len(s.defaultFields)*2)
	seen := make(map[string]struct{}, len(s.defaultFields)*2)
	for _, f := range s.defaultFields {
		for _, name := range []string{f, f + ".*"} {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			fields = append(fields, name)
		}
	}
	return fields
}

// LogicalField folds a highlighted key such as name.delimited back onto the
// default query field it belongs to. The longest matching prefix wins.
func (s *Schema) LogicalField(highlightKey string) (string, bool) {
	best := ""
	for _, f := range s.defaultFields {
		if strings.HasPrefix(highlightKey, f) && len(f) > len(best) {
			best = f
		}
	}
	return best, best != ""
}
