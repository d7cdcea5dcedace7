package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSONSchema represents a JSON Schema document
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type"`
	Required             []string               `json:"required,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	Enum                 []any                  `json:"enum,omitempty"`
	Default              any                    `json:"default,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	Minimum              *float64               `json:"minimum,omitempty"`
	MinLength            *int                   `json:"minLength,omitempty"`
	MaxLength            *int                   `json:"maxLength,omitempty"`
	MinItems             *int                   `json:"minItems,omitempty"`
	MaxItems             *int                   `json:"maxItems,omitempty"`
}

const schemaRef = "https://json-schema.org/draft/2020-12/schema"

// Generator builds JSON schemas for config documents from Go structs.
// Property names come from the tag named by NameTag, "yaml" by default.
// Constraints come from the schema tag, e.g. `schema:"required,minItems=1"`.
type Generator struct {
	NameTag string
	// BaseID prefixes the root $id.
	BaseID string
	// Strict rejects properties that are not declared.
	Strict bool
}

// NewGenerator creates a generator for YAML config documents
func NewGenerator(baseID string) *Generator {
	return &Generator{
		NameTag: "yaml",
		BaseID:  strings.TrimSuffix(baseID, "/"),
		Strict:  true,
	}
}

// Generate builds the schema of v's type. title names the root document.
func (g *Generator) Generate(v any, title string) (*JSONSchema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("cannot generate schema for nil")
	}

	root, err := g.forType(t)
	if err != nil {
		return nil, err
	}
	root.Schema = schemaRef
	root.Title = title
	if g.BaseID != "" {
		root.ID = g.BaseID + "/" + strings.ToLower(title)
	}
	return root, nil
}

// GenerateJSON is Generate rendered as indented JSON.
func (g *Generator) GenerateJSON(v any, title string) ([]byte, error) {
	s, err := g.Generate(v, title)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return out, nil
}

func (g *Generator) forType(t reflect.Type) (*JSONSchema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return g.forStruct(t)
	case reflect.Slice, reflect.Array:
		items, err := g.forType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for array items: %w", err)
		}
		return &JSONSchema{Type: "array", Items: items}, nil
	case reflect.String:
		return &JSONSchema{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}, nil
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}
}

func (g *Generator) forStruct(t reflect.Type) (*JSONSchema, error) {
	s := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema),
	}
	if g.Strict {
		s.AdditionalProperties = new(bool)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := g.propertyName(field)
		if name == "" {
			continue
		}

		fs, err := g.forType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for field %s: %w", field.Name, err)
		}
		fs.Description = field.Tag.Get("description")

		required, err := applyConstraints(field.Tag.Get("schema"), fs)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if required {
			s.Required = append(s.Required, name)
		}
		s.Properties[name] = fs
	}

	return s, nil
}

func (g *Generator) propertyName(field reflect.StructField) string {
	tag := field.Tag.Get(g.NameTag)
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(field.Name[:1]) + field.Name[1:]
	}
	return name
}

// applyConstraints copies schema tag constraints into s and reports whether
// the property is required.
func applyConstraints(tag string, s *JSONSchema) (bool, error) {
	required := false
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "required" {
			required = true
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return false, fmt.Errorf("malformed schema constraint %q", part)
		}
		switch key {
		case "enum":
			for _, e := range strings.Split(value, "|") {
				s.Enum = append(s.Enum, e)
			}
		case "default":
			s.Default = value
		case "pattern":
			s.Pattern = value
		case "minimum":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false, fmt.Errorf("invalid minimum %q: %w", value, err)
			}
			s.Minimum = &v
		case "minLength", "maxLength", "minItems", "maxItems":
			v, err := strconv.Atoi(value)
			if err != nil {
				return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
			}
			switch key {
			case "minLength":
				s.MinLength = &v
			case "maxLength":
				s.MaxLength = &v
			case "minItems":
				s.MinItems = &v
			default:
				s.MaxItems = &v
			}
		default:
			return false, fmt.Errorf("unknown schema constraint %q", key)
		}
	}
	return required, nil
}
