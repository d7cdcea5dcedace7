package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/entity-search/internal/registry"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"github.com/DjordjeVuckovic/entity-search/pkg/jsonschema"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		outputDir = flag.String("output", "api", "Output directory for generated schemas")
		baseID    = flag.String("base-id", "https://schemas.entity-search.io", "Base $id of generated schemas")
	)
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	schemaJSON, err := jsonschema.NewGenerator(*baseID).GenerateJSON(registry.File{}, "EntityRegistry")
	if err != nil {
		log.Fatalf("Failed to generate schema for the entity registry: %v", err)
	}

	jsonFile := filepath.Join(*outputDir, "entity-registry-v1.json")
	if err := os.WriteFile(jsonFile, schemaJSON, 0644); err != nil {
		log.Fatalf("Failed to write JSON schema: %v", err)
	}
	fmt.Printf("Generated JSON schema: %s\n", jsonFile)

	example, err := yamlExample()
	if err != nil {
		log.Fatalf("Failed to render YAML example: %v", err)
	}
	yamlFile := filepath.Join(*outputDir, "entity-registry-example.yaml")
	if err := os.WriteFile(yamlFile, example, 0644); err != nil {
		log.Fatalf("Failed to write YAML example: %v", err)
	}
	fmt.Printf("Generated YAML example: %s\n", yamlFile)
}

// yamlExample renders a registry that ParseYAML accepts.
func yamlExample() ([]byte, error) {
	doc := registry.File{
		Entities: []schema.EntitySpec{
			{
				Name: "dataset",
				Fields: []schema.FieldSpec{
					{FieldName: "name", QueryByDefault: true, Boost: 10},
					{FieldName: "description", QueryByDefault: true},
					{FieldName: "platform", AddToFilters: true, FilterName: "Platform"},
					{FieldName: "origin", AddToFilters: true, FilterName: "Environment"},
				},
			},
		},
	}

	var buf bytes.Buffer
	buf.WriteString("# Entity registry example. Validate against entity-registry-v1.json.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	if _, err := registry.ParseYAML(bytes.NewReader(buf.Bytes())); err != nil {
		return nil, fmt.Errorf("example does not parse: %w", err)
	}
	return buf.Bytes(), nil
}
