package registry

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
)

// Source loads the searchable field declarations of every entity type.
type Source interface {
	Load(ctx context.Context) ([]schema.EntitySpec, error)
}

// validate rejects registries the searcher cannot serve.
func validate(entities []schema.EntitySpec) error {
	if len(entities) == 0 {
		return fmt.Errorf("registry declares no entity types")
	}
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if e.Name == "" {
			return fmt.Errorf("entity #%d has no name", i)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("entity %q declared twice", e.Name)
		}
		seen[e.Name] = struct{}{}
		if len(e.Fields) == 0 {
			return fmt.Errorf("entity %q declares no fields", e.Name)
		}
	}
	return nil
}
