package schema

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry memoizes resolved schemas per ordered entity list for the
// lifetime of the process. Entries are never invalidated.
type Registry struct {
	schemas sync.Map
	group   singleflight.Group
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Default is the process-wide registry.
var Default = NewRegistry()

// Resolve returns the cached schema for specs, resolving it at most once.
// Concurrent first calls for the same key share one result. Failed
// resolutions are not cached.
func (r *Registry) Resolve(specs []EntitySpec) (*Schema, error) {
	key := cacheKey(specs)
	if s, ok := r.schemas.Load(key); ok {
		return s.(*Schema), nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if s, ok := r.schemas.Load(key); ok {
			return s, nil
		}
		s, err := Resolve(specs)
		if err != nil {
			return nil, err
		}
		actual, _ := r.schemas.LoadOrStore(key, s)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Schema), nil
}

// Len returns the number of cached schemas.
func (r *Registry) Len() int {
	n := 0
	r.schemas.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func cacheKey(specs []EntitySpec) string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return strings.Join(names, "\x00")
}
