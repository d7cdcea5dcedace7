package urn

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const prefix = "urn:"

var (
	ErrMissingPrefix    = errors.New("urn must start with 'urn:'")
	ErrMissingNamespace = errors.New("urn namespace is required")
	ErrMissingType      = errors.New("urn entity type is required")
	ErrMissingKey       = errors.New("urn entity key is required")
	ErrUnbalancedKey    = errors.New("urn entity key has unbalanced parentheses")
)

// Urn is a typed entity reference of the form urn:<namespace>:<entityType>:<key>.
// The key may be a tuple such as (urn:li:dataPlatform:hive,db.table,PROD).
type Urn struct {
	namespace  string
	entityType string
	key        string
}

// Parse validates s and splits it into namespace, entity type and key.
func Parse(s string) (Urn, error) {
	if !strings.HasPrefix(s, prefix) {
		return Urn{}, fmt.Errorf("%q: %w", s, ErrMissingPrefix)
	}
	rest := s[len(prefix):]

	namespace, rest, ok := strings.Cut(rest, ":")
	if !ok || namespace == "" {
		return Urn{}, fmt.Errorf("%q: %w", s, ErrMissingNamespace)
	}

	entityType, key, ok := strings.Cut(rest, ":")
	if !ok || entityType == "" {
		return Urn{}, fmt.Errorf("%q: %w", s, ErrMissingType)
	}
	if key == "" {
		return Urn{}, fmt.Errorf("%q: %w", s, ErrMissingKey)
	}
	if !balanced(key) {
		return Urn{}, fmt.Errorf("%q: %w", s, ErrUnbalancedKey)
	}

	return Urn{namespace: namespace, entityType: entityType, key: key}, nil
}

// MustParse is like Parse but panics on error.
// Use only with literals known to be valid.
func MustParse(s string) Urn {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func balanced(key string) bool {
	depth := 0
	for _, r := range key {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func (u Urn) Namespace() string  { return u.namespace }
func (u Urn) EntityType() string { return u.entityType }
func (u Urn) Key() string        { return u.key }

// IsZero reports whether u was never parsed.
func (u Urn) IsZero() bool { return u.entityType == "" }

func (u Urn) String() string {
	if u.IsZero() {
		return ""
	}
	return prefix + u.namespace + ":" + u.entityType + ":" + u.key
}

func (u Urn) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *Urn) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
