package dto

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
)

// ScrollCursor is the position after the last hit of a page.
// Sort holds the sort values of that hit, PitID the point in time the page was
// read from and ExpirationMs the epoch millis after which PitID is gone
// (0 when the backend has no point in time support).
type ScrollCursor struct {
	Sort         []any  `json:"s"`
	PitID        string `json:"p,omitempty"`
	ExpirationMs int64  `json:"e,omitempty"`
}

// NewScrollCursor builds a cursor with sort values in canonical form so that
// it survives an encode/decode round trip unchanged.
func NewScrollCursor(sort []any, pitID string, expirationMs int64) ScrollCursor {
	return ScrollCursor{
		Sort:         normalizeSortValues(sort),
		PitID:        pitID,
		ExpirationMs: expirationMs,
	}
}

// EncodeCursor converts a ScrollCursor to a base64-encoded string
func EncodeCursor(c ScrollCursor) (string, error) {
	if len(c.Sort) == 0 {
		return "", fmt.Errorf("cursor sort values cannot be empty")
	}

	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor parses a base64-encoded cursor string.
// An empty string means "first page" and yields a nil cursor.
func DecodeCursor(s string) (*ScrollCursor, error) {
	if s == "" {
		return nil, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", apperr.ErrInvalidCursor)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var c ScrollCursor
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cursor: %w", apperr.ErrInvalidCursor)
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cursor has trailing data: %w", apperr.ErrInvalidCursor)
	}

	if len(c.Sort) == 0 {
		return nil, fmt.Errorf("cursor has no sort values: %w", apperr.ErrInvalidCursor)
	}
	if c.ExpirationMs < 0 {
		return nil, fmt.Errorf("cursor has negative expiration: %w", apperr.ErrInvalidCursor)
	}

	c.Sort = normalizeSortValues(c.Sort)

	return &c, nil
}

// MustEncodeCursor is like EncodeCursor but panics on error
// Use only when you're certain the inputs are valid
func MustEncodeCursor(c ScrollCursor) string {
	cursor, err := EncodeCursor(c)
	if err != nil {
		panic(err)
	}
	return cursor
}

// CheckExpiry fails with ErrExpiredCursor when the point in time is gone.
func (c *ScrollCursor) CheckExpiry(now time.Time) error {
	if c.ExpirationMs > 0 && now.UnixMilli() > c.ExpirationMs {
		return fmt.Errorf("cursor expired at %d: %w", c.ExpirationMs, apperr.ErrExpiredCursor)
	}
	return nil
}

// ParseCursor decodes s and checks it has not expired.
func ParseCursor(s string, now time.Time) (*ScrollCursor, error) {
	c, err := DecodeCursor(s)
	if err != nil || c == nil {
		return c, err
	}
	if err := c.CheckExpiry(now); err != nil {
		return nil, err
	}
	return c, nil
}

// normalizeSortValues maps every number onto int64 when it is integral and
// fits, float64 otherwise. JSON does not keep the distinction.
func normalizeSortValues(values []any) []any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = normalizeNumber(v)
	}
	return out
}

func normalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return normalizeNumber(f)
		}
		return n.String()
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint32:
		return int64(n)
	case float32:
		return normalizeNumber(float64(n))
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
			return int64(n)
		}
		return n
	default:
		return v
	}
}
