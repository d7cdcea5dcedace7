package pagination

import (
	"errors"
	"fmt"
	"time"
)

// CursorRequest represents a cursor-based pagination request
type CursorRequest struct {
	Cursor    *string `json:"scrollId,omitempty" query:"scrollId"`
	KeepAlive string  `json:"keepAlive,omitempty" query:"keepAlive"`
	Size      *int    `json:"size,omitempty" query:"size"`
}

// Validate validates and normalizes cursor pagination parameters.
// Unlike an offset page, a cursor page needs at least one hit to advance.
func (r *CursorRequest) Validate() error {
	if r.Size == nil {
		size := PageDefaultSize
		r.Size = &size
	}
	if *r.Size <= 0 {
		return errors.New("size must be positive for a cursor page")
	}
	if *r.Size > PageMaxSize {
		*r.Size = PageMaxSize
	}
	if r.KeepAlive != "" {
		d, err := time.ParseDuration(r.KeepAlive)
		if err != nil {
			return fmt.Errorf("invalid keepAlive %q: %w", r.KeepAlive, err)
		}
		if d <= 0 || d > MaxKeepAlive {
			return errors.New("keepAlive must be positive and at most 1h")
		}
	}
	return nil
}

// GetCursor returns the cursor token, empty for the first page.
func (r *CursorRequest) GetCursor() string {
	if r.Cursor == nil {
		return ""
	}
	return *r.Cursor
}

// GetSize returns the page size, PageDefaultSize when unset.
func (r *CursorRequest) GetSize() int {
	if r.Size == nil {
		return PageDefaultSize
	}
	return *r.Size
}

// GetKeepAlive returns the parsed keep alive, 0 when unset or invalid.
func (r *CursorRequest) GetKeepAlive() time.Duration {
	d, err := time.ParseDuration(r.KeepAlive)
	if err != nil {
		return 0
	}
	return d
}
