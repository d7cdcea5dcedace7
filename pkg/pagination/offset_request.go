package pagination

import "errors"

// OffsetRequest represents an offset-based pagination request.
// A size of 0 is valid and asks for no hits at all.
type OffsetRequest struct {
	From int  `json:"from" query:"from"`
	Size *int `json:"size,omitempty" query:"size"`
}

// Validate validates and normalizes offset pagination parameters
func (r *OffsetRequest) Validate() error {
	if r.From < 0 {
		return errors.New("from must not be negative")
	}
	if r.Size == nil {
		size := PageDefaultSize
		r.Size = &size
	}
	if *r.Size < 0 {
		return errors.New("size must not be negative")
	}
	if *r.Size > PageMaxSize {
		*r.Size = PageMaxSize
	}
	if r.From+*r.Size > PageMaxSize {
		return errors.New("from + size must not exceed 10000, use a scroll instead")
	}
	return nil
}

// GetSize returns the page size, PageDefaultSize when unset.
func (r *OffsetRequest) GetSize() int {
	if r.Size == nil {
		return PageDefaultSize
	}
	return *r.Size
}
