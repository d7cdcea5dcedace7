package query

import "unicode/utf8"

// MaxFulltextQueryLength is the longest input still searched in full-text mode
// when the caller does not pick a mode explicitly.
const MaxFulltextQueryLength = 256

// MatchAll is the input meaning "no text constraint".
const MatchAll = "*"

// SearchFlags tunes a single search call. Nil fields take their defaults.
type SearchFlags struct {
	// Fulltext selects simple full-text matching; false means structured query syntax.
	Fulltext *bool `json:"fulltext,omitempty" yaml:"fulltext,omitempty"`
	// SkipCache disables the backend request cache.
	SkipCache *bool `json:"skipCache,omitempty" yaml:"skipCache,omitempty"`
	// SkipAggregates drops facet aggregations from the request.
	SkipAggregates *bool `json:"skipAggregates,omitempty" yaml:"skipAggregates,omitempty"`
	// SkipHighlighting drops highlight requests.
	SkipHighlighting *bool `json:"skipHighlighting,omitempty" yaml:"skipHighlighting,omitempty"`
	// MaxAggValues caps the number of buckets per facet.
	MaxAggValues *int `json:"maxAggValues,omitempty" yaml:"maxAggValues,omitempty"`
}

// DefaultFlags are applied to every unset flag.
var DefaultFlags = SearchFlags{
	Fulltext:         Bool(false),
	SkipCache:        Bool(false),
	SkipAggregates:   Bool(false),
	SkipHighlighting: Bool(false),
	MaxAggValues:     Int(20),
}

// Flags is the fully resolved form of SearchFlags.
type Flags struct {
	Fulltext         bool
	SkipCache        bool
	SkipAggregates   bool
	SkipHighlighting bool
	MaxAggValues     int
}

// ApplyDefaultFlags resolves flags for input against defaults.
// Highlighting is skipped when there is no text to highlight, and long inputs
// fall back to structured mode unless Fulltext was set explicitly.
func ApplyDefaultFlags(flags *SearchFlags, input string, defaults SearchFlags) Flags {
	var in SearchFlags
	if flags != nil {
		in = *flags
	}

	resolved := Flags{
		Fulltext:         boolOr(in.Fulltext, defaults.Fulltext),
		SkipCache:        boolOr(in.SkipCache, defaults.SkipCache),
		SkipAggregates:   boolOr(in.SkipAggregates, defaults.SkipAggregates),
		SkipHighlighting: boolOr(in.SkipHighlighting, defaults.SkipHighlighting),
		MaxAggValues:     intOr(in.MaxAggValues, defaults.MaxAggValues),
	}

	if in.Fulltext == nil && utf8.RuneCountInString(input) > MaxFulltextQueryLength {
		resolved.Fulltext = false
	}
	if IsMatchAll(input) {
		resolved.SkipHighlighting = true
	}

	return resolved
}

// IsMatchAll reports whether input carries no text constraint.
func IsMatchAll(input string) bool {
	return input == "" || input == MatchAll
}

func boolOr(v, def *bool) bool {
	if v != nil {
		return *v
	}
	if def != nil {
		return *def
	}
	return false
}

func intOr(v, def *int) int {
	if v != nil {
		return *v
	}
	if def != nil {
		return *def
	}
	return 0
}

func Bool(b bool) *bool { return &b }

func Int(i int) *int { return &i }
