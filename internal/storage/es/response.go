package es

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Response is the subset of a _search response the extractor reads.
// Numbers inside untyped values (sort values, fields) decode as json.Number.
type Response struct {
	PitID        string                    `json:"pit_id"`
	Took         int64                     `json:"took"`
	TimedOut     bool                      `json:"timed_out"`
	Hits         Hits                      `json:"hits"`
	Aggregations map[string]TermsAggregate `json:"aggregations"`
}

type Hits struct {
	Total    Total    `json:"total"`
	MaxScore *float64 `json:"max_score"`
	Hits     []Hit    `json:"hits"`
}

type Total struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

type Hit struct {
	Index          string                     `json:"_index"`
	ID             string                     `json:"_id"`
	Score          *float64                   `json:"_score"`
	Source         map[string]json.RawMessage `json:"_source"`
	Highlight      map[string][]string        `json:"highlight"`
	MatchedQueries []string                   `json:"matched_queries"`
	Fields         map[string][]any           `json:"fields"`
	Sort           []any                      `json:"sort"`
}

// BucketKind tells string-keyed terms buckets from numeric-keyed ones.
type BucketKind int

const (
	StringKey BucketKind = iota
	NumericKey
)

// TermsAggregate holds the buckets of one terms aggregation.
type TermsAggregate struct {
	Buckets []TermsBucket `json:"buckets"`
}

// TermsBucket is resolved once at decode time. Key is always the string form
// (key_as_string when the backend sends one) and Number is set for NumericKey.
type TermsBucket struct {
	Kind     BucketKind
	Key      string
	Number   float64
	DocCount int64
}

type rawTermsBucket struct {
	Key         json.RawMessage `json:"key"`
	KeyAsString *string         `json:"key_as_string"`
	DocCount    int64           `json:"doc_count"`
}

func (b *TermsBucket) UnmarshalJSON(data []byte) error {
	var raw rawTermsBucket
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	key := bytes.TrimSpace(raw.Key)
	if len(key) == 0 {
		return fmt.Errorf("terms bucket without key")
	}

	b.DocCount = raw.DocCount
	if key[0] == '"' {
		b.Kind = StringKey
		return json.Unmarshal(key, &b.Key)
	}

	n, err := strconv.ParseFloat(string(key), 64)
	if err != nil {
		return fmt.Errorf("terms bucket key %s: %w", key, err)
	}
	b.Kind = NumericKey
	b.Number = n
	if raw.KeyAsString != nil {
		b.Key = *raw.KeyAsString
	} else {
		b.Key = string(key)
	}
	return nil
}

// DecodeResponse parses a _search response body.
func DecodeResponse(r io.Reader) (*Response, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("es parse response: %w", err)
	}
	return &resp, nil
}

// SourceString returns the string value of a _source field.
func (h *Hit) SourceString(field string) (string, bool) {
	raw, ok := h.Source[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// FieldValues returns the values of field from the hit's fields section,
// falling back to _source, formatted as strings.
func (h *Hit) FieldValues(field string) []string {
	if values, ok := h.Fields[field]; ok && len(values) > 0 {
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, formatValue(v))
		}
		return out
	}
	if s, ok := h.SourceString(field); ok {
		return []string{s}
	}
	return nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
