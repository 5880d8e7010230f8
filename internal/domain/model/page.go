package model

import (
	"bytes"
	"encoding/json"
)

// Page is the paginated list envelope {results, next, previous, count}.
type Page[T any] struct {
	Results  []T     `json:"results"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Count    int     `json:"count"`
}

// HasNext reports whether the API advertised a following page. The presence
// of a non-empty next link is the only end-of-list signal; Count is ignored.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// UnmarshalJSON accepts either the envelope or a bare JSON array, which is
// treated as a single page of results with no successor.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		var results []T
		if err := json.Unmarshal(b, &results); err != nil {
			return err
		}
		*p = Page[T]{Results: results, Count: len(results)}
		return nil
	}
	var env struct {
		Results  []T     `json:"results"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Count    int     `json:"count"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	*p = Page[T]{Results: env.Results, Next: env.Next, Previous: env.Previous, Count: env.Count}
	return nil
}
