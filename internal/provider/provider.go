// Package provider defines suggestion record types and the sources that supply them.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Provider is the interface for suggestion sources.
type Provider interface {
	// Fetch returns the current list of tag candidates.
	Fetch(ctx context.Context) ([]Suggestion, error)
}

// Suggestion is one tag candidate.
type Suggestion struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Value    Value  `json:"value"`
}

// Value is a suggestion's numeric value. The upstream API serves values as
// strings, so both JSON numbers and numeric strings decode. Anything else
// decodes as unresolved.
type Value struct {
	v  float64
	ok bool
}

// NewValue returns a resolved Value.
func NewValue(v float64) Value {
	return Value{v: v, ok: true}
}

// Float returns the value and whether it is resolved.
func (v Value) Float() (float64, bool) {
	return v.v, v.ok
}

// Ptr returns a pointer to a copy of the value, or nil when unresolved.
func (v Value) Ptr() *float64 {
	if !v.ok {
		return nil
	}
	f := v.v
	return &f
}

func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("suggestion value: %w", err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*v = NewValue(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	*v = NewValue(f)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// Decode parses a JSON array of suggestions.
func Decode(data []byte) ([]Suggestion, error) {
	var out []Suggestion
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return out, nil
}
