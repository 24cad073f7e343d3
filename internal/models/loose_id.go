package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LooseID is a request identifier accepted as any JSON scalar. Presence is
// judged by truthiness (null, false, "", 0 and missing all count as absent)
// and integer conversion is deferred until the value is bound to a query, so
// a non-numeric id surfaces as a query error rather than a validation error.
type LooseID struct {
	raw any
}

// NewLooseID wraps a decoded JSON value.
func NewLooseID(v any) LooseID {
	return LooseID{raw: v}
}

// UnmarshalJSON keeps the raw scalar, preserving number precision.
func (id *LooseID) UnmarshalJSON(b []byte) error {
	v, err := decodeLoose(b)
	if err != nil {
		return err
	}
	id.raw = v
	return nil
}

// Present reports whether the value is truthy.
func (id LooseID) Present() bool {
	return truthy(id.raw)
}

// Int64 converts the value for use as an integer query parameter. The error
// text mirrors what Postgres reports for an uncastable integer literal.
func (id LooseID) Int64() (int64, error) {
	switch v := id.raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		if f, err := v.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), nil
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, nil
		}
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case float64:
		if v == float64(int64(v)) {
			return int64(v), nil
		}
	}
	return 0, fmt.Errorf("invalid input syntax for type integer: %q", id.String())
}

func (id LooseID) String() string {
	return looseText(id.raw)
}

// LooseText is a request string field accepted as any JSON scalar. A number
// or boolean is kept as its text form, the way Postgres casts it into a text
// column, so only truthiness is checked before the value reaches a query.
type LooseText struct {
	raw any
}

// NewLooseText wraps a decoded JSON value.
func NewLooseText(v any) LooseText {
	return LooseText{raw: v}
}

// UnmarshalJSON keeps the raw scalar, preserving number precision.
func (t *LooseText) UnmarshalJSON(b []byte) error {
	v, err := decodeLoose(b)
	if err != nil {
		return err
	}
	t.raw = v
	return nil
}

// Present reports whether the value is truthy.
func (t LooseText) Present() bool {
	return truthy(t.raw)
}

// Value returns the text bound to queries, or "" when the value is absent.
func (t LooseText) Value() string {
	if !t.Present() {
		return ""
	}
	return looseText(t.raw)
}

func (t LooseText) String() string {
	return looseText(t.raw)
}

func decodeLoose(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func truthy(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func looseText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
