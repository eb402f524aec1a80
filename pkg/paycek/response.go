package paycek

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Response is a decoded top-level JSON object. Values are whatever encoding/json
// produces for interface{} targets, except numbers, which stay json.Number so
// amounts keep their exact textual form.
type Response map[string]any

var errNotObject = errors.New("top-level JSON value is not an object")

func decodeResponse(body []byte) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return Response(obj), nil
}

// Map returns the nested object stored under key
func (r Response) Map(key string) (Response, bool) {
	m, ok := r[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Response(m), true
}

// Data returns the "data" object most Paycek responses wrap their payload in
func (r Response) Data() (Response, bool) {
	return r.Map("data")
}

// String returns the value under key as a string. Numbers are returned in their
// exact textual form; any other type reports false.
func (r Response) String(key string) (string, bool) {
	switch v := r[key].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// Decimal parses an amount field. Paycek sends amounts as strings; plain JSON numbers
// are accepted as well.
func (r Response) Decimal(key string) (decimal.Decimal, error) {
	s, ok := r.String(key)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("field %q is missing or not a string or number", key)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("field %q: %w", key, err)
	}
	return d, nil
}
