// Package analysis reduces backend payloads to chart-ready series.
//
// Every function here is pure: raw JSON in, typed series out. Object member order from the payload
// is preserved where it matters (the backend emits the word cloud sorted by weight), so decoding
// goes through a token stream instead of a Go map.
package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// ShapeError reports a syntactically valid payload whose structure does not match the endpoint contract.
type ShapeError struct {
	Endpoint string
	Detail   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unexpected payload shape: %s", e.Endpoint, e.Detail)
}

type member struct {
	Key   string
	Value json.RawMessage
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// decodeObject returns the members of a JSON object in document order. null decodes to no members.
func decodeObject(endpoint string, raw json.RawMessage) ([]member, error) {
	if isNull(raw) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &ShapeError{Endpoint: endpoint, Detail: fmt.Sprintf("want object, got %v", tok)}
	}
	var out []member
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, &ShapeError{Endpoint: endpoint, Detail: fmt.Sprintf("non-string key %v", kt)}
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, member{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return out, nil
}

// decodeArray splits a JSON array into its raw elements. null decodes to no elements.
func decodeArray(endpoint string, raw json.RawMessage) ([]json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			return nil, &ShapeError{Endpoint: endpoint, Detail: "want array, got " + ute.Value}
		}
		return nil, err
	}
	return items, nil
}

func decodeNumber(endpoint, key string, raw json.RawMessage) (float64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &ShapeError{Endpoint: endpoint, Detail: fmt.Sprintf("value for %q is not a number: %s", key, bytes.TrimSpace(raw))}
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ShapeError{Endpoint: endpoint, Detail: fmt.Sprintf("value for %q out of range: %s", key, n)}
	}
	return f, nil
}
