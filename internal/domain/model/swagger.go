package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// truthy decodes any JSON scalar and records whether it is truthy: true,
// a non-empty string, a non-zero number, an array or an object.
type truthy bool

func (t *truthy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*t = false
	case bytes.Equal(data, []byte("true")):
		*t = true
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = s != ""
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		*t = true
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("unexpected value %s", data)
		}
		*t = f != 0
	}
	return nil
}

// IsTypeSpecGenerated reports whether an OpenAPI document carries a truthy
// info.x-typespec-generated marker. Any well-formed JSON without the marker
// is not generated, including documents whose top level or info member is
// not an object. Only malformed JSON is an error.
func IsTypeSpecGenerated(document []byte) (bool, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(document, &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return false, nil
		}
		return false, fmt.Errorf("parsing swagger document: %w", err)
	}

	var info map[string]json.RawMessage
	if raw, ok := top["info"]; !ok || json.Unmarshal(raw, &info) != nil {
		return false, nil
	}
	raw, ok := info["x-typespec-generated"]
	if !ok {
		return false, nil
	}

	var marker truthy
	if err := json.Unmarshal(raw, &marker); err != nil {
		return false, nil
	}
	return bool(marker), nil
}
