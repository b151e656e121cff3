package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList accepts fields the backend sends either as a single string or as
// an array of strings.
type StringList []string

// UnmarshalJSON accepts null, string and array values so one legacy document
// does not fail a whole page.
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*s = nil
		return nil
	case trimmed[0] == '[':
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*s = values
		return nil
	case trimmed[0] == '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		value = strings.TrimSpace(value)
		if value == "" {
			*s = []string{}
			return nil
		}
		*s = []string{value}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into StringList", string(trimmed))
	}
}

// MarshalJSON always writes an array.
func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// First returns the first value or an empty string.
func (s StringList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
