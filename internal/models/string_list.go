package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list of strings persisted as a JSON-encoded text
// column. Rows written by older clients may hold a bare string instead of a
// JSON array; those read back as a one-element list.
type StringList []string

// ParseStringList decodes the text column representation of a list.
func ParseStringList(s string) (StringList, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StringList{}, nil
	}
	if !strings.HasPrefix(s, "[") {
		return StringList{s}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", s, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. A malformed array is kept as a single raw
// element so that a bad row never makes the whole table unreadable.
func (l *StringList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	parsed, err := ParseStringList(s)
	if err != nil {
		*l = StringList{s}
		return nil
	}
	*l = parsed
	return nil
}

// MarshalJSON always renders an array, never null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON accepts a JSON array or the legacy JSON-encoded string form
// ("[\"go\",\"react\"]") that the admin frontend sends.
func (l *StringList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		parsed, err := ParseStringList(s)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	}
	var out []string
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// First returns the first element or "".
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
