package testcase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ListSeparator joins list-valued fields for display and export
const ListSeparator = "; "

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindScalar
	kindList
)

// FieldValue is either a Scalar string or an ordered List of strings.
// The zero value is an absent field.
type FieldValue struct {
	kind   valueKind
	scalar string
	list   []string
}

// Scalar returns a single-string field value
func Scalar(s string) FieldValue {
	return FieldValue{kind: kindScalar, scalar: s}
}

// List returns an ordered list field value
func List(items ...string) FieldValue {
	return FieldValue{kind: kindList, list: append([]string(nil), items...)}
}

// IsAbsent reports whether the field was never set
func (v FieldValue) IsAbsent() bool {
	return v.kind == kindAbsent
}

// IsList reports whether the value holds an ordered list
func (v FieldValue) IsList() bool {
	return v.kind == kindList
}

// Items returns a copy of the list elements, or nil for non-list values
func (v FieldValue) Items() []string {
	if v.kind != kindList {
		return nil
	}
	return append([]string(nil), v.list...)
}

// String returns the display form. Lists are joined with ListSeparator,
// absent values render as the empty string.
func (v FieldValue) String() string {
	switch v.kind {
	case kindScalar:
		return v.scalar
	case kindList:
		return strings.Join(v.list, ListSeparator)
	default:
		return ""
	}
}

// Equal compares kind and content
func (v FieldValue) Equal(other FieldValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case kindScalar:
		return v.scalar == other.scalar
	case kindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON writes scalars as strings, lists as arrays and absent as null
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindScalar:
		return json.Marshal(v.scalar)
	case kindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts strings, arrays of scalars, numbers, booleans and null
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = FieldValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Scalar(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for i, r := range raw {
			var item FieldValue
			if err := item.UnmarshalJSON(r); err != nil {
				return fmt.Errorf("list item %d: %w", i, err)
			}
			if item.IsList() {
				return fmt.Errorf("list item %d: nested lists are not supported", i)
			}
			items = append(items, item.String())
		}
		*v = FieldValue{kind: kindList, list: items}
	case '{':
		return fmt.Errorf("object values are not supported for test case fields")
	default:
		// numbers and booleans keep their literal text
		*v = Scalar(string(data))
	}
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML collection files
func (v FieldValue) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case kindScalar:
		return v.scalar, nil
	case kindList:
		if v.list == nil {
			return []string{}, nil
		}
		return v.list, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML accepts scalar and sequence nodes
func (v *FieldValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = FieldValue{}
			return nil
		}
		*v = Scalar(node.Value)
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for i, child := range node.Content {
			if child.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list item %d must be a scalar", child.Line, i)
			}
			items = append(items, child.Value)
		}
		*v = FieldValue{kind: kindList, list: items}
	case yaml.AliasNode:
		return v.UnmarshalYAML(node.Alias)
	default:
		return fmt.Errorf("line %d: unsupported value for test case field", node.Line)
	}
	return nil
}

// IsZero lets omitzero/omitempty drop absent fields when encoding
func (v FieldValue) IsZero() bool {
	return v.IsAbsent()
}
