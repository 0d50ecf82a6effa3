package row

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultIDField is the field name holding a row's identity.
const DefaultIDField = "id"

// Row is a single record. Field order is not significant.
type Row map[string]Value

// Get returns the value stored under field and whether the field exists.
// A field holding Null is present.
func (r Row) Get(field string) (Value, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ID returns the row identity stored under DefaultIDField.
func (r Row) ID() (ID, bool) {
	return r.IDOf(DefaultIDField)
}

// IDOf returns the row identity stored under field.
// Only String and Int values are identities.
func (r Row) IDOf(field string) (ID, bool) {
	v, ok := r.Get(field)
	if !ok {
		return ID{}, false
	}
	return IDFromValue(v)
}

// Fields returns the field names in sorted order.
func (r Row) Fields() []string {
	return Object(r).SortedKeys()
}

// MarshalJSON encodes the row with sorted keys.
func (r Row) MarshalJSON() ([]byte, error) {
	return Object(r).MarshalJSON()
}

// UnmarshalJSON decodes a JSON object into the row.
func (r *Row) UnmarshalJSON(data []byte) error {
	v, err := UnmarshalValue(data)
	if err != nil {
		return err
	}
	obj, ok := v.(Object)
	if !ok {
		return fmt.Errorf("row must be a JSON object, got %T", v)
	}
	*r = Row(obj)
	return nil
}

// Pair is a field/value pair for building rows.
type Pair struct {
	Field string
	Value Value
}

// F is a shorthand for Pair.
// Example: New(F("id", Int(1)), F("name", String("Ann")))
func F(field string, value Value) Pair {
	return Pair{Field: field, Value: value}
}

// New builds a row from pairs.
func New(pairs ...Pair) Row {
	r := make(Row, len(pairs))
	for _, p := range pairs {
		r[p.Field] = p.Value
	}
	return r
}

// FromMap converts a decoded map into a Row.
func FromMap(m map[string]any) (Row, error) {
	v, err := FromAny(m)
	if err != nil {
		return nil, err
	}
	return Row(v.(Object)), nil
}

// UnmarshalRows decodes a JSON array of objects.
func UnmarshalRows(data []byte) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return fromMaps(raw)
}

func fromMaps(raw []map[string]any) ([]Row, error) {
	rows := make([]Row, 0, len(raw))
	for i, m := range raw {
		r, err := FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// ID is a row identity: either a string or an integer.
// IDs are comparable and usable as map keys.
type ID struct {
	str   string
	num   int64
	isNum bool
}

// StringID creates a string identity.
func StringID(s string) ID {
	return ID{str: s}
}

// IntID creates an integer identity.
func IntID(n int64) ID {
	return ID{num: n, isNum: true}
}

// ParseID interprets text from flags or scenario files: canonical integer
// text becomes an integer identity, anything else ("007", "+5") a string
// identity, matching how ParseCell reads the same text.
func ParseID(s string) ID {
	t := strings.TrimSpace(s)
	if n, err := strconv.ParseInt(t, 10, 64); err == nil && strconv.FormatInt(n, 10) == t {
		return IntID(n)
	}
	return StringID(s)
}

// IDFromValue converts a field value into an identity.
func IDFromValue(v Value) (ID, bool) {
	switch val := v.(type) {
	case String:
		return StringID(string(val)), true
	case Int:
		return IntID(int64(val)), true
	default:
		return ID{}, false
	}
}

// IsInt reports whether the identity is numeric.
func (id ID) IsInt() bool {
	return id.isNum
}

// Value returns the identity as a field value.
func (id ID) Value() Value {
	if id.isNum {
		return Int(id.num)
	}
	return String(id.str)
}

func (id ID) String() string {
	if id.isNum {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

// MarshalJSON encodes the identity as a JSON number or string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNum {
		return json.Marshal(id.num)
	}
	return json.Marshal(id.str)
}

// CompareIDs orders identities for deterministic listing:
// integers first in numeric order, then strings in byte order.
func CompareIDs(a, b ID) int {
	switch {
	case a.isNum && !b.isNum:
		return -1
	case !a.isNum && b.isNum:
		return 1
	case a.isNum:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	default:
		return strings.Compare(a.str, b.str)
	}
}
