package recordstore

import (
	"encoding/json"
	"strconv"
)

// =============================================================================
// VALUE - Tagged union for loosely-typed record fields
// =============================================================================

type valueKind int

const (
	kindNull valueKind = iota
	kindString
	kindNumber
	kindBool
	kindReference
)

// Value is a record field: either a scalar (string, number, bool) or a
// reference to linked records. The remote store serializes references as
// collections, usually single-element; Value unwraps them in one place so
// read sites never branch on shape.
type Value struct {
	kind valueKind
	str  string
	num  float64
	b    bool
	refs []string
}

// Constructors
func String(s string) Value  { return Value{kind: kindString, str: s} }
func Number(f float64) Value { return Value{kind: kindNumber, num: f} }
func Bool(b bool) Value      { return Value{kind: kindBool, b: b} }

func Reference(ids ...string) Value {
	return Value{kind: kindReference, refs: ids}
}

func (v Value) IsZero() bool { return v.kind == kindNull }

// AsString returns the scalar string value.
func (v Value) AsString() (string, bool) {
	if v.kind == kindString {
		return v.str, true
	}
	return "", false
}

// AsNumber returns the scalar numeric value.
func (v Value) AsNumber() (float64, bool) {
	if v.kind == kindNumber {
		return v.num, true
	}
	return 0, false
}

// AsBool returns the scalar boolean value.
func (v Value) AsBool() (bool, bool) {
	if v.kind == kindBool {
		return v.b, true
	}
	return false, false
}

// LinkedID resolves a linked-record reference to a single ID, unwrapping
// single-element collections. A scalar string is accepted as a bare ID
// since linkage fields are not reliably typed at the source.
func (v Value) LinkedID() string {
	switch v.kind {
	case kindReference:
		if len(v.refs) > 0 {
			return v.refs[0]
		}
	case kindString:
		return v.str
	}
	return ""
}

// LinkedIDs returns every referenced ID.
func (v Value) LinkedIDs() []string {
	switch v.kind {
	case kindReference:
		return v.refs
	case kindString:
		if v.str != "" {
			return []string{v.str}
		}
	}
	return nil
}

// text renders the value for filter comparison.
func (v Value) text() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindReference:
		if len(v.refs) > 0 {
			return v.refs[0]
		}
	}
	return ""
}

// =============================================================================
// JSON - Wire shape is scalar-or-collection
// =============================================================================

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindString:
		return json.Marshal(v.str)
	case kindNumber:
		return json.Marshal(v.num)
	case kindBool:
		return json.Marshal(v.b)
	case kindReference:
		return json.Marshal(v.refs)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{}
	case string:
		return String(t)
	case float64:
		return Number(t)
	case bool:
		return Bool(t)
	case []any:
		refs := make([]string, 0, len(t))
		for _, el := range t {
			if s, ok := el.(string); ok {
				refs = append(refs, s)
			}
		}
		return Reference(refs...)
	default:
		return Value{}
	}
}
