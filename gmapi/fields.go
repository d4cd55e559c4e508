package gmapi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldType is the type tag carried by every data leaf.
type FieldType string

const (
	TypeString  FieldType = "String"
	TypeBoolean FieldType = "Boolean"
	TypeNumber  FieldType = "Number"
	TypeNull    FieldType = "Null"
	TypeArray   FieldType = "Array"
)

// Field is a `{"type": ..., "value": ...}` leaf. Value is kept as the raw
// string the upstream sent; bare JSON literals are stored in their text form.
type Field struct {
	Type  FieldType `json:"type"`
	Value string    `json:"value"`
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  FieldType       `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Type = raw.Type
	f.Value = ""
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}
	if raw.Value[0] == '"' {
		return json.Unmarshal(raw.Value, &f.Value)
	}
	f.Value = string(raw.Value)
	return nil
}

// Kind identifies which member of a Scalar is set.
type Kind int

const (
	KindString Kind = iota + 1
	KindBoolean
	KindNumber
	KindNull
)

// Scalar is a decoded field.
type Scalar struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// Decode converts the field into its native value according to its type tag.
func (f Field) Decode() (Scalar, error) {
	switch f.Type {
	case TypeString:
		return Scalar{Kind: KindString, Str: f.Value}, nil
	case TypeBoolean:
		return Scalar{Kind: KindBoolean, Bool: f.IsTrue()}, nil
	case TypeNumber:
		n, err := f.Number()
		if err != nil {
			return Scalar{}, err
		}
		return Scalar{Kind: KindNumber, Num: n}, nil
	case TypeNull:
		return Scalar{Kind: KindNull}, nil
	default:
		return Scalar{}, fmt.Errorf("gmapi: unsupported field type %q", f.Type)
	}
}

// IsTrue reports whether the value is exactly "True".
func (f Field) IsTrue() bool { return f.Value == "True" }

// IsNull reports whether the field is tagged Null.
func (f Field) IsNull() bool { return f.Type == TypeNull }

// Number parses the value as a decimal number, regardless of the type tag.
func (f Field) Number() (float64, error) {
	n, err := strconv.ParseFloat(f.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("gmapi: field value %q is not a number: %w", f.Value, err)
	}
	return n, nil
}
