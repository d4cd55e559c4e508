package gmapi

import (
	"encoding/json"
	"testing"
)

func TestFieldUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Field
	}{
		{`{"type":"String","value":"frontLeft"}`, Field{Type: TypeString, Value: "frontLeft"}},
		{`{"type":"Number","value":30.2}`, Field{Type: TypeNumber, Value: "30.2"}},
		{`{"type":"Null","value":null}`, Field{Type: TypeNull}},
		{`{"type":"Null"}`, Field{Type: TypeNull}},
		{`{"type":"Null","value":"null"}`, Field{Type: TypeNull, Value: "null"}},
	}
	for _, tt := range tests {
		var f Field
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if f != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, f, tt.want)
		}
	}
}

func TestFieldDecode(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		want    Scalar
		wantErr bool
	}{
		{"string", Field{Type: TypeString, Value: "v8"}, Scalar{Kind: KindString, Str: "v8"}, false},
		{"true", Field{Type: TypeBoolean, Value: "True"}, Scalar{Kind: KindBoolean, Bool: true}, false},
		{"false", Field{Type: TypeBoolean, Value: "False"}, Scalar{Kind: KindBoolean}, false},
		{"lowercase true is false", Field{Type: TypeBoolean, Value: "true"}, Scalar{Kind: KindBoolean}, false},
		{"number", Field{Type: TypeNumber, Value: "73.2"}, Scalar{Kind: KindNumber, Num: 73.2}, false},
		{"null", Field{Type: TypeNull, Value: "null"}, Scalar{Kind: KindNull}, false},
		{"bad number", Field{Type: TypeNumber, Value: "abc"}, Scalar{}, true},
		{"array", Field{Type: TypeArray}, Scalar{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Decode()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFieldNumberIgnoresTypeTag(t *testing.T) {
	n, err := Field{Type: TypeString, Value: "42"}.Number()
	if err != nil || n != 42 {
		t.Errorf("Number() = %v, %v; want 42", n, err)
	}
}
