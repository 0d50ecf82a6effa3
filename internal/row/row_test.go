package row

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowGet(t *testing.T) {
	r := New(F("name", String("Ann")), F("nickname", Null{}))

	v, ok := r.Get("name")
	assert.True(t, ok)
	assert.Equal(t, String("Ann"), v)

	v, ok = r.Get("nickname")
	assert.True(t, ok, "explicit null is present")
	assert.Equal(t, Null{}, v)

	v, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestRowID(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		want   ID
		wantOK bool
	}{
		{"int id", New(F("id", Int(1))), IntID(1), true},
		{"string id", New(F("id", String("a-1"))), StringID("a-1"), true},
		{"empty string id", New(F("id", String(""))), StringID(""), true},
		{"missing id", New(F("name", String("x"))), ID{}, false},
		{"null id", New(F("id", Null{})), ID{}, false},
		{"float id", New(F("id", Float(1.5))), ID{}, false},
		{"bool id", New(F("id", Bool(true))), ID{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.row.ID()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIDStringAndIntAreDistinct(t *testing.T) {
	assert.NotEqual(t, IntID(1), StringID("1"))

	set := map[ID]bool{IntID(1): true}
	assert.False(t, set[StringID("1")])
	assert.True(t, set[IntID(1)])
}

func TestParseID(t *testing.T) {
	assert.Equal(t, IntID(42), ParseID("42"))
	assert.Equal(t, IntID(-3), ParseID(" -3 "))
	assert.Equal(t, StringID("abc"), ParseID("abc"))
	assert.Equal(t, StringID("4.2"), ParseID("4.2"))
	assert.Equal(t, StringID("007"), ParseID("007"), "leading zeros keep the text")
}

func TestCompareIDs(t *testing.T) {
	assert.Equal(t, -1, CompareIDs(IntID(2), IntID(10)))
	assert.Equal(t, 1, CompareIDs(StringID("a"), IntID(10)))
	assert.Equal(t, -1, CompareIDs(IntID(99), StringID("a")))
	assert.Equal(t, 0, CompareIDs(StringID("x"), StringID("x")))
}

func TestIDMarshalJSON(t *testing.T) {
	data, err := json.Marshal([]ID{IntID(7), StringID("seven")})
	require.NoError(t, err)
	assert.Equal(t, `[7,"seven"]`, string(data))
}

func TestUnmarshalRows(t *testing.T) {
	rows, err := UnmarshalRows([]byte(`[
		{"id": 1, "name": "Bob", "age": 30},
		{"id": "x", "score": 2.5, "tags": ["a","b"]}
	]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{"id": Int(1), "name": String("Bob"), "age": Int(30)}, rows[0])
	assert.Equal(t, Float(2.5), rows[1]["score"])
	assert.Equal(t, Array{String("a"), String("b")}, rows[1]["tags"])
}

func TestUnmarshalRowsRejectsNonArray(t *testing.T) {
	_, err := UnmarshalRows([]byte(`{"id": 1}`))
	assert.Error(t, err)
}

func TestRowJSONRoundTripKeepsKinds(t *testing.T) {
	in := New(F("id", Int(3)), F("ratio", Float(0.25)), F("name", String("Cid")))

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"id":3,"name":"Cid","ratio":0.25}`, string(data))

	var out Row
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestTextCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"nil", nil, ""},
		{"null", Null{}, ""},
		{"string", String("Ann"), "Ann"},
		{"int", Int(-12), "-12"},
		{"float", Float(2.5), "2.5"},
		{"tiny float", Float(1e-7), "1e-07"},
		{"nan", Float(math.NaN()), "NaN"},
		{"inf", Float(math.Inf(1)), "Infinity"},
		{"bool", Bool(false), "false"},
		{"array", Array{String("a"), Int(1), Null{}}, "a,1,"},
		{"object", Object{"b": Int(1), "a": String("x")}, `{"a":"x","b":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	f, ok := IsNumeric(Int(10))
	assert.True(t, ok)
	assert.Equal(t, 10.0, f)

	f, ok = IsNumeric(Float(2.5))
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = IsNumeric(Float(math.NaN()))
	assert.False(t, ok, "NaN never takes the numeric branch")

	_, ok = IsNumeric(String("10"))
	assert.False(t, ok, "numeric-looking strings stay strings")

	_, ok = IsNumeric(nil)
	assert.False(t, ok)
}
