package variant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Scalars(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"invalid", Value{}, "null"},
		{"bool", NewBool(true), "true"},
		{"byte", NewByte(7), "7"},
		{"int16", NewInt16(-3), "-3"},
		{"uint32", NewUint32(42), "42"},
		{"int64", NewInt64(-9000000000), "-9000000000"},
		{"uint64", NewUint64(18446744073709551615), "18446744073709551615"},
		{"double integral", NewDouble(1), "1.0"},
		{"double fraction", NewDouble(0.25), "0.25"},
		{"double large", NewDouble(1e20), "1e+20"},
		{"double nan", NewDouble(math.NaN()), "null"},
		{"string", NewString("org.bluez.Device1"), `"org.bluez.Device1"`},
		{"string escapes", NewString("a\"b\\c\n<d>"), `"a\"b\\c\n<d>"`},
		{"object path", NewObjectPath("/org/bluez/hci0"), `"/org/bluez/hci0"`},
		{"signature", NewSignature("a{sv}"), `"a{sv}"`},
		{"unix fd", NewUnixFD(3), "3"},
		{"variant unwraps", NewVariant(NewUint32(5)), "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.v))
		})
	}
}

func TestRender_Containers(t *testing.T) {
	t.Run("empty array", func(t *testing.T) {
		assert.Equal(t, "[]", Render(NewArray()))
	})

	t.Run("empty dict", func(t *testing.T) {
		assert.Equal(t, "{}", Render(NewDict()))
	})

	t.Run("array", func(t *testing.T) {
		got := Render(NewArray(NewString("a"), NewString("b")))
		assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]", got)
	})

	t.Run("struct renders as array", func(t *testing.T) {
		got := Render(NewStruct(NewString("bluetooth.target"), NewObjectPath("/org/freedesktop/systemd1/unit/bluetooth_2etarget")))
		assert.Equal(t, "[\n  \"bluetooth.target\",\n  \"/org/freedesktop/systemd1/unit/bluetooth_2etarget\"\n]", got)
	})

	t.Run("dict sorted by key with nested variant", func(t *testing.T) {
		d := NewDict(
			Entry{Key: NewString("Percentage"), Value: NewVariant(NewByte(80))},
			Entry{Key: NewString("Connected"), Value: NewVariant(NewBool(true))},
		)
		want := "{\n  \"Connected\": true,\n  \"Percentage\": 80\n}"
		assert.Equal(t, want, Render(d))
	})

	t.Run("nested indentation", func(t *testing.T) {
		d := NewDict(Entry{
			Key:   NewString("UUIDs"),
			Value: NewVariant(NewArray(NewString("0000110b"))),
		})
		want := "{\n  \"UUIDs\": [\n    \"0000110b\"\n  ]\n}"
		assert.Equal(t, want, Render(d))
	})

	t.Run("non-string keys", func(t *testing.T) {
		d := NewDict(
			Entry{Key: NewUint32(2), Value: NewString("b")},
			Entry{Key: NewUint32(1), Value: NewString("a")},
		)
		assert.Equal(t, "{\n  \"1\": \"a\",\n  \"2\": \"b\"\n}", Render(d))
	})
}

func TestRender_Deterministic(t *testing.T) {
	build := func() Value {
		return NewDict(
			Entry{Key: NewString("b"), Value: NewInt32(2)},
			Entry{Key: NewString("a"), Value: NewInt32(1)},
			Entry{Key: NewString("c"), Value: NewInt32(3)},
		)
	}
	first := Render(build())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Render(build()))
	}
}

func TestValueAccessors(t *testing.T) {
	v := NewVariant(NewString("x"))
	assert.Equal(t, Variant, v.Kind())
	assert.Equal(t, String, v.Inner().Kind())
	assert.Equal(t, "x", v.Inner().Str())
	assert.Nil(t, v.Elems())

	s := NewStruct(NewInt32(1), NewBool(false))
	assert.Len(t, s.Elems(), 2)
	assert.Equal(t, s, s.Inner())

	assert.False(t, Value{}.IsValid())
	assert.True(t, NewBool(false).IsValid())
	assert.Equal(t, "object_path", ObjectPath.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}
