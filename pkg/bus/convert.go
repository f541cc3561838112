package bus

import (
	"fmt"
	"reflect"

	"github.com/arthur-debert/dbusevents/pkg/variant"
	"github.com/godbus/dbus/v5"
)

// goBody is a body as decoded by godbus
type goBody []interface{}

// Decode converts every field, failing as a whole if any field is not a
// D-Bus type.
func (b goBody) Decode() ([]variant.Value, error) {
	out := make([]variant.Value, 0, len(b))
	for i, field := range b {
		v, err := ToVariant(field)
		if err != nil {
			return nil, fmt.Errorf("body field %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ToVariant converts a value decoded by godbus into a variant.Value.
// godbus decodes structs as []interface{}, arrays as typed slices and
// dicts as maps.
func ToVariant(v interface{}) (variant.Value, error) {
	switch x := v.(type) {
	case bool:
		return variant.NewBool(x), nil
	case byte:
		return variant.NewByte(x), nil
	case int16:
		return variant.NewInt16(x), nil
	case uint16:
		return variant.NewUint16(x), nil
	case int32:
		return variant.NewInt32(x), nil
	case uint32:
		return variant.NewUint32(x), nil
	case int64:
		return variant.NewInt64(x), nil
	case uint64:
		return variant.NewUint64(x), nil
	case float64:
		return variant.NewDouble(x), nil
	case string:
		return variant.NewString(x), nil
	case dbus.ObjectPath:
		return variant.NewObjectPath(string(x)), nil
	case dbus.Signature:
		return variant.NewSignature(x.String()), nil
	case dbus.UnixFDIndex:
		return variant.NewUnixFD(uint32(x)), nil
	case dbus.UnixFD:
		return variant.NewUnixFD(uint32(x)), nil
	case dbus.Variant:
		inner, err := ToVariant(x.Value())
		if err != nil {
			return variant.Value{}, err
		}
		return variant.NewVariant(inner), nil
	case []interface{}:
		fields, err := convertAll(x)
		if err != nil {
			return variant.Value{}, err
		}
		return variant.NewStruct(fields...), nil
	case nil:
		return variant.Value{}, fmt.Errorf("nil value")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]variant.Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := ToVariant(rv.Index(i).Interface())
			if err != nil {
				return variant.Value{}, err
			}
			elems = append(elems, e)
		}
		return variant.NewArray(elems...), nil
	case reflect.Map:
		entries := make([]variant.Entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := ToVariant(iter.Key().Interface())
			if err != nil {
				return variant.Value{}, err
			}
			val, err := ToVariant(iter.Value().Interface())
			if err != nil {
				return variant.Value{}, err
			}
			entries = append(entries, variant.Entry{Key: k, Value: val})
		}
		return variant.NewDict(entries...), nil
	}

	return variant.Value{}, fmt.Errorf("unsupported body type %T", v)
}

func convertAll(in []interface{}) ([]variant.Value, error) {
	out := make([]variant.Value, 0, len(in))
	for _, x := range in {
		v, err := ToVariant(x)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
