package flux

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"unicode/utf8"
)

// Tuple marks a Go slice as an ordered, fixed sequence that must be
// encoded as wire-Tuple rather than wire-List, and is decoded back
// into a Tuple rather than a plain slice. Go has no native tuple type,
// so this small wrapper plays the same role as the teacher's
// Perl-specific wrapper structs (PerlUndef, PerlObject, ...): it lets
// the bridge recognize a host-only concept that has no other Go
// representation.
type Tuple []any

// Tagged is the host-side surface for the wire's Tagged variant when a
// Decoder has SurfaceTagged set, or when an encoding caller wants to
// produce tag 0x0A directly without registering a tag decoder.
type Tagged struct {
	Tag   uint32
	Value any
}

// hostToValue converts a host value to a Value tree, implementing
// spec's Host -> Value mapping (§4.5). keyPath identifies the
// position of v within the overall input for error messages.
func hostToValue(v any, keyPath string) (Value, error) {
	if v == nil {
		return Null(), nil
	}

	switch t := v.(type) {
	case Tagged:
		inner, err := hostToValue(t.Value, keyPath+".tagged")
		if err != nil {
			return Value{}, err
		}
		return TaggedValue(t.Tag, inner), nil
	case Tuple:
		return encodeSeqHost([]any(t), true, keyPath)
	}

	if custom, ok := lookupSerializer(v); ok {
		converted, err := custom(v)
		if err != nil {
			return Value{}, newEncodeErrorAt(InvalidKind, err.Error(), keyPath)
		}
		return hostToValue(converted, keyPath)
	}

	rv := reflect.ValueOf(v)
	return reflectToValue(rv, keyPath)
}

func reflectToValue(rv reflect.Value, keyPath string) (Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null(), nil

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return reflectToValue(rv.Elem(), keyPath)

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, newEncodeErrorAt(Overflow, "unsigned value does not fit in signed 64 bits", keyPath)
		}
		return Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.String:
		s := rv.String()
		if !utf8.ValidString(s) {
			return Value{}, newEncodeErrorAt(InvalidUtf8, "string is not valid utf-8", keyPath)
		}
		return Str(s), nil

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return Bytes(b), nil
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return encodeSeqHost(items, false, keyPath)

	case reflect.Map:
		return encodeMapHost(rv, keyPath)

	default:
		return Value{}, newEncodeErrorAt(InvalidKind, fmt.Sprintf("unsupported host kind %q", rv.Kind()), keyPath)
	}
}

func encodeSeqHost(items []any, asTuple bool, keyPath string) (Value, error) {
	out := make([]Value, len(items))
	for i, it := range items {
		v, err := hostToValue(it, fmt.Sprintf("%s[%d]", keyPath, i))
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	if asTuple {
		return TupleValue(out), nil
	}
	return List(out), nil
}

func encodeMapHost(rv reflect.Value, keyPath string) (Value, error) {
	entries := make([]DictEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if k.Kind() != reflect.String {
			return Value{}, newEncodeErrorAt(InvalidKey, fmt.Sprintf("map key %v is not text", k), keyPath)
		}
		key := k.String()
		if !utf8.ValidString(key) {
			return Value{}, newEncodeErrorAt(InvalidKey, "map key is not valid utf-8", keyPath)
		}
		val, err := hostToValue(iter.Value().Interface(), keyPath+"."+key)
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, DictEntry{Key: []byte(key), Value: val})
	}
	// Go randomizes map iteration order; sorting by key keeps the
	// encoded bytes deterministic for identical input.
	sort.Slice(entries, func(i, j int) bool { return string(entries[i].Key) < string(entries[j].Key) })
	return Dict(entries), nil
}

// valueToHost converts a decoded Value tree back to a host value,
// implementing spec's Value -> Host mapping (§4.5). surfaceTagged
// controls whether an unregistered Tagged value is unwrapped to its
// inner value (false, the compatibility default) or surfaced as a
// flux.Tagged (true).
func valueToHost(v Value, surfaceTagged bool) (any, error) {
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.BoolValue(), nil
	case KindInt:
		return v.IntValue(), nil
	case KindFloat:
		return v.FloatValue(), nil
	case KindStr:
		return v.StrValue(), nil
	case KindBytes:
		return v.BytesValue(), nil

	case KindList:
		items := v.Items()
		out := make([]any, len(items))
		for i, it := range items {
			h, err := valueToHost(it, surfaceTagged)
			if err != nil {
				return nil, err
			}
			out[i] = h
		}
		return out, nil

	case KindTuple:
		items := v.Items()
		out := make(Tuple, len(items))
		for i, it := range items {
			h, err := valueToHost(it, surfaceTagged)
			if err != nil {
				return nil, err
			}
			out[i] = h
		}
		return out, nil

	case KindDict:
		entries := v.Entries()
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			keyStr := string(e.Key)
			if !utf8.Valid(e.Key) {
				return nil, newDecodeError(InvalidUtf8, "dict key is not valid utf-8", -1)
			}
			h, err := valueToHost(e.Value, surfaceTagged)
			if err != nil {
				return nil, err
			}
			// Last-wins on duplicate keys: a plain map assignment
			// naturally overwrites any earlier entry with the same
			// key, matching spec's note that dict key uniqueness is a
			// bridge-layer choice, not a codec-layer one.
			out[keyStr] = h
		}
		return out, nil

	case KindTagged:
		if dec, ok := lookupTagDecoder(v.Tag()); ok {
			inner, err := valueToHost(v.Inner(), surfaceTagged)
			if err != nil {
				return nil, err
			}
			return dec(v.Tag(), inner)
		}
		inner, err := valueToHost(v.Inner(), surfaceTagged)
		if err != nil {
			return nil, err
		}
		if surfaceTagged {
			return Tagged{Tag: v.Tag(), Value: inner}, nil
		}
		return inner, nil

	default:
		return nil, newDecodeError(Internal, "unreachable value kind", -1)
	}
}
