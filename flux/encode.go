package flux

import "math"

// Encoder serializes a host value to a framed byte sequence: host
// value -> (via the bridge) value tree -> (here) bytes. It holds no
// mutable state beyond its configuration and is safe to reuse and to
// share across goroutines — an independent encode call touches only
// its own stack-local writer and depth counter.
type Encoder struct {
	// DepthLimit bounds container nesting; 0 means "use the default"
	// (256). Exceeding it fails with DepthExceeded.
	DepthLimit int
}

func (e *Encoder) depthLimit() int {
	if e.DepthLimit <= 0 {
		return defaultDepthLimit
	}
	return e.DepthLimit
}

// Marshal converts v to a Value via the host-object bridge, then
// encodes it to a complete frame (magic + version + value). The
// returned byte slice is either the full frame or nil; on error no
// partial frame is ever returned.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	val, err := hostToValue(v, "root")
	if err != nil {
		return nil, err
	}
	return e.EncodeValue(val)
}

// EncodeValue encodes an already-built Value tree to a complete frame.
// This is the entry point used by callers who construct a Value tree
// directly rather than through the host bridge (e.g. the gofuzz
// harness in fuzz.go, or tests exercising the wire format without
// going through reflect).
func (e *Encoder) EncodeValue(val Value) ([]byte, error) {
	w := newWriter()
	w.AppendRaw(magic[:])
	w.AppendByte(version)

	if err := encodeValue(w, val, 0, e.depthLimit()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encodeValue(w *writer, val Value, depth, limit int) error {
	if depth > limit {
		return newEncodeError(DepthExceeded, "container nesting exceeds depth limit")
	}

	switch val.Kind() {
	case KindNull:
		w.AppendTag(tagNull)

	case KindBool:
		if val.BoolValue() {
			w.AppendTag(tagTrue)
		} else {
			w.AppendTag(tagFalse)
		}

	case KindInt:
		w.AppendTag(tagInt)
		w.AppendVarint(val.IntValue())

	case KindFloat:
		w.AppendTag(tagFloat)
		w.AppendF64(math.Float64bits(val.FloatValue()))

	case KindStr:
		s := val.StrValue()
		w.AppendTag(tagStr)
		w.AppendUvarint(uint64(len(s)))
		w.AppendRaw([]byte(s))

	case KindBytes:
		b := val.BytesValue()
		w.AppendTag(tagBytes)
		w.AppendUvarint(uint64(len(b)))
		w.AppendRaw(b)

	case KindList:
		items := val.Items()
		w.AppendTag(tagList)
		w.AppendUvarint(uint64(len(items)))
		for _, it := range items {
			if err := encodeValue(w, it, depth+1, limit); err != nil {
				return err
			}
		}

	case KindTuple:
		items := val.Items()
		w.AppendTag(tagTuple)
		w.AppendUvarint(uint64(len(items)))
		for _, it := range items {
			if err := encodeValue(w, it, depth+1, limit); err != nil {
				return err
			}
		}

	case KindDict:
		entries := val.Entries()
		w.AppendTag(tagDict)
		w.AppendUvarint(uint64(len(entries)))
		for _, e := range entries {
			w.AppendUvarint(uint64(len(e.Key)))
			w.AppendRaw(e.Key)
			if err := encodeValue(w, e.Value, depth+1, limit); err != nil {
				return err
			}
		}

	case KindTagged:
		if uint64(val.Tag()) > maxTag {
			return newEncodeError(Overflow, "tag exceeds 32 bits")
		}
		w.AppendTag(tagTagged)
		w.AppendUvarint(uint64(val.Tag()))
		if err := encodeValue(w, val.Inner(), depth+1, limit); err != nil {
			return err
		}

	default:
		return newEncodeError(InvalidKind, "unrepresentable value kind")
	}

	return nil
}
