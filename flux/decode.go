package flux

import (
	"math"
	"unicode/utf8"

	"github.com/dchest/siphash"
)

// Decoder parses a framed byte sequence to a host value: bytes ->
// (here) value tree -> (via the bridge) host value. The decoder is
// all-or-nothing: on any error the partially-built tree is discarded
// and the error is returned, never a subset of the input.
type Decoder struct {
	// DepthLimit bounds container nesting; 0 means "use the default" (256).
	DepthLimit int

	// SurfaceTagged, when true, surfaces a Tagged value with no
	// registered tag decoder as a flux.Tagged wrapper on the host
	// side instead of silently unwrapping it to its inner value. See
	// DESIGN.md Open Question 2.
	SurfaceTagged bool
}

func (d *Decoder) depthLimit() int {
	if d.DepthLimit <= 0 {
		return defaultDepthLimit
	}
	return d.DepthLimit
}

// Unmarshal parses b and stores the decoded host value in *out.
func (d *Decoder) Unmarshal(b []byte, out *any) error {
	val, err := d.DecodeValue(b)
	if err != nil {
		return err
	}
	host, err := valueToHost(val, d.SurfaceTagged)
	if err != nil {
		return err
	}
	*out = host
	return nil
}

// DecodeValue parses b to a Value tree without converting it to a
// host value. Exposed for callers that want the value tree directly
// (cmd/fuzzmin, the gofuzz harness in fuzz.go, tests) rather than
// going through the host bridge.
func (d *Decoder) DecodeValue(b []byte) (Value, error) {
	if len(b) < frameHeaderSize {
		return Value{}, newDecodeError(Truncated, "input shorter than frame header", len(b))
	}
	if b[0] != magic[0] || b[1] != magic[1] || b[2] != magic[2] || b[3] != magic[3] {
		return Value{}, newDecodeError(InvalidHeader, "magic mismatch", 0)
	}
	if b[4] != version {
		return Value{}, newDecodeError(InvalidHeader, "unsupported version", 4)
	}

	r := newReader(b)
	r.pos = frameHeaderSize
	interner := newKeyInterner()
	val, err := decodeValue(r, 0, d.depthLimit(), interner)
	if err != nil {
		return Value{}, err
	}
	if r.Remaining() != 0 {
		return Value{}, newDecodeError(TrailingBytes, "trailing bytes after top-level value", r.Pos())
	}
	return val, nil
}

func decodeValue(r *reader, depth, limit int, interner *keyInterner) (Value, error) {
	if depth > limit {
		return Value{}, newDecodeError(DepthExceeded, "container nesting exceeds depth limit", r.Pos())
	}

	startPos := r.Pos()
	tag, err := r.ReadTag()
	if err != nil {
		return Value{}, err
	}

	switch tag {
	case tagNull:
		return Null(), nil

	case tagFalse:
		return Bool(false), nil

	case tagTrue:
		return Bool(true), nil

	case tagInt:
		n, err := r.ReadVarint()
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil

	case tagFloat:
		bits, err := r.ReadF64()
		if err != nil {
			return Value{}, err
		}
		return Float(math.Float64frombits(bits)), nil

	case tagStr:
		n, err := r.ReadUvarint()
		if err != nil {
			return Value{}, err
		}
		raw, err := readLengthPrefixed(r, n)
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(raw) {
			return Value{}, newDecodeError(InvalidUtf8, "str payload is not valid utf-8", startPos)
		}
		return Str(string(raw)), nil

	case tagBytes:
		n, err := r.ReadUvarint()
		if err != nil {
			return Value{}, err
		}
		raw, err := readLengthPrefixed(r, n)
		if err != nil {
			return Value{}, err
		}
		return Bytes(raw), nil

	case tagList:
		n, err := r.ReadUvarint()
		if err != nil {
			return Value{}, err
		}
		items, err := decodeValueSeq(r, n, depth, limit, interner)
		if err != nil {
			return Value{}, err
		}
		return List(items), nil

	case tagTuple:
		n, err := r.ReadUvarint()
		if err != nil {
			return Value{}, err
		}
		items, err := decodeValueSeq(r, n, depth, limit, interner)
		if err != nil {
			return Value{}, err
		}
		return TupleValue(items), nil

	case tagDict:
		n, err := r.ReadUvarint()
		if err != nil {
			return Value{}, err
		}
		if err := checkSeqLenPlausible(r, n); err != nil {
			return Value{}, err
		}
		entries := make([]DictEntry, 0, n)
		for i := uint64(0); i < n; i++ {
			kn, err := r.ReadUvarint()
			if err != nil {
				return Value{}, err
			}
			rawKey, err := readLengthPrefixed(r, kn)
			if err != nil {
				return Value{}, err
			}
			key := interner.intern(rawKey)
			val, err := decodeValue(r, depth+1, limit, interner)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, DictEntry{Key: key, Value: val})
		}
		return Dict(entries), nil

	case tagTagged:
		t, err := r.ReadUvarint()
		if err != nil {
			return Value{}, err
		}
		if t > maxTag {
			return Value{}, newDecodeError(Overflow, "tag exceeds 32 bits", startPos)
		}
		inner, err := decodeValue(r, depth+1, limit, interner)
		if err != nil {
			return Value{}, err
		}
		return TaggedValue(uint32(t), inner), nil

	default:
		return Value{}, newDecodeError(TagUnknown, "unrecognized type tag", startPos)
	}
}

func decodeValueSeq(r *reader, n uint64, depth, limit int, interner *keyInterner) ([]Value, error) {
	if err := checkSeqLenPlausible(r, n); err != nil {
		return nil, err
	}
	items := make([]Value, 0, n)
	for i := uint64(0); i < n; i++ {
		val, err := decodeValue(r, depth+1, limit, interner)
		if err != nil {
			return nil, err
		}
		items = append(items, val)
	}
	return items, nil
}

// checkSeqLenPlausible rejects a declared element count that cannot
// possibly fit in the remaining input (every element needs at least
// one tag byte) BEFORE allocating a slice of that length, so a
// hostile few-byte input cannot force a multi-gigabyte allocation.
func checkSeqLenPlausible(r *reader, n uint64) error {
	if n > uint64(r.Remaining()) {
		return newDecodeError(Truncated, "declared element count exceeds remaining input", r.Pos())
	}
	return nil
}

// readLengthPrefixed reads n raw bytes, first checking n against the
// remaining input so a large declared length fails fast with
// Truncated instead of attempting to allocate n bytes.
func readLengthPrefixed(r *reader, n uint64) ([]byte, error) {
	if n > uint64(r.Remaining()) {
		return nil, newDecodeError(Truncated, "declared length exceeds remaining input", r.Pos())
	}
	return r.ReadRaw(int(n))
}

// keyInterner reuses one []byte for dict keys with identical raw
// bytes within a single decode call, keyed by a SipHash-2-4 digest of
// the key bytes. On documents with many repeated dict keys (the common
// case: object arrays sharing field names) the decoded tree keeps one
// copy of each distinct key, without structurally sharing any Value
// sub-tree — every Dict entry still gets its own DictEntry and Value;
// only the backing array of byte-identical keys is shared.
type keyInterner struct {
	seen map[uint64][][]byte
}

func newKeyInterner() *keyInterner {
	return &keyInterner{seen: make(map[uint64][][]byte)}
}

// intern returns raw unchanged the first time a given byte sequence is
// seen, and the earlier call's slice (shared, not copied) on every
// later call with byte-identical content.
func (ki *keyInterner) intern(raw []byte) []byte {
	h := siphash.Hash(0, 0, raw)
	for _, cand := range ki.seen[h] {
		if string(cand) == string(raw) {
			return cand
		}
	}
	ki.seen[h] = append(ki.seen[h], raw)
	return raw
}
