//go:build gofuzz

package flux

import "github.com/google/go-cmp/cmp"

// Fuzz is a go-fuzz entrypoint: decode arbitrary bytes, and if that
// succeeds, re-encode and re-decode, panicking on any roundtrip
// mismatch. Grounded on the teacher's own fuzz.go, adapted to this
// module's Value tree instead of reflect-based struct decoding.
func Fuzz(data []byte) int {
	d := &Decoder{}
	val, err := d.DecodeValue(data)
	if err != nil {
		return 0
	}

	e := &Encoder{}
	enc, err := e.EncodeValue(val)
	if err != nil {
		panic("unable to re-encode a successfully decoded value: " + err.Error())
	}

	val2, err := d.DecodeValue(enc)
	if err != nil {
		panic("unable to re-decode a freshly encoded value: " + err.Error())
	}

	if diff := cmp.Diff(val, val2, cmp.AllowUnexported(Value{}, DictEntry{})); diff != "" {
		panic("roundtrip mismatch:\n" + diff)
	}

	return 1
}
