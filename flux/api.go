package flux

// Marshal encodes v with a default Encoder. Equivalent to
// (&Encoder{}).Marshal(v).
func Marshal(v any) ([]byte, error) {
	e := &Encoder{}
	return e.Marshal(v)
}

// Unmarshal decodes b into *out with a default Decoder. Equivalent to
// (&Decoder{}).Unmarshal(b, out).
func Unmarshal(b []byte, out *any) error {
	d := &Decoder{}
	return d.Unmarshal(b, out)
}

// Encode is an alias for Marshal, named to match spec's §6 operation table.
func Encode(v any) ([]byte, error) { return Marshal(v) }

// Decode is an alias for Unmarshal that returns the decoded value
// directly instead of writing through a pointer, named to match
// spec's §6 operation table ("decode: byte slice -> host value").
func Decode(b []byte) (any, error) {
	var v any
	if err := Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Dumps is an alias for Marshal, matching the original crous.dumps name.
func Dumps(v any) ([]byte, error) { return Marshal(v) }

// Loads is an alias for Decode, matching the original crous.loads name.
func Loads(b []byte) (any, error) { return Decode(b) }
