package flux

import (
	"io"
	"os"
)

// EncodeToSink encodes v and appends the resulting frame to sink via
// Write, reporting any I/O failure as a StreamError-kind EncodeError.
// This is the "encode_to_sink" operation of spec's §6 API surface.
func (e *Encoder) EncodeToSink(v any, sink io.Writer) error {
	b, err := e.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := sink.Write(b); err != nil {
		return newEncodeError(StreamError, err.Error())
	}
	return nil
}

// Transform, when non-nil, post-processes a decoded host value before
// DecodeFromSource returns it — e.g. to apply a schema-specific
// conversion. Spec's §6 lists this as "optional object transform".
type Transform func(v any) (any, error)

// DecodeFromSource reads all bytes yielded by source, decodes exactly
// one frame from them, and applies transform if non-nil. This is the
// "decode_from_source" operation of spec's §6 API surface.
func (d *Decoder) DecodeFromSource(source io.Reader, transform Transform) (any, error) {
	b, err := io.ReadAll(source)
	if err != nil {
		return nil, newDecodeError(StreamError, err.Error(), -1)
	}
	var v any
	if err := d.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	if transform != nil {
		return transform(v)
	}
	return v, nil
}

// Dump encodes v with the default Encoder and writes it to the file at
// path, creating or truncating it. A thin convenience wrapper over
// EncodeToSink, matching the original crous.dump file-path helper —
// out of core scope per spec §1, kept minimal.
func Dump(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return newEncodeError(StreamError, err.Error())
	}
	defer f.Close()

	e := &Encoder{}
	return e.EncodeToSink(v, f)
}

// Load reads and decodes a frame from the file at path with the
// default Decoder. A thin convenience wrapper over DecodeFromSource,
// matching the original crous.load file-path helper.
func Load(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newDecodeError(StreamError, err.Error(), -1)
	}
	defer f.Close()

	d := &Decoder{}
	return d.DecodeFromSource(f, nil)
}
