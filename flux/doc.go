/*
Package flux implements a compact, self-describing binary codec for a
restricted set of dynamically-typed, tree-shaped values.

It round-trips Go's null/bool/int64/float64/string/[]byte and the
container kinds List, Tuple and Dict faithfully, distinguishing signed
integers from floats, text from opaque bytes, and ordered-mutable
sequences from ordered-immutable ones. The wire format is a tagged,
length-prefixed byte stream fronted by a four-byte magic and a version
byte; see const.go for the exact layout.

	b, err := flux.Marshal(map[string]any{"name": "Alice", "age": 30})
	var v any
	err = flux.Unmarshal(b, &v)
*/
package flux
