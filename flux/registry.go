package flux

import (
	"reflect"
	"sync"
)

// Serializer converts a host value of some registered type to another
// host value that the bridge already knows how to represent (e.g. a
// custom type converting itself to a map[string]any). It runs before
// the general reflect-based mapping, so a registered type takes
// precedence over the built-in rules.
type Serializer func(v any) (any, error)

// TagDecoder converts a Tagged value's inner host value back into a
// richer host type for a specific 32-bit tag. It runs after the inner
// value has already been converted by the bridge.
type TagDecoder func(tag uint32, inner any) (any, error)

// registry is the process-wide, reader/writer-lock-guarded table of
// custom serializers and tag decoders. Registration mutates; hot-path
// encoding/decoding only reads: the encoder does one serializer lookup
// per non-nil host value (other than Tagged and Tuple), and the
// decoder one tag-decoder lookup per Tagged value.
var registry = struct {
	mu          sync.RWMutex
	serializers map[reflect.Type]Serializer
	decoders    map[uint32]TagDecoder
}{
	serializers: make(map[reflect.Type]Serializer),
	decoders:    make(map[uint32]TagDecoder),
}

// RegisterSerializer installs a Serializer for values of type t,
// consulted before the encoder's built-in reflect-based mapping.
func RegisterSerializer(t reflect.Type, fn Serializer) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.serializers[t] = fn
}

// UnregisterSerializer removes any Serializer registered for t.
func UnregisterSerializer(t reflect.Type) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.serializers, t)
}

// RegisterTagDecoder installs a TagDecoder for a specific 32-bit tag,
// consulted when the decoder's bridge encounters a Tagged value
// carrying that tag.
func RegisterTagDecoder(tag uint32, fn TagDecoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.decoders[tag] = fn
}

// UnregisterTagDecoder removes any TagDecoder registered for tag.
func UnregisterTagDecoder(tag uint32) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.decoders, tag)
}

func lookupSerializer(v any) (Serializer, bool) {
	if v == nil {
		return nil, false
	}
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.serializers[reflect.TypeOf(v)]
	return fn, ok
}

func lookupTagDecoder(tag uint32) (TagDecoder, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.decoders[tag]
	return fn, ok
}
