package flux

// magic is the four-byte frame identifier, spelling "CROU" in ASCII.
var magic = [4]byte{0x43, 0x52, 0x4F, 0x55}

// version is the current wire-format generation byte.
const version = 0x02

// frameHeaderSize is the number of bytes before the first value tag:
// magic (4) + version (1).
const frameHeaderSize = 5

// typeTag is the one-byte kind discriminator prefixing every encoded value.
type typeTag byte

const (
	tagNull   typeTag = 0x00
	tagFalse  typeTag = 0x01
	tagTrue   typeTag = 0x02
	tagInt    typeTag = 0x03
	tagFloat  typeTag = 0x04
	tagStr    typeTag = 0x05
	tagBytes  typeTag = 0x06
	tagList   typeTag = 0x07
	tagTuple  typeTag = 0x08
	tagDict   typeTag = 0x09
	tagTagged typeTag = 0x0A
)

// defaultDepthLimit is the default container-nesting bound for both
// the encoder and the decoder. Configurable per spec via Encoder.DepthLimit
// and Decoder.DepthLimit.
const defaultDepthLimit = 256

// maxTag is the largest permissible Tagged tag value (2^32 - 1).
const maxTag = uint64(1<<32 - 1)
