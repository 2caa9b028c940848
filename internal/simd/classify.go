// Package simd provides SIMD-style character classification for the
// JSON semi-indexer, with per-ISA kernels selected once per process.
//
// All kernels produce byte-for-byte identical masks; the test harness
// invokes every kernel explicitly rather than relying on the
// dispatched one.
package simd

// Masks holds one classification bit per input byte for a window of up
// to 64 bytes. Bit i corresponds to byte i of the window.
type Masks struct {
	Quote      uint64 // "
	Backslash  uint64 // \
	Open       uint64 // { [
	Close      uint64 // } ]
	Structural uint64 // { } [ ] , :
	Whitespace uint64 // space \t \n \r
	ValueStart uint64 // anything else: begins a number/true/false/null
}

// Kernel classifies a window of 1..64 bytes.
type Kernel func(data []byte) Masks

// Byte class flags for the scalar path.
const (
	flagQuote uint8 = 1 << iota
	flagBackslash
	flagOpen
	flagClose
	flagComma
	flagColon
	flagWhitespace
)

var classTable [256]uint8

func init() {
	classTable['"'] = flagQuote
	classTable['\\'] = flagBackslash
	classTable['{'] = flagOpen
	classTable['['] = flagOpen
	classTable['}'] = flagClose
	classTable[']'] = flagClose
	classTable[','] = flagComma
	classTable[':'] = flagColon
	classTable[' '] = flagWhitespace
	classTable['\t'] = flagWhitespace
	classTable['\n'] = flagWhitespace
	classTable['\r'] = flagWhitespace
}

// classifyScalar is the reference kernel: one table lookup per byte.
func classifyScalar(data []byte) Masks {
	var m Masks
	for i, c := range data {
		bit := uint64(1) << uint(i)
		f := classTable[c]
		switch {
		case f&flagQuote != 0:
			m.Quote |= bit
		case f&flagBackslash != 0:
			m.Backslash |= bit
			m.ValueStart |= bit
		case f&flagOpen != 0:
			m.Open |= bit
			m.Structural |= bit
		case f&flagClose != 0:
			m.Close |= bit
			m.Structural |= bit
		case f&(flagComma|flagColon) != 0:
			m.Structural |= bit
		case f&flagWhitespace != 0:
			m.Whitespace |= bit
		default:
			m.ValueStart |= bit
		}
	}
	return m
}
