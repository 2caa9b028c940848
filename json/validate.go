package json

import (
	"fmt"
	"unicode/utf8"

	"github.com/bits-and-blooms/bitset"
)

// SyntaxError reports the first grammar violation found by Validate.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json: %s at offset %d", e.Msg, e.Offset)
}

// expectation is the validator's token-level state.
type expectation uint8

const (
	expValue expectation = iota
	expKeyOrClose
	expKey
	expColon
	expCommaOrClose
	expEnd
)

// Validate strictly checks that src is a single well-formed JSON
// document. The semi-indexer itself never rejects input; callers that
// need rejection run this separate pass.
//
// The container stack is a bitset (1 = object), so arbitrarily deep
// nesting costs one bit per level.
func Validate(src []byte) error {
	n := len(src)
	stack := bitset.New(64)
	depth := uint(0)
	exp := expValue

	i := skipWS(src, 0)
	if i >= n {
		return &SyntaxError{Offset: 0, Msg: "empty input"}
	}

	for i < n {
		c := src[i]
		switch exp {
		case expValue:
			switch c {
			case '{':
				depth++
				stack.Set(depth)
				exp = expKeyOrClose
				i++
			case '[':
				depth++
				stack.Clear(depth)
				exp = expValue
				i++
				// Empty array needs a lookahead close.
				if j := skipWS(src, i); j < n && src[j] == ']' {
					i = j + 1
					depth--
					exp = afterValue(depth)
				}
			case '"':
				var err error
				if i, err = scanString(src, i); err != nil {
					return err
				}
				exp = afterValue(depth)
			case 't', 'f', 'n':
				var err error
				if i, err = scanKeyword(src, i); err != nil {
					return err
				}
				exp = afterValue(depth)
			default:
				var err error
				if i, err = scanNumber(src, i); err != nil {
					return err
				}
				exp = afterValue(depth)
			}

		case expKeyOrClose:
			if c == '}' {
				depth--
				exp = afterValue(depth)
				i++
				break
			}
			fallthrough
		case expKey:
			if c != '"' {
				return &SyntaxError{Offset: i, Msg: "expected object key"}
			}
			var err error
			if i, err = scanString(src, i); err != nil {
				return err
			}
			exp = expColon

		case expColon:
			if c != ':' {
				return &SyntaxError{Offset: i, Msg: "expected colon after key"}
			}
			exp = expValue
			i++

		case expCommaOrClose:
			switch c {
			case ',':
				if stack.Test(depth) {
					exp = expKey
				} else {
					exp = expValue
				}
				i++
			case '}':
				if !stack.Test(depth) {
					return &SyntaxError{Offset: i, Msg: "mismatched close: expected ]"}
				}
				depth--
				exp = afterValue(depth)
				i++
			case ']':
				if stack.Test(depth) {
					return &SyntaxError{Offset: i, Msg: "mismatched close: expected }"}
				}
				depth--
				exp = afterValue(depth)
				i++
			default:
				return &SyntaxError{Offset: i, Msg: "expected comma or close"}
			}

		case expEnd:
			return &SyntaxError{Offset: i, Msg: "trailing content"}
		}

		i = skipWS(src, i)
	}

	if depth != 0 {
		return &SyntaxError{Offset: n, Msg: "unexpected end of input"}
	}
	if exp != expEnd {
		return &SyntaxError{Offset: n, Msg: "unexpected end of input"}
	}
	return nil
}

// ValidateUTF8 is Validate plus a UTF-8 well-formedness check over the
// whole buffer. The indexer treats bytes as opaque; this is the
// optional stricter contract.
func ValidateUTF8(src []byte) error {
	if !utf8.Valid(src) {
		return &SyntaxError{Offset: 0, Msg: "invalid UTF-8"}
	}
	return Validate(src)
}

func afterValue(depth uint) expectation {
	if depth == 0 {
		return expEnd
	}
	return expCommaOrClose
}

func skipWS(src []byte, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

// scanString validates a string starting at the opening quote and
// returns the position after the closing quote.
func scanString(src []byte, i int) (int, error) {
	start := i
	i++
	for i < len(src) {
		c := src[i]
		switch {
		case c == '"':
			return i + 1, nil
		case c == '\\':
			i++
			if i >= len(src) {
				return 0, &SyntaxError{Offset: i, Msg: "truncated escape"}
			}
			switch src[i] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i++
			case 'u':
				if i+4 >= len(src) || !isHex4(src[i+1:]) {
					return 0, &SyntaxError{Offset: i, Msg: "invalid unicode escape"}
				}
				i += 5
			default:
				return 0, &SyntaxError{Offset: i, Msg: "invalid escape character"}
			}
		case c < 0x20:
			return 0, &SyntaxError{Offset: i, Msg: "control character in string"}
		default:
			i++
		}
	}
	return 0, &SyntaxError{Offset: start, Msg: "unterminated string"}
}

func isHex4(b []byte) bool {
	for j := 0; j < 4; j++ {
		c := b[j]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func scanKeyword(src []byte, i int) (int, error) {
	rest := src[i:]
	for _, kw := range []string{"true", "false", "null"} {
		if len(rest) >= len(kw) && string(rest[:len(kw)]) == kw {
			return i + len(kw), nil
		}
	}
	return 0, &SyntaxError{Offset: i, Msg: "invalid literal"}
}

// scanNumber validates the strict JSON number grammar.
func scanNumber(src []byte, i int) (int, error) {
	start := i
	n := len(src)
	if i < n && src[i] == '-' {
		i++
	}
	switch {
	case i < n && src[i] == '0':
		i++
	case i < n && src[i] >= '1' && src[i] <= '9':
		for i < n && isDigit(src[i]) {
			i++
		}
	default:
		return 0, &SyntaxError{Offset: start, Msg: "invalid number"}
	}
	if i < n && src[i] == '.' {
		i++
		if i >= n || !isDigit(src[i]) {
			return 0, &SyntaxError{Offset: i, Msg: "invalid number: expected fraction digits"}
		}
		for i < n && isDigit(src[i]) {
			i++
		}
	}
	if i < n && (src[i] == 'e' || src[i] == 'E') {
		i++
		if i < n && (src[i] == '+' || src[i] == '-') {
			i++
		}
		if i >= n || !isDigit(src[i]) {
			return 0, &SyntaxError{Offset: i, Msg: "invalid number: expected exponent digits"}
		}
		for i < n && isDigit(src[i]) {
			i++
		}
	}
	return i, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
