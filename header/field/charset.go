package field

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Encoder represents the character encoding function used to transform native
// unicode text into the bytes of the charset named in an encoded-word.
//
// If the target charset is not supported, or the string holds a character the
// charset cannot represent, bytes should be returned as nil and an error
// should be returned.
type Encoder func(charset, s string) ([]byte, error)

// Decoder represents the character decoding function used to transform the
// bytes carried by an encoded-word into native unicode.
//
// If the source charset is not supported, an error should be returned.
type Decoder func(charset string, b []byte) (string, error)

var (
	// CharsetEncoder is the Encoder used when encoding a field into a charset
	// other than UTF-8. You may replace this with a custom encoder or, to make
	// use of an encoder able to handle a wide variety of encodings, import the
	// encoding package:
	//  import _ "github.com/zostay/go-email-text/header/encoding"
	CharsetEncoder Encoder = DefaultCharsetEncoder

	// CharsetDecoder is the Decoder used when decoding encoded-words declared
	// in a charset other than UTF-8. Importing the encoding package replaces it
	// with one that supports a broad range of encodings.
	CharsetDecoder Decoder = DefaultCharsetDecoder
)

// DefaultCharsetEncoder is the default encoder. It is able to handle us-ascii,
// iso-8859-1 (a.k.a. latin1), and utf-8 only. Anything else will result in an
// error. A character that does not fit in the target charset is an error.
func DefaultCharsetEncoder(charset, s string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		for _, c := range s {
			if c > unicode.MaxASCII {
				return nil, fmt.Errorf("character %q cannot be encoded as %s", c, charset)
			}
		}
		return []byte(s), nil
	case "iso-8859-1", "latin1":
		b := make([]byte, 0, len(s))
		for _, c := range s {
			if c > unicode.MaxLatin1 {
				return nil, fmt.Errorf("character %q cannot be encoded as %s", c, charset)
			}
			b = append(b, byte(c))
		}
		return b, nil
	case "utf-8", "utf8":
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// DefaultCharsetDecoder is the default decoder. It is able to handle us-ascii,
// iso-8859-1 (a.k.a. latin1), and utf-8 only. Anything else will result in an
// error.
//
// When us-ascii is input, any 8-bit byte is translated into
// unicode.ReplacementChar. When utf-8 is input, invalid sequences are brought
// in as unicode.ReplacementChar.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		var s strings.Builder
		for _, c := range b {
			if c > unicode.MaxASCII {
				s.WriteRune(unicode.ReplacementChar)
			} else {
				s.WriteByte(c)
			}
		}
		return s.String(), nil
	case "iso-8859-1", "latin1":
		var s strings.Builder
		for _, c := range b {
			s.WriteRune(rune(c))
		}
		return s.String(), nil
	case "utf-8", "utf8":
		var s strings.Builder
		for len(b) > 0 {
			r, size := utf8.DecodeRune(b)
			s.WriteRune(r)
			b = b[size:]
		}
		return s.String(), nil
	default:
		return "", fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// isUTF8 reports whether the charset names UTF-8. Those bytes are carried
// through the codec untouched rather than going through the charset hooks.
func isUTF8(charset string) bool {
	return strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}
