package field

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultCharset is the charset named in encoded-words when no other charset
// is configured.
const DefaultCharset = "UTF-8"

const (
	upperhex = "0123456789ABCDEF"

	// printable ASCII that must still be escaped inside a Q encoded-word
	qSpecials = `=?_"()`
)

// WordEncoder turns runs of text into RFC 2047 encoded-words using the Q
// encoding.
type WordEncoder struct {
	Charset string
}

// DefaultWordEncoder encodes into UTF-8.
var DefaultWordEncoder = &WordEncoder{DefaultCharset}

func (e *WordEncoder) charset() string {
	if e.Charset == "" {
		return DefaultCharset
	}
	return e.Charset
}

// Overhead returns the number of characters taken up by an encoded-word with
// an empty payload.
func (e *WordEncoder) Overhead() int {
	return len("=?") + len(e.charset()) + len("?Q?") + len("?=")
}

// qchar is the Q-encoded form of a single source character.
type qchar struct {
	enc   string
	space bool
}

func writeQ(b *strings.Builder, c byte) {
	switch {
	case c == ' ':
		b.WriteByte('_')
	case c > ' ' && c < 0x7f && strings.IndexByte(qSpecials, c) < 0:
		b.WriteByte(c)
	default:
		b.WriteByte('=')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
}

func (e *WordEncoder) qchars(s string) ([]qchar, error) {
	utf := isUTF8(e.charset())
	qs := make([]qchar, 0, len(s))
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		src := s[i : i+size]
		i += size

		raw := []byte(src)
		if !utf {
			var err error
			raw, err = CharsetEncoder(e.charset(), src)
			if err != nil {
				return nil, fmt.Errorf("unable to encode %q as %s: %w", src, e.charset(), err)
			}
		}

		var b strings.Builder
		for _, c := range raw {
			writeQ(&b, c)
		}
		qs = append(qs, qchar{b.String(), src == " "})
	}
	return qs, nil
}

func (e *WordEncoder) token(qs []qchar) string {
	var b strings.Builder
	b.WriteString("=?")
	b.WriteString(e.charset())
	b.WriteString("?Q?")
	for _, q := range qs {
		b.WriteString(q.enc)
	}
	b.WriteString("?=")
	return b.String()
}

// encodedLen returns the length of s as the payload of a single encoded-word.
func (e *WordEncoder) encodedLen(s string) (int, error) {
	qs, err := e.qchars(s)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, q := range qs {
		n += len(q.enc)
	}
	return n, nil
}

// Encode returns s as one or more encoded-words. The first encoded-word will be
// no longer than first and every one after it no longer than rest, unless a
// single character does not fit in that space, in which case that character
// is placed alone in an encoded-word anyway.
//
// Encoded-words only ever split between characters of s, so each one decodes
// on its own. When a split is needed, it is made just before a space if one
// is found in the latter half of the encoded-word.
func (e *WordEncoder) Encode(s string, first, rest int) ([]string, error) {
	qs, err := e.qchars(s)
	if err != nil {
		return nil, err
	}

	var words []string
	for start := 0; start < len(qs); {
		limit := rest
		if len(words) == 0 {
			limit = first
		}
		limit -= e.Overhead()

		end, n, brk := start, 0, -1
		for end < len(qs) {
			w := len(qs[end].enc)
			if end > start && n+w > limit {
				break
			}
			if qs[end].space && end > start {
				brk = end
			}
			n += w
			end++
		}

		if end < len(qs) && !qs[end].space && brk-start >= (end-start)/2 {
			end = brk
		}

		words = append(words, e.token(qs[start:end]))
		start = end
	}

	return words, nil
}

// DecodeWords resolves every encoded-word found in s and returns the result.
// Encoded-words separated from one another only by folding whitespace are
// joined together. Any other text, including anything that looks like an
// encoded-word but cannot be decoded, is returned unchanged.
func DecodeWords(s string) string {
	return decodeWords(s, false)
}

// DecodeFolded works like DecodeWords, but also unfolds the text found between
// encoded-words. Use it on a field body taken directly from a message.
func DecodeFolded(s string) string {
	return decodeWords(s, true)
}

func decodeWords(s string, unfold bool) string {
	var out strings.Builder
	plain := func(t string) {
		if unfold {
			t = unfoldText(t)
		}
		out.WriteString(t)
	}

	afterWord := false
	ps := 0
	for p := 0; p < len(s); {
		ix := strings.Index(s[p:], "=?")
		if ix < 0 {
			break
		}

		start := p + ix
		text, n, ok := decodeWord(s[start:])
		if !ok {
			p = start + 2
			continue
		}

		if gap := s[ps:start]; !afterWord || !isFoldingSpace(gap) {
			plain(gap)
		}
		out.WriteString(text)

		ps = start + n
		p = ps
		afterWord = true
	}
	plain(s[ps:])

	return out.String()
}

// isFoldingSpace is true for a non-empty run of whitespace that includes a line
// break.
func isFoldingSpace(s string) bool {
	if !strings.ContainsAny(s, "\r\n") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isSpace(rune(s[i])) && s[i] != '\r' && s[i] != '\n' {
			return false
		}
	}
	return true
}

// unfoldText drops line breaks followed by whitespace, keeping the whitespace.
func unfoldText(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\r' && i+2 < len(s) && s[i+1] == '\n' && isSpace(rune(s[i+2])):
			i++
		case s[i] == '\n' && i+1 < len(s) && isSpace(rune(s[i+1])):
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// decodeWord decodes the Q encoded-word at the start of s. It returns the
// decoded text and the length of the encoded-word. The ok result is false if s
// does not start with a valid encoded-word.
func decodeWord(s string) (text string, n int, ok bool) {
	if !strings.HasPrefix(s, "=?") {
		return "", 0, false
	}

	rest := s[2:]
	q := strings.IndexByte(rest, '?')
	if q <= 0 {
		return "", 0, false
	}

	charset := rest[:q]
	if strings.ContainsAny(charset, " \t\r\n=") {
		return "", 0, false
	}
	if star := strings.IndexByte(charset, '*'); star >= 0 {
		charset = charset[:star]
	}

	rest = rest[q+1:]
	if len(rest) < 2 || (rest[0] != 'Q' && rest[0] != 'q') || rest[1] != '?' {
		return "", 0, false
	}

	rest = rest[2:]
	end := strings.Index(rest, "?=")
	if end < 0 {
		return "", 0, false
	}

	payload := rest[:end]
	if strings.ContainsAny(payload, " \t\r\n?") {
		return "", 0, false
	}

	raw := make([]byte, 0, len(payload))
	for i := 0; i < len(payload); i++ {
		switch c := payload[i]; c {
		case '_':
			raw = append(raw, ' ')
		case '=':
			if i+2 >= len(payload) {
				return "", 0, false
			}
			hi, okh := unhex(payload[i+1])
			lo, okl := unhex(payload[i+2])
			if !okh || !okl {
				return "", 0, false
			}
			raw = append(raw, hi<<4|lo)
			i += 2
		default:
			raw = append(raw, c)
		}
	}

	if isUTF8(charset) {
		text = string(raw)
	} else {
		var err error
		text, err = CharsetDecoder(charset, raw)
		if err != nil {
			return "", 0, false
		}
	}

	return text, 2 + q + 1 + 2 + end + 2, true
}
