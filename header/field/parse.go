package field

import (
	"bytes"
	"errors"
)

var (
	// ErrRawFieldTooShort is the error returned by Parse to indicate that the
	// given header field is either empty or too short to be a parseable header.
	// The shortest possible header field would be two bytes long, e.g.,
	// []byte("a:").
	ErrRawFieldTooShort = errors.New("header field is empty or too short")

	// ErrRawFieldMissingColon is the error that indicates that Parse is unable
	// to find a colon in the input.
	ErrRawFieldMissingColon = errors.New("header field is missing colon separating name from body")
)

// Parse will take a single header field line, including any folded
// continuation lines and a trailing line break, and construct an Unstructured
// field from it.
//
// The name is everything before the first colon. The single space that
// conventionally follows the colon is dropped. The folds found in the body are
// kept as they are and removed whenever the field is decoded.
func Parse(line []byte, opts ...Option) (*Unstructured, error) {
	line = trimBreak(line)
	if len(line) < 2 {
		return nil, ErrRawFieldTooShort
	}

	ix := bytes.IndexByte(line, ':')
	if ix < 0 {
		return nil, ErrRawFieldMissingColon
	}

	name := string(DefaultFoldEncoding.Unfold(line[:ix]))
	body := line[ix+1:]
	if len(body) > 0 && body[0] == ' ' {
		body = body[1:]
	}

	v := string(body)
	f := newUnstructured(name, &v, opts)
	f.folded = true
	return f, nil
}

// trimBreak removes one trailing line break, whether CRLF, LFCR, LF, or CR.
func trimBreak(line []byte) []byte {
	switch {
	case bytes.HasSuffix(line, []byte("\r\n")), bytes.HasSuffix(line, []byte("\n\r")):
		return line[:len(line)-2]
	case bytes.HasSuffix(line, []byte("\n")), bytes.HasSuffix(line, []byte("\r")):
		return line[:len(line)-1]
	}
	return line
}
