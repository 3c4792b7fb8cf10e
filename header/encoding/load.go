// Package encoding swaps field.CharsetEncoder and field.CharsetDecoder for
// versions built on golang.org/x/text, so that encoded-words may be written and
// read in nearly any charset found in mail. Import it for its side effect:
//
//	import _ "github.com/zostay/go-email-text/header/encoding"
//
// This will make the size of your compiled binaries considerably larger.
package encoding

import (
	"fmt"

	"golang.org/x/text/encoding"
	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-email-text/header/field"
)

func init() {
	field.CharsetEncoder = CharsetEncoder
	field.CharsetDecoder = CharsetDecoder
}

// Lookup finds the encoding for the named charset. MIME names are tried first,
// then the full IANA registry, and finally the names browsers accept, which
// covers most of the misspellings that turn up in real messages.
func Lookup(charset string) (encoding.Encoding, error) {
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if e, err := index.Encoding(charset); err == nil && e != nil {
			return e, nil
		}
	}

	if e, err := htmlindex.Get(charset); err == nil && e != nil {
		return e, nil
	}

	return nil, fmt.Errorf("no encoding found for charset %q", charset)
}

// CharsetEncoder converts s into the named charset. A character that the charset
// cannot represent is an error rather than being replaced, so the caller can
// fall back to a charset that does.
func CharsetEncoder(charset, s string) ([]byte, error) {
	e, err := Lookup(charset)
	if err != nil {
		return nil, err
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("unable to encode as %s: %w", charset, err)
	}

	return []byte(es), nil
}

// CharsetDecoder converts bytes in the named charset into a native string.
func CharsetDecoder(charset string, b []byte) (string, error) {
	e, err := Lookup(charset)
	if err != nil {
		return "", err
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("unable to decode %s: %w", charset, err)
	}

	return string(eb), nil
}
