package field

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxPlainLength is the longest word left as plain text by the default
// Classifier. RFC 5322 forbids lines longer than 998 characters, so anything
// longer than that (less the fold indent) is escaped so it can be split.
const DefaultMaxPlainLength = 997

// Class labels a Word as either safe to emit verbatim or in need of
// encoded-word escaping.
type Class int

const (
	Plain  Class = iota // emitted as-is
	Escape              // emitted as one or more encoded-words
)

// String returns the name of the class.
func (c Class) String() string {
	switch c {
	case Plain:
		return "plain"
	case Escape:
		return "escape"
	default:
		return "unknown"
	}
}

// Scope selects how much of a value is escaped around a word that needs it.
type Scope int

const (
	PerLine    Scope = iota // every folded line holding an Escape word is escaped whole
	WholeValue              // a value with any 8-bit text is escaped from start to finish
	PerWord                 // only runs of Escape words are escaped
)

// String returns the name of the scope.
func (s Scope) String() string {
	switch s {
	case PerLine:
		return "line"
	case WholeValue:
		return "value"
	case PerWord:
		return "word"
	default:
		return "unknown"
	}
}

// ParseScope returns the Scope named by s, as returned by Scope.String.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "line", "":
		return PerLine, nil
	case "value":
		return WholeValue, nil
	case "word":
		return PerWord, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScope, s)
}

// ErrUnknownScope is returned by ParseScope for a name it does not recognize.
var ErrUnknownScope = errors.New("unknown escape scope")

// Word is a run of text from a field value together with the whitespace that
// separates it from the next Word. Outside of PerLine scope, an Escape word
// produced by a Classifier may hold several words of the original value with
// their separating whitespace kept inside Text.
type Word struct {
	Text  string
	Space string
	Class Class
}

// Classifier decides which words of a value must be escaped.
type Classifier struct {
	// Unsafe lists the ASCII characters that force a word to be escaped even
	// though they are printable.
	Unsafe string

	// MaxPlainLength is the longest word left as plain text. Zero means
	// DefaultMaxPlainLength.
	MaxPlainLength int

	// Scope decides what is escaped along with a word that needs it. The zero
	// value is PerLine.
	Scope Scope
}

// DefaultClassifier is the Classifier used by fields with no options.
var DefaultClassifier = &Classifier{}

// SplitWords breaks the value into words. Whitespace is attached to the word
// before it. Leading whitespace becomes a word with empty Text. Joining the
// Text and Space of every returned word reproduces s exactly.
func SplitWords(s string) []Word {
	words := make([]Word, 0, strings.Count(s, " ")+1)
	for i := 0; i < len(s); {
		start := i
		for i < len(s) && !isSpace(rune(s[i])) {
			i++
		}
		end := i
		for i < len(s) && isSpace(rune(s[i])) {
			i++
		}
		words = append(words, Word{Text: s[start:end], Space: s[end:i]})
	}
	return words
}

func has8bit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return true
		}
	}
	return false
}

// NeedsEscape reports whether the given word cannot be emitted as plain header
// text.
func (c *Classifier) NeedsEscape(w string) bool {
	maxLen := c.MaxPlainLength
	if maxLen <= 0 {
		maxLen = DefaultMaxPlainLength
	}

	if len(w) > maxLen {
		return true
	}

	if strings.Contains(w, "=?") {
		return true
	}

	for i := 0; i < len(w); i++ {
		b := w[i]
		if b < 0x20 || b >= 0x7f {
			return true
		}
		if strings.IndexByte(c.Unsafe, b) >= 0 {
			return true
		}
	}

	return false
}

// Classify splits the value into words and labels each one. In PerLine scope
// the words are returned one for one, leaving it to FoldEncoding.FoldLines to
// decide which lines are escaped. Otherwise, adjacent Escape words are merged
// into a single word so they become one encoded run.
func (c *Classifier) Classify(s string) []Word {
	if s == "" {
		return nil
	}

	if c.Scope == WholeValue && has8bit(s) {
		return []Word{{Text: s, Class: Escape}}
	}

	words := SplitWords(s)
	out := words[:0]
	for _, w := range words {
		if w.Text != "" && c.NeedsEscape(w.Text) {
			w.Class = Escape
		}

		if c.Scope == PerLine {
			out = append(out, w)
			continue
		}

		if n := len(out); n > 0 && w.Class == Escape && out[n-1].Class == Escape {
			prev := &out[n-1]
			prev.Text += prev.Space + w.Text
			prev.Space = w.Space
			continue
		}

		out = append(out, w)
	}

	return out
}
