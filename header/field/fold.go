package field

import (
	"errors"
	"math"
	"strings"
)

const (
	DefaultFoldIndent          = " "  // indent placed before folded lines
	DefaultPreferredFoldLength = 78   // we prefer header lines no longer than this
	DefaultForcedFoldLength    = 1000 // header lines must be shorter than this, line break included

	DoNotFold = -1 // we prefer not to fold at all
)

var (
	// DefaultFoldEncoding creates a new FoldEncoding using default settings. This
	// is the recommended way to create a FoldEncoding.
	DefaultFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DefaultPreferredFoldLength,
		DefaultForcedFoldLength,
	}

	// DoNotFoldEncoding is a FoldEncoding that doesn't perform folding.
	DoNotFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DoNotFold,
		DoNotFold,
	}
)

var (
	// ErrFoldIndentSpace is returned by NewFoldEncoding when a non-space/non-tab
	// character is put in the foldIndent setting.
	ErrFoldIndentSpace = errors.New("fold indent may only contains spaces and tabs")

	// ErrFoldIndentTooShort is returned by NewFoldEncoding when the foldIndent
	// is empty.
	ErrFoldIndentTooShort = errors.New("fold indent must contain at least one space or tab")

	// ErrFoldIndentTooLong is returned by NewFoldEncoding when the foldIndent
	// setting leaves no room for an encoded-word on a folded line.
	ErrFoldIndentTooLong = errors.New("fold indent must be much shorter than the preferred fold length")

	// ErrFoldLengthTooLong is returned by NewFoldEncoding when the
	// preferredFoldLength is longer than the forcedFoldLength.
	ErrFoldLengthTooLong = errors.New("preferred fold length must be no longer than the forced fold length")

	// ErrFoldLengthTooShort is returned by NewFoldEncoding when the
	// preferredFoldLength is too short to hold even a short encoded-word.
	ErrFoldLengthTooShort = errors.New("preferred fold length and forced fold length cannot be too short")

	// ErrDoNotFold is returned by NewFoldEncoding when the preferredFoldLength
	// or forcedFoldLength are set to DoNotFold (-1), but both are not set that
	// way.
	ErrDoNotFold = errors.New("preferred fold length and forced fold length must both be -1 if either are -1")
)

// minFoldLength is room for the name of a short charset, the encoded-word
// delimiters and a few escaped bytes. A folded line must leave that much room
// after the default indent.
const (
	minFoldLength = 30
	minFoldRoom   = minFoldLength - len(DefaultFoldIndent)
)

// FoldEncoding provides the tooling for folding email message headers.
type FoldEncoding struct {
	foldIndent          string
	preferredFoldLength int
	forcedFoldLength    int
}

// NewFoldEncoding creates a new FoldEncoding with the given settings. The
// foldIndent must be a string, filled with one or more space or tab characters,
// and it must be much shorter than the preferredFoldLength. The
// preferredFoldLength must be equal to or less than forcedFoldLength. If any of
// the given inputs do not meet these requirements, an error will be returned.
func NewFoldEncoding(
	foldIndent string,
	preferredFoldLength,
	forcedFoldLength int,
) (*FoldEncoding, error) {
	if ix := strings.IndexFunc(foldIndent, func(c rune) bool { return !isSpace(c) }); ix >= 0 {
		return nil, ErrFoldIndentSpace
	}

	if len(foldIndent) < 1 {
		return nil, ErrFoldIndentTooShort
	}

	if (preferredFoldLength == DoNotFold) != (forcedFoldLength == DoNotFold) {
		return nil, ErrDoNotFold
	}

	if preferredFoldLength != DoNotFold {
		if preferredFoldLength < minFoldLength || forcedFoldLength < minFoldLength {
			return nil, ErrFoldLengthTooShort
		}

		if preferredFoldLength-len(foldIndent) < minFoldRoom {
			return nil, ErrFoldIndentTooLong
		}

		if preferredFoldLength > forcedFoldLength {
			return nil, ErrFoldLengthTooLong
		}
	}

	return &FoldEncoding{foldIndent, preferredFoldLength, forcedFoldLength}, nil
}

// FoldIndent returns the indent placed at the start of a line folded between
// two encoded-words.
func (vf *FoldEncoding) FoldIndent() string { return vf.foldIndent }

// PreferredFoldLength returns the line length folding tries to stay within.
func (vf *FoldEncoding) PreferredFoldLength() int { return vf.preferredFoldLength }

// MaxPlainLength returns the longest word that may be written as plain text
// without breaking the forced fold length. Longer words must be escaped so that
// they can be split over several lines.
func (vf *FoldEncoding) MaxPlainLength() int {
	if vf.forcedFoldLength == DoNotFold {
		return math.MaxInt
	}
	return vf.forcedFoldLength - len("\r\n") - len(vf.foldIndent)
}

// Unfold will take a folded header line from an email and unfold it for
// reading. Every CR and LF is removed.
func (vf *FoldEncoding) Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if !isCRLF(rune(b)) {
			uf = append(uf, b)
		}
	}
	return uf
}

func isCRLF(c rune) bool  { return c == '\r' || c == '\n' }
func isSpace(c rune) bool { return c == ' ' || c == '\t' }

// foldLine tracks the output and the length of the line being written.
type foldLine struct {
	b strings.Builder
	n int
}

func (l *foldLine) write(s string) {
	l.b.WriteString(s)
	l.n += len(s)
}

// fold ends the current line and starts the next one with lead.
func (l *foldLine) fold(lead string) {
	l.b.WriteString("\r\n")
	l.n = 0
	l.write(lead)
}

// FoldWords writes the field name followed by the classified words of the value,
// folding lines that would otherwise grow longer than the preferred fold
// length. Plain words are never split; a plain word too long to fit is given a
// line of its own. Escape words are encoded with enc into as many encoded-words
// as needed to fit and each encoded-word after the first begins a new line. The
// returned string always ends with CRLF.
//
// Every fold either lands before the whitespace found between two words of the
// value, which then begins the next line, or between two encoded-words.
// Unfolding and decoding the output returns the original value.
func (vf *FoldEncoding) FoldWords(name string, words []Word, enc *WordEncoder) (string, error) {
	var l foldLine
	l.write(name)
	l.write(": ")

	limit := vf.preferredFoldLength
	folding := limit != DoNotFold

	sep := ""
	for i, w := range words {
		last := i == len(words)-1

		// a plain word whose trailing whitespace cannot fit on any line is
		// escaped along with it
		if last && w.Class == Plain && w.Space != "" && folding {
			need := len(w.Text) + len(w.Space)
			if l.n+len(sep)+need > limit && (sep == "" || len(sep)+need > limit) {
				w.Class = Escape
			}
		}

		switch w.Class {
		case Escape:
			// trailing whitespace is carried inside the final encoded-word
			if last {
				w.Text += w.Space
				w.Space = ""
			}

			first, rest := math.MaxInt, math.MaxInt
			if folding {
				first = limit - l.n - len(sep)
				rest = limit - len(vf.foldIndent)
			}

			ews, err := enc.Encode(w.Text, first, rest)
			if err != nil {
				return "", err
			}

			if folding && sep != "" && len(ews) > 0 && len(ews[0]) > first {
				l.fold(sep)
				ews, err = enc.Encode(w.Text, limit-l.n, rest)
				if err != nil {
					return "", err
				}
			} else {
				l.write(sep)
			}

			for k, ew := range ews {
				if k > 0 {
					l.fold(vf.foldIndent)
				}
				l.write(ew)
			}

		default:
			need := len(sep) + len(w.Text)
			if last {
				need += len(w.Space)
			}

			if folding && sep != "" && l.n+need > limit {
				l.fold(sep)
			} else {
				l.write(sep)
			}
			l.write(w.Text)
		}

		sep = w.Space
	}

	l.write(sep)
	l.b.WriteString("\r\n")

	return l.b.String(), nil
}

// lineText joins words[i:j] back together. The whitespace after the last of
// them is included only when it ends the value.
func lineText(words []Word, i, j int) string {
	var b strings.Builder
	for k := i; k < j; k++ {
		b.WriteString(words[k].Text)
		if k < j-1 || j == len(words) {
			b.WriteString(words[k].Space)
		}
	}
	return b.String()
}

func hasEscape(words []Word) bool {
	for _, w := range words {
		if w.Class == Escape {
			return true
		}
	}
	return false
}

// FoldLines is the folder for PerLine scope. It packs as many words onto each
// line as fit within the preferred fold length. A line holding any Escape word
// is written as encoded-words from its first word to its last, while every
// other line is written as plain text. The words are expected to come from a
// Classifier in PerLine scope, one for each word of the value.
//
// Lines are folded before the whitespace separating two words, which begins the
// next line. Between two escaped lines, that whitespace is carried inside the
// second line's encoded-word and the fold indent is used instead. A single word
// too long for a line of its own is split into several encoded-words when it
// is escaped and left to run long when it is not. The returned string always
// ends with CRLF.
func (vf *FoldEncoding) FoldLines(name string, words []Word, enc *WordEncoder) (string, error) {
	var l foldLine
	l.write(name)
	l.write(": ")

	limit := vf.preferredFoldLength
	folding := limit != DoNotFold

	// render returns the lead and text of a line made of words[i:j], whether
	// it is escaped, and the width it takes.
	prevEscaped := false
	render := func(i, j int, force bool) (lead, text string, escaped bool, width int, err error) {
		escaped = force || hasEscape(words[i:j])
		text = lineText(words, i, j)

		col := l.n
		if i > 0 {
			sep := words[i-1].Space
			lead = sep
			if escaped && prevEscaped {
				lead = vf.foldIndent
				text = sep + text
			}
			col = len(lead)
		}

		if !escaped {
			return lead, text, false, col + len(text), nil
		}

		n, err := enc.encodedLen(text)
		if err != nil {
			return "", "", true, 0, err
		}
		return lead, text, true, col + enc.Overhead() + n, nil
	}

	for i := 0; i < len(words); {
		j := i + 1
		if !folding {
			j = len(words)
		}

		for j < len(words) {
			_, _, _, width, err := render(i, j+1, false)
			if err != nil {
				return "", err
			}
			if width > limit {
				break
			}
			j++
		}

		lead, text, escaped, width, err := render(i, j, false)
		if err != nil {
			return "", err
		}

		// trailing whitespace that runs past the limit is escaped with the
		// rest of the last line
		if folding && !escaped && j == len(words) && words[j-1].Space != "" && width > limit {
			lead, text, escaped, _, err = render(i, j, true)
			if err != nil {
				return "", err
			}
		}

		if i > 0 {
			l.fold(lead)
		}

		if escaped {
			first, rest := math.MaxInt, math.MaxInt
			if folding {
				first = limit - l.n
				rest = limit - len(vf.foldIndent)
			}

			ews, err := enc.Encode(text, first, rest)
			if err != nil {
				return "", err
			}

			for k, ew := range ews {
				if k > 0 {
					l.fold(vf.foldIndent)
				}
				l.write(ew)
			}
		} else {
			l.write(text)
		}

		prevEscaped = escaped
		i = j
	}

	l.b.WriteString("\r\n")

	return l.b.String(), nil
}
