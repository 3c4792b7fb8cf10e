package header

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/zostay/go-email-text/header/field"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart []byte // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line represents the unparsed content for a complete header field line.
type Line []byte

// Lines represents the unparsed content for zero or more header field
// lines.
type Lines []Line

// ParseLines splits the given input into lines according to the rules we use to
// determine how to break header fields up inside a header. The input bytes are
// expected to include only the header. It will parse the whole input as if all
// of it belongs to the header. Each Line returned keeps its folds and its
// trailing line break, ready to feed into field.Parse.
//
// This method does not follow RFC 5322 precisely. It will accept input that
// would be rejected by the specification as part of the effort this library
// makes in attempting to be liberal in what it accepts, but strict in what it
// generates.
//
// If the first line (or lines) of input start with spaces or contain no colons,
// these lines will be skipped in the Lines returned. However, a BadStartError
// will be returned.
//
// From then on, this will start a new field on any line that does not start
// with a space and contains a colon. After the first such line is encountered,
// any line after that will be considered a continuation if it starts with a
// space or does not contain a colon.
func ParseLines(m []byte, lb Break) (Lines, error) {
	if lb == Meh {
		lb = Detect(m)
	}

	h := make(Lines, 0, len(m)/80)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb.Bytes()) {
		if len(line) == 0 {
			break
		}
		if line[0] == '\t' || line[0] == ' ' || !bytes.Contains(line, []byte(":")) {
			// Start with a continuation? Weird, uh...
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, line)
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Parse splits the header block into lines with ParseLines and turns each one
// into an Unstructured field. The options are applied to every field. A
// BadStartError is returned alongside the fields that could be parsed.
func Parse(m []byte, lb Break, opts ...field.Option) ([]*field.Unstructured, error) {
	lines, err := ParseLines(m, lb)

	var badStart *BadStartError
	if err != nil && !errors.As(err, &badStart) {
		return nil, err
	}

	fs := make([]*field.Unstructured, 0, len(lines))
	for i, line := range lines {
		f, perr := field.Parse(line, opts...)
		if perr != nil {
			return fs, fmt.Errorf("unable to parse header field %d: %w", i, perr)
		}
		fs = append(fs, f)
	}

	return fs, err
}
