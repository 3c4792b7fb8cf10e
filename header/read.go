package header

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

const (
	// DefaultChunkSize is the default size of the chunks read from the input
	// while searching for the end of the header.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum number of bytes to read
	// before giving up on finding the end of the header.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize
)

// ErrLargeHeader is returned by Read when no blank line is found within the
// maximum header length.
var ErrLargeHeader = errors.New("the header exceeds the maximum read length")

// breaks are checked in this order when two of them end the header at the same
// position.
var breaks = []Break{CRLF, LFCR, LF, CR}

type reader struct {
	chunkSize    int
	maxHeaderLen int
}

// ReadOption configures Read.
type ReadOption func(*reader)

// WithChunkSize sets the number of bytes requested from the input on each read.
func WithChunkSize(n int) ReadOption {
	return func(rd *reader) {
		rd.chunkSize = n
	}
}

// WithMaxHeaderLength sets the number of bytes that may be read while looking
// for the end of the header. Zero or less means there is no limit.
func WithMaxHeaderLength(n int) ReadOption {
	return func(rd *reader) {
		rd.maxHeaderLen = n
	}
}

// searchForSplit looks for the blank line ending the header, starting at from.
// It returns the position just past the blank line and the line break in use,
// or -1 if there is no blank line yet. A buffer that starts with a line break
// holds an empty header.
func searchForSplit(buf []byte, from int) (int, Break) {
	if from == 0 {
		for _, lb := range breaks {
			if bytes.HasPrefix(buf, lb.Bytes()) {
				return len(lb), lb
			}
		}
	}

	start, found := -1, Meh
	for _, lb := range breaks {
		ix := bytes.Index(buf[from:], append(lb.Bytes(), lb.Bytes()...))
		if ix >= 0 && (start < 0 || from+ix < start) {
			start, found = from+ix, lb
		}
	}

	if start < 0 {
		return -1, Meh
	}
	return start + 2*len(found), found
}

// Read pulls the header block off the front of a message. It returns the
// header, the line break the header uses, and a reader positioned at the start
// of the body. The header keeps the line break at the end of its last field,
// but the blank line separating it from the body belongs to neither.
//
// Input with no blank line is treated as all header with an empty body.
func Read(r io.Reader, opts ...ReadOption) ([]byte, Break, io.Reader, error) {
	rd := &reader{
		chunkSize:    DefaultChunkSize,
		maxHeaderLen: DefaultMaxHeaderLength,
	}
	for _, opt := range opts {
		opt(rd)
	}

	p := make([]byte, rd.chunkSize)
	buf := &bytes.Buffer{}
	searched := 0
	for {
		n, err := r.Read(p)

		isEOF := false
		if errors.Is(err, io.EOF) {
			isEOF = true
		} else if err != nil {
			return nil, Meh, nil, err
		}

		_, _ = buf.Write(p[:n])

		data := buf.Bytes()
		if pos, lb := searchForSplit(data, searched); pos >= 0 {
			hdr := make([]byte, pos-len(lb))
			copy(hdr, data)
			return hdr, lb, &remainder{data[pos:], r}, nil
		}

		if rd.maxHeaderLen > 0 && buf.Len() > rd.maxHeaderLen {
			return nil, Meh, nil, ErrLargeHeader
		}

		if isEOF {
			break
		}

		// the last 3 bytes might be the start of the blank line
		searched = buf.Len() - 3
		if searched < 0 {
			searched = 0
		}
	}

	hdr := buf.Bytes()
	return hdr, Detect(hdr), bytes.NewReader(nil), nil
}

// remainder returns the bytes already read past the header, then passes reads
// on to the rest of the input.
type remainder struct {
	prefix []byte
	r      io.Reader
}

// Read reads from the prefix first and then from the input.
func (r *remainder) Read(p []byte) (n int, err error) {
	if len(r.prefix) > 0 {
		n = copy(p, r.prefix)
		r.prefix = r.prefix[n:]
	}

	if n < len(p) {
		var rn int
		rn, err = r.r.Read(p[n:])
		n += rn
	}

	return n, err
}

// Close passes the call on to the input if it is an io.Closer.
func (r *remainder) Close() error {
	if c, isCloser := r.r.(io.Closer); isCloser {
		return c.Close()
	}
	return nil
}
