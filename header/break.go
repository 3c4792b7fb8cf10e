package header

// Break represents the linebreak found between the lines of a header.
type Break string

// Constants for use when selecting the line break used to split up a header
// block. If you don't know what to pick, choose CRLF. Encoded fields are always
// written with CRLF.
const (
	Meh  Break = ""         // Sometimes it doesn't matter
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
	CR   Break = "\x0d"     // \r - Commodores/old Macs linebreak
	LFCR Break = "\x0a\x0d" // \n\r - for weirdos
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// Detect guesses the line break used in the given header block by looking at
// the end of the first line. CRLF is returned when no line break is found.
func Detect(m []byte) Break {
	for i, c := range m {
		switch c {
		case '\r':
			if i+1 < len(m) && m[i+1] == '\n' {
				return CRLF
			}
			return CR
		case '\n':
			if i+1 < len(m) && m[i+1] == '\r' {
				return LFCR
			}
			return LF
		}
	}
	return CRLF
}
