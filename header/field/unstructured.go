package field

// Unstructured is a header field whose body is free-form text, such as
// Subject or Comments. It holds the field name and an optional value. A field
// with no value is distinct from a field whose value is the empty string: the
// former is not output at all.
//
// Nothing is cached. Encoded and Decoded always work from the current value,
// so they may be called at any time after SetValue or Unset. An Unstructured is
// not safe for concurrent use.
type Unstructured struct {
	name   string
	value  *string
	folded bool // value came from the wire and may still contain folds

	charset    string
	fold       *FoldEncoding
	classifier Classifier
}

// Option configures an Unstructured field.
type Option func(*Unstructured)

// WithCharset sets the charset used for encoded-words. The default is UTF-8.
// Charsets other than us-ascii, iso-8859-1, and utf-8 require the encoding
// package to be imported.
func WithCharset(charset string) Option {
	return func(f *Unstructured) {
		f.charset = charset
	}
}

// WithFoldEncoding sets the FoldEncoding used to fold the encoded field. A nil
// FoldEncoding leaves the default in place.
func WithFoldEncoding(vf *FoldEncoding) Option {
	return func(f *Unstructured) {
		if vf != nil {
			f.fold = vf
		}
	}
}

// WithUnsafe names printable ASCII characters that must be escaped wherever
// they appear in the value.
func WithUnsafe(chars string) Option {
	return func(f *Unstructured) {
		f.classifier.Unsafe = chars
	}
}

// WithScope sets how much of the value is escaped around a word that needs it.
// The default is PerLine, which escapes each folded line holding such a word.
func WithScope(scope Scope) Option {
	return func(f *Unstructured) {
		f.classifier.Scope = scope
	}
}

func newUnstructured(name string, value *string, opts []Option) *Unstructured {
	f := &Unstructured{
		name:    name,
		value:   value,
		charset: DefaultCharset,
		fold:    DefaultFoldEncoding,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New constructs an Unstructured field with the given name and value.
func New(name, value string, opts ...Option) *Unstructured {
	return newUnstructured(name, &value, opts)
}

// NewAbsent constructs an Unstructured field with the given name and no value.
func NewAbsent(name string, opts ...Option) *Unstructured {
	return newUnstructured(name, nil, opts)
}

// Name returns the name of the header field.
func (f *Unstructured) Name() string {
	return f.name
}

// Value returns the value as stored. The second value is false when the field
// has no value.
func (f *Unstructured) Value() (string, bool) {
	if f.value == nil {
		return "", false
	}
	return *f.value, true
}

// SetValue replaces the value of the field.
func (f *Unstructured) SetValue(v string) {
	f.value = &v
	f.folded = false
}

// Unset removes the value of the field.
func (f *Unstructured) Unset() {
	f.value = nil
	f.folded = false
}

// Charset returns the charset used when encoding the field.
func (f *Unstructured) Charset() string {
	return f.charset
}

// Decoded returns the value with every encoded-word already present in it
// resolved to plain text. The second value is false when the field has no
// value.
func (f *Unstructured) Decoded() (string, bool) {
	if f.value == nil {
		return "", false
	}

	if f.folded {
		return DecodeFolded(*f.value), true
	}
	return DecodeWords(*f.value), true
}

// Encoded returns the complete field, name included, ready to be written into
// a message header. Non-ASCII and unsafe text is escaped as encoded-words and
// long lines are folded. The result ends with CRLF. When the field has no
// value, the empty string is returned.
//
// If the value cannot be represented in the configured charset, it is encoded
// as UTF-8 instead.
func (f *Unstructured) Encoded() string {
	v, ok := f.Decoded()
	if !ok {
		return ""
	}

	cl := f.classifier
	cl.MaxPlainLength = f.fold.MaxPlainLength()
	words := cl.Classify(v)

	fold := f.fold.FoldWords
	if cl.Scope == PerLine {
		fold = f.fold.FoldLines
	}

	out, err := fold(f.name, words, &WordEncoder{f.charset})
	if err != nil {
		// DefaultWordEncoder never fails
		out, _ = fold(f.name, words, DefaultWordEncoder)
	}
	return out
}

// String returns the encoded field.
func (f *Unstructured) String() string {
	return f.Encoded()
}

// Bytes returns the encoded field as a slice of bytes.
func (f *Unstructured) Bytes() []byte {
	return []byte(f.Encoded())
}
