package field_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-email-text/header/field"
)

func TestSplitWords(t *testing.T) {
	t.Parallel()

	assert.Empty(t, field.SplitWords(""))

	assert.Equal(t, []field.Word{
		{Text: "Hello", Space: " "},
		{Text: "Frank"},
	}, field.SplitWords("Hello Frank"))

	assert.Equal(t, []field.Word{
		{Text: "", Space: "  "},
		{Text: "a", Space: "\t "},
		{Text: "b\r\nc", Space: " "},
	}, field.SplitWords("  a\t b\r\nc "))

	in := " x  yy\tzzz \t"
	var b strings.Builder
	for _, w := range field.SplitWords(in) {
		b.WriteString(w.Text)
		b.WriteString(w.Space)
	}
	assert.Equal(t, in, b.String())
}

func TestClassifier_NeedsEscape(t *testing.T) {
	t.Parallel()

	c := field.DefaultClassifier
	assert.False(t, c.NeedsEscape("hello"))
	assert.False(t, c.NeedsEscape(`()<>@,;:\"/[]?.=_`))
	assert.True(t, c.NeedsEscape("æøå"))
	assert.True(t, c.NeedsEscape("\nasdf"))
	assert.True(t, c.NeedsEscape("del\x7f"))
	assert.True(t, c.NeedsEscape("a=?b"))
	assert.False(t, c.NeedsEscape(strings.Repeat("x", field.DefaultMaxPlainLength)))
	assert.True(t, c.NeedsEscape(strings.Repeat("x", field.DefaultMaxPlainLength+1)))

	c = &field.Classifier{Unsafe: ";", MaxPlainLength: 10}
	assert.True(t, c.NeedsEscape("a;b"))
	assert.True(t, c.NeedsEscape("abcdefghijk"))
	assert.False(t, c.NeedsEscape("abcdefghij"))
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	c := field.DefaultClassifier
	assert.Empty(t, c.Classify(""))

	assert.Equal(t, []field.Word{
		{Text: "Hello", Space: " "},
		{Text: "Frank"},
	}, c.Classify("Hello Frank"))

	// each word is labeled on its own, leaving the lines to the folder
	assert.Equal(t, []field.Word{
		{Text: "", Space: " "},
		{Text: "testing", Space: " "},
		{Text: "testing", Space: " "},
		{Text: "æøå", Space: " ", Class: field.Escape},
	}, c.Classify(" testing testing æøå "))

	assert.Equal(t, []field.Word{
		{Text: "a", Space: " "},
		{Text: "\x01", Space: "  ", Class: field.Escape},
		{Text: "\x02", Space: " ", Class: field.Escape},
		{Text: "b", Space: " "},
		{Text: "\x03", Class: field.Escape},
	}, c.Classify("a \x01  \x02 b \x03"))
}

func TestClassifier_ClassifyWholeValue(t *testing.T) {
	t.Parallel()

	c := &field.Classifier{Scope: field.WholeValue}

	// any 8-bit text escapes the whole value
	assert.Equal(t, []field.Word{
		{Text: " testing testing æøå ", Class: field.Escape},
	}, c.Classify(" testing testing æøå "))

	// adjacent escapes are merged, with the whitespace between them
	assert.Equal(t, []field.Word{
		{Text: "a", Space: " "},
		{Text: "\x01  \x02", Space: " ", Class: field.Escape},
		{Text: "b", Space: " "},
		{Text: "\x03", Class: field.Escape},
	}, c.Classify("a \x01  \x02 b \x03"))
}

func TestClassifier_ClassifyPerWord(t *testing.T) {
	t.Parallel()

	c := &field.Classifier{Scope: field.PerWord}
	assert.Equal(t, []field.Word{
		{Text: "testing", Space: " "},
		{Text: "testing", Space: " "},
		{Text: "æøå ø", Space: " ", Class: field.Escape},
		{Text: "end"},
	}, c.Classify("testing testing æøå ø end"))
}

func TestParseScope(t *testing.T) {
	t.Parallel()

	for _, s := range []field.Scope{field.PerLine, field.WholeValue, field.PerWord} {
		got, err := field.ParseScope(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := field.ParseScope("")
	assert.NoError(t, err)
	assert.Equal(t, field.PerLine, got)

	got, err = field.ParseScope("WORD")
	assert.NoError(t, err)
	assert.Equal(t, field.PerWord, got)

	_, err = field.ParseScope("paragraph")
	assert.ErrorIs(t, err, field.ErrUnknownScope)

	assert.Equal(t, "unknown", field.Scope(42).String())
}

func TestClass_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", field.Plain.String())
	assert.Equal(t, "escape", field.Escape.String())
	assert.Equal(t, "unknown", field.Class(42).String())
}
