package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/zostay/go-email-text/header/encoding"
	"github.com/zostay/go-email-text/header/field"
)

// Εν αρχη ητο ο Λογος, και ο Λογος ητο παρα τω Θεω, και Θεος ητο ο Λογος.

var greekText = []byte{
	0xc5, 0xed, 0x20, 0xe1, 0xf1, 0xf7, 0xe7, 0x20, 0xe7, 0xf4, 0xef, 0x20,
	0xef, 0x20, 0xcb, 0xef, 0xe3, 0xef, 0xf2, 0x2c, 0x20, 0xea, 0xe1, 0xe9,
	0x20, 0xef, 0x20, 0xcb, 0xef, 0xe3, 0xef, 0xf2, 0x20, 0xe7, 0xf4, 0xef,
	0x20, 0xf0, 0xe1, 0xf1, 0xe1, 0x20, 0xf4, 0xf9, 0x20, 0xc8, 0xe5, 0xf9,
	0x2c, 0x20, 0xea, 0xe1, 0xe9, 0x20, 0xc8, 0xe5, 0xef, 0xf2, 0x20, 0xe7,
	0xf4, 0xef, 0x20, 0xef, 0x20, 0xcb, 0xef, 0xe3, 0xef, 0xf2, 0x2e,
}

const unicodeText = "Εν αρχη ητο ο Λογος, και ο Λογος ητο παρα τω Θεω, και Θεος ητο ο Λογος."

const asciiText = "In the beginning was the Word. 🖊"

func TestDefaultCharsetDecoder(t *testing.T) {
	t.Parallel()

	_, err := field.DefaultCharsetDecoder("greek", greekText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported byte encoding")

	dec, err := field.DefaultCharsetDecoder("UTF-8", []byte(unicodeText))
	assert.NoError(t, err)
	assert.Equal(t, unicodeText, dec)

	dec, err = field.DefaultCharsetDecoder("us-ascii", []byte(asciiText))
	assert.NoError(t, err)
	assert.Equal(t, "In the beginning was the Word. ����", dec)

	dec, err = field.DefaultCharsetDecoder("latin1", []byte{'c', 'a', 'f', 0xe9})
	assert.NoError(t, err)
	assert.Equal(t, "café", dec)
}

func TestDefaultCharsetEncoder(t *testing.T) {
	t.Parallel()

	_, err := field.DefaultCharsetEncoder("greek", unicodeText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported byte encoding")

	enc, err := field.DefaultCharsetEncoder("utf-8", unicodeText)
	assert.NoError(t, err)
	assert.Equal(t, []byte(unicodeText), enc)

	_, err = field.DefaultCharsetEncoder("us-ascii", asciiText)
	assert.Error(t, err)

	enc, err = field.DefaultCharsetEncoder("ISO-8859-1", "café")
	assert.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9}, enc)

	_, err = field.DefaultCharsetEncoder("ISO-8859-1", "☺")
	assert.Error(t, err)
}

func TestCharsetDecoder(t *testing.T) {
	t.Parallel()

	dec, err := field.CharsetDecoder("greek", greekText)
	assert.NoError(t, err)
	assert.Equal(t, unicodeText, dec)
}

func TestCharsetEncoder(t *testing.T) {
	t.Parallel()

	enc, err := field.CharsetEncoder("greek", unicodeText)
	assert.NoError(t, err)
	assert.Equal(t, greekText, enc)
}

func TestUnstructured_GreekCharset(t *testing.T) {
	t.Parallel()

	f := field.New("Subject", "Λογος", field.WithCharset("ISO-8859-7"))
	assert.Equal(t, "Subject: =?ISO-8859-7?Q?=CB=EF=E3=EF=F2?=\r\n", f.Encoded())

	p, err := field.Parse(f.Bytes())
	require.NoError(t, err)
	dec, ok := p.Decoded()
	assert.True(t, ok)
	assert.Equal(t, "Λογος", dec)
}
