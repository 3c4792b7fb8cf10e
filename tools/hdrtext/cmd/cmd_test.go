package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-text/header/field"
	"github.com/zostay/go-email-text/tools/hdrtext/cmd"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	c := cmd.New()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetIn(strings.NewReader(stdin))
	c.SetArgs(args)

	err := c.Execute()
	return out.String(), errOut.String(), err
}

func TestEncode(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "", "encode", "Subject", "Hello Frank")
	require.NoError(t, err)
	assert.Equal(t, "Subject: Hello Frank\r\n", out)

	out, _, err = run(t, "", "encode", "--charset", "ISO-8859-1", "Subject", "café")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?ISO-8859-1?Q?caf=E9?=\r\n", out)

	out, _, err = run(t, "", "encode", "Subject", "testing æøå")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?UTF-8?Q?testing_=C3=A6=C3=B8=C3=A5?=\r\n", out)

	out, _, err = run(t, "", "encode", "--scope", "word", "Subject", "testing æøå")
	require.NoError(t, err)
	assert.Equal(t, "Subject: testing =?UTF-8?Q?=C3=A6=C3=B8=C3=A5?=\r\n", out)

	out, _, err = run(t, "", "encode", "--unsafe", ";", "Subject", "a;b c")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?UTF-8?Q?a;b_c?=\r\n", out)

	out, _, err = run(t, "", "encode", "--unsafe", ";", "--scope", "word", "Subject", "a;b c")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?UTF-8?Q?a;b?= c\r\n", out)

	_, _, err = run(t, "", "encode", "--scope", "sentence", "Subject", "x")
	assert.ErrorIs(t, err, field.ErrUnknownScope)

	_, _, err = run(t, "", "encode", "--fold-length", "10", "Subject", "x")
	assert.ErrorIs(t, err, field.ErrFoldLengthTooShort)

	_, _, err = run(t, "", "encode", "Subject")
	assert.Error(t, err)
}

func TestEncode_Config(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hdrtext.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charset: ISO-8859-1\nlog_level: debug\n"), 0o600))

	out, errOut, err := run(t, "", "encode", "--config", path, "Subject", "café")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?ISO-8859-1?Q?caf=E9?=\r\n", out)
	assert.Contains(t, errOut, "classified value")

	// flags win over the file
	out, _, err = run(t, "", "encode", "--config", path, "--charset", "UTF-8", "Subject", "café")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?UTF-8?Q?caf=C3=A9?=\r\n", out)
}

func TestEncode_StoredEncodedWords(t *testing.T) {
	t.Parallel()

	// the value is classified after its encoded-words are resolved
	out, errOut, err := run(t, "", "encode", "--log-level", "debug", "Subject", "=?UTF-8?Q?a?= b")
	require.NoError(t, err)
	assert.Equal(t, "Subject: a b\r\n", out)
	assert.Contains(t, errOut, "classified value")
	assert.Contains(t, errOut, "words=2")
	assert.Contains(t, errOut, "escaped=0")
}

func TestDecode(t *testing.T) {
	t.Parallel()

	const hdr = "Subject: =?UTF-8?Q?caf=C3=A9?=\r\n" +
		"X-Long: one\r\n two\r\n" +
		"\r\n" +
		"Body: not a header\r\n"

	out, _, err := run(t, hdr, "decode")
	require.NoError(t, err)
	assert.Equal(t, "Subject: café\nX-Long: one two\n", out)

	path := filepath.Join(t.TempDir(), "header.txt")
	require.NoError(t, os.WriteFile(path, []byte(hdr), 0o600))

	out, _, err = run(t, "", "decode", path)
	require.NoError(t, err)
	assert.Equal(t, "Subject: café\nX-Long: one two\n", out)

	_, _, err = run(t, "", "decode", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDecode_BadStart(t *testing.T) {
	t.Parallel()

	out, errOut, err := run(t, "junk\nSubject: ok\n", "decode")
	require.NoError(t, err)
	assert.Equal(t, "Subject: ok\n", out)
	assert.Contains(t, errOut, "skipped text at start of header")
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	value := strings.Repeat("This is あ really long string ", 4)
	out, errOut, err := run(t, "", "roundtrip", "Subject", value)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Subject: =?UTF-8?Q?"))
	assert.Contains(t, errOut, "round trip ok")
	assert.NotContains(t, errOut, "exceeds fold length")

	out, _, err = run(t, "", "roundtrip", "--fold-length=-1", "Subject", value)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\r\n"))
}
