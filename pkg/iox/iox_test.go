package iox_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/rtool/pkg/iox"
)

var errBroken = errors.New("broken")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errBroken }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errBroken }

func TestCopy(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		src string
	}{
		"empty":          {src: ""},
		"small":          {src: "approve order 42\n"},
		"multi buffer":   {src: strings.Repeat("x", 3*iox.BufferSize+17)},
		"exactly buffer": {src: strings.Repeat("y", iox.BufferSize)},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var dst bytes.Buffer

			n, err := iox.Copy(&dst, strings.NewReader(tc.src))
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.src)), n)
			assert.Equal(t, tc.src, dst.String())
		})
	}
}

func TestCopy_Errors(t *testing.T) {
	t.Parallel()

	_, err := iox.Copy(&bytes.Buffer{}, failingReader{})
	require.ErrorIs(t, err, errBroken)

	_, err = iox.Copy(failingWriter{}, strings.NewReader("data"))
	require.ErrorIs(t, err, errBroken)

	_, err = iox.Copy(nil, strings.NewReader("data"))
	require.ErrorIs(t, err, iox.ErrNilStream)

	_, err = iox.Copy(&bytes.Buffer{}, nil)
	require.ErrorIs(t, err, iox.ErrNilStream)
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	content := strings.Repeat("decision\n", 2000)

	require.NoError(t, os.WriteFile(src, []byte(content), 0o600))
	require.NoError(t, os.WriteFile(dst, []byte("stale content that is longer"), 0o600))

	n, err := iox.CopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestCopyFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

	_, err := iox.CopyFile(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "open source")

	_, err = iox.CopyFile(src, filepath.Join(dir, "no", "such", "dir", "out.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create destination")
}

func TestReadBytes(t *testing.T) {
	t.Parallel()

	b, err := iox.ReadBytes(nil)
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.NotNil(t, b)

	big := strings.Repeat("z", 2*iox.BufferSize+1)
	b, err = iox.ReadBytes(strings.NewReader(big))
	require.NoError(t, err)
	assert.Equal(t, big, string(b))

	_, err = iox.ReadBytes(failingReader{})
	require.ErrorIs(t, err, errBroken)
}

func TestReadFileBytes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0, 1, 2}, 0o600))

	b, err := iox.ReadFileBytes(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, b)

	_, err = iox.ReadFileBytes(path + ".missing")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in      io.Reader
		charset string
		want    string
	}{
		"nil reader": {
			in:   nil,
			want: "",
		},
		"empty": {
			in:   strings.NewReader(""),
			want: "",
		},
		"trimmed": {
			in:   strings.NewReader("  \n order approved \t\n"),
			want: "order approved",
		},
		"windows-1252": {
			in:      bytes.NewReader([]byte{'c', 'a', 'f', 0xE9}),
			charset: "windows-1252",
			want:    "café",
		},
		"explicit utf-8": {
			in:      strings.NewReader("café"),
			charset: "utf-8",
			want:    "café",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := iox.ReadStringCharset(tc.in, tc.charset)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadString_UnknownCharset(t *testing.T) {
	t.Parallel()

	_, err := iox.ReadStringCharset(strings.NewReader("x"), "klingon")
	require.ErrorIs(t, err, iox.ErrUnknownCharset)

	_, err = iox.ReadLinesCharset(strings.NewReader("x"), "klingon")
	require.ErrorIs(t, err, iox.ErrUnknownCharset)
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	lines, err := iox.ReadLines(strings.NewReader("first\nsecond\r\n\nlast"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "", "last"}, lines)

	lines, err = iox.ReadLines(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = iox.ReadLines(failingReader{})
	require.ErrorIs(t, err, errBroken)
}

func TestReadFileLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte{'r', 0xE8, 'g', 'l', 'e', '\n', 'o', 'k', '\n'}, 0o600))

	lines, err := iox.ReadFileLines(path, "iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"règle", "ok"}, lines)

	_, err = iox.ReadFileLines(path+".missing", "")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCharset(t *testing.T) {
	t.Parallel()

	enc, err := iox.Charset("")
	require.NoError(t, err)
	assert.NotNil(t, enc)

	enc, err = iox.Charset("Shift_JIS")
	require.NoError(t, err)
	assert.NotNil(t, enc)

	_, err = iox.Charset("not-a-charset")
	require.ErrorIs(t, err, iox.ErrUnknownCharset)
}
