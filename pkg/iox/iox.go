package iox

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// BufferSize is the size of the buffers used for copying and reading.
const BufferSize = 8192

var (
	// ErrUnknownCharset is returned for charset names that x/text does not know.
	ErrUnknownCharset = errors.New("unknown charset")
	// ErrNilStream is returned by [Copy] for a nil reader or writer.
	ErrNilStream = errors.New("nil stream")
)

// Charset returns the [encoding.Encoding] registered under the given name,
// e.g. "utf-8", "latin1" or "shift_jis". An empty name selects UTF-8.
//
//nolint:ireturn // Following x/text's function signature.
func Charset(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}

	return enc, nil
}

// Copy copies src to dst through an 8 KiB buffer and flushes dst.
// It returns the number of bytes copied.
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	if src == nil || dst == nil {
		return 0, fmt.Errorf("copy: %w", ErrNilStream)
	}

	in := bufio.NewReaderSize(src, BufferSize)
	out := bufio.NewWriterSize(dst, BufferSize)

	n, err := io.CopyBuffer(out, in, make([]byte, BufferSize))
	if err != nil {
		return n, fmt.Errorf("copy: %w", err)
	}

	err = out.Flush()
	if err != nil {
		return n, fmt.Errorf("flush: %w", err)
	}

	return n, nil
}

// CopyFile copies the file at src to dst, creating or truncating dst.
func CopyFile(src, dst string) (n int64, err error) {
	in, err := os.Open(src) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer closeWith(in, &err)

	out, err := os.Create(dst) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}
	defer closeWith(out, &err)

	return Copy(out, in)
}

// ReadBytes reads r until EOF. A nil reader yields an empty slice.
func ReadBytes(r io.Reader) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}

	var buf bytes.Buffer

	_, err := io.CopyBuffer(&buf, r, make([]byte, BufferSize))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadFileBytes reads the whole file at path.
func ReadFileBytes(path string) (data []byte, err error) {
	f, err := os.Open(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer closeWith(f, &err)

	return ReadBytes(f)
}

// ReadString reads r as UTF-8 and trims surrounding whitespace.
// A nil or empty reader yields an empty string.
func ReadString(r io.Reader) (string, error) {
	return ReadStringCharset(r, "")
}

// ReadStringCharset is like [ReadString], decoding r with the named charset.
func ReadStringCharset(r io.Reader, charset string) (string, error) {
	if r == nil {
		return "", nil
	}

	dr, err := decode(r, charset)
	if err != nil {
		return "", err
	}

	b, err := ReadBytes(dr)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

// ReadLines reads r as UTF-8 and returns its lines without line terminators.
// A nil reader yields no lines.
func ReadLines(r io.Reader) ([]string, error) {
	return ReadLinesCharset(r, "")
}

// ReadLinesCharset is like [ReadLines], decoding r with the named charset.
func ReadLinesCharset(r io.Reader, charset string) ([]string, error) {
	if r == nil {
		return []string{}, nil
	}

	dr, err := decode(r, charset)
	if err != nil {
		return nil, err
	}

	lines := []string{}

	scanner := bufio.NewScanner(dr)
	scanner.Buffer(make([]byte, BufferSize), bufio.MaxScanTokenSize*16)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err = scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}

	return lines, nil
}

// ReadFileLines reads the lines of the file at path, decoded with the named
// charset.
func ReadFileLines(path, charset string) (lines []string, err error) {
	f, err := os.Open(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer closeWith(f, &err)

	return ReadLinesCharset(f, charset)
}

func decode(r io.Reader, charset string) (io.Reader, error) {
	enc, err := Charset(charset)
	if err != nil {
		return nil, err
	}

	return transform.NewReader(r, enc.NewDecoder()), nil
}

// closeWith closes c and stores its error in err, unless err already holds
// the primary failure.
func closeWith(c io.Closer, err *error) {
	cerr := c.Close()
	if cerr != nil && *err == nil {
		*err = fmt.Errorf("close: %w", cerr)
	}
}
