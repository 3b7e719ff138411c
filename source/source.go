// Package source is the out-of-scope physical-line Reader's home: it opens
// a file from disk, strips a UTF-8 byte-order mark if present, and falls
// back to decoding as Latin-1 if the bytes are not valid UTF-8 (a Fortran
// source file with no declared encoding is overwhelmingly either plain
// ASCII, already-valid UTF-8, or an older Latin-1-encoded file; there is no
// in-band encoding declaration to consult). Once decoded, the resulting
// string is handed to reader.New, which never touches bytes or encodings
// itself.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the file at path and returns its contents decoded to a UTF-8
// Go string, ready to pass to reader.New.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("source: %w", err)
	}
	return Decode(data)
}

// Decode applies the same BOM-stripping and encoding-fallback rules as
// Load, for callers that already have the raw bytes in memory (e.g. an
// in-memory file system, or a test fixture).
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("source: could not decode as UTF-8 or Latin-1: %w", err)
	}
	return string(decoded), nil
}

// Reader returns an io.Reader over a file at path whose bytes are already
// decoded to UTF-8, for callers that want to stream rather than materialize
// the whole string (e.g. a future streaming Reader front-end); the current
// reader.Reader always wants the full text, so Load is the common path.
func Reader(path string) (io.Reader, error) {
	text, err := Load(path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader([]byte(text)), nil
}
