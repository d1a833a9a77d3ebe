// Package source reads game files into memory as UTF-8. Most files shipped
// with the games are Windows-1252; newer ones are UTF-8 with or without a
// byte order mark.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Encoding names the encoding Decode detected.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1252 Encoding = "windows-1252"
)

// ReadFile reads and decodes the file at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return out, nil
}

// Read reads r to the end and decodes it.
func Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	out, _, err := Decode(data)
	return out, err
}

// Decode strips a UTF-8 byte order mark and converts input that is not
// valid UTF-8 from Windows-1252.
func Decode(data []byte) ([]byte, Encoding, error) {
	if bytes.HasPrefix(data, bom) {
		return data[len(bom):], UTF8, nil
	}
	if utf8.Valid(data) {
		return data, UTF8, nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", err
	}
	return out, Windows1252, nil
}
