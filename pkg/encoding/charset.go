// Package encoding converts asset text from legacy charsets to UTF-8.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for a charset name that cannot be resolved.
var ErrUnknownCharset = errors.New("unknown charset")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StripBOM removes a leading UTF-8 byte order mark.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// IsUTF8 reports whether charset names UTF-8 (or is empty).
func IsUTF8(charset string) bool {
	switch normalizeCharset(charset) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// Lookup resolves a charset name to an encoding.
// Korean exports are common enough that EUC-KR and CP949 are mapped directly;
// anything else goes through the WHATWG label index.
func Lookup(charset string) (encoding.Encoding, error) {
	name := normalizeCharset(charset)
	switch name {
	case "", "utf-8", "utf8":
		return encoding.Nop, nil
	case "euc-kr", "euckr", "cp949", "uhc":
		return korean.EUCKR, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, charset)
	}
	return enc, nil
}

// DecodeText converts data in the given charset to a UTF-8 string.
func DecodeText(data []byte, charset string) (string, error) {
	if IsUTF8(charset) {
		return string(data), nil
	}

	enc, err := Lookup(charset)
	if err != nil {
		return "", err
	}

	result, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", charset, err)
	}
	return string(result), nil
}

// EncodeText converts a UTF-8 string to the given charset.
func EncodeText(s string, charset string) ([]byte, error) {
	if IsUTF8(charset) {
		return []byte(s), nil
	}

	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}

	result, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", charset, err)
	}
	return result, nil
}

func normalizeCharset(charset string) string {
	return strings.ToLower(strings.TrimSpace(charset))
}
