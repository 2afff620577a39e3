package utils

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
)

type CString []byte

func (c CString) NullTerminateBytes() []byte {
	i := bytes.IndexByte(c, 0)
	if i == -1 {
		return c
	} else if i == 0 {
		return nil
	} else {
		return c[:i]
	}
}

func (c CString) String() string { return string(c.NullTerminateBytes()) }

func (c CString) Decode(encoding *charmap.Charmap) string {
	buf, err := encoding.NewDecoder().Bytes(c.NullTerminateBytes())
	if err != nil {
		return c.String()
	}
	return string(buf)
}

// Latin1 decodes c up to its first NUL as ISO 8859-1, the encoding of PNG
// keywords.
func (c CString) Latin1() string { return c.Decode(charmap.ISO8859_1) }

// Latin1 decodes all of b as ISO 8859-1. NUL bytes are kept.
func Latin1(b []byte) string {
	buf, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(buf)
}

// SplitCString cuts b at its first NUL byte. ok is false when b holds no NUL.
func SplitCString(b []byte) (head CString, rest []byte, ok bool) {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return CString(b), nil, false
	}
	return CString(b[:i]), b[i+1:], true
}
