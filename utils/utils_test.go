package utils

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCString(t *testing.T) {
	assert.Equal(t, "abc", CString("abc\x00def").String())
	assert.Equal(t, "abc", CString("abc").String())
	assert.Equal(t, "", CString("\x00abc").String())
	assert.Equal(t, "Café", CString("Caf\xe9\x00").Latin1())
	assert.Equal(t, "ÿ", CString("\xff").Latin1())
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, "a\x00Café", Latin1([]byte("a\x00Caf\xe9")))
	assert.Equal(t, "", Latin1(nil))
}

func TestSplitCString(t *testing.T) {
	head, rest, ok := SplitCString([]byte("Title\x00Hello\x00World"))
	assert.True(t, ok)
	assert.Equal(t, "Title", head.String())
	assert.Equal(t, []byte("Hello\x00World"), rest)

	head, rest, ok = SplitCString([]byte("Title\x00"))
	assert.True(t, ok)
	assert.Equal(t, "Title", head.String())
	assert.Empty(t, rest)

	head, rest, ok = SplitCString([]byte("no terminator"))
	assert.False(t, ok)
	assert.Equal(t, "no terminator", head.String())
	assert.Nil(t, rest)
}

func TestReadBigEndian(t *testing.T) {
	r := bytes.NewReader([]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xff})

	b, err := ReadByte(r)
	require.NoError(t, err)
	assert.Equal(t, byte(0x12), b)

	u16, err := ReadUint16BE(r)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3456), u16)

	u32, err := ReadUint32BE(r)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x789abcde), u32)

	_, err = ReadUint16BE(r)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadByte(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestHexDump(t *testing.T) {
	var sb strings.Builder
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("IHDR-chunk-data!xyz")...)
	require.NoError(t, HexDump(&sb, data, 0x10))

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "00000010  89 50 4e 47 0d 0a 1a 0a 49 48 44 52 2d 63 68 75  |.PNG....IHDR-chu|", lines[0])
	assert.Equal(t, "00000020  6e 6b 2d 64 61 74 61 21 78 79 7a "+strings.Repeat("   ", 5)+" |nk-data!xyz|", lines[1])

	sb.Reset()
	require.NoError(t, HexDump(&sb, nil, 0))
	assert.Empty(t, sb.String())
}
