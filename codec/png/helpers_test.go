package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

func chunkBytes(typ string, payload []byte) []byte {
	b := make([]byte, 8, 12+len(payload))
	binary.BigEndian.PutUint32(b[:4], uint32(len(payload)))
	copy(b[4:8], typ)
	b = append(b, payload...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(payload)
	return binary.BigEndian.AppendUint32(b, crc.Sum32())
}

func pngStream(chunks ...[]byte) []byte {
	s := []byte(pngHeader)
	for _, c := range chunks {
		s = append(s, c...)
	}
	return s
}

func ihdrChunk(w, h uint32, depth uint8, ct ColorType) []byte {
	p := make([]byte, 13)
	binary.BigEndian.PutUint32(p[0:4], w)
	binary.BigEndian.PutUint32(p[4:8], h)
	p[8] = depth
	p[9] = byte(ct)
	return chunkBytes(chunkIHDR, p)
}

func iendChunk() []byte { return chunkBytes(chunkIEND, nil) }

func deflate(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func idatChunk(t *testing.T, raw []byte) []byte {
	return chunkBytes(chunkIDAT, deflate(t, raw))
}

func actlChunk(frames, plays uint32) []byte {
	p := make([]byte, 8)
	binary.BigEndian.PutUint32(p[0:4], frames)
	binary.BigEndian.PutUint32(p[4:8], plays)
	return chunkBytes(chunkACTL, p)
}

func fctlChunk(seq, w, h, x, y uint32, num, den uint16, dispose DisposeOp, blend BlendOp) []byte {
	p := make([]byte, 26)
	binary.BigEndian.PutUint32(p[0:4], seq)
	binary.BigEndian.PutUint32(p[4:8], w)
	binary.BigEndian.PutUint32(p[8:12], h)
	binary.BigEndian.PutUint32(p[12:16], x)
	binary.BigEndian.PutUint32(p[16:20], y)
	binary.BigEndian.PutUint16(p[20:22], num)
	binary.BigEndian.PutUint16(p[22:24], den)
	p[24] = byte(dispose)
	p[25] = byte(blend)
	return chunkBytes(chunkFCTL, p)
}

func fdatChunk(seq uint32, data []byte) []byte {
	p := binary.BigEndian.AppendUint32(nil, seq)
	return chunkBytes(chunkFDAT, append(p, data...))
}

// rows prefixes every row with filter type 0.
func rows(lines ...[]byte) []byte {
	var raw []byte
	for _, line := range lines {
		raw = append(raw, ftNone)
		raw = append(raw, line...)
	}
	return raw
}
