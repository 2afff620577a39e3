package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

const (
	chunkIHDR = "IHDR"
	chunkPLTE = "PLTE"
	chunkIDAT = "IDAT"
	chunkIEND = "IEND"
	chunkTRNS = "tRNS"
	chunkTEXT = "tEXt"
	chunkZTXT = "zTXt"
	chunkITXT = "iTXt"
	chunkACTL = "acTL"
	chunkFCTL = "fcTL"
	chunkFDAT = "fdAT"
)

// cursor walks the input and never reads past its end.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) next(n int) ([]byte, error) {
	if n < 0 || n > len(c.data)-c.pos {
		return nil, &TruncatedStreamError{Offset: c.pos, Need: n, Len: len(c.data)}
	}
	c.pos += n
	return c.data[c.pos-n : c.pos], nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

type chunk struct {
	ChunkInfo
	payload []byte
	crc     []byte
}

func (c *chunk) checksum() uint32 {
	h := crc32.NewIEEE()
	h.Write([]byte(c.Type))
	h.Write(c.payload)
	return h.Sum32()
}

func isCritical(typ string) bool {
	return typ[0] >= 'A' && typ[0] <= 'Z'
}

// readStruct decodes a fixed-size big-endian chunk payload into v.
func readStruct(typ string, payload []byte, size int, v any) error {
	if len(payload) < size {
		return FormatError("short " + typ + " chunk")
	}
	return binary.Read(bytes.NewReader(payload), binary.BigEndian, v)
}
