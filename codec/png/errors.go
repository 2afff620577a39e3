package png

import (
	"errors"
	"fmt"
)

// TruncatedStreamError reports a chunk that runs past the end of the input.
type TruncatedStreamError struct {
	Offset int
	Need   int
	Len    int
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("png: truncated stream: need %d bytes at offset %d, have %d", e.Need, e.Offset, e.Len-e.Offset)
}

// DecompressionError wraps a failure of the zlib stream.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string { return "png: decompression failed: " + e.Err.Error() }
func (e *DecompressionError) Unwrap() error { return e.Err }

type InvalidFilterTypeError struct {
	Row    int
	Filter byte
}

func (e *InvalidFilterTypeError) Error() string {
	return fmt.Sprintf("png: invalid filter type %d in row %d", e.Filter, e.Row)
}

type ChecksumError struct {
	Chunk  string
	Offset int
	Want   uint32
	Got    uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("png: %s chunk at offset %d: crc %08x, computed %08x", e.Chunk, e.Offset, e.Want, e.Got)
}

// A FormatError reports that the input is not a valid PNG.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

// An UnsupportedError reports a valid but unimplemented PNG feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "png: unsupported feature: " + string(e) }

var (
	ErrNotPNG          = FormatError("not a PNG file")
	ErrFrameNotDecoded = errors.New("png: frame not decoded")
)
