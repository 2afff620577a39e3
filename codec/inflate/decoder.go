package inflate

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"
)

var (
	ErrSizeLimit = errors.New("inflate: output exceeds size limit")
)

// Decoder streams the inflated form of a zlib stream. When limit is positive,
// producing more than limit bytes fails with ErrSizeLimit.
type Decoder struct {
	zr        io.ReadCloser
	remaining int64
	limited   bool
}

func NewDecoder(r io.Reader, limit int64) (*Decoder, error) {
	zr, err := zlib.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return &Decoder{
		zr:        zr,
		remaining: limit,
		limited:   limit > 0,
	}, nil
}

func (decoder *Decoder) Read(p []byte) (n int, err error) {
	if decoder.limited && int64(len(p)) > decoder.remaining+1 {
		p = p[:decoder.remaining+1]
	}
	n, err = decoder.zr.Read(p)
	if decoder.limited {
		decoder.remaining -= int64(n)
		if decoder.remaining < 0 {
			return n, ErrSizeLimit
		}
	}
	return n, err
}

func (decoder *Decoder) Close() error { return decoder.zr.Close() }

// maxExpansion bounds how far sizeHint is trusted: a hint beyond this many
// bytes per input byte only grows the buffer as data actually arrives.
const maxExpansion = 64

// Decode inflates data in one call. sizeHint pre-sizes the output buffer and
// is not a limit.
func Decode(data []byte, sizeHint int) ([]byte, error) {
	decoder, err := NewDecoder(bytes.NewReader(data), 0)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	var out bytes.Buffer
	if hint := min(int64(sizeHint), maxExpansion*int64(len(data))); hint > 0 {
		out.Grow(int(hint))
	}
	if _, err := out.ReadFrom(decoder); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeLimit is Decode with a hard cap on the inflated size.
func DecodeLimit(data []byte, limit int64) ([]byte, error) {
	decoder, err := NewDecoder(bytes.NewReader(data), limit)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return io.ReadAll(decoder)
}
