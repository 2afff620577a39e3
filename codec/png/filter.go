package png

import (
	"fmt"
	"math"

	"github.com/cam-per/pngcore/codec/inflate"
)

// Scanline filter types.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

// DecodePixels inflates data and reverses the scanline filters for an image
// of the header's size. Empty data yields an empty buffer.
func (decoder *Decoder) DecodePixels(data []byte) ([]byte, error) {
	return decoder.decodePixels(data, decoder.Width(), decoder.Height())
}

func (decoder *Decoder) decodePixels(data []byte, width, height int) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if err := decoder.checkDecodable(width, height); err != nil {
		return nil, err
	}

	// Samples below 8 bits still filter against the previous byte.
	bytesPerPixel := max(1, decoder.pixelBitLength/8)
	scanlineLength := (decoder.pixelBitLength*width + 7) / 8
	need := (scanlineLength + 1) * height

	raw, err := inflate.Decode(data, need)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	if len(raw) < need {
		return nil, FormatError("not enough pixel data")
	}

	pixels := make([]byte, scanlineLength*height)
	upper := make([]byte, scanlineLength)
	pos := 0
	for row := 0; row < height; row++ {
		filter := raw[pos]
		pos++

		line := pixels[row*scanlineLength : (row+1)*scanlineLength]
		copy(line, raw[pos:pos+scanlineLength])
		pos += scanlineLength

		if !unfilter(filter, line, upper, bytesPerPixel) {
			return nil, &InvalidFilterTypeError{Row: row, Filter: filter}
		}
		upper = line
	}
	return pixels, nil
}

func (decoder *Decoder) checkDecodable(width, height int) error {
	h := decoder.header
	if h.CompressionMethod != 0 {
		return UnsupportedError("compression method")
	}
	if h.FilterMethod != 0 {
		return UnsupportedError("filter method")
	}
	if h.Interlaced() {
		return UnsupportedError("interlaced image")
	}
	if !validDepth(h.ColorType, h.BitDepth) {
		return UnsupportedError(fmt.Sprintf("bit depth %d, color type %d", h.BitDepth, h.ColorType))
	}
	return decoder.checkDimensions(width, height)
}

// maxImageBytes caps the RGBA buffer of a single image or frame at 4 GiB.
const maxImageBytes = 1 << 32

// checkDimensions rejects sizes whose RGBA buffer could not be allocated, and
// sizes over the WithMaxPixels limit.
func (decoder *Decoder) checkDimensions(width, height int) error {
	limit := int64(min(maxImageBytes, math.MaxInt)) / 4
	if width < 0 || height < 0 || (width > 0 && int64(height) > limit/int64(width)) {
		return UnsupportedError("dimension overflow")
	}
	if decoder.opts.maxPixels > 0 && int64(width)*int64(height) > decoder.opts.maxPixels {
		return UnsupportedError(fmt.Sprintf("%dx%d exceeds pixel limit", width, height))
	}
	return nil
}

func validDepth(ct ColorType, depth uint8) bool {
	switch ct {
	case Grayscale:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case Indexed:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	case RGB, GrayscaleAlpha, RGBA:
		return depth == 8 || depth == 16
	}
	return false
}

// unfilter reverses one scanline in place. upper is the reconstructed
// previous line, all zeros for the first row. It reports false for an
// unknown filter type.
func unfilter(filter byte, line, upper []byte, bpp int) bool {
	switch filter {
	case ftNone:
		// No-op.
	case ftSub:
		for i := bpp; i < len(line); i++ {
			line[i] += line[i-bpp]
		}
	case ftUp:
		for i, p := range upper {
			line[i] += p
		}
	case ftAverage:
		for i := 0; i < bpp && i < len(line); i++ {
			line[i] += upper[i] / 2
		}
		for i := bpp; i < len(line); i++ {
			line[i] += uint8((int(line[i-bpp]) + int(upper[i])) / 2)
		}
	case ftPaeth:
		for i := range line {
			var left, upperLeft int
			if i >= bpp {
				left = int(line[i-bpp])
				upperLeft = int(upper[i-bpp])
			}
			line[i] += uint8(paethPredictor(left, int(upper[i]), upperLeft))
		}
	default:
		return false
	}
	return true
}

// paethPredictor picks whichever neighbour is closest to a + b - c, preferring
// a, then b, then c on ties.
func paethPredictor(a, b, c int) int {
	p := a + b - c
	pa := abs(p - a)
	pb := abs(p - b)
	pc := abs(p - c)

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
