// Package png parses PNG and APNG streams and turns their image data into
// non-premultiplied RGBA buffers.
package png

import (
	"encoding/binary"
	"image"
	"time"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

type ColorType uint8

const (
	Grayscale      ColorType = 0
	RGB            ColorType = 2
	Indexed        ColorType = 3
	GrayscaleAlpha ColorType = 4
	RGBA           ColorType = 6
)

func (ct ColorType) String() string {
	switch ct {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case RGBA:
		return "rgba"
	}
	return "unknown"
}

// Header mirrors the IHDR payload field for field.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

func (h Header) Interlaced() bool { return h.InterlaceMethod != 0 }

type TransparencyKind uint8

const (
	TransparencyNone TransparencyKind = iota
	TransparencyIndexed
	TransparencyGray
	TransparencyRGB
)

func (k TransparencyKind) String() string {
	switch k {
	case TransparencyNone:
		return "none"
	case TransparencyIndexed:
		return "indexed"
	case TransparencyGray:
		return "gray"
	case TransparencyRGB:
		return "rgb"
	}
	return "unknown"
}

// Transparency holds the tRNS chunk. Only the fields of Kind are set.
type Transparency struct {
	Kind  TransparencyKind
	Alpha []byte
	Gray  uint16
	RGB   [3]uint16
}

type DisposeOp uint8

const (
	DisposeNone DisposeOp = iota
	DisposeBackground
	DisposePrevious
)

func (op DisposeOp) String() string {
	switch op {
	case DisposeNone:
		return "none"
	case DisposeBackground:
		return "background"
	case DisposePrevious:
		return "previous"
	}
	return "unknown"
}

type BlendOp uint8

const (
	BlendSource BlendOp = iota
	BlendOver
)

func (op BlendOp) String() string {
	if op == BlendOver {
		return "over"
	}
	return "source"
}

type Animation struct {
	NumFrames uint32
	// NumPlays of 0 loops forever.
	NumPlays uint32
	Frames   []*Frame
}

func (a *Animation) Infinite() bool { return a.NumPlays == 0 }

func (a *Animation) Duration() time.Duration {
	var total time.Duration
	for _, frame := range a.Frames {
		total += frame.Delay
	}
	return total
}

// Frame is one fcTL region. Until it is decoded it owns the compressed bytes
// of its IDAT/fdAT chunks; afterwards Pix holds Width*Height*4 RGBA bytes and
// the compressed bytes are dropped.
type Frame struct {
	Width, Height    uint32
	XOffset, YOffset uint32
	DelayNum         uint16
	DelayDen         uint16
	Delay            time.Duration
	DisposeOp        DisposeOp
	BlendOp          BlendOp

	// DefaultImage is set when the frame's data came from IDAT chunks, making
	// it the static image as well.
	DefaultImage bool

	Pix  []byte
	data []byte
}

func (frame *Frame) Decoded() bool { return frame.Pix != nil }

// CompressedSize is the number of compressed bytes still held by the frame.
func (frame *Frame) CompressedSize() int { return len(frame.data) }

// Bounds places the frame on the animation canvas.
func (frame *Frame) Bounds() image.Rectangle {
	x, y := int(frame.XOffset), int(frame.YOffset)
	return image.Rect(x, y, x+int(frame.Width), y+int(frame.Height))
}

// Image wraps Pix without copying. It returns nil before the frame is decoded.
func (frame *Frame) Image() *image.NRGBA {
	if frame.Pix == nil {
		return nil
	}
	return &image.NRGBA{
		Pix:    frame.Pix,
		Stride: int(frame.Width) * 4,
		Rect:   image.Rect(0, 0, int(frame.Width), int(frame.Height)),
	}
}

type ChunkInfo struct {
	Type     string
	Offset   int
	Length   uint32
	CRC      uint32
	Critical bool
}

// Surface receives decoded RGBA pixels, e.g. a texture or a canvas.
type Surface interface {
	Upload(width, height int, pix []byte) error
}

type animationControl struct {
	NumFrames uint32
	NumPlays  uint32
}

type frameControl struct {
	Sequence         uint32
	Width, Height    uint32
	XOffset, YOffset uint32
	DelayNum         uint16
	DelayDen         uint16
	DisposeOp        DisposeOp
	BlendOp          BlendOp
}

var (
	headerSize           = binary.Size(Header{})
	animationControlSize = binary.Size(animationControl{})
	frameControlSize     = binary.Size(frameControl{})
)

// DelayMilliseconds is 1000 * DelayNum / DelayDen.
func (frame *Frame) DelayMilliseconds() float64 {
	return 1000 * float64(frame.DelayNum) / float64(frame.DelayDen)
}
