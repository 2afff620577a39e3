package png

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"image/color"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/cam-per/pngcore/codec/pal"
	"github.com/cam-per/pngcore/utils"
)

type parseState uint8

const (
	stateParsing parseState = iota
	stateDone
	stateFailed
)

// Decoder holds everything one forward pass over a PNG stream collects. Pixel
// data stays compressed until Decode, DecodeFrame or DecodeFrames is called.
// A Decoder must not be used from several goroutines at once.
type Decoder struct {
	opts  options
	cur   cursor
	state parseState

	header       Header
	seenHeader   bool
	palette      []byte
	transparency Transparency
	text         map[string]string
	animation    *Animation
	frame        *Frame
	imgData      []byte
	chunks       []ChunkInfo

	colors         int
	hasAlpha       bool
	pixelBitLength int

	table []byte
}

// NewDecoder reads r to the end and parses it.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

// Parse walks the chunks of data, which must start with the PNG signature.
// Parsing stops at IEND; a stream that ends before it fails with
// *TruncatedStreamError.
func Parse(data []byte, opts ...Option) (*Decoder, error) {
	if len(data) < len(pngHeader) || string(data[:len(pngHeader)]) != pngHeader {
		return nil, ErrNotPNG
	}
	decoder := &Decoder{
		opts: defaultOptions(),
		cur:  cursor{data: data, pos: len(pngHeader)},
		text: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&decoder.opts)
	}
	if err := decoder.decode(); err != nil {
		return nil, err
	}
	return decoder, nil
}

func (decoder *Decoder) decode() error {
	decoder.state = stateParsing
	for decoder.state == stateParsing {
		c, err := decoder.nextChunk()
		if err == nil {
			err = decoder.handleChunk(c)
		}
		if err != nil {
			decoder.state = stateFailed
			Logger().Debug().Err(err).Int("offset", decoder.cur.pos).Msg("png: parse failed")
			return err
		}
	}
	return nil
}

func (decoder *Decoder) nextChunk() (*chunk, error) {
	offset := decoder.cur.pos
	length, err := decoder.cur.uint32()
	if err != nil {
		return nil, err
	}
	typ, err := decoder.cur.next(4)
	if err != nil {
		return nil, err
	}
	payload, err := decoder.cur.next(int(length))
	if err != nil {
		return nil, err
	}
	c := &chunk{
		ChunkInfo: ChunkInfo{
			Type:     string(typ),
			Offset:   offset,
			Length:   length,
			Critical: isCritical(string(typ)),
		},
		payload: payload,
	}

	c.crc, err = decoder.cur.next(4)
	if err != nil {
		// Parsing ends at IEND, so its CRC is only needed when checking CRCs.
		if c.Type != chunkIEND || decoder.opts.verifyCRC {
			return nil, err
		}
	} else {
		c.CRC = binary.BigEndian.Uint32(c.crc)
	}

	if decoder.opts.verifyCRC {
		if got := c.checksum(); got != c.CRC {
			return nil, &ChecksumError{Chunk: c.Type, Offset: offset, Want: c.CRC, Got: got}
		}
	}
	decoder.chunks = append(decoder.chunks, c.ChunkInfo)
	return c, nil
}

func (decoder *Decoder) handleChunk(c *chunk) error {
	Logger().Trace().Str("chunk", c.Type).Uint32("length", c.Length).Int("offset", c.Offset).Msg("png: chunk")

	switch c.Type {
	case chunkIHDR:
		return decoder.parseIHDR(c.payload)
	case chunkACTL:
		return decoder.parseACTL(c.payload)
	case chunkPLTE:
		decoder.palette = slices.Clone(c.payload)
	case chunkFCTL:
		return decoder.parseFCTL(c.payload)
	case chunkIDAT:
		// IDAT is the static image; inside an fcTL it is also the first frame.
		decoder.imgData = append(decoder.imgData, c.payload...)
		if decoder.frame != nil {
			decoder.frame.data = append(decoder.frame.data, c.payload...)
			decoder.frame.DefaultImage = true
		}
	case chunkFDAT:
		return decoder.parseFDAT(c.payload)
	case chunkTRNS:
		return decoder.parseTRNS(c.payload)
	case chunkTEXT:
		decoder.parseTEXT(c.payload)
	case chunkZTXT:
		decoder.parseZTXT(c.payload)
	case chunkITXT:
		decoder.parseITXT(c.payload)
	case chunkIEND:
		decoder.finish()
	default:
		Logger().Debug().Str("chunk", c.Type).Bool("critical", c.Critical).Msg("png: skipping chunk")
	}
	return nil
}

func (decoder *Decoder) parseIHDR(payload []byte) error {
	if decoder.seenHeader {
		Logger().Debug().Msg("png: ignoring repeated IHDR")
		return nil
	}
	if err := readStruct(chunkIHDR, payload, headerSize, &decoder.header); err != nil {
		return err
	}
	decoder.seenHeader = true
	return nil
}

func (decoder *Decoder) parseACTL(payload []byte) error {
	var ac animationControl
	if err := readStruct(chunkACTL, payload, animationControlSize, &ac); err != nil {
		return err
	}
	decoder.animation = &Animation{
		NumFrames: ac.NumFrames,
		NumPlays:  ac.NumPlays,
	}
	return nil
}

func (decoder *Decoder) parseFCTL(payload []byte) error {
	if decoder.animation == nil {
		Logger().Debug().Msg("png: fcTL without acTL, ignoring")
		return nil
	}
	decoder.sealFrame()

	var fc frameControl
	if err := readStruct(chunkFCTL, payload, frameControlSize, &fc); err != nil {
		return err
	}
	if fc.DelayDen == 0 {
		fc.DelayDen = 100
	}
	decoder.frame = &Frame{
		Width:     fc.Width,
		Height:    fc.Height,
		XOffset:   fc.XOffset,
		YOffset:   fc.YOffset,
		DelayNum:  fc.DelayNum,
		DelayDen:  fc.DelayDen,
		Delay:     time.Duration(fc.DelayNum) * time.Second / time.Duration(fc.DelayDen),
		DisposeOp: fc.DisposeOp,
		BlendOp:   fc.BlendOp,
	}
	return nil
}

func (decoder *Decoder) parseFDAT(payload []byte) error {
	if decoder.animation == nil {
		Logger().Debug().Msg("png: fdAT without acTL, ignoring")
		return nil
	}
	r := bytes.NewReader(payload)
	if _, err := utils.ReadUint32BE(r); err != nil {
		return FormatError("short fdAT chunk")
	}
	data := payload[4:]
	if decoder.frame != nil {
		decoder.frame.data = append(decoder.frame.data, data...)
	} else {
		decoder.imgData = append(decoder.imgData, data...)
	}
	return nil
}

func (decoder *Decoder) parseTRNS(payload []byte) error {
	r := bytes.NewReader(payload)
	switch decoder.header.ColorType {
	case Indexed:
		alpha := slices.Clone(payload)
		for len(alpha) < 255 {
			alpha = append(alpha, 255)
		}
		decoder.transparency = Transparency{Kind: TransparencyIndexed, Alpha: alpha}
	case Grayscale:
		gray, err := utils.ReadUint16BE(r)
		if err != nil {
			Logger().Debug().Err(err).Msg("png: short grayscale tRNS, ignoring")
			return nil
		}
		decoder.transparency = Transparency{Kind: TransparencyGray, Gray: gray}
	case RGB:
		var rgb [3]uint16
		for i := range rgb {
			v, err := utils.ReadUint16BE(r)
			if err != nil {
				Logger().Debug().Err(err).Msg("png: short rgb tRNS, ignoring")
				return nil
			}
			rgb[i] = v
		}
		decoder.transparency = Transparency{Kind: TransparencyRGB, RGB: rgb}
	default:
		Logger().Debug().Stringer("color_type", decoder.header.ColorType).Msg("png: tRNS not allowed, ignoring")
	}
	return nil
}

func (decoder *Decoder) sealFrame() {
	if decoder.frame == nil {
		return
	}
	decoder.animation.Frames = append(decoder.animation.Frames, decoder.frame)
	decoder.frame = nil
}

func (decoder *Decoder) finish() {
	decoder.sealFrame()

	switch decoder.header.ColorType {
	case Grayscale, Indexed, GrayscaleAlpha:
		decoder.colors = 1
	case RGB, RGBA:
		decoder.colors = 3
	}
	decoder.hasAlpha = decoder.header.ColorType == GrayscaleAlpha || decoder.header.ColorType == RGBA

	channels := decoder.colors
	if decoder.hasAlpha {
		channels++
	}
	decoder.pixelBitLength = int(decoder.header.BitDepth) * channels
	decoder.state = stateDone
}

func (decoder *Decoder) Header() Header             { return decoder.header }
func (decoder *Decoder) Transparency() Transparency { return decoder.transparency }
func (decoder *Decoder) Chunks() []ChunkInfo        { return decoder.chunks }
func (decoder *Decoder) Text() map[string]string    { return maps.Clone(decoder.text) }
func (decoder *Decoder) Width() int                 { return int(decoder.header.Width) }
func (decoder *Decoder) Height() int                { return int(decoder.header.Height) }

// Animation is nil for static images.
func (decoder *Decoder) Animation() *Animation { return decoder.animation }

func (decoder *Decoder) Animated() bool { return decoder.animation != nil }

// Frames returns the fcTL frames in stream order, or nil for static images.
func (decoder *Decoder) Frames() []*Frame {
	if decoder.animation == nil {
		return nil
	}
	return decoder.animation.Frames
}

// PixelBitLength is bit depth times the number of channels.
func (decoder *Decoder) PixelBitLength() int { return decoder.pixelBitLength }

// Palette returns the PLTE entries with tRNS alpha applied, or nil when the
// stream has no palette. Entries past the 256th are dropped.
func (decoder *Decoder) Palette() color.Palette {
	if len(decoder.palette) == 0 {
		return nil
	}
	size := min(len(decoder.palette)/3, pal.MaxEntries)
	p, err := pal.NewDecoder(bytes.NewReader(decoder.palette)).Decode(pal.ChannelRGB, size)
	if err != nil {
		Logger().Warn().Err(err).Msg("png: bad palette")
		return nil
	}
	if decoder.transparency.Kind == TransparencyIndexed {
		if err := pal.NewDecoder(bytes.NewReader(decoder.transparency.Alpha)).DecodeAlpha(p); err != nil {
			Logger().Warn().Err(err).Msg("png: bad palette alpha")
		}
	}
	return p
}

// paletteTable builds the RGBA lookup table on first use.
func (decoder *Decoder) paletteTable() []byte {
	if decoder.table == nil {
		decoder.table = pal.Table(decoder.Palette())
	}
	return decoder.table
}
