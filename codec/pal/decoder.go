package pal

import (
	"errors"
	"image/color"
	"io"

	"github.com/cam-per/pngcore/utils"
)

type Channel uint8

const (
	ChannelGray Channel = iota
	ChannelRGB
	ChannelRGBA
)

// MaxEntries is the largest palette PNG allows.
const MaxEntries = 256

var (
	ErrTooManyEntries = errors.New("pal: more than 256 entries")
)

type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads size entries of the given layout. Every entry comes back as an
// opaque color.NRGBA unless the layout carries alpha.
func (decoder *Decoder) Decode(paletteType Channel, size int) (color.Palette, error) {
	if size > MaxEntries {
		return nil, ErrTooManyEntries
	}
	depth := 0
	switch paletteType {
	case ChannelGray:
		depth = 1
	case ChannelRGB:
		depth = 3
	case ChannelRGBA:
		depth = 4
	}
	pal := make(color.Palette, size)
	buf := make([]byte, depth)

	for i := 0; i < size; i++ {
		var c color.NRGBA
		if _, err := io.ReadFull(decoder.r, buf); err != nil {
			return nil, err
		}
		switch paletteType {
		case ChannelGray:
			c = color.NRGBA{R: buf[0], G: buf[0], B: buf[0], A: 255}
		case ChannelRGB:
			c = color.NRGBA{R: buf[0], G: buf[1], B: buf[2], A: 255}
		case ChannelRGBA:
			c = color.NRGBA{R: buf[0], G: buf[1], B: buf[2], A: buf[3]}
		}
		pal[i] = c
	}
	return pal, nil
}

// DecodeAlpha reads one alpha byte per entry of p from the decoder and
// stores it in place. Entries past the end of the stream stay opaque.
func (decoder *Decoder) DecodeAlpha(p color.Palette) error {
	for i := range p {
		a, err := utils.ReadByte(decoder.r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		c := color.NRGBAModel.Convert(p[i]).(color.NRGBA)
		c.A = a
		p[i] = c
	}
	return nil
}
