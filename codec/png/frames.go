package png

import (
	"image"
)

// Decode returns the static image as width*height*4 RGBA bytes. For an APNG
// this is the IDAT image, which may double as the first frame.
func (decoder *Decoder) Decode() ([]byte, error) {
	w, h := decoder.Width(), decoder.Height()
	if err := decoder.checkDimensions(w, h); err != nil {
		return nil, err
	}
	pixels, err := decoder.decodePixels(decoder.imgData, w, h)
	if err != nil {
		return nil, err
	}
	return decoder.copyToImageData(pixels, w, h), nil
}

func (decoder *Decoder) Image() (*image.NRGBA, error) {
	pix, err := decoder.Decode()
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: decoder.Width() * 4,
		Rect:   image.Rect(0, 0, decoder.Width(), decoder.Height()),
	}, nil
}

// DecodeFrame decodes frame in place: Pix is filled and the compressed bytes
// are released. Decoding a decoded frame is a no-op.
func (decoder *Decoder) DecodeFrame(frame *Frame) error {
	if frame.Decoded() {
		return nil
	}
	w, h := int(frame.Width), int(frame.Height)
	if err := decoder.checkDimensions(w, h); err != nil {
		return err
	}
	pixels, err := decoder.decodePixels(frame.data, w, h)
	if err != nil {
		return err
	}
	frame.Pix = decoder.copyToImageData(pixels, w, h)
	frame.data = nil
	return nil
}

// DecodeFrames decodes every frame in order and stops at the first failure.
// The canvas size is checked too, so a Compositor can be built afterwards.
func (decoder *Decoder) DecodeFrames() ([]*Frame, error) {
	if err := decoder.checkDimensions(decoder.Width(), decoder.Height()); err != nil {
		return nil, err
	}
	frames := decoder.Frames()
	for i, frame := range frames {
		if err := decoder.DecodeFrame(frame); err != nil {
			Logger().Debug().Err(err).Int("frame", i).Msg("png: frame decode failed")
			return nil, err
		}
	}
	return frames, nil
}

// Render decodes the static image and hands it to s.
func (decoder *Decoder) Render(s Surface) error {
	pix, err := decoder.Decode()
	if err != nil {
		return err
	}
	return s.Upload(decoder.Width(), decoder.Height(), pix)
}
