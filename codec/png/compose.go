package png

import (
	"image"

	"golang.org/x/image/draw"
)

// Compositor rebuilds full APNG canvases from decoded frames, applying each
// frame's blend op and, before the next frame, its dispose op. The canvas
// starts fully transparent.
type Compositor struct {
	canvas      *image.NRGBA
	saved       *image.NRGBA
	last        *Frame
	lastDispose DisposeOp
	pos         int
}

func NewCompositor(width, height int) *Compositor {
	bounds := image.Rect(0, 0, width, height)
	return &Compositor{
		canvas: image.NewNRGBA(bounds),
		saved:  image.NewNRGBA(bounds),
	}
}

// Compositor returns a Compositor sized to the image canvas.
func (decoder *Decoder) Compositor() *Compositor {
	return NewCompositor(decoder.Width(), decoder.Height())
}

func (c *Compositor) Reset() {
	clear(c.canvas.Pix)
	clear(c.saved.Pix)
	c.last = nil
	c.lastDispose = DisposeNone
	c.pos = 0
}

// Canvas returns the live canvas, not a copy.
func (c *Compositor) Canvas() *image.NRGBA { return c.canvas }

// Draw composites the next frame and returns a snapshot of the canvas.
func (c *Compositor) Draw(frame *Frame) (*image.NRGBA, error) {
	src := frame.Image()
	if src == nil {
		return nil, ErrFrameNotDecoded
	}
	c.dispose()

	dispose := frame.DisposeOp
	if c.pos == 0 && dispose == DisposePrevious {
		dispose = DisposeBackground
	}
	if dispose == DisposePrevious {
		copy(c.saved.Pix, c.canvas.Pix)
	}

	op := draw.Src
	if frame.BlendOp == BlendOver {
		op = draw.Over
	}
	bounds := frame.Bounds()
	rect := bounds.Intersect(c.canvas.Bounds())
	if !rect.Empty() {
		draw.Draw(c.canvas, rect, src, rect.Min.Sub(bounds.Min), op)
	}

	c.last = frame
	c.lastDispose = dispose
	c.pos++

	snap := image.NewNRGBA(c.canvas.Bounds())
	copy(snap.Pix, c.canvas.Pix)
	return snap, nil
}

func (c *Compositor) dispose() {
	if c.last == nil {
		return
	}
	rect := c.last.Bounds().Intersect(c.canvas.Bounds())
	if rect.Empty() {
		return
	}
	switch c.lastDispose {
	case DisposeBackground:
		draw.Draw(c.canvas, rect, image.Transparent, image.Point{}, draw.Src)
	case DisposePrevious:
		draw.Draw(c.canvas, rect, c.saved, rect.Min, draw.Src)
	}
}
