package png

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red         = []byte{255, 0, 0, 255}
	green       = []byte{0, 255, 0, 255}
	blue        = []byte{0, 0, 255, 255}
	transparent = []byte{0, 0, 0, 0}
)

func solidFrame(w, h, x, y uint32, px []byte, dispose DisposeOp, blend BlendOp) *Frame {
	frame := &Frame{
		Width: w, Height: h, XOffset: x, YOffset: y,
		DelayDen:  100,
		DisposeOp: dispose,
		BlendOp:   blend,
	}
	for i := uint32(0); i < w*h; i++ {
		frame.Pix = append(frame.Pix, px...)
	}
	return frame
}

func concat(px ...[]byte) []byte {
	var out []byte
	for _, p := range px {
		out = append(out, p...)
	}
	return out
}

func TestCompositor(t *testing.T) {
	c := NewCompositor(2, 2)
	steps := []struct {
		frame *Frame
		want  []byte
	}{
		{solidFrame(2, 2, 0, 0, red, DisposeNone, BlendSource), concat(red, red, red, red)},
		{solidFrame(1, 1, 1, 1, green, DisposeBackground, BlendOver), concat(red, red, red, green)},
		{solidFrame(1, 1, 0, 0, blue, DisposePrevious, BlendSource), concat(blue, red, red, transparent)},
		{solidFrame(1, 1, 1, 0, transparent, DisposeNone, BlendOver), concat(red, red, red, transparent)},
	}

	var snaps [][]byte
	for i, step := range steps {
		snap, err := c.Draw(step.frame)
		require.NoError(t, err)
		assert.Equal(t, step.want, snap.Pix, "frame %d", i)
		snaps = append(snaps, snap.Pix)
	}

	// snapshots do not alias the live canvas
	assert.Equal(t, concat(red, red, red, red), snaps[0])
	c.Canvas().Pix[0] = 7
	assert.Equal(t, byte(255), snaps[3][0])

	c.Reset()
	assert.Equal(t, concat(transparent, transparent, transparent, transparent), c.Canvas().Pix)
}

func TestCompositorSourceReplacesAlpha(t *testing.T) {
	c := NewCompositor(1, 1)
	_, err := c.Draw(solidFrame(1, 1, 0, 0, red, DisposeNone, BlendSource))
	require.NoError(t, err)

	snap, err := c.Draw(solidFrame(1, 1, 0, 0, transparent, DisposeNone, BlendSource))
	require.NoError(t, err)
	assert.Equal(t, transparent, snap.Pix)
}

func TestCompositorClipsToCanvas(t *testing.T) {
	c := NewCompositor(2, 1)
	snap, err := c.Draw(solidFrame(2, 2, 1, 0, green, DisposeNone, BlendSource))
	require.NoError(t, err)
	assert.Equal(t, concat(transparent, green), snap.Pix)

	snap, err = c.Draw(solidFrame(1, 1, 5, 5, blue, DisposeNone, BlendSource))
	require.NoError(t, err)
	assert.Equal(t, concat(transparent, green), snap.Pix)
}

func TestCompositorUndecodedFrame(t *testing.T) {
	c := NewCompositor(1, 1)
	_, err := c.Draw(&Frame{Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrFrameNotDecoded)
}

func TestCompositorFromStream(t *testing.T) {
	stream := pngStream(
		ihdrChunk(2, 1, 8, RGBA),
		actlChunk(2, 1),
		fctlChunk(0, 2, 1, 0, 0, 1, 10, DisposeBackground, BlendSource),
		idatChunk(t, rows(concat(red, green))),
		fctlChunk(1, 1, 1, 1, 0, 1, 10, DisposeNone, BlendOver),
		fdatChunk(2, deflate(t, rows(blue))),
		iendChunk(),
	)
	decoder, err := Parse(stream)
	require.NoError(t, err)

	frames, err := decoder.DecodeFrames()
	require.NoError(t, err)
	require.Len(t, frames, 2)

	c := decoder.Compositor()
	first, err := c.Draw(frames[0])
	require.NoError(t, err)
	assert.Equal(t, concat(red, green), first.Pix)

	second, err := c.Draw(frames[1])
	require.NoError(t, err)
	assert.Equal(t, concat(transparent, blue), second.Pix)
}

func TestFrameBoundsDoNotWrap(t *testing.T) {
	frame := &Frame{Width: 0x20, Height: 1, XOffset: 0xfffffff0, YOffset: 3}
	b := frame.Bounds()
	assert.Equal(t, 0xfffffff0, b.Min.X)
	assert.Equal(t, 0xfffffff0+0x20, b.Max.X)
	assert.Equal(t, 4, b.Max.Y)

	c := NewCompositor(2, 2)
	frame.Pix = make([]byte, 0x20*4)
	snap, err := c.Draw(frame)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 2*2*4), snap.Pix)
}
