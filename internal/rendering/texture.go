package rendering

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Texture is an RGBA8 GL texture. It satisfies png.Surface, so decoded
// frames can be uploaded straight from the decoder.
type Texture struct {
	Handle uint32
	width  int
	height int
}

func NewTexture() *Texture {
	t := &Texture{}
	gl.GenTextures(1, &t.Handle)
	gl.BindTexture(gl.TEXTURE_2D, t.Handle)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

// Upload replaces the texture contents. Storage is reallocated only when the
// size changes.
func (t *Texture) Upload(width, height int, pix []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("texture: invalid size %dx%d", width, height)
	}
	if len(pix) < width*height*4 {
		return fmt.Errorf("texture: %d bytes for %dx%d", len(pix), width, height)
	}

	gl.BindTexture(gl.TEXTURE_2D, t.Handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if width != t.width || height != t.height {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
		t.width, t.height = width, height
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}
	return nil
}

func (t *Texture) Size() (int, int) { return t.width, t.height }

func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.Handle)
}

func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.Handle)
	t.Handle = 0
}
