package rendering

import (
	"github.com/go-gl/gl/v3.3-core/gl"
)

// x, y, u, v; image rows start at the top, so v is flipped.
var quadVertices = []float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	1, 1, 1, 0,
	-1, -1, 0, 1,
	1, 1, 1, 0,
	-1, 1, 0, 0,
}

// Quad is a unit quad drawn with the sprite program.
type Quad struct {
	vao, vbo uint32
}

func NewQuad() *Quad {
	q := &Quad{}
	gl.GenVertexArrays(1, &q.vao)
	gl.BindVertexArray(q.vao)

	gl.GenBuffers(1, &q.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	const stride = 4 * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)

	gl.BindVertexArray(0)
	return q
}

func (q *Quad) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quadVertices)/4))
	gl.BindVertexArray(0)
}

func (q *Quad) Delete() {
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
}

// FitScale returns the per-axis scale that letterboxes an image of size
// w x h inside a viewport of size vw x vh.
func FitScale(w, h, vw, vh int) (float32, float32) {
	if w <= 0 || h <= 0 || vw <= 0 || vh <= 0 {
		return 1, 1
	}
	imageAspect := float32(w) / float32(h)
	viewAspect := float32(vw) / float32(vh)
	if imageAspect > viewAspect {
		return 1, viewAspect / imageAspect
	}
	return imageAspect / viewAspect, 1
}
