package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cam-per/pngcore/codec/png"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(typ string, payload []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, uint32(len(payload)))
	b = append(b, typ...)
	b = append(b, payload...)
	return binary.BigEndian.AppendUint32(b, crc32.ChecksumIEEE(append([]byte(typ), payload...)))
}

func deflate(t *testing.T, raw []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// twoFrameAPNG is a 2x1 RGBA animation: red|green, then blue blended over
// the right pixel.
func twoFrameAPNG(t *testing.T) []byte {
	ihdr := binary.BigEndian.AppendUint32(nil, 2)
	ihdr = binary.BigEndian.AppendUint32(ihdr, 1)
	ihdr = append(ihdr, 8, 6, 0, 0, 0)

	fctl := func(seq, w, x uint32, blend byte) []byte {
		p := binary.BigEndian.AppendUint32(nil, seq)
		p = binary.BigEndian.AppendUint32(p, w)
		p = binary.BigEndian.AppendUint32(p, 1)
		p = binary.BigEndian.AppendUint32(p, x)
		p = binary.BigEndian.AppendUint32(p, 0)
		p = append(p, 0, 1, 0, 10, 0, blend)
		return chunk("fcTL", p)
	}

	s := []byte("\x89PNG\r\n\x1a\n")
	s = append(s, chunk("IHDR", ihdr)...)
	s = append(s, chunk("acTL", []byte{0, 0, 0, 2, 0, 0, 0, 0})...)
	s = append(s, chunk("tEXt", []byte("Title\x00pngcore"))...)
	s = append(s, fctl(0, 2, 0, 0)...)
	s = append(s, chunk("IDAT", deflate(t, []byte{0, 255, 0, 0, 255, 0, 255, 0, 255}))...)
	s = append(s, fctl(1, 1, 1, 1)...)
	s = append(s, chunk("fdAT", append([]byte{0, 0, 0, 2}, deflate(t, []byte{0, 0, 0, 255, 255})...))...)
	return append(s, chunk("IEND", nil)...)
}

func TestPrintInfo(t *testing.T) {
	decoder, err := png.Parse(twoFrameAPNG(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printInfo(&buf, "anim.png", decoder, true))
	out := buf.String()
	assert.Contains(t, out, "size:         2x1 (2 pixels)")
	assert.Contains(t, out, "color:        rgba, 8 bit")
	assert.Contains(t, out, "2 frames (2 declared), infinite plays, 200ms per loop")
	assert.Contains(t, out, "dispose=none blend=over")
	assert.Contains(t, out, " default\n")
	assert.Contains(t, out, `Title: "pngcore"`)
}

func TestPrintChunks(t *testing.T) {
	data := twoFrameAPNG(t)
	decoder, err := png.Parse(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printChunks(&buf, decoder.Chunks(), nil))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "00000008  IHDR"), lines[0])
	assert.Contains(t, lines[0], "critical")
	assert.Contains(t, lines[3], "ancillary")

	buf.Reset()
	require.NoError(t, printChunks(&buf, decoder.Chunks()[2:3], data))
	assert.Contains(t, buf.String(), "|Title.pngcore|")
}

func TestDecodeImages(t *testing.T) {
	decoder, err := png.Parse(twoFrameAPNG(t))
	require.NoError(t, err)

	images, err := decodeImages(decoder, false)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 255, 0, 255}, images[0].Pix)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, images[1].Pix)

	raw, err := decodeImages(decoder, true)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), raw[1].Bounds())
}

func TestDecodeCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "anim.png")
	require.NoError(t, os.WriteFile(src, twoFrameAPNG(t), 0o644))

	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run(context.Background(), []string{"pngcore", "--log-level", "error", "decode", "--out", dir, "--format", "ppm", "--scale", "2", src})
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "anim_001.ppm"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("P6\n4 2\n255\n")))
	assert.Len(t, out, len("P6\n4 2\n255\n")+4*2*3)
	_, err = os.Stat(filepath.Join(dir, "anim_000.ppm"))
	assert.NoError(t, err)
}

func TestUpscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []byte{1, 2, 3, 4})
	assert.Same(t, img, upscale(img, 1))

	big := upscale(img, 3)
	assert.Equal(t, image.Rect(0, 0, 3, 3), big.Bounds())
	assert.Equal(t, []byte{1, 2, 3, 4}, big.Pix[len(big.Pix)-4:])
}
