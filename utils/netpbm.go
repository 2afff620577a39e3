package utils

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// WritePPM writes img as a binary P6 pixmap. Alpha is dropped.
func WritePPM(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if _, err := bw.Write(row[x*4 : x*4+3]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WritePAM writes img as a P7 RGB_ALPHA arbitrary map, keeping alpha.
func WritePAM(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	_, err := fmt.Fprintf(bw, "P7\nWIDTH %d\nHEIGHT %d\nDEPTH 4\nMAXVAL 255\nTUPLTYPE RGB_ALPHA\nENDHDR\n", b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		if _, err := bw.Write(img.Pix[off : off+b.Dx()*4]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
