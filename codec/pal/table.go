package pal

import (
	"image/color"
)

// Table flattens p into R, G, B, A bytes, four per entry, so index i starts
// at offset 4*i.
func Table(p color.Palette) []byte {
	table := make([]byte, 0, len(p)*4)
	for _, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		table = append(table, n.R, n.G, n.B, n.A)
	}
	return table
}
