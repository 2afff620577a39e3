package png

// CopyToImageData expands unfiltered pixels of the header's size into
// width*height*4 RGBA bytes. It returns nil when the header size is too large
// to allocate.
func (decoder *Decoder) CopyToImageData(pixels []byte) []byte {
	w, h := decoder.Width(), decoder.Height()
	if decoder.checkDimensions(w, h) != nil {
		return nil
	}
	return decoder.copyToImageData(pixels, w, h)
}

// copyToImageData expects dimensions that passed checkDimensions.
func (decoder *Decoder) copyToImageData(pixels []byte, width, height int) []byte {
	out := make([]byte, width*height*4)
	if len(pixels) == 0 || width == 0 || height == 0 || decoder.colors == 0 {
		return out
	}

	scanlineLength := (decoder.pixelBitLength*width + 7) / 8
	if need := scanlineLength * height; len(pixels) < need {
		padded := make([]byte, need)
		copy(padded, pixels)
		pixels = padded
	}

	switch {
	case decoder.header.ColorType == Indexed && len(decoder.palette) > 0:
		decoder.copyIndexed(out, pixels, width, height, scanlineLength)
	case decoder.header.BitDepth == 8:
		decoder.copyDirect(out, pixels, width*height)
	default:
		decoder.copySamples(out, pixels, width, height, scanlineLength)
	}
	return out
}

// copyIndexed looks every index up in the palette table, four bytes per
// entry. Indices past the palette come out opaque black.
func (decoder *Decoder) copyIndexed(out, pixels []byte, width, height, scanlineLength int) {
	table := decoder.paletteTable()
	depth := int(decoder.header.BitDepth)

	j := 0
	for y := 0; y < height; y++ {
		line := pixels[y*scanlineLength : (y+1)*scanlineLength]
		for x := 0; x < width; x++ {
			k := int(sample(line, x, depth)) * 4
			if k+4 <= len(table) {
				copy(out[j:j+4], table[k:k+4])
			} else {
				out[j+3] = 255
			}
			j += 4
		}
	}
}

// copyDirect handles 8-bit gray and truecolor data, stepping colors+alpha
// bytes per pixel.
func (decoder *Decoder) copyDirect(out, pixels []byte, n int) {
	stride := decoder.colors
	if decoder.hasAlpha {
		stride++
	}
	trns := decoder.transparency

	for i, k, j := 0, 0, 0; i < n; i, k, j = i+1, k+stride, j+4 {
		var r, g, b byte
		if decoder.colors == 1 {
			r, g, b = pixels[k], pixels[k], pixels[k]
		} else {
			r, g, b = pixels[k], pixels[k+1], pixels[k+2]
		}

		a := byte(255)
		switch {
		case decoder.hasAlpha:
			a = pixels[k+decoder.colors]
		case trns.Kind == TransparencyGray && decoder.colors == 1:
			if uint16(r) == trns.Gray {
				a = 0
			}
		case trns.Kind == TransparencyRGB && decoder.colors == 3:
			if uint16(r) == trns.RGB[0] && uint16(g) == trns.RGB[1] && uint16(b) == trns.RGB[2] {
				a = 0
			}
		}
		out[j], out[j+1], out[j+2], out[j+3] = r, g, b, a
	}
}

// copySamples handles 1, 2, 4 and 16 bit samples. Low depths are scaled to
// 0..255 and 16-bit samples keep their high byte. Color keys are compared
// against the raw samples.
func (decoder *Decoder) copySamples(out, pixels []byte, width, height, scanlineLength int) {
	depth := int(decoder.header.BitDepth)
	stride := decoder.colors
	if decoder.hasAlpha {
		stride++
	}
	trns := decoder.transparency

	var raw [4]uint16
	j := 0
	for y := 0; y < height; y++ {
		line := pixels[y*scanlineLength : (y+1)*scanlineLength]
		for x := 0; x < width; x++ {
			for c := 0; c < stride; c++ {
				raw[c] = sample(line, x*stride+c, depth)
			}

			var r, g, b byte
			if decoder.colors == 1 {
				r = scale(raw[0], depth)
				g, b = r, r
			} else {
				r, g, b = scale(raw[0], depth), scale(raw[1], depth), scale(raw[2], depth)
			}

			a := byte(255)
			switch {
			case decoder.hasAlpha:
				a = scale(raw[decoder.colors], depth)
			case trns.Kind == TransparencyGray && decoder.colors == 1:
				if raw[0] == trns.Gray {
					a = 0
				}
			case trns.Kind == TransparencyRGB && decoder.colors == 3:
				if raw[0] == trns.RGB[0] && raw[1] == trns.RGB[1] && raw[2] == trns.RGB[2] {
					a = 0
				}
			}
			out[j], out[j+1], out[j+2], out[j+3] = r, g, b, a
			j += 4
		}
	}
}

// sample returns the i-th sample of a scanline. Sub-byte samples are packed
// most significant bit first.
func sample(line []byte, i, depth int) uint16 {
	switch depth {
	case 8:
		return uint16(line[i])
	case 16:
		return uint16(line[2*i])<<8 | uint16(line[2*i+1])
	}
	bit := i * depth
	shift := 8 - depth - bit%8
	return uint16(line[bit/8]>>shift) & (1<<depth - 1)
}

func scale(v uint16, depth int) byte {
	switch depth {
	case 8:
		return byte(v)
	case 16:
		return byte(v >> 8)
	}
	return byte(int(v) * 255 / (1<<depth - 1))
}
