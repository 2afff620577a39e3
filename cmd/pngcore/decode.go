package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/cam-per/pngcore/codec/png"
	"github.com/cam-per/pngcore/internal/logging"
	"github.com/cam-per/pngcore/internal/oops"
	"github.com/cam-per/pngcore/utils"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/image/draw"
)

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "write the image, or every animation frame, as PAM or PPM files",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "output directory",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "pam",
				Usage: "pam keeps alpha, ppm drops it",
			},
			&cli.IntFlag{
				Name:  "scale",
				Value: 1,
				Usage: "integer upscale factor (nearest neighbour)",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "write frames as stored instead of composited canvases",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			decoder, name, err := open(cmd)
			if err != nil {
				return err
			}
			format := strings.ToLower(cmd.String("format"))
			if format != "pam" && format != "ppm" {
				return oops.New(nil, "unknown format %q", format)
			}
			if cmd.Int("scale") < 1 {
				return oops.New(nil, "scale must be at least 1")
			}

			images, err := decodeImages(decoder, cmd.Bool("raw"))
			if err != nil {
				return oops.New(err, "failed to decode %s", name)
			}

			base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
			for i, img := range images {
				img = upscale(img, int(cmd.Int("scale")))
				out := filepath.Join(cmd.String("out"), base+"."+format)
				if len(images) > 1 {
					out = filepath.Join(cmd.String("out"), fmt.Sprintf("%s_%03d.%s", base, i, format))
				}
				if err := writeImage(out, img, format); err != nil {
					return err
				}
				logging.Info().Str("file", out).Str("size", humanize.Bytes(uint64(len(img.Pix)))).Msg("wrote image")
			}
			return nil
		},
	}
}

// decodeImages returns the static image, or one image per frame for an APNG.
// Unless raw is set, frames are composited onto the full canvas.
func decodeImages(decoder *png.Decoder, raw bool) ([]*image.NRGBA, error) {
	if !decoder.Animated() || len(decoder.Frames()) == 0 {
		img, err := decoder.Image()
		if err != nil {
			return nil, err
		}
		return []*image.NRGBA{img}, nil
	}

	frames, err := decoder.DecodeFrames()
	if err != nil {
		return nil, err
	}
	images := make([]*image.NRGBA, 0, len(frames))
	if raw {
		for _, frame := range frames {
			images = append(images, frame.Image())
		}
		return images, nil
	}

	c := decoder.Compositor()
	for _, frame := range frames {
		snap, err := c.Draw(frame)
		if err != nil {
			return nil, err
		}
		images = append(images, snap)
	}
	return images, nil
}

func upscale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writeImage(name string, img *image.NRGBA, format string) error {
	f, err := os.Create(name)
	if err != nil {
		return oops.New(err, "failed to create output file")
	}
	if format == "ppm" {
		err = utils.WritePPM(f, img)
	} else {
		err = utils.WritePAM(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return oops.New(err, "failed to write %s", name)
	}
	return nil
}
