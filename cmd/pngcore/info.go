package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/cam-per/pngcore/codec/png"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print the header, text and animation summary",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "frames",
				Usage: "list every animation frame",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			decoder, name, err := open(cmd)
			if err != nil {
				return err
			}
			return printInfo(cmd.Root().Writer, name, decoder, cmd.Bool("frames"))
		},
	}
}

func printInfo(w io.Writer, name string, decoder *png.Decoder, frames bool) error {
	h := decoder.Header()
	var stored uint64
	for _, c := range decoder.Chunks() {
		stored += 12 + uint64(c.Length)
	}
	raw := uint64(h.Width) * uint64(h.Height) * 4

	fmt.Fprintf(w, "file:         %s\n", name)
	fmt.Fprintf(w, "size:         %dx%d (%s pixels)\n", h.Width, h.Height, humanize.Comma(int64(h.Width)*int64(h.Height)))
	fmt.Fprintf(w, "color:        %s, %d bit\n", h.ColorType, h.BitDepth)
	fmt.Fprintf(w, "interlaced:   %t\n", h.Interlaced())
	fmt.Fprintf(w, "chunks:       %d, %s\n", len(decoder.Chunks()), humanize.Bytes(stored))
	fmt.Fprintf(w, "rgba size:    %s\n", humanize.Bytes(raw))
	if p := decoder.Palette(); p != nil {
		fmt.Fprintf(w, "palette:      %d entries\n", len(p))
	}
	if trns := decoder.Transparency(); trns.Kind != png.TransparencyNone {
		fmt.Fprintf(w, "transparency: %s\n", trns.Kind)
	}

	if anim := decoder.Animation(); anim != nil {
		plays := "infinite"
		if !anim.Infinite() {
			plays = humanize.Comma(int64(anim.NumPlays))
		}
		fmt.Fprintf(w, "animation:    %d frames (%d declared), %s plays, %s per loop\n",
			len(anim.Frames), anim.NumFrames, plays, anim.Duration())
		if frames {
			for i, frame := range anim.Frames {
				fmt.Fprintf(w, "  #%-3d %v delay=%s dispose=%s blend=%s data=%s",
					i, frame.Bounds(), frame.Delay, frame.DisposeOp, frame.BlendOp,
					humanize.Bytes(uint64(frame.CompressedSize())))
				if frame.DefaultImage {
					fmt.Fprint(w, " default")
				}
				fmt.Fprintln(w)
			}
		}
	}

	text := decoder.Text()
	if len(text) > 0 {
		fmt.Fprintln(w, "text:")
		keys := make([]string, 0, len(text))
		for k := range text {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %q\n", k, text[k])
		}
	}
	return nil
}
