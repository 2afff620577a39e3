package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cam-per/pngcore/codec/png"
	"github.com/cam-per/pngcore/internal/oops"
	"github.com/cam-per/pngcore/utils"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

func chunksCommand() *cli.Command {
	return &cli.Command{
		Name:      "chunks",
		Usage:     "list the chunks of a file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "hex dump every chunk payload",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			decoder, name, err := open(cmd)
			if err != nil {
				return err
			}
			var data []byte
			if cmd.Bool("dump") {
				if data, err = os.ReadFile(name); err != nil {
					return oops.New(err, "failed to read %s", name)
				}
			}
			return printChunks(cmd.Root().Writer, decoder.Chunks(), data)
		},
	}
}

// printChunks lists chunks; when data holds the file the payloads are dumped
// too.
func printChunks(w io.Writer, chunks []png.ChunkInfo, data []byte) error {
	for _, c := range chunks {
		kind := "ancillary"
		if c.Critical {
			kind = "critical"
		}
		fmt.Fprintf(w, "%08x  %s  %10s  crc=%08x  %s\n", c.Offset, c.Type, humanize.Comma(int64(c.Length)), c.CRC, kind)
		if data == nil || c.Length == 0 {
			continue
		}
		start := c.Offset + 8
		end := min(start+int(c.Length), len(data))
		if start >= end {
			continue
		}
		if err := utils.HexDump(w, data[start:end], int64(start)); err != nil {
			return err
		}
	}
	return nil
}
