package main

import (
	"context"
	"os"

	"github.com/cam-per/pngcore/codec/png"
	"github.com/cam-per/pngcore/internal/logging"
	"github.com/cam-per/pngcore/internal/oops"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

func main() {
	defer logging.LogPanics(nil)

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logging.Error().Err(err).Msg("pngcore failed")
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "pngcore",
		Usage: "inspect and decode PNG and APNG files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "trace, debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "verify chunk CRCs",
			},
			&cli.IntFlag{
				Name:  "max-pixels",
				Usage: "refuse to decode images or frames with more pixels (0 = no limit)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			color := isatty.IsTerminal(os.Stderr.Fd())
			if err := logging.Setup(os.Stderr, cmd.String("log-level"), color); err != nil {
				logging.Warn().Err(err).Msg("using info level")
			}
			png.SetLogger(logging.GlobalLogger().With().Str("pkg", "png").Logger())
			return ctx, nil
		},
		Commands: []*cli.Command{
			infoCommand(),
			chunksCommand(),
			decodeCommand(),
			viewCommand(),
		},
	}
}

// open parses the file named by the first argument with the decoder options
// taken from the global flags.
func open(cmd *cli.Command) (*png.Decoder, string, error) {
	name := cmd.Args().First()
	if name == "" {
		return nil, "", oops.New(nil, "%s: missing FILE argument", cmd.Name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, name, oops.New(err, "failed to open file")
	}
	defer f.Close()

	decoder, err := png.NewDecoder(f,
		png.WithVerifyCRC(cmd.Bool("strict")),
		png.WithMaxPixels(int64(cmd.Int("max-pixels"))),
	)
	if err != nil {
		return nil, name, oops.New(err, "failed to parse %s", name)
	}
	return decoder, name, nil
}
