package main

import (
	"context"
	"image"
	"runtime"
	"time"

	"github.com/cam-per/pngcore/codec/png"
	"github.com/cam-per/pngcore/internal/logging"
	"github.com/cam-per/pngcore/internal/oops"
	"github.com/cam-per/pngcore/internal/playback"
	"github.com/cam-per/pngcore/internal/rendering"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli/v3"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "open a window and play the image",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			decoder, name, err := open(cmd)
			if err != nil {
				return err
			}
			images, err := decodeImages(decoder, false)
			if err != nil {
				return oops.New(err, "failed to decode %s", name)
			}
			delays := make([]time.Duration, len(images))
			plays := uint32(0)
			if anim := decoder.Animation(); anim != nil && len(anim.Frames) == len(images) {
				for i, frame := range anim.Frames {
					delays[i] = frame.Delay
				}
				plays = anim.NumPlays
			}
			return view(ctx, name, images, playback.NewPlayer(delays, plays))
		},
	}
}

func view(ctx context.Context, title string, images []*image.NRGBA, player *playback.Player) error {
	if err := glfw.Init(); err != nil {
		return oops.New(err, "failed to initialize glfw")
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	b := images[0].Bounds()
	window, err := glfw.CreateWindow(max(b.Dx(), 64), max(b.Dy(), 64), title, nil, nil)
	if err != nil {
		return oops.New(err, "failed to create window")
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return oops.New(err, "failed to initialize gl")
	}
	logging.Debug().Str("version", gl.GoStr(gl.GetString(gl.VERSION))).Msg("gl context")

	shaders, err := rendering.DefaultShaders()
	if err != nil {
		return oops.New(err, "failed to load shaders")
	}
	if err := shaders.Compile(); err != nil {
		return oops.New(err, "failed to compile shaders")
	}
	defer shaders.Delete()

	quad := rendering.NewQuad()
	defer quad.Delete()
	texture := rendering.NewTexture()
	defer texture.Delete()

	var surface png.Surface = texture
	upload := func(i int) error {
		img := images[i]
		return surface.Upload(img.Bounds().Dx(), img.Bounds().Dy(), img.Pix)
	}
	if err := upload(0); err != nil {
		return err
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.2, 0.2, 0.2, 1)

	program := shaders.Use("sprite")
	scaleLoc := gl.GetUniformLocation(program, gl.Str("scale\x00"))
	imageLoc := gl.GetUniformLocation(program, gl.Str("image\x00"))
	gl.Uniform1i(imageLoc, 0)

	last := time.Now()
	for !window.ShouldClose() && ctx.Err() == nil {
		now := time.Now()
		if len(images) > 1 && player.Advance(now.Sub(last)) {
			if err := upload(player.Frame()); err != nil {
				return err
			}
		}
		last = now

		fw, fh := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fw), int32(fh))
		gl.Clear(gl.COLOR_BUFFER_BIT)

		tw, th := texture.Size()
		sx, sy := rendering.FitScale(tw, th, fw, fh)
		gl.Uniform2f(scaleLoc, sx, sy)
		texture.Bind(0)
		quad.Draw()

		window.SwapBuffers()
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}
	}
	return nil
}
