package rendering

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

//go:embed all:shaders
var __shaders__ embed.FS

type shader struct {
	Handle     uint32
	Type       uint32
	SourceCode string
}

// Shaders holds GLSL programs keyed by directory name. Every program
// directory contains files named <seq>.<stage>.glsl, attached in seq order.
type Shaders struct {
	sources  map[string][]*shader
	programs map[string]uint32
}

// DefaultShaders loads the programs bundled with the binary.
func DefaultShaders() (*Shaders, error) {
	return LoadShaders(__shaders__, "shaders")
}

// LoadShaders reads every program directory under root. No GL context is
// needed until Compile.
func LoadShaders(fsys fs.FS, root string) (*Shaders, error) {
	s := &Shaders{
		sources:  make(map[string][]*shader),
		programs: make(map[string]uint32),
	}
	err := fs.WalkDir(fsys, root, func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() || name == root {
			return nil
		}
		return s.loadShaderDirectory(fsys, strings.TrimPrefix(name, root+"/"), name)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Programs lists the loaded program names.
func (s *Shaders) Programs() []string {
	names := make([]string, 0, len(s.sources)+len(s.programs))
	for name := range s.sources {
		names = append(names, name)
	}
	for name := range s.programs {
		if _, ok := s.sources[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

func (s *Shaders) Compile() error {
	if err := s.buildShaders(); err != nil {
		return err
	}
	if err := s.linkShaders(); err != nil {
		return err
	}

	for _, sources := range s.sources {
		for _, shader := range sources {
			gl.DeleteShader(shader.Handle)
			shader.Handle = 0
		}
	}

	s.sources = nil
	return nil
}

// Use binds program and returns its handle, or 0 when it was never linked.
func (s *Shaders) Use(program string) uint32 {
	handle, ok := s.programs[program]
	if !ok {
		return 0
	}
	gl.UseProgram(handle)
	return handle
}

func (s *Shaders) Delete() {
	for name, handle := range s.programs {
		gl.DeleteProgram(handle)
		delete(s.programs, name)
	}
}

func (s *Shaders) loadShaderDirectory(fsys fs.FS, program, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	tempShaders := make(map[int]*shader)
	maxSeq := -1
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".glsl" {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return err
		}

		p := strings.Split(name, ".")
		if len(p) != 3 {
			return fmt.Errorf("invalid shader file name: %s", name)
		}

		var shaderType int
		switch p[1] {
		case "vertex":
			shaderType = gl.VERTEX_SHADER
		case "fragment":
			shaderType = gl.FRAGMENT_SHADER
		case "geometry":
			shaderType = gl.GEOMETRY_SHADER
		default:
			return fmt.Errorf("unknown shader type: %s", p[1])
		}

		seq, err := strconv.Atoi(p[0])
		if err != nil {
			return fmt.Errorf("invalid shader sequence number: %s", p[0])
		}
		if seq < 0 {
			return fmt.Errorf("shader sequence number must be non-negative: %d", seq)
		}

		tempShaders[seq] = &shader{
			Type:       uint32(shaderType),
			SourceCode: string(data),
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	// directories holding only other program directories
	if maxSeq == -1 {
		return nil
	}

	finalShaders := make([]*shader, maxSeq+1)
	for i := 0; i <= maxSeq; i++ {
		shader, ok := tempShaders[i]
		if !ok {
			return fmt.Errorf("missing shader with sequence number: %d in directory: %s", i, dir)
		}
		finalShaders[i] = shader
	}

	s.sources[program] = finalShaders
	return nil
}

func (s *Shaders) buildShaders() error {
	for name, sources := range s.sources {
		for _, shader := range sources {
			shader.Handle = gl.CreateShader(shader.Type)
			if shader.Handle == 0 {
				return fmt.Errorf("failed to create shader handle for %s", name)
			}

			csources, free := gl.Strs(shader.SourceCode + "\x00")
			gl.ShaderSource(shader.Handle, 1, csources, nil)
			free()
			gl.CompileShader(shader.Handle)

			var status int32
			gl.GetShaderiv(shader.Handle, gl.COMPILE_STATUS, &status)
			if status == gl.FALSE {
				var logLength int32
				gl.GetShaderiv(shader.Handle, gl.INFO_LOG_LENGTH, &logLength)
				logString := infoLog(logLength, func(buf *uint8) {
					gl.GetShaderInfoLog(shader.Handle, logLength, nil, buf)
				})

				gl.DeleteShader(shader.Handle)
				return fmt.Errorf("failed to compile shader %s:\n%s", name, logString)
			}
		}
	}
	return nil
}

func (s *Shaders) linkShaders() error {
	for name, sources := range s.sources {
		program := gl.CreateProgram()
		for _, shader := range sources {
			gl.AttachShader(program, shader.Handle)
		}
		gl.LinkProgram(program)

		var status int32
		gl.GetProgramiv(program, gl.LINK_STATUS, &status)
		if status == gl.FALSE {
			var logLength int32
			gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
			logString := infoLog(logLength, func(buf *uint8) {
				gl.GetProgramInfoLog(program, logLength, nil, buf)
			})

			gl.DeleteProgram(program)
			return fmt.Errorf("failed to link program %s:\n%s", name, logString)
		}
		s.programs[name] = program
	}
	return nil
}

func infoLog(length int32, read func(buf *uint8)) string {
	if length <= 0 {
		return ""
	}
	logBuffer := make([]byte, length)
	read(&logBuffer[0])
	return gl.GoStr(&logBuffer[0])
}
