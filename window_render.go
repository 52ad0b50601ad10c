package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/renderer"
	"github.com/stewi1014/fractalview/view"
)

// frameParametersBinding is the uniform buffer binding point of FrameParameters.
const frameParametersBinding = 0

// glBackend runs the fractal kernels as fragment shaders over a triangle
// covering the whole viewport.
type glBackend struct {
	vao          uint32
	vbo          uint32
	ubo          uint32
	program      uint32
	vertexAttrib uint32

	// framebuffer size in pixels
	width, height int
}

var _ renderer.Backend = (*glBackend)(nil)

// newGLBackend allocates the vertex and uniform buffers. The GL context must be current.
func newGLBackend() *glBackend {
	b := &glBackend{}

	verticies := []float32{
		-3, -2,
		0, 3,
		3, -2,
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verticies)*4, gl.Ptr(verticies), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, programs.FrameParametersSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, frameParametersBinding, b.ubo)

	return b
}

func (b *glBackend) resize(width, height int) {
	b.width, b.height = width, height
}

// SelectKernel links p and binds its FrameParameters block. The previous
// program stays active if anything fails.
func (b *glBackend) SelectKernel(p programs.Program) error {
	program, err := linkProgram(p)
	if err != nil {
		return err
	}

	block := gl.GetUniformBlockIndex(program, gl.Str("FrameParameters\x00"))
	attrib := gl.GetAttribLocation(program, gl.Str("vert\x00"))
	if err := checkBindings(block, attrib); err != nil {
		gl.DeleteProgram(program)
		return fmt.Errorf("%v program: %w", p.Name(), err)
	}
	gl.UniformBlockBinding(program, block, frameParametersBinding)

	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
	b.program = program
	b.vertexAttrib = uint32(attrib)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.EnableVertexAttribArray(b.vertexAttrib)
	gl.VertexAttribPointerWithOffset(b.vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)

	return nil
}

func (b *glBackend) Publish(params programs.FrameParameters) error {
	// Errors left by earlier calls belong to them.
	drainErrors(gl.GetError)

	data := params.Bytes()
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	if codes := drainErrors(gl.GetError); len(codes) > 0 {
		return fmt.Errorf("upload frame parameters: %w", glError(codes))
	}
	return nil
}

func (b *glBackend) Dispatch(context.Context) error {
	drainErrors(gl.GetError)

	gl.Viewport(0, 0, int32(b.width), int32(b.height))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(b.program)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	if codes := drainErrors(gl.GetError); len(codes) > 0 {
		return fmt.Errorf("draw: %w", glError(codes))
	}
	return nil
}

func (b *glBackend) delete() {
	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
	gl.DeleteBuffers(1, &b.ubo)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
}

// errNoBindings is returned for a program missing the FrameParameters block or the vert attribute.
var errNoBindings = errors.New("program does not declare FrameParameters and vert")

func checkBindings(block uint32, attrib int32) error {
	if block == gl.INVALID_INDEX || attrib < 0 {
		return errNoBindings
	}
	return nil
}

// maxGLErrors bounds drainErrors in case a lost context reports errors forever.
const maxGLErrors = 16

// drainErrors empties an error queue such as gl.GetError and returns what was in it.
func drainErrors(next func() uint32) []uint32 {
	var codes []uint32
	for range maxGLErrors {
		code := next()
		if code == gl.NO_ERROR {
			break
		}
		codes = append(codes, code)
	}
	return codes
}

func glError(codes []uint32) error {
	var b strings.Builder
	b.WriteString("gl error")
	for _, c := range codes {
		fmt.Fprintf(&b, " 0x%04x", c)
	}
	return errors.New(b.String())
}

// shaderStage is one compiled shader of a program.
type shaderStage struct {
	kind   uint32
	name   string
	source string
}

func linkProgram(p programs.Program) (uint32, error) {
	stages := []shaderStage{
		{kind: gl.VERTEX_SHADER, name: "vertex", source: p.VertexShader},
		{kind: gl.FRAGMENT_SHADER, name: "fragment", source: p.FragmentShader},
	}

	program := gl.CreateProgram()
	for _, stage := range stages {
		shader, err := stage.compile()
		if err != nil {
			gl.DeleteProgram(program)
			return 0, fmt.Errorf("%v %v shader: %w", p.Name(), stage.name, err)
		}
		gl.AttachShader(program, shader)
		// Flagged for deletion, freed once the program is.
		gl.DeleteShader(shader)
	}

	gl.BindFragDataLocation(program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(program)

	var linked int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &linked)
	if linked != gl.TRUE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link %v program: %s", p.Name(), msg)
	}
	return program, nil
}

func (s shaderStage) compile() (uint32, error) {
	src, free := gl.Strs(s.source + "\x00")
	defer free()

	shader := gl.CreateShader(s.kind)
	gl.ShaderSource(shader, 1, src, nil)
	gl.CompileShader(shader)

	var compiled int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &compiled)
	if compiled != gl.TRUE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, errors.New(msg)
	}
	return shader, nil
}

// infoLog reads the info log of a shader or program object.
func infoLog(
	object uint32,
	param func(uint32, uint32, *int32),
	read func(uint32, int32, *int32, *uint8),
) string {
	var length int32
	param(object, gl.INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return "no info log"
	}

	buf := make([]byte, length)
	read(object, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

// viewer turns window input into view state changes. All methods run on the
// main thread from glfw callbacks, so the state has a single writer.
type viewer struct {
	window  *RenderWindow
	state   *renderer.State
	backend *glBackend
	logger  *log.Logger

	scrollLinePixels float64

	panning      bool
	lastX, lastY float64
	redraw       bool
}

func (v *viewer) mouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	switch action {
	case glfw.Press:
		v.panning = true
		v.lastX, v.lastY = v.window.GetCursorPos()
	case glfw.Release:
		v.panning = false
	}
}

func (v *viewer) cursorPos(_ *glfw.Window, x, y float64) {
	if v.panning {
		_, _, width, height := v.window.cursor()
		v.state.Pan(view.PanDisplacement(x-v.lastX, y-v.lastY, width, height))
		v.lastX, v.lastY = x, y
	}
	// The title readout follows the cursor.
	v.redraw = true
}

func (v *viewer) scroll(_ *glfw.Window, _, yoff float64) {
	x, y, width, height := v.window.cursor()
	// Scrolling up zooms in, which needs a factor below one.
	v.state.Zoom(-yoff*v.scrollLinePixels, view.NormalizeAnchor(x, y, width, height))
	v.redraw = true
}

func (v *viewer) key(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyM:
		v.selectFractal(programs.Mandelbrot)
	case glfw.KeyN:
		v.selectFractal(programs.Newton)
	case glfw.KeyTab:
		v.selectFractal(v.state.FractalType().Next())
	}
}

func (v *viewer) selectFractal(t programs.FractalType) {
	if v.state.SetFractalType(t) {
		v.logger.Info("fractal selected", "fractal", t)
		v.redraw = true
	}
}

func (v *viewer) framebufferSize(_ *glfw.Window, width, height int) {
	v.backend.resize(width, height)
	v.redraw = true
}

func (v *viewer) title() string {
	x, y, width, height := v.window.cursor()
	return fmt.Sprintf("%v  %s", v.state.FractalType(),
		v.state.Transform().Readout(view.CursorNDC(x, y, width, height)))
}

func (v *viewer) run(ctx context.Context) error {
	for !v.window.ShouldClose() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		if v.redraw {
			v.redraw = false
			if err := v.state.Frame(ctx, v.backend); err != nil {
				return err
			}
			v.window.SwapBuffers()
			v.window.SetTitle(v.title())
		}

		glfw.WaitEventsTimeout(0.25)
	}
	return nil
}

func newViewCmd(cfg *Config) *cobra.Command {
	var (
		fractal string
		width   int
		height  int
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a fractal interactively on the GPU",
		Long: `Opens a window rendering the fractal with OpenGL.

Drag with the left mouse button to pan and scroll to zoom around the cursor.
M and N select the Mandelbrot and Newton fractals, Tab cycles between them
and Escape quits. The window title shows the coordinate under the cursor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := *cfg
			flags := cmd.Flags()
			if flags.Changed("fractal") {
				c.Fractal = fractal
			}
			if flags.Changed("width") {
				c.Width = width
			}
			if flags.Changed("height") {
				c.Height = height
			}
			return runViewer(cmd.Context(), c)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fractal, "fractal", "", "initial fractal type (mandelbrot, newton)")
	f.IntVar(&width, "width", 0, "window width")
	f.IntVar(&height, "height", 0, "window height")

	return cmd
}

func runViewer(ctx context.Context, cfg Config) error {
	logger := loggerFromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return err
	}
	fractal, err := cfg.FractalType()
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	window, err := NewRenderWindow(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer window.Destroy()
	logger.Info("opened window", "gl", gl.GoStr(gl.GetString(gl.VERSION)))

	backend := newGLBackend()
	defer backend.delete()
	backend.resize(window.GetFramebufferSize())

	v := &viewer{
		window:  window,
		backend: backend,
		logger:  logger,
		state: renderer.NewState(
			renderer.WithLogger(logger),
			renderer.WithFractalType(fractal),
			renderer.WithScrollSensitivity(cfg.ScrollSensitivity),
		),
		scrollLinePixels: cfg.ScrollLinePixels,
		redraw:           true,
	}

	window.SetMouseButtonCallback(v.mouseButton)
	window.SetCursorPosCallback(v.cursorPos)
	window.SetScrollCallback(v.scroll)
	window.SetKeyCallback(v.key)
	window.SetFramebufferSizeCallback(v.framebufferSize)

	return v.run(ctx)
}
