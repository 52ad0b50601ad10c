package main

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// contextHints request the context the shaders are written against.
var contextHints = []struct {
	hint  glfw.Hint
	value int
}{
	{glfw.ContextVersionMajor, 4},
	{glfw.ContextVersionMinor, 6},
	{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
	{glfw.OpenGLForwardCompatible, glfw.True},
}

// RenderWindow is the viewer window. Its GL context is current on the main thread.
type RenderWindow struct {
	*glfw.Window
}

// NewRenderWindow opens a width×height window titled fractalview and loads
// the GL functions for its context. glfw must already be initialised.
func NewRenderWindow(width, height int) (*RenderWindow, error) {
	for _, h := range contextHints {
		glfw.WindowHint(h.hint, h.value)
	}

	win, err := glfw.CreateWindow(width, height, "fractalview", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create %dx%d window: %w", width, height, err)
	}

	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("load OpenGL 4.6 functions: %w", err)
	}

	// Present at most once per refresh.
	glfw.SwapInterval(1)
	return &RenderWindow{Window: win}, nil
}

// cursor returns the cursor position and the window size, both in screen coordinates.
func (w *RenderWindow) cursor() (x, y float64, width, height int) {
	x, y = w.GetCursorPos()
	width, height = w.GetSize()
	return
}
