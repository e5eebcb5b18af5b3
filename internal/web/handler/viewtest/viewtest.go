// Package viewtest provides a recording fiber.Views implementation for page handler tests.
package viewtest

import (
	"fmt"
	"io"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// Render is one recorded Render call.
type Render struct {
	Name    string
	Layouts []string
	Binding fiber.Map
}

// Views records every render and writes the template name to the response.
type Views struct {
	mu      sync.Mutex
	renders []Render
}

// New returns an empty recorder.
func New() *Views {
	return &Views{}
}

// Load implements fiber.Views.
func (v *Views) Load() error {
	return nil
}

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, binding any, layouts ...string) error {
	m, _ := binding.(fiber.Map)

	v.mu.Lock()
	v.renders = append(v.renders, Render{Name: name, Layouts: layouts, Binding: m})
	v.mu.Unlock()

	_, err := fmt.Fprint(w, name)

	return err //nolint:wrapcheck
}

// Last returns the most recent render or false if nothing was rendered.
func (v *Views) Last() (Render, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.renders) == 0 {
		return Render{}, false
	}

	return v.renders[len(v.renders)-1], true
}
