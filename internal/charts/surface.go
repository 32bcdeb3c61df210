package charts

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSurfaceInUse is returned when a handle is bound to a surface that already owns a live one
var ErrSurfaceInUse = errors.New("surface already has a live chart handle")

// Surface is a fixed-size drawing surface that can own at most one live chart handle.
// It mirrors a canvas element: it is attached and detached by the page lifecycle.
type Surface struct {
	ID     string
	Width  int
	Height int

	mu       sync.Mutex
	attached bool
	live     int
}

// NewSurface creates a detached surface
func NewSurface(id string, width, height int) *Surface {
	return &Surface{ID: id, Width: width, Height: height}
}

// Attach marks the surface as mounted
func (s *Surface) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = true
}

// Detach marks the surface as unmounted
func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = false
}

// Attached reports whether the surface is mounted
func (s *Surface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// LiveHandles is the number of undestroyed handles bound to the surface (0 or 1)
func (s *Surface) LiveHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

func (s *Surface) bind() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live > 0 {
		return ErrSurfaceInUse
	}
	s.live++
	return nil
}

func (s *Surface) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live > 0 {
		s.live--
	}
}

// ChartHandle is a live rendering-backend object bound to one surface.
// It must be destroyed before another handle can be bound to the same surface.
type ChartHandle interface {
	ID() string
	Kind() string
	Surface() *Surface
	ContentType() string
	Content() []byte
	Destroyed() bool
	Destroy() error
}

// handle carries the binding bookkeeping shared by every backend
type handle struct {
	id          string
	kind        string
	surface     *Surface
	contentType string
	content     []byte
	destroyed   bool
}

func bindHandle(surface *Surface, kind, contentType string, content []byte) (*handle, error) {
	if err := surface.bind(); err != nil {
		return nil, err
	}
	return &handle{
		id:          uuid.NewString(),
		kind:        kind,
		surface:     surface,
		contentType: contentType,
		content:     content,
	}, nil
}

func (h *handle) ID() string          { return h.id }
func (h *handle) Kind() string        { return h.kind }
func (h *handle) Surface() *Surface   { return h.surface }
func (h *handle) ContentType() string { return h.contentType }
func (h *handle) Destroyed() bool     { return h.destroyed }

func (h *handle) Content() []byte {
	if h.destroyed {
		return nil
	}
	return h.content
}

// Destroy releases the surface binding. Destroying twice is a no-op.
func (h *handle) Destroy() error {
	if h.destroyed {
		return nil
	}
	h.destroyed = true
	h.content = nil
	h.surface.release()
	return nil
}

// Container is a fixed-id mount point that holds scene graphs
type Container struct {
	ID string

	mu       sync.Mutex
	attached bool
	children []*SceneGraph
}

// NewContainer creates a detached container
func NewContainer(id string) *Container {
	return &Container{ID: id}
}

// Attach marks the container as mounted
func (c *Container) Attach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = true
}

// Detach marks the container as unmounted and drops its children
func (c *Container) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = false
	c.children = nil
}

// Attached reports whether the container is mounted
func (c *Container) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// RemoveSVG removes every scene graph under the container and returns how many were removed
func (c *Container) RemoveSVG() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.children)
	c.children = nil
	return n
}

// Append adds a scene graph under the container
func (c *Container) Append(g *SceneGraph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, g)
}

// Children returns the scene graphs currently under the container
func (c *Container) Children() []*SceneGraph {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*SceneGraph, len(c.children))
	copy(out, c.children)
	return out
}

// SVG returns the current scene graph, or nil when nothing has been drawn
func (c *Container) SVG() *SceneGraph {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.children) == 0 {
		return nil
	}
	return c.children[len(c.children)-1]
}
