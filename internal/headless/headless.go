// Package headless is an in-memory viewer backend. It keeps the scene as
// plain structs so the viewer can run without a browser, e.g. to check
// how large a model ends up once scaled.
package headless

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"

	"github.com/coreman2200/funtimes-modelviewer/internal/catalog"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

type Node struct {
	Name     string
	Scale    vec3.T
	Rotation quaternion.T
	Info     *catalog.Info // nil for lights
}

func newNode(name string) *Node {
	return &Node{Name: name, Scale: vec3.T{1, 1, 1}, Rotation: quaternion.T{0, 0, 0, 1}}
}

func (n *Node) SetScale(s vec3.T)          { n.Scale = s }
func (n *Node) SetRotation(q quaternion.T) { n.Rotation = q }

// Bounds returns the model's position bounds with the node scale applied.
func (n *Node) Bounds() (min, max vec3.T) {
	if n.Info == nil {
		return
	}
	for k := 0; k < 3; k++ {
		min[k] = n.Info.Min[k] * n.Scale[k]
		max[k] = n.Info.Max[k] * n.Scale[k]
	}
	return
}

type Scene struct{ Children []viewer.Node }

func (s *Scene) Add(n viewer.Node) { s.Children = append(s.Children, n) }

type Surface struct {
	Options       viewer.SurfaceOptions
	Width, Height int
	Renders       int
}

func (s *Surface) SetSize(w, h int)                      { s.Width, s.Height = w, h }
func (s *Surface) Render(_ viewer.Scene, _ viewer.Camera) { s.Renders++ }

type Camera struct {
	Spec        viewer.CameraSpec
	Aspect      float64
	Projections int
}

func (c *Camera) SetAspect(a float64) { c.Aspect = a }
func (c *Camera) UpdateProjection()   { c.Projections++ }

type Controls struct {
	Target  vec3.T
	Updates int
}

func (c *Controls) SetTarget(t vec3.T) { c.Target = t }
func (c *Controls) Update()            { c.Updates++ }

// Mixer only accumulates the time it was advanced by.
type Mixer struct {
	Clips int
	Time  float64
}

func (m *Mixer) Update(dt float64) { m.Time += dt }

// Loader resolves viewer paths on the local filesystem and parses them
// with catalog.Inspect.
type Loader struct{}

func (Loader) Load(ctx context.Context, path string) (*viewer.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := url.PathUnescape(path)
	if err != nil {
		return nil, fmt.Errorf("bad model path %q: %w", path, err)
	}
	info, err := catalog.Inspect(filepath.FromSlash(p))
	if err != nil {
		return nil, err
	}
	root := newNode(filepath.Base(filepath.Dir(p)))
	root.Info = info
	m := &viewer.Model{Root: root, Animations: info.Animations}
	if info.Animations > 0 {
		m.Mixer = &Mixer{Clips: info.Animations}
	}
	return m, nil
}

// Backend records everything the viewer builds.
type Backend struct {
	Surface  *Surface
	Camera   *Camera
	Scene    *Scene
	Controls *Controls
	Lights   []viewer.DirectionalLightSpec
	Ambient  []viewer.AmbientLightSpec
}

func New() *Backend { return &Backend{} }

func (b *Backend) NewSurface(o viewer.SurfaceOptions) (viewer.Surface, error) {
	b.Surface = &Surface{Options: o, Width: o.Width, Height: o.Height}
	return b.Surface, nil
}

func (b *Backend) NewCamera(c viewer.CameraSpec) viewer.Camera {
	b.Camera = &Camera{Spec: c, Aspect: c.Aspect}
	return b.Camera
}

func (b *Backend) NewScene() viewer.Scene {
	b.Scene = &Scene{}
	return b.Scene
}

func (b *Backend) NewDirectionalLight(l viewer.DirectionalLightSpec) viewer.Node {
	b.Lights = append(b.Lights, l)
	return newNode("directional")
}

func (b *Backend) NewAmbientLight(l viewer.AmbientLightSpec) viewer.Node {
	b.Ambient = append(b.Ambient, l)
	return newNode("ambient")
}

func (b *Backend) NewControls(viewer.Camera, viewer.Surface) viewer.Controls {
	b.Controls = &Controls{}
	return b.Controls
}

func (b *Backend) Loader() viewer.Loader { return Loader{} }

// Window is a fixed-size host window.
type Window struct {
	Width, Height int
	Ratio         float64
}

func (w Window) Size() (int, int)    { return w.Width, w.Height }
func (w Window) PixelRatio() float64 { return w.Ratio }

// Frames ticks at fps and sends wall-clock timestamps in milliseconds.
// The channel closes after n frames (n <= 0 means never) or when ctx is done.
func Frames(ctx context.Context, fps, n int) <-chan float64 {
	if fps <= 0 {
		fps = 60
	}
	out := make(chan float64)
	go func() {
		defer close(out)
		start := time.Now()
		tick := time.NewTicker(time.Second / time.Duration(fps))
		defer tick.Stop()
		for i := 0; n <= 0 || i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case now := <-tick.C:
				select {
				case out <- float64(now.Sub(start).Microseconds()) / 1000.0:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
