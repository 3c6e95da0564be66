package viewer

import (
	"context"
	"errors"
	"sync"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"
)

// fakeNode records the transforms applied to it.
type fakeNode struct {
	name      string
	scales    []vec3.T
	rotations []quaternion.T
}

func (n *fakeNode) SetScale(s vec3.T)          { n.scales = append(n.scales, s) }
func (n *fakeNode) SetRotation(q quaternion.T) { n.rotations = append(n.rotations, q) }

type fakeScene struct {
	mu    sync.Mutex
	nodes []Node
}

func (s *fakeScene) Add(n Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, n)
}

func (s *fakeScene) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

type fakeSurface struct {
	opts    SurfaceOptions
	w, h    int
	renders int
}

func (s *fakeSurface) SetSize(w, h int)          { s.w, s.h = w, h }
func (s *fakeSurface) Render(_ Scene, _ Camera) { s.renders++ }

type fakeCamera struct {
	spec        CameraSpec
	aspect      float64
	projections int
}

func (c *fakeCamera) SetAspect(a float64) { c.aspect = a }
func (c *fakeCamera) UpdateProjection()   { c.projections++ }

type fakeControls struct {
	target  vec3.T
	updates int
}

func (c *fakeControls) SetTarget(t vec3.T) { c.target = t }
func (c *fakeControls) Update()            { c.updates++ }

type fakeMixer struct{ steps []float64 }

func (m *fakeMixer) Update(dt float64) { m.steps = append(m.steps, dt) }

// fakeLoader returns model (or err) for every path and counts requests.
type fakeLoader struct {
	mu    sync.Mutex
	paths []string
	model *Model
	err   error
	gate  chan struct{}
}

func (l *fakeLoader) Load(ctx context.Context, path string) (*Model, error) {
	l.mu.Lock()
	l.paths = append(l.paths, path)
	l.mu.Unlock()
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return l.model, l.err
}

func (l *fakeLoader) requests() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

type fakeBackend struct {
	surface    *fakeSurface
	camera     *fakeCamera
	scene      *fakeScene
	controls   *fakeControls
	loader     *fakeLoader
	lights     []DirectionalLightSpec
	ambient    []AmbientLightSpec
	surfaceErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		scene:    &fakeScene{},
		controls: &fakeControls{},
		loader:   &fakeLoader{model: &Model{Root: &fakeNode{name: "model"}}},
	}
}

func (b *fakeBackend) NewSurface(o SurfaceOptions) (Surface, error) {
	if b.surfaceErr != nil {
		return nil, b.surfaceErr
	}
	b.surface = &fakeSurface{opts: o, w: o.Width, h: o.Height}
	return b.surface, nil
}

func (b *fakeBackend) NewCamera(c CameraSpec) Camera {
	b.camera = &fakeCamera{spec: c, aspect: c.Aspect}
	return b.camera
}

func (b *fakeBackend) NewScene() Scene { return b.scene }

func (b *fakeBackend) NewDirectionalLight(l DirectionalLightSpec) Node {
	b.lights = append(b.lights, l)
	return &fakeNode{name: "sun"}
}

func (b *fakeBackend) NewAmbientLight(l AmbientLightSpec) Node {
	b.ambient = append(b.ambient, l)
	return &fakeNode{name: "ambient"}
}

func (b *fakeBackend) NewControls(Camera, Surface) Controls { return b.controls }
func (b *fakeBackend) Loader() Loader                       { return b.loader }

type fakeWindow struct {
	w, h  int
	ratio float64
}

func (w *fakeWindow) Size() (int, int)    { return w.w, w.h }
func (w *fakeWindow) PixelRatio() float64 { return w.ratio }

var errBoom = errors.New("boom")
