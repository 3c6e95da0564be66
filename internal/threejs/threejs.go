// Package threejs implements the viewer backend on top of three.js for
// GopherJS builds. The page must load three.js, GLTFLoader and
// OrbitControls as globals (THREE.GLTFLoader, THREE.OrbitControls).
package threejs

import (
	"context"
	"errors"
	"fmt"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"
	"github.com/gopherjs/gopherjs/js"
	"honnef.co/go/js/dom"

	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

func three() *js.Object { return js.Global.Get("THREE") }

// Object wraps any THREE.Object3D.
type Object struct{ *js.Object }

func (o Object) SetScale(s vec3.T) { o.Get("scale").Call("set", s[0], s[1], s[2]) }

func (o Object) SetRotation(q quaternion.T) {
	o.Get("quaternion").Call("set", q[0], q[1], q[2], q[3])
}

type Scene struct{ *js.Object }

func (s Scene) Add(n viewer.Node) {
	if o, ok := n.(Object); ok {
		s.Call("add", o.Object)
	}
}

// Renderer is a THREE.WebGLRenderer attached to the document body.
type Renderer struct{ *js.Object }

func (r Renderer) SetSize(w, h int) { r.Call("setSize", w, h) }

func (r Renderer) Render(s viewer.Scene, c viewer.Camera) {
	r.Call("render", s.(Scene).Object, c.(Camera).Object)
}

type Camera struct{ *js.Object }

func (c Camera) SetAspect(a float64) { c.Set("aspect", a) }
func (c Camera) UpdateProjection()   { c.Call("updateProjectionMatrix") }

type Controls struct{ *js.Object }

func (c Controls) SetTarget(t vec3.T) { c.Get("target").Call("set", t[0], t[1], t[2]) }
func (c Controls) Update()            { c.Call("update") }

type Mixer struct{ *js.Object }

func (m Mixer) Update(dt float64) { m.Call("update", dt) }

// Backend builds three.js objects.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) NewSurface(o viewer.SurfaceOptions) (s viewer.Surface, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("create WebGL renderer: %v", e)
		}
	}()
	r := three().Get("WebGLRenderer").New(js.M{"antialias": o.Antialias})
	sm := r.Get("shadowMap")
	sm.Set("enabled", o.Shadows)
	sm.Set("type", shadowType(o.ShadowType))
	r.Call("setPixelRatio", o.PixelRatio)
	r.Call("setSize", o.Width, o.Height)
	r.Call("setClearColor", o.ClearColor, o.ClearAlpha)

	doc := dom.GetWindow().Document().(dom.HTMLDocument)
	doc.Body().Underlying().Call("appendChild", r.Get("domElement"))
	return Renderer{r}, nil
}

func shadowType(t viewer.ShadowType) *js.Object {
	switch t {
	case viewer.ShadowBasic:
		return three().Get("BasicShadowMap")
	case viewer.ShadowPCF:
		return three().Get("PCFShadowMap")
	default:
		return three().Get("PCFSoftShadowMap")
	}
}

func (b *Backend) NewCamera(c viewer.CameraSpec) viewer.Camera {
	cam := three().Get("PerspectiveCamera").New(c.FOV, c.Aspect, c.Near, c.Far)
	cam.Get("position").Call("set", c.Position[0], c.Position[1], c.Position[2])
	return Camera{cam}
}

func (b *Backend) NewScene() viewer.Scene { return Scene{three().Get("Scene").New()} }

func (b *Backend) NewDirectionalLight(l viewer.DirectionalLightSpec) viewer.Node {
	light := three().Get("DirectionalLight").New(l.Color, l.Intensity)
	light.Get("position").Call("set", l.Position[0], l.Position[1], l.Position[2])
	light.Get("target").Get("position").Call("set", l.Target[0], l.Target[1], l.Target[2])
	light.Set("castShadow", l.CastShadow)

	shadow := light.Get("shadow")
	shadow.Set("bias", l.Shadow.Bias)
	shadow.Get("mapSize").Set("width", l.Shadow.MapWidth)
	shadow.Get("mapSize").Set("height", l.Shadow.MapHeight)
	cam := shadow.Get("camera")
	cam.Set("near", l.Shadow.Near)
	cam.Set("far", l.Shadow.Far)
	cam.Set("left", l.Shadow.Left)
	cam.Set("right", l.Shadow.Right)
	cam.Set("top", l.Shadow.Top)
	cam.Set("bottom", l.Shadow.Bottom)
	return Object{light}
}

func (b *Backend) NewAmbientLight(l viewer.AmbientLightSpec) viewer.Node {
	return Object{three().Get("AmbientLight").New(l.Color, l.Intensity)}
}

func (b *Backend) NewControls(c viewer.Camera, s viewer.Surface) viewer.Controls {
	ctl := three().Get("OrbitControls").New(c.(Camera).Object, s.(Renderer).Get("domElement"))
	return Controls{ctl}
}

func (b *Backend) Loader() viewer.Loader { return Loader{} }

// Loader wraps THREE.GLTFLoader. Load must be called from a goroutine, not
// from a JS callback.
type Loader struct{}

func (Loader) Load(ctx context.Context, path string) (*viewer.Model, error) {
	type result struct {
		gltf *js.Object
		err  error
	}
	ch := make(chan result, 1)
	deliver := func(r result) {
		select {
		case ch <- r:
		default:
		}
	}
	l := three().Get("GLTFLoader").New()
	l.Call("load", path,
		func(gltf *js.Object) { deliver(result{gltf: gltf}) },
		nil,
		func(e *js.Object) { deliver(result{err: jsError(e)}) },
	)
	var r result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.err != nil {
		return nil, fmt.Errorf("load %s: %w", path, r.err)
	}

	scene := r.gltf.Get("scene")
	clips := r.gltf.Get("animations")
	m := &viewer.Model{Root: Object{scene}}
	if clips != js.Undefined && clips != nil {
		m.Animations = clips.Length()
	}
	if m.Animations > 0 {
		mixer := three().Get("AnimationMixer").New(scene)
		for i := 0; i < m.Animations; i++ {
			mixer.Call("clipAction", clips.Index(i)).Call("play")
		}
		m.Mixer = Mixer{mixer}
	}
	return m, nil
}

func jsError(e *js.Object) error {
	if e == nil || e == js.Undefined {
		return errors.New("unknown loader error")
	}
	if msg := e.Get("message"); msg != js.Undefined {
		return errors.New(msg.String())
	}
	return errors.New(e.String())
}
