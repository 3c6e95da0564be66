package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/rs/zerolog"
)

// ErrLoadStarted is returned by Load after the first call.
var ErrLoadStarted = errors.New("model load already started")

type Options struct {
	Rig       Rig
	Scales    ScaleTable
	ModelsDir string
	Log       zerolog.Logger
}

// DefaultOptions returns the stock rig and scale table with logging off.
func DefaultOptions() Options {
	return Options{
		Rig:       DefaultRig(),
		Scales:    Scales,
		ModelsDir: DefaultModelsDir,
		Log:       zerolog.Nop(),
	}
}

type loadResult struct {
	name    string
	path    string
	animate bool
	model   *Model
	err     error
}

// Viewer owns the scene for one page session. Only the goroutine running
// Run (or calling Frame/Resize directly) may touch the scene graph; loads
// and orientation updates reach it through channels.
type Viewer struct {
	Surface  Surface
	Scene    Scene
	Camera   Camera
	Controls Controls

	win    Window
	loader Loader
	scales ScaleTable
	dir    string
	log    zerolog.Logger

	mixers  []Mixer
	prevT   float64
	hasPrev bool

	loading atomic.Bool
	loaded  chan loadResult
	settled bool // load result applied, whether it succeeded or not
	model   *Model

	orient chan quaternion.T
	rot    *quaternion.T

	// Last holds counters of the frame loop.
	Last struct {
		Frames   uint64
		ElapsedS float64
	}
}

// New configures the surface, camera, lights and controls described by
// o.Rig. The surface is sized to w.
func New(b Backend, w Window, o Options) (*Viewer, error) {
	if b == nil || w == nil {
		return nil, errors.New("backend and window are required")
	}
	rig := o.Rig
	width, height := w.Size()
	so := rig.Surface
	so.PixelRatio = w.PixelRatio()
	so.Width, so.Height = width, height

	surf, err := b.NewSurface(so)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	cam := b.NewCamera(rig.Camera)
	scene := b.NewScene()
	for _, l := range rig.Lights {
		scene.Add(b.NewDirectionalLight(l))
	}
	scene.Add(b.NewAmbientLight(rig.Ambient))

	ctl := b.NewControls(cam, surf)
	ctl.SetTarget(rig.ControlsTarget)
	ctl.Update()

	scales := o.Scales
	if scales == nil {
		scales = Scales
	}
	dir := o.ModelsDir
	if dir == "" {
		dir = DefaultModelsDir
	}
	return &Viewer{
		Surface:  surf,
		Scene:    scene,
		Camera:   cam,
		Controls: ctl,
		win:      w,
		loader:   b.Loader(),
		scales:   scales,
		dir:      dir,
		log:      o.Log,
		loaded:   make(chan loadResult, 1),
		orient:   make(chan quaternion.T, 1),
	}, nil
}

// Load starts the single model load for sel. The result is applied by the
// loop goroutine once it arrives. Any later call returns ErrLoadStarted.
func (v *Viewer) Load(ctx context.Context, sel Selection) error {
	if !v.loading.CompareAndSwap(false, true) {
		return ErrLoadStarted
	}
	path := sel.Path(v.dir)
	v.log.Info().Str("model", sel.Model).Str("path", path).Msg("loading model")
	go func() {
		m, err := v.loader.Load(ctx, path)
		v.loaded <- loadResult{name: sel.Model, path: path, animate: sel.Animate, model: m, err: err}
	}()
	return nil
}

// AwaitModel blocks until the pending load result has been applied or ctx
// is done. It must not run concurrently with Run. A failed load still
// returns nil; Model reports whether anything was inserted.
func (v *Viewer) AwaitModel(ctx context.Context) error {
	if !v.loading.Load() {
		return errors.New("no model load started")
	}
	if v.settled {
		return nil
	}
	select {
	case res := <-v.loaded:
		v.insert(res)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Resize matches camera aspect and surface size to the window.
func (v *Viewer) Resize() {
	w, h := v.win.Size()
	if h > 0 {
		v.Camera.SetAspect(float64(w) / float64(h))
	}
	v.Camera.UpdateProjection()
	v.Surface.SetSize(w, h)
}

// Frame renders one frame at host time t (milliseconds). The first frame
// only sets the baseline; later frames advance mixers by the time since
// the previous one.
func (v *Viewer) Frame(t float64) {
	v.drain()
	v.Surface.Render(v.Scene, v.Camera)
	v.Last.Frames++
	if !v.hasPrev {
		v.prevT = t
		v.hasPrev = true
		return
	}
	v.step(t - v.prevT)
	v.prevT = t
}

func (v *Viewer) step(elapsedMS float64) {
	dt := elapsedMS * 0.001
	for _, m := range v.mixers {
		m.Update(dt)
	}
	v.Last.ElapsedS += dt
}

// Run drives the viewer until ctx is done or ev.Frames is closed.
func (v *Viewer) Run(ctx context.Context, ev Events) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-ev.Frames:
			if !ok {
				return nil
			}
			v.Frame(t)
		case <-ev.Resizes:
			v.Resize()
		case res := <-v.loaded:
			v.insert(res)
		case q := <-v.orient:
			v.applyOrientation(q)
		}
	}
}

// Orient queues a rotation for the model. Only the latest value is kept;
// it is applied on the loop goroutine, and to the model on insertion if it
// arrives first.
func (v *Viewer) Orient(q quaternion.T) {
	for {
		select {
		case v.orient <- q:
			return
		default:
			select {
			case <-v.orient:
			default:
			}
		}
	}
}

// AddMixer registers m to be advanced every frame.
func (v *Viewer) AddMixer(m Mixer) {
	if m == nil {
		return
	}
	v.mixers = append(v.mixers, m)
}

func (v *Viewer) Mixers() int { return len(v.mixers) }

// Model returns the inserted model, or nil before the load completes.
func (v *Viewer) Model() *Model { return v.model }

func (v *Viewer) drain() {
	for {
		select {
		case res := <-v.loaded:
			v.insert(res)
		case q := <-v.orient:
			v.applyOrientation(q)
		default:
			return
		}
	}
}

func (v *Viewer) insert(res loadResult) {
	v.settled = true
	if res.err != nil {
		v.log.Warn().Err(res.err).Str("path", res.path).Msg("model load failed")
		return
	}
	if res.model == nil || res.model.Root == nil {
		v.log.Warn().Str("path", res.path).Msg("loader returned no scene")
		return
	}
	scale := v.scales.Lookup(res.name)
	res.model.Root.SetScale(scale)
	if v.rot != nil {
		res.model.Root.SetRotation(*v.rot)
	}
	v.Scene.Add(res.model.Root)
	v.model = res.model
	if res.animate {
		v.AddMixer(res.model.Mixer)
	}
	v.log.Info().
		Str("model", res.name).
		Float64("scale", scale[0]).
		Int("animations", res.model.Animations).
		Msg("model added")
}

func (v *Viewer) applyOrientation(q quaternion.T) {
	v.rot = &q
	if v.model != nil {
		v.model.Root.SetRotation(q)
	}
}
