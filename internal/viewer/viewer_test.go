package viewer

import (
	"context"
	"testing"
	"time"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViewer(t *testing.T) (*Viewer, *fakeBackend, *fakeWindow) {
	t.Helper()
	b := newFakeBackend()
	w := &fakeWindow{w: 800, h: 600, ratio: 2}
	v, err := New(b, w, DefaultOptions())
	require.NoError(t, err)
	return v, b, w
}

// settle waits for the pending load result and applies it on the caller's
// goroutine, standing in for the loop.
func settle(t *testing.T, v *Viewer) {
	t.Helper()
	require.Eventually(t, func() bool { return len(v.loaded) == 1 }, time.Second, time.Millisecond)
	v.Frame(0)
}

func TestNewConfiguresRig(t *testing.T) {
	_, b, _ := newTestViewer(t)

	o := b.surface.opts
	assert.True(t, o.Antialias)
	assert.True(t, o.Shadows)
	assert.Equal(t, ShadowPCFSoft, o.ShadowType)
	assert.Equal(t, uint32(0xa6a6a6), o.ClearColor)
	assert.Equal(t, 2.0, o.PixelRatio)
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 600, o.Height)

	c := b.camera.spec
	assert.Equal(t, 60.0, c.FOV)
	assert.InDelta(t, 1920.0/1080.0, c.Aspect, 1e-12)
	assert.Equal(t, 1.0, c.Near)
	assert.Equal(t, 1000.0, c.Far)
	assert.Equal(t, vec3.T{75, 20, 0}, c.Position)

	require.Len(t, b.lights, 2)
	assert.Equal(t, vec3.T{10, -10, 10}, b.lights[0].Position)
	assert.Equal(t, vec3.T{10, 10, -10}, b.lights[1].Position)
	for _, l := range b.lights {
		assert.True(t, l.CastShadow)
		assert.Equal(t, 2048, l.Shadow.MapWidth)
		assert.Equal(t, 2048, l.Shadow.MapHeight)
		assert.Equal(t, 0.5, l.Shadow.Near)
		assert.Equal(t, 500.0, l.Shadow.Far)
		assert.Equal(t, 100.0, l.Shadow.Top)
		assert.Equal(t, -100.0, l.Shadow.Bottom)
	}
	require.Len(t, b.ambient, 1)
	assert.Equal(t, 0.5, b.ambient[0].Intensity)

	assert.Equal(t, 3, b.scene.count())
	assert.Equal(t, vec3.T{0, 20, 0}, b.controls.target)
	assert.Equal(t, 1, b.controls.updates)
}

func TestNewSurfaceError(t *testing.T) {
	b := newFakeBackend()
	b.surfaceErr = errBoom
	_, err := New(b, &fakeWindow{w: 1, h: 1, ratio: 1}, DefaultOptions())
	require.ErrorIs(t, err, errBoom)
}

func TestResize(t *testing.T) {
	v, b, w := newTestViewer(t)

	w.w, w.h = 1024, 512
	v.Resize()
	assert.InDelta(t, 2.0, b.camera.aspect, 1e-12)
	assert.Equal(t, 1, b.camera.projections)
	assert.Equal(t, 1024, b.surface.w)
	assert.Equal(t, 512, b.surface.h)

	w.w, w.h = 300, 400
	v.Resize()
	assert.InDelta(t, 0.75, b.camera.aspect, 1e-12)
	assert.Equal(t, 300, b.surface.w)
	assert.Equal(t, 400, b.surface.h)
}

func TestResizeZeroHeightKeepsAspect(t *testing.T) {
	v, b, w := newTestViewer(t)
	v.Resize()
	before := b.camera.aspect

	w.w, w.h = 640, 0
	v.Resize()
	assert.Equal(t, before, b.camera.aspect)
	assert.Equal(t, 640, b.surface.w)
	assert.Equal(t, 0, b.surface.h)
}

func TestFrameElapsed(t *testing.T) {
	v, b, _ := newTestViewer(t)
	m := &fakeMixer{}
	v.AddMixer(m)

	v.Frame(1000)
	assert.Empty(t, m.steps, "first frame only sets the baseline")
	assert.Equal(t, 1, b.surface.renders)

	v.Frame(1016)
	v.Frame(1050)
	require.Len(t, m.steps, 2)
	assert.InDelta(t, 0.016, m.steps[0], 1e-9)
	assert.InDelta(t, 0.034, m.steps[1], 1e-9)
	assert.Equal(t, 3, b.surface.renders)
	assert.Equal(t, uint64(3), v.Last.Frames)
	assert.InDelta(t, 0.050, v.Last.ElapsedS, 1e-9)
}

func TestLoadAppliesTableScale(t *testing.T) {
	for name, f := range Scales {
		t.Run(name, func(t *testing.T) {
			v, b, _ := newTestViewer(t)
			require.NoError(t, v.Load(context.Background(), Selection{Model: name, Present: true, Format: "gltf"}))
			settle(t, v)

			node := b.loader.model.Root.(*fakeNode)
			assert.Equal(t, []vec3.T{{f, f, f}}, node.scales)
			assert.Equal(t, []string{"./models/" + name + "/scene.gltf"}, b.loader.requests())
			assert.Equal(t, 4, b.scene.count())
			assert.Same(t, b.loader.model, v.Model())
		})
	}
}

func TestLoadDefaultScale(t *testing.T) {
	cases := map[string]Selection{
		"unknown":    {Model: "spaceship", Present: true},
		"wrong case": {Model: "Ramen", Present: true},
		"missing":    {},
	}
	for name, sel := range cases {
		t.Run(name, func(t *testing.T) {
			v, b, _ := newTestViewer(t)
			require.NoError(t, v.Load(context.Background(), sel))
			settle(t, v)

			node := b.loader.model.Root.(*fakeNode)
			assert.Equal(t, []vec3.T{{10, 10, 10}}, node.scales)
		})
	}
}

func TestLoadOnlyOnce(t *testing.T) {
	v, b, _ := newTestViewer(t)
	sel := Selection{Model: "axe", Present: true}

	require.NoError(t, v.Load(context.Background(), sel))
	assert.ErrorIs(t, v.Load(context.Background(), sel), ErrLoadStarted)
	for i := 0; i < 5; i++ {
		v.Resize()
	}
	settle(t, v)

	assert.Len(t, b.loader.requests(), 1)
	assert.Len(t, b.loader.model.Root.(*fakeNode).scales, 1)
}

func TestLoadFailureIsSwallowed(t *testing.T) {
	v, b, _ := newTestViewer(t)
	b.loader.err = errBoom

	require.NoError(t, v.Load(context.Background(), Selection{Model: "truck", Present: true}))
	settle(t, v)

	assert.Equal(t, 3, b.scene.count())
	assert.Nil(t, v.Model())
	assert.Empty(t, b.loader.model.Root.(*fakeNode).scales)
}

func TestLoadRegistersMixerWhenAnimated(t *testing.T) {
	v, b, _ := newTestViewer(t)
	m := &fakeMixer{}
	b.loader.model.Mixer = m
	b.loader.model.Animations = 2

	require.NoError(t, v.Load(context.Background(), Selection{Model: "knight", Present: true, Animate: true}))
	settle(t, v)
	assert.Equal(t, 1, v.Mixers())

	v.Frame(100)
	require.Len(t, m.steps, 1)
	assert.InDelta(t, 0.1, m.steps[0], 1e-9)
}

func TestLoadIgnoresMixerWhenNotAnimated(t *testing.T) {
	v, b, _ := newTestViewer(t)
	b.loader.model.Mixer = &fakeMixer{}

	require.NoError(t, v.Load(context.Background(), Selection{Model: "knight", Present: true}))
	settle(t, v)
	assert.Equal(t, 0, v.Mixers())
}

func TestOrientBeforeAndAfterLoad(t *testing.T) {
	v, b, _ := newTestViewer(t)
	b.loader.gate = make(chan struct{})
	node := b.loader.model.Root.(*fakeNode)

	early := quaternion.T{0, 0, 0, 1}
	v.Orient(quaternion.T{1, 0, 0, 0})
	v.Orient(early)
	v.Frame(0)
	assert.Empty(t, node.rotations)

	require.NoError(t, v.Load(context.Background(), Selection{Model: "bike", Present: true}))
	close(b.loader.gate)
	settle(t, v)
	assert.Equal(t, []quaternion.T{early}, node.rotations)

	late := quaternion.T{0, 1, 0, 0}
	v.Orient(late)
	v.Frame(16)
	assert.Equal(t, []quaternion.T{early, late}, node.rotations)
}

func TestRunHandlesEventsUntilCancel(t *testing.T) {
	v, b, w := newTestViewer(t)
	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan float64)
	resizes := make(chan struct{})
	done := make(chan error, 1)

	require.NoError(t, v.Load(ctx, Selection{Model: "plate", Present: true}))
	go func() { done <- v.Run(ctx, Events{Frames: frames, Resizes: resizes}) }()

	require.Eventually(t, func() bool { return b.scene.count() == 4 }, time.Second, time.Millisecond)
	w.w, w.h = 400, 200
	resizes <- struct{}{}
	frames <- 10
	frames <- 20
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, 400, b.surface.w)
	assert.InDelta(t, 2.0, b.camera.aspect, 1e-12)
	assert.Equal(t, 2, b.surface.renders)
	assert.Equal(t, []vec3.T{{140, 140, 140}}, b.loader.model.Root.(*fakeNode).scales)
}

func TestRunStopsWhenFramesClose(t *testing.T) {
	v, _, _ := newTestViewer(t)
	frames := make(chan float64)
	close(frames)
	assert.NoError(t, v.Run(context.Background(), Events{Frames: frames}))
}

func TestAwaitModel(t *testing.T) {
	v, b, _ := newTestViewer(t)
	require.Error(t, v.AwaitModel(context.Background()))

	require.NoError(t, v.Load(context.Background(), Selection{Model: "chair", Present: true}))
	require.NoError(t, v.AwaitModel(context.Background()))
	assert.Equal(t, []vec3.T{{40, 40, 40}}, b.loader.model.Root.(*fakeNode).scales)
	require.NoError(t, v.AwaitModel(context.Background()))
}

func TestAwaitModelAfterFailedLoad(t *testing.T) {
	v, b, _ := newTestViewer(t)
	b.loader.err = errBoom

	require.NoError(t, v.Load(context.Background(), Selection{Model: "truck", Present: true}))
	require.NoError(t, v.AwaitModel(context.Background()))
	assert.Nil(t, v.Model())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.NoError(t, v.AwaitModel(ctx))
}

func TestAwaitModelTimeout(t *testing.T) {
	v, b, _ := newTestViewer(t)
	b.loader.gate = make(chan struct{})
	defer close(b.loader.gate)

	require.NoError(t, v.Load(context.Background(), Selection{Model: "chair", Present: true}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, v.AwaitModel(ctx), context.DeadlineExceeded)
}
