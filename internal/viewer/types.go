package viewer

import (
	"context"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"
)

// ShadowType selects the shadow map filtering mode of a Surface.
type ShadowType int

const (
	ShadowBasic ShadowType = iota
	ShadowPCF
	ShadowPCFSoft
)

// Surface is the render target the scene is drawn into.
type Surface interface {
	SetSize(width, height int)
	Render(s Scene, c Camera)
}

type Camera interface {
	SetAspect(aspect float64)
	UpdateProjection()
}

// Node is an opaque scene-graph object: a light or a loaded model subtree.
type Node interface {
	SetScale(s vec3.T)
	SetRotation(q quaternion.T)
}

type Scene interface {
	Add(n Node)
}

// Controls moves the camera around a target point in response to user input.
type Controls interface {
	SetTarget(t vec3.T)
	Update()
}

// Mixer advances keyframe animation state by an elapsed time in seconds.
type Mixer interface {
	Update(dt float64)
}

// Model is what a Loader hands back. Mixer is nil when the asset has no clips.
type Model struct {
	Root       Node
	Mixer      Mixer
	Animations int
}

// Loader fetches and parses a scene file. Load blocks until the asset is
// ready, the load fails or ctx is done.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// Window reports the host's drawable area.
type Window interface {
	Size() (width, height int)
	PixelRatio() float64
}

// Backend builds engine objects from the rig description.
type Backend interface {
	NewSurface(o SurfaceOptions) (Surface, error)
	NewCamera(c CameraSpec) Camera
	NewScene() Scene
	NewDirectionalLight(l DirectionalLightSpec) Node
	NewAmbientLight(l AmbientLightSpec) Node
	NewControls(c Camera, s Surface) Controls
	Loader() Loader
}

// Events are the inputs the Run loop consumes. Frames carries host
// timestamps in milliseconds; closing it stops the loop.
type Events struct {
	Frames  <-chan float64
	Resizes <-chan struct{}
}
