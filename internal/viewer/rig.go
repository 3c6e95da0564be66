package viewer

import "github.com/flywave/go3d/float64/vec3"

type SurfaceOptions struct {
	Antialias  bool
	PixelRatio float64
	Width      int
	Height     int
	ClearColor uint32
	ClearAlpha float64
	Shadows    bool
	ShadowType ShadowType
}

type CameraSpec struct {
	FOV      float64 // degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position vec3.T
}

// ShadowSpec describes the orthographic shadow camera of a directional light.
type ShadowSpec struct {
	MapWidth  int
	MapHeight int
	Bias      float64
	Near      float64
	Far       float64
	Left      float64
	Right     float64
	Top       float64
	Bottom    float64
}

type DirectionalLightSpec struct {
	Color      uint32
	Intensity  float64
	Position   vec3.T
	Target     vec3.T
	CastShadow bool
	Shadow     ShadowSpec
}

type AmbientLightSpec struct {
	Color     uint32
	Intensity float64
}

// Rig is the fixed surface, camera, lighting and controls setup of a viewer.
// Surface Width/Height/PixelRatio are filled from the Window at New.
type Rig struct {
	Surface        SurfaceOptions
	Camera         CameraSpec
	Lights         []DirectionalLightSpec
	Ambient        AmbientLightSpec
	ControlsTarget vec3.T
}

func defaultShadow() ShadowSpec {
	return ShadowSpec{
		MapWidth:  2048,
		MapHeight: 2048,
		Bias:      -0.001,
		Near:      0.5,
		Far:       500.0,
		Left:      100,
		Right:     -100,
		Top:       100,
		Bottom:    -100,
	}
}

// DefaultRig returns the stock viewer setup: a 60° camera, two mirrored
// shadow-casting sun lights and a half-strength ambient fill.
func DefaultRig() Rig {
	return Rig{
		Surface: SurfaceOptions{
			Antialias:  true,
			ClearColor: 0xa6a6a6,
			ClearAlpha: 1,
			Shadows:    true,
			ShadowType: ShadowPCFSoft,
		},
		Camera: CameraSpec{
			FOV:      60,
			Aspect:   1920.0 / 1080.0,
			Near:     1.0,
			Far:      1000.0,
			Position: vec3.T{75, 20, 0},
		},
		Lights: []DirectionalLightSpec{
			{
				Color:      0xffffff,
				Intensity:  1.0,
				Position:   vec3.T{10, -10, 10},
				CastShadow: true,
				Shadow:     defaultShadow(),
			},
			{
				Color:      0xffffff,
				Intensity:  1.0,
				Position:   vec3.T{10, 10, -10},
				CastShadow: true,
				Shadow:     defaultShadow(),
			},
		},
		Ambient:        AmbientLightSpec{Color: 0xffffff, Intensity: 0.5},
		ControlsTarget: vec3.T{0, 20, 0},
	}
}
