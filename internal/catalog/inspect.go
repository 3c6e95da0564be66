package catalog

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/float64/vec3"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Info summarises a glTF document.
type Info struct {
	Generator  string `json:"generator,omitempty"`
	Version    string `json:"version"`
	Scenes     int    `json:"scenes"`
	Nodes      int    `json:"nodes"`
	Meshes     int    `json:"meshes"`
	Materials  int    `json:"materials"`
	Animations int    `json:"animations"`
	Vertices   int    `json:"vertices"`
	Min        vec3.T `json:"min"`
	Max        vec3.T `json:"max"`
}

// Size is the extent of the position bounds.
func (i *Info) Size() vec3.T {
	if i.Vertices == 0 {
		return vec3.T{}
	}
	return vec3.T{i.Max[0] - i.Min[0], i.Max[1] - i.Min[1], i.Max[2] - i.Min[2]}
}

// Inspect opens a .gltf or .glb file and collects its stats. Bounds cover
// the raw POSITION data of every primitive, without node transforms.
func Inspect(path string) (*Info, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info := &Info{
		Generator:  doc.Asset.Generator,
		Version:    doc.Asset.Version,
		Scenes:     len(doc.Scenes),
		Nodes:      len(doc.Nodes),
		Meshes:     len(doc.Meshes),
		Materials:  len(doc.Materials),
		Animations: len(doc.Animations),
		Min:        vec3.T{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max:        vec3.T{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, m := range doc.Meshes {
		for _, p := range m.Primitives {
			idx, ok := p.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			pos, err := modeler.ReadPosition(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, fmt.Errorf("read positions of mesh %q: %w", m.Name, err)
			}
			for _, v := range pos {
				for k := 0; k < 3; k++ {
					f := float64(v[k])
					info.Min[k] = math.Min(info.Min[k], f)
					info.Max[k] = math.Max(info.Max[k], f)
				}
			}
			info.Vertices += len(pos)
		}
	}
	if info.Vertices == 0 {
		info.Min, info.Max = vec3.T{}, vec3.T{}
	}
	return info, nil
}
