package viewer

import "github.com/flywave/go3d/float64/vec3"

// DefaultScale is applied to models missing from a ScaleTable.
const DefaultScale = 10.0

// ScaleTable maps a model identifier to the uniform scale that brings the
// asset to scene units. Lookups are exact and case-sensitive.
type ScaleTable map[string]float64

// Scales holds the factors for the bundled models.
var Scales = ScaleTable{
	"ramen":      120,
	"truck":      10,
	"fridge":     30,
	"bike":       0.5,
	"backpack":   50,
	"gramophone": 50,
	"axe":        60,
	"penguin":    5,
	"chair":      40,
	"plate":      140,
	"guarana":    1,
	"knight":     30,
}

// Factor returns the scale for name and whether the table knows it.
func (t ScaleTable) Factor(name string) (float64, bool) {
	f, ok := t[name]
	if !ok {
		return DefaultScale, false
	}
	return f, true
}

// Lookup returns the uniform scale triple for name.
func (t ScaleTable) Lookup(name string) vec3.T {
	f, _ := t.Factor(name)
	return vec3.T{f, f, f}
}
