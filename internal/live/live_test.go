package live

import (
	"encoding/json"
	"testing"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/funtimes-modelviewer/internal/diagnostics"
)

func TestOrientationWireFormat(t *testing.T) {
	b, err := json.Marshal(Orientation(quaternion.T{0.1, 0.2, 0.3, 0.9}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"orientation","quat":{"i":0.1,"j":0.2,"k":0.3,"real":0.9}}`, string(b))
}

func TestReloadOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Reload("ramen"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"reload","model":"ramen"}`, string(b))
}

func TestDiagCarriesDiagnostic(t *testing.T) {
	m := Diag(diag.Removed("bike"))
	require.NotNil(t, m.Diag)
	assert.Equal(t, TypeDiag, m.Type)
	assert.Equal(t, diag.ModelRemoved, m.Diag.Code)
}
