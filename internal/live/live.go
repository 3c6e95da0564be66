// Package live defines the messages the server pushes to viewer pages.
package live

import (
	"github.com/flywave/go3d/float64/quaternion"

	diag "github.com/coreman2200/funtimes-modelviewer/internal/diagnostics"
)

const (
	TypeReload      = "reload"
	TypeOrientation = "orientation"
	TypeDiag        = "diag"
)

// Quat is the wire form of an orientation sample.
type Quat struct {
	I    float64 `json:"i"`
	J    float64 `json:"j"`
	K    float64 `json:"k"`
	Real float64 `json:"real"`
}

func QuatFrom(q quaternion.T) Quat { return Quat{I: q[0], J: q[1], K: q[2], Real: q[3]} }

func (q Quat) Quaternion() quaternion.T { return quaternion.T{q.I, q.J, q.K, q.Real} }

type Message struct {
	Type  string           `json:"type"`
	Model string           `json:"model,omitempty"`
	Quat  *Quat            `json:"quat,omitempty"`
	Diag  *diag.Diagnostic `json:"diag,omitempty"`
}

func Reload(model string) Message { return Message{Type: TypeReload, Model: model} }

func Orientation(q quaternion.T) Message {
	wq := QuatFrom(q)
	return Message{Type: TypeOrientation, Quat: &wq}
}

func Diag(d diag.Diagnostic) Message { return Message{Type: TypeDiag, Diag: &d} }
