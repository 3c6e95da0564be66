package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

const (
	ModelOK      = "MODEL.OK"
	ModelInvalid = "MODEL.INVALID"
	ModelRemoved = "MODEL.REMOVED"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Invalid reports a scene file that failed to parse.
func Invalid(model, path string, err error) Diagnostic {
	return Diagnostic{
		Severity: Err,
		Code:     ModelInvalid,
		Summary:  "Scene file does not parse",
		Detail:   err.Error(),
		LikelyCauses: []string{
			"exporter still writing the file",
			"missing .bin buffer or texture next to scene.gltf",
		},
		SuggestedFixes: []string{"re-export the model", "check the file with `modelviewer info " + model + "`"},
		Evidence:       map[string]any{"model": model, "path": path},
	}
}

// Reloaded reports a scene file that parsed after a change. Models
// missing from the scale table are flagged as a warning.
func Reloaded(model, path string, scale float64, known bool) Diagnostic {
	d := Diagnostic{
		Severity: Info,
		Code:     ModelOK,
		Summary:  "Scene file reloaded",
		Evidence: map[string]any{"model": model, "path": path, "scale": scale},
	}
	if !known {
		d.Severity = Warn
		d.Detail = "model is not in the scale table; the default scale applies"
	}
	return d
}

// Removed reports a model directory that no longer holds a scene file.
func Removed(model string) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     ModelRemoved,
		Summary:  "Scene file removed",
		Evidence: map[string]any{"model": model},
	}
}
