package viewer

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultModelsDir is where scene files live relative to the page.
	DefaultModelsDir = "./models"
	// DefaultFormat is the scene file extension.
	DefaultFormat = "gltf"
	// DefaultModelName is the directory used when the page names no model.
	DefaultModelName = "default"
)

// Selection is the model choice read from the page URL at startup.
type Selection struct {
	Model   string
	Present bool // false when the URL has no model parameter
	Format  string
	Animate bool
}

// Param returns the first value of the query parameter name in rawURL.
// "+" decodes to a space and percent escapes are decoded. A parameter with
// no "=" yields ("", true). ok is false when the parameter is missing or
// its value holds a malformed escape.
func Param(rawURL, name string) (value string, ok bool) {
	q := rawURL
	if i := strings.IndexByte(q, '?'); i >= 0 {
		q = q[i+1:]
	} else {
		return "", false
	}
	if i := strings.IndexByte(q, '#'); i >= 0 {
		q = q[:i]
	}
	for _, part := range strings.Split(q, "&") {
		key, val, _ := strings.Cut(part, "=")
		if key != name {
			continue
		}
		v, err := url.PathUnescape(strings.ReplaceAll(val, "+", " "))
		if err != nil {
			return "", false
		}
		return v, true
	}
	return "", false
}

// ParseSelection reads model, format and animate from a page URL.
func ParseSelection(rawURL string) Selection {
	s := Selection{Format: DefaultFormat}
	s.Model, s.Present = Param(rawURL, "model")
	if f, ok := Param(rawURL, "format"); ok && (f == "gltf" || f == "glb") {
		s.Format = f
	}
	if a, ok := Param(rawURL, "animate"); ok {
		s.Animate = a == "1" || a == "true"
	}
	return s
}

// Path builds <dir>/<model>/scene.<format>. Names that would not select a
// directory below dir ("", ".", "..") use DefaultModelName.
func (s Selection) Path(dir string) string {
	name := s.Model
	switch name {
	case "", ".", "..":
		name = DefaultModelName
	}
	format := s.Format
	if format == "" {
		format = DefaultFormat
	}
	if dir == "" {
		dir = DefaultModelsDir
	}
	return fmt.Sprintf("%s/%s/scene.%s", strings.TrimSuffix(dir, "/"), url.PathEscape(name), format)
}
