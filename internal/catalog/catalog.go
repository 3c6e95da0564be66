// Package catalog finds the scene files under a models directory and
// reports what they contain.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coreman2200/funtimes-modelviewer/internal/diagnostics"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

// ErrNotFound is returned by Find when no scene file exists for a name.
var ErrNotFound = errors.New("model not found")

// Formats lists the scene file extensions in lookup order.
var Formats = []string{"gltf", "glb"}

type Entry struct {
	Name   string  `json:"name"`
	Format string  `json:"format"`
	Path   string  `json:"path"`
	URL    string  `json:"url"`
	Scale  float64 `json:"scale"`
	Known  bool    `json:"known"` // listed in the scale table
	Info   *Info   `json:"info,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Scan returns one entry per <root>/<name>/scene.<format>, sorted by name.
func Scan(root string) ([]Entry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read models dir: %w", err)
	}
	var out []Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		if e, ok := entryFor(root, d.Name()); ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Find returns the entry for a single model.
func Find(root, name string) (Entry, error) {
	if !validName(name) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	e, ok := entryFor(root, name)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Inspect parses the entry's scene file and fills Info or Error.
func (e *Entry) Inspect() {
	info, err := Inspect(e.Path)
	if err != nil {
		e.Info = nil
		e.Error = err.Error()
		return
	}
	e.Info = info
	e.Error = ""
}

// Diagnostic describes the entry's state after Inspect.
func (e Entry) Diagnostic() diagnostics.Diagnostic {
	if e.Error != "" {
		return diagnostics.Invalid(e.Name, e.Path, errors.New(e.Error))
	}
	return diagnostics.Reloaded(e.Name, e.Path, e.Scale, e.Known)
}

// validName accepts a single directory name below the models root.
func validName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\`) && name == filepath.Base(name)
}

func entryFor(root, name string) (Entry, bool) {
	for _, f := range Formats {
		p := filepath.Join(root, name, "scene."+f)
		st, err := os.Stat(p)
		if err != nil || st.IsDir() {
			continue
		}
		scale, known := viewer.Scales.Factor(name)
		return Entry{
			Name:   name,
			Format: f,
			Path:   p,
			URL:    pageURL(name, f),
			Scale:  scale,
			Known:  known,
		}, true
	}
	return Entry{}, false
}

func pageURL(name, format string) string {
	q := url.Values{}
	q.Set("model", name)
	if format != viewer.DefaultFormat {
		q.Set("format", format)
	}
	return "/?" + q.Encode()
}
