package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-modelviewer/internal/catalog"
	"github.com/coreman2200/funtimes-modelviewer/internal/config"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

func writeModel(t *testing.T, root, name string) {
	t.Helper()
	doc := gltf.NewDocument()
	idx := modeler.WritePosition(doc, [][3]float32{{-0.5, 0, 0}, {0.5, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name:       name,
		Primitives: []*gltf.Primitive{{Attributes: gltf.Attribute{gltf.POSITION: idx}}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, gltf.SaveBinary(doc, filepath.Join(dir, "scene.glb")))
}

func TestSettingsConfigOverridesFlags(t *testing.T) {
	s := &settings{addr: ":8080", modelsDir: "models", format: "gltf", logLevel: "info", serialBaud: 115200}
	s.apply(&config.Config{
		ModelsDir: "/srv/models",
		Watch:     true,
		Serial:    config.Serial{Port: "/dev/ttyACM0"},
	})
	assert.Equal(t, ":8080", s.addr)
	assert.Equal(t, "/srv/models", s.modelsDir)
	assert.Equal(t, "gltf", s.format)
	assert.True(t, s.watch)
	assert.Equal(t, "/dev/ttyACM0", s.serialPort)
	assert.Equal(t, 115200, s.serialBaud)
}

func TestPrintModels(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "knight")
	writeModel(t, root, "teapot")
	entries, err := catalog.Scan(root)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printModels(&out, entries, false))
	s := out.String()
	assert.Contains(t, s, "MODEL")
	assert.Contains(t, s, "knight")
	assert.Contains(t, s, "30")
	assert.Contains(t, s, "10 (default)")
	assert.Contains(t, s, "/?format=glb&model=teapot")
}

func TestPrintModelsInspected(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "knight")
	entries, err := catalog.Scan(root)
	require.NoError(t, err)
	entries[0].Inspect()

	var out bytes.Buffer
	require.NoError(t, printModels(&out, entries, true))
	assert.Contains(t, out.String(), "VERTICES")
	assert.Regexp(t, `knight\s+glb\s+30\s+3\s+0`, out.String())
}

func TestPrintInfo(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "axe")
	e, err := catalog.Find(root, "axe")
	require.NoError(t, err)
	e.Inspect()

	var out bytes.Buffer
	require.NoError(t, printInfo(&out, e))
	s := out.String()
	assert.Contains(t, s, "Scale:      60")
	assert.Contains(t, s, "Vertices:   3")
	assert.Contains(t, s, "Bounds Max: (0.500, 1.000, 0.000)")
}

func TestCheckReportsScaledBounds(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root, "plate")

	var out bytes.Buffer
	sel := viewer.Selection{Model: "plate", Present: true, Format: "glb"}
	err := check(context.Background(), &out, root, sel, checkOpts{frames: 3, fps: 200, timeout: 5 * time.Second})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Scale:      140")
	assert.Contains(t, s, "Scaled Max: (70.000, 140.000, 0.000)")
	assert.Contains(t, s, "Frames:     3")
}

func TestCheckMissingModel(t *testing.T) {
	var out bytes.Buffer
	sel := viewer.Selection{Model: "nope", Present: true, Format: "gltf"}
	err := check(context.Background(), &out, t.TempDir(), sel, checkOpts{frames: 1, fps: 60, timeout: time.Second})
	assert.Error(t, err)
}

func TestWriteConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	s := &settings{addr: ":9000", modelsDir: "/srv/models", format: "glb", watch: true, logLevel: "debug", serialBaud: 9600}
	require.NoError(t, writeConfig(p, s.config(), false))

	c, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "/srv/models", c.ModelsDir)
	assert.Equal(t, "glb", c.Format)
	assert.True(t, c.Watch)
	assert.Equal(t, 9600, c.Serial.Baud)

	assert.Error(t, writeConfig(p, s.config(), false), "existing file is kept")
	s.addr = ":7000"
	require.NoError(t, writeConfig(p, s.config(), true))
	c, err = config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Addr)
}
