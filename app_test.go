package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/bestiary/pkg/config"
)

// seeded returns an App whose random choices are reproducible.
func seeded() *App {
	cfg := config.Default()
	cfg.Seed = 1
	return NewApp(cfg)
}

// TestE2EZooScript exercises the full pipeline: Lisp source → engine →
// bestiary → tessellate → meshes. This is the same path that the Wails
// Evaluate binding takes, but without the Wails runtime.
func TestE2EZooScript(t *testing.T) {
	app := seeded()

	source, err := os.ReadFile("examples/zoo.bestiary")
	if err != nil {
		t.Fatalf("failed to read zoo.bestiary: %v", err)
	}

	result := app.Evaluate(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// One mesh per key.
	if len(result.Meshes) != 10 {
		t.Fatalf("expected 10 meshes, got %d", len(result.Meshes))
	}

	expected := map[string]string{
		"0": "lattice",
		"1": "tetrahedron",
		"2": "cube",
		"3": "dual-tetrahedron",
		"4": "cube-cross",
		"5": "cube-corners",
		"6": "cube-ring",
		"7": "twisted-ring",
		"8": "cube-frame",
		"9": "rgb-cluster",
	}

	for i, m := range result.Meshes {
		want, ok := expected[m.Key]
		if !ok {
			t.Errorf("unexpected key: %q", m.Key)
			continue
		}
		if m.PartName != want {
			t.Errorf("key %s: part name %q, want %q", m.Key, m.PartName, want)
		}
		if i > 0 && result.Meshes[i-1].Key >= m.Key {
			t.Errorf("meshes not in key order at %d", i)
		}
		delete(expected, m.Key)

		if len(m.Vertices) == 0 || len(m.Normals) != len(m.Vertices) {
			t.Errorf("key %s: %d vertices, %d normals", m.Key, len(m.Vertices), len(m.Normals))
		}
		if len(m.Colors) != len(m.Vertices)/3*4 {
			t.Errorf("key %s: %d colour bytes for %d vertices", m.Key, len(m.Colors), len(m.Vertices)/3)
		}
		if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
			t.Errorf("key %s: %d indices", m.Key, len(m.Indices))
		}
	}

	for key := range expected {
		t.Errorf("missing mesh for key %s", key)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(item 1 "test"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleItem ensures a minimal single-item source renders one mesh.
func TestE2ESingleItem(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(item 2 "cube" (cube 2 (color :red)) :at (vec3 10 0 0))`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.Key != "2" || m.PartName != "cube" {
		t.Errorf("expected key 2 named cube, got %q %q", m.Key, m.PartName)
	}
	// Evaluate meshes are in world space.
	for i := 0; i < len(m.Vertices); i += 3 {
		if x := m.Vertices[i]; x < 9 || x > 11 {
			t.Fatalf("vertex %d at x=%v, want within [9, 11]", i/3, x)
		}
	}
	for i := 0; i < len(m.Colors); i += 4 {
		if m.Colors[i] != 255 || m.Colors[i+1] != 0 || m.Colors[i+2] != 0 {
			t.Fatalf("vertex %d colour %v, want red", i/4, m.Colors[i:i+4])
		}
	}
}

// TestBuiltInCatalog checks the catalog served before any script runs.
func TestBuiltInCatalog(t *testing.T) {
	app := seeded()
	items := app.Items()
	if len(items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(items))
	}
	for i, it := range items {
		if it.Key != string(rune('0'+i)) {
			t.Errorf("item %d has key %q", i, it.Key)
		}
		if it.Name == "" || it.Faces == 0 || len(it.Fingerprint) != 64 {
			t.Errorf("item %s incomplete: %+v", it.Key, it)
		}
	}
	if !items[7].Spins || items[6].Spins {
		t.Error("only the twisted ring spins")
	}
	if !items[0].SlowMo || items[1].SlowMo {
		t.Error("only the lattice slows time")
	}
	if size := items[0].Bounds.Size(); size[0] < 40 {
		t.Errorf("lattice bounds %v should span its 40 unit cube", size)
	}
}

// TestScriptReplacesCatalog checks that a successful evaluation changes
// what Items and Mesh serve, and a failed one does not.
func TestScriptReplacesCatalog(t *testing.T) {
	app := seeded()

	if r := app.Evaluate(`(item 3 "only" (tetrahedron 1))`); len(r.Errors) > 0 {
		t.Fatalf("eval errors: %v", r.Errors)
	}
	items := app.Items()
	if len(items) != 1 || items[0].Name != "only" {
		t.Fatalf("expected the scripted catalog, got %+v", items)
	}

	if r := app.Evaluate(`(item 3 "broken"`); len(r.Errors) == 0 {
		t.Fatal("expected eval errors")
	}
	if items := app.Items(); len(items) != 1 || items[0].Name != "only" {
		t.Errorf("failed evaluation should keep the previous catalog, got %+v", items)
	}

	if r := app.Mesh("5"); len(r.Errors) == 0 {
		t.Error("expected an error for an unbound key")
	}
	r := app.Mesh("3")
	if len(r.Errors) > 0 || len(r.Meshes) != 1 {
		t.Fatalf("Mesh(3) = %+v", r)
	}
	if got := len(r.Meshes[0].Indices) / 3; got != 4 {
		t.Errorf("tetrahedron has %d triangles, want 4", got)
	}
}

func TestMeshBadKey(t *testing.T) {
	app := seeded()
	for _, key := range []string{"", "10", "x"} {
		if r := app.Mesh(key); len(r.Errors) == 0 {
			t.Errorf("Mesh(%q): expected an error", key)
		}
	}
}

// TestTickSpinsAndSlowsDown drives the frame loop with the camera inside
// and then outside the lattice.
func TestTickSpinsAndSlowsDown(t *testing.T) {
	app := seeded()

	states := app.Tick(0.1, 0, 0, 0)
	if len(states) != 10 {
		t.Fatalf("expected 10 states, got %d", len(states))
	}
	if states[0].TimeScale != 0.2 {
		t.Errorf("lattice time scale with camera inside = %v, want 0.2", states[0].TimeScale)
	}
	for _, s := range states[1:] {
		if s.TimeScale != 1 {
			t.Errorf("key %s time scale = %v, want 1", s.Key, s.TimeScale)
		}
	}

	before := states[7].Orientation
	states = app.Tick(0.1, 0, 0, 100)
	if states[0].TimeScale != 1 {
		t.Errorf("lattice time scale with camera outside = %v, want 1", states[0].TimeScale)
	}
	if states[7].Orientation == before {
		t.Error("twisted ring should keep spinning")
	}
	if states[2].Orientation != [4]float64{1, 0, 0, 0} {
		t.Errorf("static cube should not rotate, got %v", states[2].Orientation)
	}
}

func TestExportSTL(t *testing.T) {
	app := seeded()
	path := filepath.Join(t.TempDir(), "cube.stl")

	if msg := app.ExportSTL("2", path); msg != "" {
		t.Fatalf("export failed: %s", msg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// Binary STL: 80 byte header, triangle count, 50 bytes per triangle.
	if want := int64(84 + 50*12); info.Size() != want {
		t.Errorf("file size %d, want %d", info.Size(), want)
	}

	if msg := app.ExportSTL("q", path); msg == "" {
		t.Error("expected an error for a bad key")
	}
}
