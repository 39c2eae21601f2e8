package main

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> 0 meshes, 0 errors.
//    (TestE2EEmptySource already exists; this verifies additional invariants.)
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax error mid-expression: unmatched parens -> eval error, 0 meshes.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp(nil)

	// Put valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(+ 1 2)\n(item 1 \"test\""
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}

	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

// ---------------------------------------------------------------------------
// 3. Undefined reference: a def that was never made -> eval error.
// ---------------------------------------------------------------------------

func TestE2EUndefinedShapeReference(t *testing.T) {
	app := NewApp(nil)

	source := `
(def ring (cube-ring 1 2 13))
(item 6 "ring" ghost-ring)
`
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for undefined symbol")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "ghost_ring") || strings.Contains(e.Message, "ghost-ring") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected error mentioning 'ghost-ring', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 4. Zero and negative edges: the shape is built but fails validation.
// ---------------------------------------------------------------------------

func TestE2EZeroEdge(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(item 2 "flat" (cube 0))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected a validation error for a zero edge")
	}
	if !strings.Contains(result.Errors[0].Message, "degenerate") {
		t.Errorf("expected degenerate face error, got %q", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2ENegativeEdge(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(item 1 "inverted" (tetrahedron -1))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected a validation error for a negative edge")
	}
	if !strings.Contains(result.Errors[0].Message, "inside out") {
		t.Errorf("expected inside-out error, got %q", result.Errors[0].Message)
	}
}

func TestE2ENestedZeroEdge(t *testing.T) {
	// A bad leaf deep in a ring is still caught, with its path.
	app := NewApp(nil)
	result := app.Evaluate(`(item 6 "ring" (ring (group (cube 1) (cube 0)) 2 3))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(result.Errors[0].Message, "root/0/1") {
		t.Errorf("error should point at root/0/1, got %q", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid evaluation (debounce simulation): no panics, no data races.
//    Run with `go test -race` to detect data races.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	// zygomys has internal global state that is not safe for concurrent
	// sandbox creation, so the calls are sequential.
	app := NewApp(nil)

	sources := []string{
		`(item 1 "a" (tetrahedron 1))`,
		`(item 2 "b" (cube 1))`,
		`(+ 1 2)`,
		``,
		`(item 3 "c" (dual-tetrahedron 1))`,
		`(item 6 "d" (cube-ring 1 2 13))`,
		`(+ 100 200)`,
		``,
		`(item 8 "e" (cube-frame 10 (color :grey)))`,
		`(item 4 "f" (cube-cross 1 (color :red) (color :yellow)))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}
}

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates between valid and invalid sources rapidly.
	app := NewApp(nil)

	sources := []string{
		`(item 1 "ok" (tetrahedron 1))`,
		`(item 1 "broken"`,
		``,
		`(item 11 "out of range" (cube 1))`,
		`(item 2 "also-ok" (cube 2))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(item 8 "short" (cube-frame 10 (list :red)))`,
		`(undefined-func 1 2 3)`,
		`(item 9 "last" (rgb-cluster 1 5 20))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	items := app.Items()
	if len(items) != 1 || items[0].Name != "last" {
		t.Errorf("catalog should come from the last good script, got %+v", items)
	}
}

// ---------------------------------------------------------------------------
// 6. Large counts: big rings and clusters tessellate without trouble.
// ---------------------------------------------------------------------------

func TestE2ELargeRing(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(item 6 "big" (cube-ring 0.1 50 2000))`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if got := len(result.Meshes[0].Indices) / 3; got != 2000*12 {
		t.Errorf("expected %d triangles, got %d", 2000*12, got)
	}
}

func TestE2EEmptyRing(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(item 6 "none" (cube-ring 1 2 0))`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if len(result.Meshes[0].Indices) != 0 {
		t.Errorf("empty ring should have no triangles, got %d indices", len(result.Meshes[0].Indices))
	}
}

// ---------------------------------------------------------------------------
// 7. Comments only: source that is only comments -> 0 meshes, 0 errors.
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(";; nothing here\n; still nothing\n")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors, got %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 8. Nested expressions: def with arithmetic, then use in a factory.
// ---------------------------------------------------------------------------

func TestE2ENestedArithmeticDef(t *testing.T) {
	app := NewApp(nil)
	source := `
(def radius (* 2 2))
(def copies (+ (* 6 9) 0))
(item 7 "twisted" (ring (dual-tetrahedron 1) radius copies) :spin 1)
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	// 54 dual tetrahedra, 2 tetrahedra each, 4 triangles per tetrahedron.
	if got := len(result.Meshes[0].Indices) / 3; got != 54*2*4 {
		t.Errorf("expected %d triangles, got %d", 54*2*4, got)
	}
}

// ---------------------------------------------------------------------------
// Frame loop against readers: Tick rotates items while the frontend lists
// and exports them. Run with -race.
// ---------------------------------------------------------------------------

func TestTickConcurrentWithReaders(t *testing.T) {
	app := seeded()
	path := filepath.Join(t.TempDir(), "twisted.stl")
	if len(app.Items()) != 10 {
		t.Fatal("expected the built-in catalog")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			app.Tick(0.016, 0, 0, 100)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			if msg := app.ExportSTL("7", path); msg != "" {
				t.Errorf("export: %s", msg)
			}
			app.Items()
		}
	}()
	wg.Wait()

	states := app.Tick(0, 0, 0, 100)
	if len(states) != 10 {
		t.Fatalf("got %d states, want 10", len(states))
	}
}
