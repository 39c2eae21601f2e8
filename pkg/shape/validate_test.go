package shape_test

import (
	"strings"
	"testing"

	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
	"github.com/chazu/bestiary/pkg/shapes"
)

func hasMessage(errs []shape.ValidationError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateFactoryShapes(t *testing.T) {
	frame, err := shapes.CubeFrame(10, color.Take(color.Repeat(color.Grey), 6))
	if err != nil {
		t.Fatalf("CubeFrame: %v", err)
	}
	tests := []struct {
		name string
		node shape.Node
	}{
		{"cube", shapes.Cube(1, color.Repeat(color.Red))},
		{"cuboid", shapes.Cuboid(1, 2, 3, color.Repeat(color.Red))},
		{"tetrahedron", shapes.Tetrahedron(1.8, color.Repeat(color.Blue))},
		{"corners", shapes.CubeCorners(1, color.Yellow, color.White)},
		{"frame", frame},
		{"ring", shapes.CubeRing(1, 2, 13, color.Repeat(color.Cyan))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := shape.ValidateAll(tt.node)
			if !res.OK() {
				t.Fatalf("unexpected errors: %v", res.Errors)
			}
			if len(res.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", res.Warnings)
			}
		})
	}
}

func TestValidateIndexOutOfRange(t *testing.T) {
	s := shape.New(
		[]geom.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][]int{{0, 1, 3}},
		[]color.Color{color.Red},
	)
	errs := shape.Validate(s)
	if !hasMessage(errs, "out of range") {
		t.Fatalf("expected out of range error, got %v", errs)
	}
	if errs[0].Face != 0 {
		t.Errorf("expected face 0, got %d", errs[0].Face)
	}
}

func TestValidateShortAndRepeatedFaces(t *testing.T) {
	s := shape.New(
		[]geom.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][]int{{0, 1}, {0, 1, 1}},
		[]color.Color{color.Red, color.Red},
	)
	errs := shape.Validate(s)
	if !hasMessage(errs, "need at least 3") {
		t.Errorf("expected short face error, got %v", errs)
	}
	if !hasMessage(errs, "repeated") {
		t.Errorf("expected repeated index error, got %v", errs)
	}
}

func TestValidateColorCount(t *testing.T) {
	s := shape.New(
		[]geom.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][]int{{0, 1, 2}},
		nil,
	)
	errs := shape.Validate(s)
	if !hasMessage(errs, "0 colours for 1 faces") {
		t.Fatalf("expected colour count error, got %v", errs)
	}
}

func TestValidateCycle(t *testing.T) {
	a := shape.NewMulti()
	b := shape.NewMulti()
	a.AddNode(b)
	b.AddNode(shapes.Cube(1, color.Repeat(color.Red)))
	b.AddNode(a)

	errs := shape.Validate(a)
	if !hasMessage(errs, "cycle") {
		t.Fatalf("expected cycle error, got %v", errs)
	}
	var found bool
	for _, e := range errs {
		if e.Path.String() == "root/0/1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cycle reported at root/0/1, got %v", errs)
	}
}

func TestValidateSharedLeafIsNotACycle(t *testing.T) {
	cube := shapes.Cube(1, color.Repeat(color.Red))
	inner := shape.NewMulti()
	inner.AddNode(cube)
	outer := shape.NewMulti()
	outer.AddNode(inner)
	outer.AddNode(inner)
	outer.AddNode(cube)

	if errs := shape.Validate(outer); len(errs) != 0 {
		t.Fatalf("shared nodes form a DAG, got %v", errs)
	}
}

func TestValidateNilChild(t *testing.T) {
	m := shape.NewMulti()
	m.AddNode(nil)
	if errs := shape.Validate(m); !hasMessage(errs, "no shape") {
		t.Fatalf("expected nil child error, got %v", errs)
	}
}

func TestValidateAllZeroEdge(t *testing.T) {
	res := shape.ValidateAll(shapes.Cube(0, color.Repeat(color.Red)))
	if res.OK() {
		t.Fatal("zero edge cube should fail geometric validation")
	}
	if !hasMessage(res.Errors, "degenerate") {
		t.Errorf("expected degenerate face errors, got %v", res.Errors)
	}
}

func TestValidateAllNegativeEdge(t *testing.T) {
	res := shape.ValidateAll(shapes.Cube(-1, color.Repeat(color.Red)))
	if !hasMessage(res.Errors, "inside out") {
		t.Fatalf("expected inside out error, got %v", res.Errors)
	}

	res = shape.ValidateAll(shapes.Cuboid(1, -2, 1, color.Repeat(color.Red)))
	if !hasMessage(res.Errors, "inside out") {
		t.Fatalf("expected inside out error for mirrored cuboid, got %v", res.Errors)
	}
}

func TestValidateAllInconsistentWinding(t *testing.T) {
	cube := shapes.Cube(1, color.Repeat(color.Red))
	flipped := make([][]int, len(cube.Faces))
	for i, f := range cube.Faces {
		flipped[i] = append([]int(nil), f...)
	}
	// Reverse one face.
	f := flipped[2]
	for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
		f[i], f[j] = f[j], f[i]
	}
	s := shape.New(cube.Vertices, flipped, cube.Colors)

	res := shape.ValidateAll(s)
	if !res.OK() {
		t.Fatalf("one reversed face is a warning, got errors %v", res.Errors)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Face != 2 {
		t.Fatalf("expected one winding warning on face 2, got %v", res.Warnings)
	}
}

func TestValidateAllNonPlanar(t *testing.T) {
	s := shape.New(
		[]geom.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0.5}, {0, 1, 0}},
		[][]int{{0, 1, 2, 3}},
		[]color.Color{color.Red},
	)
	res := shape.ValidateAll(s)
	if !hasMessage(res.Warnings, "not planar") {
		t.Fatalf("expected planarity warning, got %v", res.Warnings)
	}
}
