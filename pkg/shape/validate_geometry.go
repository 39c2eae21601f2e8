package shape

import (
	"fmt"
	"math"

	"github.com/chazu/bestiary/pkg/geom"
)

// ---------------------------------------------------------------------------
// Geometric tier (errors + warnings)
// ---------------------------------------------------------------------------

// Tolerances for the geometric checks, relative to the shape's extent.
const (
	degenerateTol = 1e-12
	planarTol     = 1e-6
)

// validateGeometry runs the geometric checks on a structurally valid leaf.
func validateGeometry(lv leafVisit) []ValidationError {
	var findings []ValidationError
	findings = append(findings, validateFaceAreas(lv)...)
	findings = append(findings, validateWinding(lv)...)
	findings = append(findings, validatePlanarity(lv)...)
	return findings
}

// FaceNormal returns the unnormalised normal of face i computed with
// Newell's method. Its length is twice the face area.
func (s *Shape) FaceNormal(i int) geom.Vec3 {
	face := s.Faces[i]
	var n geom.Vec3
	for k := range face {
		cur := s.Vertices[face[k]]
		next := s.Vertices[face[(k+1)%len(face)]]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}

// FaceCentroid returns the average of face i's vertices.
func (s *Shape) FaceCentroid(i int) geom.Vec3 {
	face := s.Faces[i]
	var c geom.Vec3
	for _, idx := range face {
		c = c.Add(s.Vertices[idx])
	}
	return c.Mul(1 / float64(len(face)))
}

// Centroid returns the average of all vertices.
func (s *Shape) Centroid() geom.Vec3 {
	var c geom.Vec3
	if len(s.Vertices) == 0 {
		return c
	}
	for _, v := range s.Vertices {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(s.Vertices)))
}

// extent is the largest distance of any vertex from the centroid.
func (s *Shape) extent() float64 {
	c := s.Centroid()
	var r float64
	for _, v := range s.Vertices {
		r = math.Max(r, v.Sub(c).Len())
	}
	return r
}

// validateFaceAreas reports faces with no area, which is what a zero edge
// length produces.
func validateFaceAreas(lv leafVisit) []ValidationError {
	var errs []ValidationError
	s := lv.shape
	scale := s.extent()

	for fi := range s.Faces {
		area := s.FaceNormal(fi).Len() / 2
		if area <= degenerateTol*math.Max(scale*scale, 1) {
			errs = append(errs, ValidationError{
				Path:     lv.path,
				Face:     fi,
				Message:  fmt.Sprintf("face is degenerate (area %.3g)", area),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateWinding checks that face normals point away from the centroid.
// A shape whose faces all point inwards is inside out, which is what a
// negative edge length produces; a shape with only some inward faces has
// inconsistent winding. Only meaningful for shapes that are star-shaped
// about their centroid, which every factory shape is.
func validateWinding(lv leafVisit) []ValidationError {
	s := lv.shape
	center := s.Centroid()

	var inward []int
	counted := 0
	for fi := range s.Faces {
		n := s.FaceNormal(fi)
		if n.Len() == 0 {
			continue // reported by validateFaceAreas
		}
		counted++
		if n.Dot(s.FaceCentroid(fi).Sub(center)) <= 0 {
			inward = append(inward, fi)
		}
	}

	if len(inward) == 0 {
		return nil
	}
	if len(inward) == counted {
		return []ValidationError{{
			Path:     lv.path,
			Face:     -1,
			Message:  "shape is inside out: every face normal points inwards",
			Severity: SeverityError,
		}}
	}
	var warnings []ValidationError
	for _, fi := range inward {
		warnings = append(warnings, ValidationError{
			Path:     lv.path,
			Face:     fi,
			Message:  "face normal points inwards; winding is inconsistent",
			Severity: SeverityWarning,
		})
	}
	return warnings
}

// validatePlanarity warns about faces whose vertices do not share a plane.
func validatePlanarity(lv leafVisit) []ValidationError {
	var warnings []ValidationError
	s := lv.shape
	tol := planarTol * math.Max(s.extent(), 1)

	for fi, face := range s.Faces {
		if len(face) <= 3 {
			continue
		}
		n := s.FaceNormal(fi)
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		c := s.FaceCentroid(fi)
		for _, idx := range face {
			if d := math.Abs(s.Vertices[idx].Sub(c).Dot(n)); d > tol {
				warnings = append(warnings, ValidationError{
					Path:     lv.path,
					Face:     fi,
					Message:  fmt.Sprintf("face is not planar (vertex %d off by %.3g)", idx, d),
					Severity: SeverityWarning,
				})
				break
			}
		}
	}
	return warnings
}
