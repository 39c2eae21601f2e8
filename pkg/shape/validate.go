package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationSeverity indicates whether a validation finding makes a tree
// unusable or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // tree must not be rendered
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// Path addresses a node by the placement indices leading to it from the
// root. The root itself has an empty path.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "root"
	}
	parts := make([]string, 0, len(p)+1)
	parts = append(parts, "root")
	for _, i := range p {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, "/")
}

// child returns a copy of p extended by i.
func (p Path) child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     Path               // first path at which the node was reached
	Face     int                // face index, -1 when not face specific
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Face >= 0 {
		return fmt.Sprintf("[%s] %s face %d: %s", e.Severity, e.Path, e.Face, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings from all
// validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// leafVisit is a distinct leaf together with the first path it was found at.
type leafVisit struct {
	shape *Shape
	path  Path
}

// Validate runs the structural checks on the tree rooted at n and returns
// every finding. An empty slice means the tree is structurally sound. It
// never mutates the tree.
func Validate(n Node) []ValidationError {
	errs, leaves := validateDAG(n)
	for _, lv := range leaves {
		errs = append(errs, validateFaces(lv)...)
		errs = append(errs, validateColors(lv)...)
	}
	return errs
}

// ValidateAll runs the structural tier and, when it passes for a leaf, the
// geometric tier, and separates errors from warnings.
func ValidateAll(n Node) ValidationResult {
	var result ValidationResult
	split := func(findings []ValidationError) {
		for _, f := range findings {
			if f.Severity == SeverityWarning {
				result.Warnings = append(result.Warnings, f)
			} else {
				result.Errors = append(result.Errors, f)
			}
		}
	}

	dagErrs, leaves := validateDAG(n)
	split(dagErrs)
	for _, lv := range leaves {
		structural := validateFaces(lv)
		split(structural)
		split(validateColors(lv))
		if len(structural) == 0 {
			split(validateGeometry(lv))
		}
	}
	return result
}

// validateDAG walks the tree with 3-colour marking and reports placement
// cycles and nil children. It also collects each distinct leaf once.
func validateDAG(root Node) ([]ValidationError, []leafVisit) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[Node]int) // default zero = white
	var errs []ValidationError
	var leaves []leafVisit

	var visit func(n Node, path Path)
	visit = func(n Node, path Path) {
		switch color[n] {
		case black:
			return
		case gray:
			errs = append(errs, ValidationError{
				Path:     path,
				Face:     -1,
				Message:  "placement cycle: node contains itself",
				Severity: SeverityError,
			})
			return
		}

		switch v := n.(type) {
		case *Shape:
			color[n] = black
			if v == nil {
				errs = append(errs, nilChild(path))
				return
			}
			leaves = append(leaves, leafVisit{shape: v, path: path})
		case *MultiShape:
			if v == nil {
				color[n] = black
				errs = append(errs, nilChild(path))
				return
			}
			color[n] = gray
			for i, e := range v.Entries() {
				if e.Child == nil {
					errs = append(errs, nilChild(path.child(i)))
					continue
				}
				visit(e.Child, path.child(i))
			}
			color[n] = black
		default:
			errs = append(errs, nilChild(path))
		}
	}

	visit(root, nil)
	return errs, leaves
}

func nilChild(path Path) ValidationError {
	return ValidationError{
		Path:     path,
		Face:     -1,
		Message:  "placement has no shape",
		Severity: SeverityError,
	}
}

// validateFaces checks that every face has at least three distinct, valid
// vertex indices.
func validateFaces(lv leafVisit) []ValidationError {
	var errs []ValidationError
	s := lv.shape

	for fi, face := range s.Faces {
		if len(face) < 3 {
			errs = append(errs, ValidationError{
				Path:     lv.path,
				Face:     fi,
				Message:  fmt.Sprintf("face has %d vertices, need at least 3", len(face)),
				Severity: SeverityError,
			})
			continue
		}
		seen := make(map[int]bool, len(face))
		for _, idx := range face {
			if idx < 0 || idx >= len(s.Vertices) {
				errs = append(errs, ValidationError{
					Path:     lv.path,
					Face:     fi,
					Message:  fmt.Sprintf("vertex index %d out of range [0, %d)", idx, len(s.Vertices)),
					Severity: SeverityError,
				})
				continue
			}
			if seen[idx] {
				errs = append(errs, ValidationError{
					Path:     lv.path,
					Face:     fi,
					Message:  fmt.Sprintf("vertex index %d repeated", idx),
					Severity: SeverityError,
				})
			}
			seen[idx] = true
		}
	}

	return errs
}

// validateColors checks that the shape carries exactly one colour per face.
func validateColors(lv leafVisit) []ValidationError {
	s := lv.shape
	if len(s.Colors) == len(s.Faces) {
		return nil
	}
	return []ValidationError{{
		Path:     lv.path,
		Face:     -1,
		Message:  fmt.Sprintf("%d colours for %d faces", len(s.Colors), len(s.Faces)),
		Severity: SeverityError,
	}}
}
