package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/bestiary/pkg/bestiary"
	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
)

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value is a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt or an integral SexpFloat.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_red) and plain strings ("red").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toColor accepts a colour value, a colour name (:red, "grey") or a hex
// string ("#ff8000").
func toColor(s zygo.Sexp) (color.Color, error) {
	if c, ok := s.(*sexpColor); ok {
		return c.c, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return color.Color{}, fmt.Errorf("expected colour: %w", err)
	}
	if strings.HasPrefix(name, "#") {
		return color.Hex(name)
	}
	c, ok := color.Named(name)
	if !ok {
		return color.Color{}, fmt.Errorf("unknown colour %q", name)
	}
	return c, nil
}

// toSource accepts a colour source, a single colour (repeated forever) or a
// list of colours (cycled). nil is returned for nil, meaning "pick one".
func toSource(s zygo.Sexp) (color.Source, error) {
	switch v := s.(type) {
	case *sexpSource:
		return v.src, nil
	case *zygo.SexpPair, *zygo.SexpArray:
		cs, err := toColors(v)
		if err != nil {
			return nil, err
		}
		return color.Cycle(cs...), nil
	}
	if s == zygo.SexpNull {
		return nil, nil
	}
	c, err := toColor(s)
	if err != nil {
		return nil, fmt.Errorf("expected colour source: %w", err)
	}
	return color.Repeat(c), nil
}

// toColors converts a list of colours.
func toColors(s zygo.Sexp) ([]color.Color, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]color.Color, 0, len(items))
	for i, item := range items {
		c, err := toColor(item)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a shape node from a sexpShape.
func toShape(s zygo.Sexp) (shape.Node, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.node, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toTrigger accepts a digit (7) or a digit string ("7").
func toTrigger(s zygo.Sexp) (bestiary.TriggerID, error) {
	if n, err := toInt(s); err == nil {
		t := bestiary.TriggerID(n)
		if !t.Valid() {
			return 0, fmt.Errorf("trigger %d out of range 0-9", n)
		}
		return t, nil
	}
	str, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected trigger digit: %w", err)
	}
	return bestiary.ParseTrigger(str)
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}
