// Package params implements the typed parameter store a template-settings
// document is loaded into: named parameters with fixed/free semantics,
// ranges, fit scales and Gaussian priors, owned exclusively by one Set per
// fit run. Values are polymorphic (scalar, file path, per-flavor path map,
// per-flavor curve map) and modeled as a tagged variant so each collaborator
// can request the shape it expects and get a typed failure otherwise.
package params

import (
	"fmt"
	"sort"

	"github.com/oscfit/oscfit/pkg/exprs"
)

// Kind tags the shape of a parameter value.
type Kind string

const (
	// KindScalar is a plain float value (oscillation angles, scale factors).
	KindScalar Kind = "scalar"

	// KindPath is a string file path resolved by an external collaborator.
	KindPath Kind = "path"

	// KindPathMap maps flavor keys to file paths.
	KindPathMap Kind = "path_map"

	// KindCurveMap maps flavor keys to compiled parametrization curves.
	KindCurveMap Kind = "curve_map"
)

// Value is the tagged variant carried by a Parameter. Construct with one of
// Scalar, Path, PathMap or CurveMap.
type Value struct {
	kind   Kind
	scalar float64
	path   string
	paths  map[string]string
	curves map[string]*exprs.Compiled
}

// Scalar wraps a float value.
func Scalar(v float64) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Path wraps a file path value.
func Path(p string) Value {
	return Value{kind: KindPath, path: p}
}

// PathMap wraps a flavor-to-path map. The map is copied.
func PathMap(m map[string]string) Value {
	own := make(map[string]string, len(m))
	for k, v := range m {
		own[k] = v
	}
	return Value{kind: KindPathMap, paths: own}
}

// CurveMap wraps a flavor-to-curve map. The map is copied; the compiled
// curves themselves are immutable and shared.
func CurveMap(m map[string]*exprs.Compiled) Value {
	own := make(map[string]*exprs.Compiled, len(m))
	for k, v := range m {
		own[k] = v
	}
	return Value{kind: KindCurveMap, curves: own}
}

// Kind returns the value's shape tag.
func (v Value) Kind() Kind {
	return v.kind
}

// AsScalar returns the float value, or ErrWrongKind.
func (v Value) AsScalar() (float64, error) {
	if v.kind != KindScalar {
		return 0, fmt.Errorf("want %s, have %s: %w", KindScalar, v.kind, ErrWrongKind)
	}
	return v.scalar, nil
}

// AsPath returns the file path, or ErrWrongKind.
func (v Value) AsPath() (string, error) {
	if v.kind != KindPath {
		return "", fmt.Errorf("want %s, have %s: %w", KindPath, v.kind, ErrWrongKind)
	}
	return v.path, nil
}

// AsPathMap returns a copy of the flavor-to-path map, or ErrWrongKind.
func (v Value) AsPathMap() (map[string]string, error) {
	if v.kind != KindPathMap {
		return nil, fmt.Errorf("want %s, have %s: %w", KindPathMap, v.kind, ErrWrongKind)
	}
	out := make(map[string]string, len(v.paths))
	for k, p := range v.paths {
		out[k] = p
	}
	return out, nil
}

// Curve returns the compiled curve for a flavor key, ErrWrongKind if the
// value is not a curve map, or ErrNotFound for an undeclared key.
func (v Value) Curve(key string) (*exprs.Compiled, error) {
	if v.kind != KindCurveMap {
		return nil, fmt.Errorf("want %s, have %s: %w", KindCurveMap, v.kind, ErrWrongKind)
	}
	c, ok := v.curves[key]
	if !ok {
		return nil, fmt.Errorf("flavor key %q: %w", key, ErrNotFound)
	}
	return c, nil
}

// CurveKeys returns the sorted flavor keys of a curve map, or ErrWrongKind.
func (v Value) CurveKeys() ([]string, error) {
	if v.kind != KindCurveMap {
		return nil, fmt.Errorf("want %s, have %s: %w", KindCurveMap, v.kind, ErrWrongKind)
	}
	keys := make([]string, 0, len(v.curves))
	for k := range v.curves {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
