// Package binning builds the oversampled evaluation grids used by the
// oscillation, effective-area and PID stages. An Axis is the coarse binning
// declared in the template settings; a Grid is the finer, derived binning
// the continuous parametrizations are evaluated on before re-aggregation.
package binning

import (
	"fmt"
	"math"
)

// regularityTolerance is the maximum relative deviation of bin widths for an
// axis to count as linear (or of log-widths to count as logarithmic).
const regularityTolerance = 1e-5

// Axis is an immutable binning axis: strictly increasing edges plus an
// oversampling factor. Construct with NewAxis; the zero value is not valid.
type Axis struct {
	name       string
	edges      []float64
	oversample int
}

// NewAxis validates and constructs an axis. The name is used only in error
// messages ("ebins", "czbins"). Edges must be strictly increasing and at
// least two; oversample must be >= 1.
func NewAxis(name string, edges []float64, oversample int) (Axis, error) {
	if len(edges) < 2 {
		return Axis{}, fmt.Errorf("%s: need at least 2 bin edges, got %d", name, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return Axis{}, fmt.Errorf("%s: bin edges must be strictly increasing, edge[%d]=%g <= edge[%d]=%g",
				name, i, edges[i], i-1, edges[i-1])
		}
	}
	if oversample < 1 {
		return Axis{}, fmt.Errorf("%s: oversample must be >= 1, got %d", name, oversample)
	}

	own := make([]float64, len(edges))
	copy(own, edges)
	return Axis{name: name, edges: own, oversample: oversample}, nil
}

// Name returns the axis name.
func (a Axis) Name() string {
	return a.name
}

// Edges returns a copy of the coarse bin edges.
func (a Axis) Edges() []float64 {
	out := make([]float64, len(a.edges))
	copy(out, a.edges)
	return out
}

// NBins returns the number of coarse bins.
func (a Axis) NBins() int {
	return len(a.edges) - 1
}

// Oversample returns the oversampling factor.
func (a Axis) Oversample() int {
	return a.oversample
}

// IsLinear reports whether the edges are evenly spaced.
func IsLinear(edges []float64) bool {
	if len(edges) < 3 {
		return true
	}
	ref := edges[1] - edges[0]
	for i := 2; i < len(edges); i++ {
		if math.Abs((edges[i]-edges[i-1])-ref) > regularityTolerance*math.Abs(ref) {
			return false
		}
	}
	return true
}

// IsLogarithmic reports whether the edges are evenly spaced in log10.
// Axes with non-positive edges are never logarithmic.
func IsLogarithmic(edges []float64) bool {
	if len(edges) < 3 {
		return false
	}
	logs := make([]float64, len(edges))
	for i, e := range edges {
		if e <= 0 {
			return false
		}
		logs[i] = math.Log10(e)
	}
	return IsLinear(logs)
}
