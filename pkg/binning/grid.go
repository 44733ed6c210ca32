package binning

import "math"

// Grid is an oversampled binning derived from an Axis: every coarse bin is
// subdivided into Axis.Oversample() equal-width sub-bins in the axis's
// native coordinate. A Grid is read-only derived state; rebuild it from the
// axis instead of mutating it.
type Grid struct {
	edges       []float64
	logarithmic bool
}

// Build expands an axis into its oversampled grid. The construction is a
// pure function of the axis: building twice yields bit-identical edges,
// every coarse boundary appears in the output exactly, and oversample=1
// returns the coarse edges unchanged.
func Build(axis Axis) Grid {
	k := axis.oversample
	coarse := axis.edges
	fine := make([]float64, 0, (len(coarse)-1)*k+1)

	for i := 0; i+1 < len(coarse); i++ {
		lo, hi := coarse[i], coarse[i+1]
		fine = append(fine, lo)
		for j := 1; j < k; j++ {
			fine = append(fine, lo+(hi-lo)*float64(j)/float64(k))
		}
	}
	fine = append(fine, coarse[len(coarse)-1])

	return Grid{edges: fine, logarithmic: IsLogarithmic(coarse)}
}

// Edges returns a copy of the fine bin edges, (NBins * oversample) + 1 of them.
func (g Grid) Edges() []float64 {
	out := make([]float64, len(g.edges))
	copy(out, g.edges)
	return out
}

// NBins returns the number of fine bins.
func (g Grid) NBins() int {
	return len(g.edges) - 1
}

// Centers returns the center of every fine bin: the geometric mean of the
// bin edges on a logarithmic axis, the arithmetic mean otherwise.
func (g Grid) Centers() []float64 {
	centers := make([]float64, len(g.edges)-1)
	for i := range centers {
		lo, hi := g.edges[i], g.edges[i+1]
		if g.logarithmic {
			centers[i] = math.Sqrt(lo * hi)
		} else {
			centers[i] = (lo + hi) / 2
		}
	}
	return centers
}
