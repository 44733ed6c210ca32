package params

import "fmt"

// Parameter is one named entry of the template settings. The nominal value
// is recorded at load time and never changes; for free scalar parameters
// the current value is overwritten by Set.Unpack on every minimizer
// iteration. A fresh fit re-instantiates the whole Set from the document,
// so nothing ever transitions back to its loaded state.
type Parameter struct {
	name    string
	value   Value
	nominal float64 // scalar kind only
	fixed   bool
	rng     *[2]float64
	scale   float64
	prior   *float64 // Gaussian sigma; nil means flat
}

// New validates and constructs a parameter. Free parameters must be scalar,
// carry an ordered range, and a non-zero scale.
func New(name string, value Value, fixed bool, rng *[2]float64, scale float64, prior *float64) (*Parameter, error) {
	if name == "" {
		return nil, fmt.Errorf("parameter name must not be empty")
	}
	if scale == 0 {
		scale = 1
	}
	if !fixed {
		if value.kind != KindScalar {
			return nil, fmt.Errorf("%s: free parameters must be scalar, got %s", name, value.kind)
		}
		if rng == nil {
			return nil, fmt.Errorf("%s: free parameters require a range", name)
		}
		if rng[0] >= rng[1] {
			return nil, fmt.Errorf("%s: range [%g, %g] is not ordered", name, rng[0], rng[1])
		}
	}

	p := &Parameter{
		name:  name,
		value: value,
		fixed: fixed,
		scale: scale,
		prior: prior,
	}
	if rng != nil {
		own := *rng
		p.rng = &own
	}
	if value.kind == KindScalar {
		p.nominal = value.scalar
	}
	return p, nil
}

// Name returns the unique parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the current value variant.
func (p *Parameter) Value() Value {
	return p.value
}

// Kind returns the shape of the parameter value.
func (p *Parameter) Kind() Kind {
	return p.value.kind
}

// Fixed reports whether the parameter is held constant during a fit.
func (p *Parameter) Fixed() bool {
	return p.fixed
}

// Scale returns the multiplier between fit units and physical units.
func (p *Parameter) Scale() float64 {
	return p.scale
}

// Range returns the allowed [low, high] band and whether one is declared.
func (p *Parameter) Range() ([2]float64, bool) {
	if p.rng == nil {
		return [2]float64{}, false
	}
	return *p.rng, true
}

// Prior returns the Gaussian prior sigma and whether one is declared.
func (p *Parameter) Prior() (float64, bool) {
	if p.prior == nil {
		return 0, false
	}
	return *p.prior, true
}

// Nominal returns the scalar value recorded at load time.
func (p *Parameter) Nominal() (float64, error) {
	if p.value.kind != KindScalar {
		return 0, fmt.Errorf("%s: want %s, have %s: %w", p.name, KindScalar, p.value.kind, ErrWrongKind)
	}
	return p.nominal, nil
}

// Current returns the mutable current scalar value.
func (p *Parameter) Current() (float64, error) {
	return p.value.AsScalar()
}

// InRange reports whether the current scalar value lies strictly inside the
// declared range. Parameters without a range or without a scalar value are
// always in range.
func (p *Parameter) InRange() bool {
	if p.rng == nil || p.value.kind != KindScalar {
		return true
	}
	return p.rng[0] < p.value.scalar && p.value.scalar < p.rng[1]
}

// clone returns an independent deep copy.
func (p *Parameter) clone() *Parameter {
	out := &Parameter{
		name:    p.name,
		value:   p.value,
		nominal: p.nominal,
		fixed:   p.fixed,
		scale:   p.scale,
	}
	if p.rng != nil {
		rng := *p.rng
		out.rng = &rng
	}
	if p.prior != nil {
		prior := *p.prior
		out.prior = &prior
	}
	switch p.value.kind {
	case KindPathMap:
		out.value = PathMap(p.value.paths)
	case KindCurveMap:
		out.value = CurveMap(p.value.curves)
	}
	return out
}
