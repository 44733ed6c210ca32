package params

import "fmt"

// Set is the registry of all parameters of one loaded document, and the
// single owner of their mutable current values. One fit run holds one Set;
// concurrent fits must each load their own.
type Set struct {
	order  []string
	byName map[string]*Parameter
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Parameter)}
}

// Add appends a parameter, keeping declaration order. Names are unique.
func (s *Set) Add(p *Parameter) error {
	if _, exists := s.byName[p.name]; exists {
		return fmt.Errorf("%s: %w", p.name, ErrDuplicate)
	}
	s.order = append(s.order, p.name)
	s.byName[p.name] = p
	return nil
}

// Len returns the number of parameters.
func (s *Set) Len() int {
	return len(s.order)
}

// Names returns the parameter names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the named parameter or ErrNotFound.
func (s *Set) Get(name string) (*Parameter, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return p, nil
}

// Free returns the free parameters in declaration order. This is the vector
// a minimizer operates on.
func (s *Set) Free() []*Parameter {
	var out []*Parameter
	for _, name := range s.order {
		if p := s.byName[name]; !p.fixed {
			out = append(out, p)
		}
	}
	return out
}

// Pack converts the named parameter's current physical value into the
// minimizer's internal unit, value/scale. Packing a fixed parameter is an
// error.
func (s *Set) Pack(name string) (float64, error) {
	p, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	if p.fixed {
		return 0, fmt.Errorf("%s: %w", name, ErrFixed)
	}
	cur, err := p.Current()
	if err != nil {
		return 0, err
	}
	return cur / p.scale, nil
}

// Unpack converts a minimizer-internal value back to physical units,
// internal*scale, stores it as the parameter's current value and returns
// it. Unpacking a fixed parameter is an error.
func (s *Set) Unpack(name string, internal float64) (float64, error) {
	p, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	if p.fixed {
		return 0, fmt.Errorf("%s: %w", name, ErrFixed)
	}
	if p.value.kind != KindScalar {
		return 0, fmt.Errorf("%s: want %s, have %s: %w", name, KindScalar, p.value.kind, ErrWrongKind)
	}
	physical := internal * p.scale
	p.value.scalar = physical
	return physical, nil
}

// LogPriorPenalty returns the Gaussian chi-square penalty
// ((current-nominal)/sigma)^2 for the named parameter, or exactly 0 when no
// prior is declared.
func (s *Set) LogPriorPenalty(name string) (float64, error) {
	p, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	if p.prior == nil {
		return 0, nil
	}
	cur, err := p.Current()
	if err != nil {
		return 0, err
	}
	pull := (cur - p.nominal) / *p.prior
	return pull * pull, nil
}

// TotalPriorPenalty sums LogPriorPenalty over every prior-bearing parameter.
func (s *Set) TotalPriorPenalty() float64 {
	var total float64
	for _, name := range s.order {
		p := s.byName[name]
		if p.prior == nil || p.value.kind != KindScalar {
			continue
		}
		pull := (p.value.scalar - p.nominal) / *p.prior
		total += pull * pull
	}
	return total
}

// ResolveExpression evaluates the curve stored under key inside the named
// curve-map parameter at x.
func (s *Set) ResolveExpression(name, key string, x float64) (float64, error) {
	p, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	curve, err := p.value.Curve(key)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return curve.Eval(x)
}

// Scalar is a convenience accessor for the named parameter's current scalar
// value.
func (s *Set) Scalar(name string) (float64, error) {
	p, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	v, err := p.Current()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// PathOf is a convenience accessor for the named parameter's file path.
func (s *Set) PathOf(name string) (string, error) {
	p, err := s.Get(name)
	if err != nil {
		return "", err
	}
	v, err := p.value.AsPath()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// PathMapOf is a convenience accessor for the named parameter's per-flavor
// path map.
func (s *Set) PathMapOf(name string) (map[string]string, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	v, err := p.value.AsPathMap()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// Clone returns an independent deep copy of the set, so a second fit run
// can mutate current values without sharing state.
func (s *Set) Clone() *Set {
	out := NewSet()
	for _, name := range s.order {
		// Add cannot fail on names unique in the source set.
		_ = out.Add(s.byName[name].clone())
	}
	return out
}
