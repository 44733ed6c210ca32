// Package aeff evaluates the effective-area cos-zenith modulation declared
// in the template settings: one closed-form |cz| curve per flavor, scaled
// by the aeff_scale fit parameter. The per-flavor energy dependence lives
// in external table files (aeff_egy_par) loaded by the weighting stage;
// this package only exposes their paths alongside the evaluated modulation.
package aeff

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/oscfit/oscfit/pkg/binning"
	"github.com/oscfit/oscfit/pkg/params"
)

// Service owns the evaluated cos-zenith modulation factors per flavor.
type Service struct {
	logger     zerolog.Logger
	scale      float64
	tableFiles map[string]string
	modulation map[string][]float64
}

// NewService evaluates every aeff_coszen_par curve at the cos-zenith grid
// centers and multiplies in the current aeff_scale. Domain errors from a
// curve surface unchanged.
func NewService(logger zerolog.Logger, set *params.Set, czgrid binning.Grid) (*Service, error) {
	view, err := params.AeffView(set)
	if err != nil {
		return nil, err
	}

	param, err := set.Get(params.NameAeffCosZenPar)
	if err != nil {
		return nil, err
	}
	flavors, err := param.Value().CurveKeys()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.NameAeffCosZenPar, err)
	}

	czcen := czgrid.Centers()
	s := &Service{
		logger:     logger.With().Str("component", "aeff").Logger(),
		scale:      view.Scale,
		tableFiles: view.EnergyParFiles,
		modulation: make(map[string][]float64, len(flavors)),
	}

	for _, flavor := range flavors {
		mod := make([]float64, len(czcen))
		for i, cz := range czcen {
			v, err := set.ResolveExpression(params.NameAeffCosZenPar, flavor, cz)
			if err != nil {
				return nil, fmt.Errorf("evaluating %s[%s] at cz=%g: %w", params.NameAeffCosZenPar, flavor, cz, err)
			}
			mod[i] = v * view.Scale
		}
		s.modulation[flavor] = mod
	}

	s.logger.Info().
		Int("flavors", len(flavors)).
		Int("czbins", len(czcen)).
		Float64("aeff_scale", view.Scale).
		Msg("Effective-area modulation built")

	return s, nil
}

// Scale returns the aeff_scale factor baked into the modulation.
func (s *Service) Scale() float64 {
	return s.scale
}

// TableFile returns the energy-dependence table path for a flavor.
func (s *Service) TableFile(flavor string) (string, error) {
	p, ok := s.tableFiles[flavor]
	if !ok {
		return "", fmt.Errorf("flavor %q: %w", flavor, params.ErrNotFound)
	}
	return p, nil
}

// Flavors returns the sorted flavor keys carrying a modulation curve.
func (s *Service) Flavors() []string {
	out := make([]string, 0, len(s.modulation))
	for f := range s.modulation {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Modulation returns a copy of the per-bin modulation factors for a flavor.
func (s *Service) Modulation(flavor string) ([]float64, error) {
	mod, ok := s.modulation[flavor]
	if !ok {
		return nil, fmt.Errorf("flavor %q: %w", flavor, params.ErrNotFound)
	}
	out := make([]float64, len(mod))
	copy(out, mod)
	return out, nil
}
