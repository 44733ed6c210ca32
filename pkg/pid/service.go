// Package pid builds particle-identification probability maps from the
// parametrized track/cascade curves in the template settings. Each
// interaction signature (nuall_nc, nue_cc, numu_cc, nutau_cc) carries a pair
// of energy curves; the service evaluates them at the oversampled energy
// bin centers and expands them to (energy, cos-zenith) maps.
package pid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/oscfit/oscfit/pkg/binning"
	"github.com/oscfit/oscfit/pkg/params"
)

// Channel names inside a signature's curve pair.
const (
	ChannelTrack   = "trck"
	ChannelCascade = "cscd"
)

// Maps holds the classification probabilities of one signature on the
// evaluation grid, indexed [energy][coszen]. The curves depend on energy
// only, so rows are constant across cos-zenith.
type Maps struct {
	Track   [][]float64
	Cascade [][]float64
}

// Service owns the evaluated PID maps for every signature of a document.
type Service struct {
	logger zerolog.Logger
	maps   map[string]Maps
}

// NewService evaluates the particle_ID curves at the centers of the given
// grids. It fails if a signature misses one of its two channels, if a curve
// hits a math domain error anywhere on the grid, or if any probability is
// negative; a negative classification probability means the
// parametrization is broken and must be investigated, not clamped.
func NewService(logger zerolog.Logger, set *params.Set, egrid, czgrid binning.Grid) (*Service, error) {
	param, err := set.Get(params.NameParticleID)
	if err != nil {
		return nil, err
	}
	keys, err := param.Value().CurveKeys()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.NameParticleID, err)
	}

	signatures := make(map[string]bool)
	for _, key := range keys {
		sig, _, ok := strings.Cut(key, ".")
		if !ok {
			return nil, fmt.Errorf("%s: key %q is not signature.channel", params.NameParticleID, key)
		}
		signatures[sig] = true
	}

	ecen := egrid.Centers()
	nCZ := czgrid.NBins()

	s := &Service{
		logger: logger.With().Str("component", "pid").Logger(),
		maps:   make(map[string]Maps, len(signatures)),
	}

	for sig := range signatures {
		track, err := s.evaluate(set, sig, ChannelTrack, ecen, nCZ)
		if err != nil {
			return nil, err
		}
		cascade, err := s.evaluate(set, sig, ChannelCascade, ecen, nCZ)
		if err != nil {
			return nil, err
		}
		s.maps[sig] = Maps{Track: track, Cascade: cascade}
	}

	s.logger.Info().
		Int("signatures", len(s.maps)).
		Int("ebins", len(ecen)).
		Int("czbins", nCZ).
		Msg("PID maps built")

	return s, nil
}

// evaluate computes one channel's probability map over the grid.
func (s *Service) evaluate(set *params.Set, sig, channel string, ecen []float64, nCZ int) ([][]float64, error) {
	key := sig + "." + channel
	out := make([][]float64, len(ecen))
	for i, e := range ecen {
		p, err := set.ResolveExpression(params.NameParticleID, key, e)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s at E=%g: %w", key, e, err)
		}
		if p < 0 {
			return nil, fmt.Errorf("%s at E=%g is negative (%g): investigate parametrization", key, e, p)
		}
		row := make([]float64, nCZ)
		for j := range row {
			row[j] = p
		}
		out[i] = row
	}
	return out, nil
}

// Signatures returns the sorted interaction signatures.
func (s *Service) Signatures() []string {
	out := make([]string, 0, len(s.maps))
	for sig := range s.maps {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}

// MapsFor returns the probability maps of one signature.
func (s *Service) MapsFor(signature string) (Maps, error) {
	m, ok := s.maps[signature]
	if !ok {
		return Maps{}, fmt.Errorf("signature %q: %w", signature, params.ErrNotFound)
	}
	return m, nil
}
