package params

// Canonical parameter names of the template settings document.
const (
	NameDeltaM31   = "deltam31" // after hierarchy selection
	NameDeltaM31NH = "deltam31_nh"
	NameDeltaM31IH = "deltam31_ih"
	NameDeltaM21   = "deltam21"
	NameTheta23    = "theta23"
	NameTheta13    = "theta13"
	NameTheta12    = "theta12"
	NameDeltaCP    = "deltacp"

	NameEnergyScale    = "energy_scale"
	NameAeffScale      = "aeff_scale"
	NameNuXSecScale    = "nu_xsec_scale"
	NameNuBarXSecScale = "nubar_xsec_scale"

	NameFluxFile       = "flux_file"
	NameEarthModel     = "earth_model"
	NameOscCode        = "osc_code"
	NameAeffWeightFile = "aeff_weight_file"
	NameRecoWeightFile = "reco_weight_file"
	NameAeffEgyPar     = "aeff_egy_par"
	NameAeffCosZenPar  = "aeff_coszen_par"
	NameParticleID     = "particle_ID"
)

// OscParams is the resolved surface the oscillation probability code
// consumes. Build it from a hierarchy-selected set.
type OscParams struct {
	DeltaM31 float64
	DeltaM21 float64
	Theta23  float64
	Theta13  float64
	Theta12  float64
	DeltaCP  float64

	FluxFile   string
	EarthModel string
	OscCode    string
}

// OscillationView collects the oscillation-engine parameters from a
// hierarchy-selected set (one holding "deltam31", not the _nh/_ih pair).
func OscillationView(s *Set) (OscParams, error) {
	var out OscParams
	var err error

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{NameDeltaM31, &out.DeltaM31},
		{NameDeltaM21, &out.DeltaM21},
		{NameTheta23, &out.Theta23},
		{NameTheta13, &out.Theta13},
		{NameTheta12, &out.Theta12},
		{NameDeltaCP, &out.DeltaCP},
	} {
		if *f.dst, err = s.Scalar(f.name); err != nil {
			return OscParams{}, err
		}
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{NameFluxFile, &out.FluxFile},
		{NameEarthModel, &out.EarthModel},
		{NameOscCode, &out.OscCode},
	} {
		if *f.dst, err = s.PathOf(f.name); err != nil {
			return OscParams{}, err
		}
	}

	return out, nil
}

// AeffParams is the surface the effective-area weighting stage consumes.
// The cos-zenith modulation curves stay behind ResolveExpression.
type AeffParams struct {
	WeightFile     string
	EnergyParFiles map[string]string
	Scale          float64
}

// AeffView collects the effective-area parameters.
func AeffView(s *Set) (AeffParams, error) {
	var out AeffParams
	var err error

	if out.WeightFile, err = s.PathOf(NameAeffWeightFile); err != nil {
		return AeffParams{}, err
	}
	if out.EnergyParFiles, err = s.PathMapOf(NameAeffEgyPar); err != nil {
		return AeffParams{}, err
	}
	if out.Scale, err = s.Scalar(NameAeffScale); err != nil {
		return AeffParams{}, err
	}
	return out, nil
}
