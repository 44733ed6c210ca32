package aeff

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/oscfit/oscfit/pkg/binning"
	"github.com/oscfit/oscfit/pkg/exprs"
	"github.com/oscfit/oscfit/pkg/params"
)

func testSet(t *testing.T, scale float64, curve string) *params.Set {
	t.Helper()
	s := params.NewSet()
	add := func(name string, value params.Value) {
		t.Helper()
		p, err := params.New(name, value, true, nil, 1.0, nil)
		if err != nil {
			t.Fatalf("params.New(%s) failed: %v", name, err)
		}
		if err := s.Add(p); err != nil {
			t.Fatalf("Add(%s) failed: %v", name, err)
		}
	}

	add(params.NameAeffScale, params.Scalar(scale))
	add(params.NameAeffWeightFile, params.Path("events/V15_weighted_aeff.hdf5"))
	add(params.NameAeffEgyPar, params.PathMap(map[string]string{
		"nue": "aeff/V15/a_eff_nue.dat", "numu": "aeff/V15/a_eff_numu.dat",
	}))
	add(params.NameAeffCosZenPar, params.CurveMap(map[string]*exprs.Compiled{
		"nue":  exprs.MustCompile(curve),
		"numu": exprs.MustCompile(curve),
	}))
	return s
}

func czGrid(t *testing.T, edges []float64, oversample int) binning.Grid {
	t.Helper()
	axis, err := binning.NewAxis("czbins", edges, oversample)
	if err != nil {
		t.Fatalf("NewAxis failed: %v", err)
	}
	return binning.Build(axis)
}

func TestNewService_Modulation(t *testing.T) {
	set := testSet(t, 1.2, "0.903*abs(cz)**0.420+0.363")
	grid := czGrid(t, []float64{-1, 0}, 1) // single bin, center -0.5

	svc, err := NewService(zerolog.Nop(), set, grid)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if got := svc.Flavors(); len(got) != 2 || got[0] != "nue" || got[1] != "numu" {
		t.Fatalf("Flavors() = %v", got)
	}
	if svc.Scale() != 1.2 {
		t.Errorf("Scale() = %v, want 1.2", svc.Scale())
	}

	mod, err := svc.Modulation("nue")
	if err != nil {
		t.Fatalf("Modulation failed: %v", err)
	}
	want := (0.903*math.Pow(0.5, 0.420) + 0.363) * 1.2
	if len(mod) != 1 || math.Abs(mod[0]-want) > 1e-12 {
		t.Errorf("Modulation(nue) = %v, want [%v]", mod, want)
	}

	// The returned slice is a copy.
	mod[0] = -1
	mod2, _ := svc.Modulation("nue")
	if mod2[0] == -1 {
		t.Error("Modulation returned an aliased slice")
	}

	path, err := svc.TableFile("numu")
	if err != nil {
		t.Fatalf("TableFile failed: %v", err)
	}
	if path != "aeff/V15/a_eff_numu.dat" {
		t.Errorf("TableFile(numu) = %q", path)
	}
}

func TestNewService_GridLength(t *testing.T) {
	set := testSet(t, 1.0, "0.903*abs(cz)**0.420+0.363")
	grid := czGrid(t, []float64{-1, -0.5, 0}, 5)

	svc, err := NewService(zerolog.Nop(), set, grid)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	mod, err := svc.Modulation("numu")
	if err != nil {
		t.Fatalf("Modulation failed: %v", err)
	}
	if len(mod) != grid.NBins() {
		t.Errorf("modulation length = %d, want %d", len(mod), grid.NBins())
	}
}

func TestNewService_DomainErrorSurfaces(t *testing.T) {
	// log10 of a negative cos-zenith center must fail loudly, not clamp.
	set := testSet(t, 1.0, "log10(cz)")
	grid := czGrid(t, []float64{-1, 0}, 1)

	if _, err := NewService(zerolog.Nop(), set, grid); err == nil {
		t.Fatal("NewService accepted a curve with a domain error on the grid")
	} else if !exprs.IsDomain(err) {
		t.Errorf("error = %v, want domain kind", err)
	}
}

func TestService_UnknownFlavor(t *testing.T) {
	set := testSet(t, 1.0, "1.0")
	svc, err := NewService(zerolog.Nop(), set, czGrid(t, []float64{-1, 0}, 1))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if _, err := svc.Modulation("nutau"); err == nil {
		t.Error("Modulation(nutau) succeeded, want error")
	}
	if _, err := svc.TableFile("nutau"); err == nil {
		t.Error("TableFile(nutau) succeeded, want error")
	}
}
