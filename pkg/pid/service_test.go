package pid

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/oscfit/oscfit/pkg/binning"
	"github.com/oscfit/oscfit/pkg/exprs"
	"github.com/oscfit/oscfit/pkg/params"
)

func testGrids(t *testing.T) (binning.Grid, binning.Grid) {
	t.Helper()
	eaxis, err := binning.NewAxis("ebins", []float64{1, 10, 100}, 2)
	if err != nil {
		t.Fatalf("NewAxis(ebins) failed: %v", err)
	}
	czaxis, err := binning.NewAxis("czbins", []float64{-1, -0.5, 0}, 2)
	if err != nil {
		t.Fatalf("NewAxis(czbins) failed: %v", err)
	}
	return binning.Build(eaxis), binning.Build(czaxis)
}

func setWithCurves(t *testing.T, curves map[string]string) *params.Set {
	t.Helper()
	compiled := make(map[string]*exprs.Compiled, len(curves))
	for k, src := range curves {
		compiled[k] = exprs.MustCompile(src)
	}
	p, err := params.New(params.NameParticleID, params.CurveMap(compiled), true, nil, 1.0, nil)
	if err != nil {
		t.Fatalf("params.New failed: %v", err)
	}
	s := params.NewSet()
	if err := s.Add(p); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return s
}

func TestNewService_BuildsProbabilityMaps(t *testing.T) {
	egrid, czgrid := testGrids(t)
	set := setWithCurves(t, map[string]string{
		"numu_cc.trck": "0.868/(exp((0.822-log10(E))/0.301)+1)+0.043",
		"numu_cc.cscd": "1.0-(0.868/(exp((0.822-log10(E))/0.301)+1)+0.043)",
		"nuall_nc.trck": "0.132/(exp((2.806-log10(E))/0.259)+1)+0.012",
		"nuall_nc.cscd": "1.0-(0.132/(exp((2.806-log10(E))/0.259)+1)+0.012)",
	})

	svc, err := NewService(zerolog.Nop(), set, egrid, czgrid)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	sigs := svc.Signatures()
	if len(sigs) != 2 || sigs[0] != "nuall_nc" || sigs[1] != "numu_cc" {
		t.Fatalf("Signatures() = %v", sigs)
	}

	maps, err := svc.MapsFor("numu_cc")
	if err != nil {
		t.Fatalf("MapsFor failed: %v", err)
	}
	if len(maps.Track) != egrid.NBins() {
		t.Fatalf("track map has %d energy rows, want %d", len(maps.Track), egrid.NBins())
	}
	for i, row := range maps.Track {
		if len(row) != czgrid.NBins() {
			t.Fatalf("track row %d has %d columns, want %d", i, len(row), czgrid.NBins())
		}
		for j := range row {
			pt, pc := maps.Track[i][j], maps.Cascade[i][j]
			if pt <= 0 || pt >= 1 {
				t.Errorf("track[%d][%d] = %g, want in (0,1)", i, j, pt)
			}
			if math.Abs(pt+pc-1.0) > 1e-12 {
				t.Errorf("track+cascade at [%d][%d] = %g, want 1", i, j, pt+pc)
			}
			// The curves depend on energy only.
			if row[j] != row[0] {
				t.Errorf("track[%d] varies across coszen", i)
			}
		}
	}
}

func TestNewService_RejectsNegativeProbability(t *testing.T) {
	egrid, czgrid := testGrids(t)
	set := setWithCurves(t, map[string]string{
		"numu_cc.trck": "0.0-0.1",
		"numu_cc.cscd": "1.1",
	})

	if _, err := NewService(zerolog.Nop(), set, egrid, czgrid); err == nil {
		t.Fatal("NewService accepted a negative probability curve")
	}
}

func TestNewService_RejectsMissingChannel(t *testing.T) {
	egrid, czgrid := testGrids(t)
	set := setWithCurves(t, map[string]string{
		"numu_cc.trck": "0.5",
	})

	if _, err := NewService(zerolog.Nop(), set, egrid, czgrid); err == nil {
		t.Fatal("NewService accepted a signature without a cascade channel")
	}
}

func TestNewService_RejectsFlatKeys(t *testing.T) {
	egrid, czgrid := testGrids(t)
	set := setWithCurves(t, map[string]string{
		"numu_cc": "0.5",
	})

	if _, err := NewService(zerolog.Nop(), set, egrid, czgrid); err == nil {
		t.Fatal("NewService accepted a key without a channel")
	}
}

func TestService_MapsForUnknownSignature(t *testing.T) {
	egrid, czgrid := testGrids(t)
	set := setWithCurves(t, map[string]string{
		"numu_cc.trck": "0.5",
		"numu_cc.cscd": "0.5",
	})
	svc, err := NewService(zerolog.Nop(), set, egrid, czgrid)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if _, err := svc.MapsFor("nutau_cc"); err == nil {
		t.Error("MapsFor(nutau_cc) succeeded, want error")
	}
}
