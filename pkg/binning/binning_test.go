package binning

import (
	"math"
	"testing"
)

func TestNewAxis_Validation(t *testing.T) {
	tests := []struct {
		name       string
		edges      []float64
		oversample int
		wantErr    bool
	}{
		{name: "valid", edges: []float64{1, 2, 4, 8}, oversample: 10, wantErr: false},
		{name: "oversample one", edges: []float64{-1, 0}, oversample: 1, wantErr: false},
		{name: "single edge", edges: []float64{1}, oversample: 1, wantErr: true},
		{name: "empty", edges: nil, oversample: 1, wantErr: true},
		{name: "non increasing", edges: []float64{-1, -0.5, -0.5, 0}, oversample: 1, wantErr: true},
		{name: "decreasing", edges: []float64{0, -0.5, -1}, oversample: 1, wantErr: true},
		{name: "zero oversample", edges: []float64{1, 2}, oversample: 0, wantErr: true},
		{name: "negative oversample", edges: []float64{1, 2}, oversample: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAxis("test", tt.edges, tt.oversample)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAxis() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestAxis_EdgesAreCopied(t *testing.T) {
	in := []float64{1, 2, 3}
	axis, err := NewAxis("test", in, 1)
	if err != nil {
		t.Fatalf("NewAxis() failed: %v", err)
	}

	in[0] = 99
	axis.Edges()[1] = 99

	if got := axis.Edges(); got[0] != 1 || got[1] != 2 {
		t.Errorf("axis edges mutated through aliasing: %v", got)
	}
}

func TestBuild_OversampleOneIsIdentity(t *testing.T) {
	edges := []float64{1, 1.20032, 1.44076, 2.07578, 80}
	axis, err := NewAxis("ebins", edges, 1)
	if err != nil {
		t.Fatalf("NewAxis() failed: %v", err)
	}

	got := Build(axis).Edges()
	if len(got) != len(edges) {
		t.Fatalf("Build() returned %d edges, want %d", len(got), len(edges))
	}
	for i := range edges {
		if got[i] != edges[i] {
			t.Errorf("edge[%d] = %v, want %v exactly", i, got[i], edges[i])
		}
	}
}

func TestBuild_EdgeCountAndBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		edges      []float64
		oversample int
	}{
		{name: "linear cz by 10", edges: []float64{-1.0, -0.75, -0.5, -0.25, 0.0}, oversample: 10},
		{name: "irregular energy by 3", edges: []float64{1, 2, 5, 10, 80}, oversample: 3},
		{name: "two edges by 7", edges: []float64{-1, 0}, oversample: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, err := NewAxis("test", tt.edges, tt.oversample)
			if err != nil {
				t.Fatalf("NewAxis() failed: %v", err)
			}
			grid := Build(axis)

			wantLen := (len(tt.edges)-1)*tt.oversample + 1
			got := grid.Edges()
			if len(got) != wantLen {
				t.Fatalf("Build() returned %d edges, want %d", len(got), wantLen)
			}

			// Every coarse boundary must be reproduced exactly.
			for i, coarse := range tt.edges {
				if got[i*tt.oversample] != coarse {
					t.Errorf("fine edge[%d] = %v, want coarse boundary %v exactly",
						i*tt.oversample, got[i*tt.oversample], coarse)
				}
			}

			// Edges stay strictly increasing.
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Errorf("fine edges not increasing at %d: %v <= %v", i, got[i], got[i-1])
				}
			}
		})
	}
}

func TestBuild_IsDeterministic(t *testing.T) {
	axis, err := NewAxis("ebins", []float64{1, 3.7, 9.1, 42.5, 80}, 13)
	if err != nil {
		t.Fatalf("NewAxis() failed: %v", err)
	}

	a := Build(axis).Edges()
	b := Build(axis).Edges()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Build() not bit-identical at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBuild_SubdivisionIsEqualWidth(t *testing.T) {
	axis, err := NewAxis("czbins", []float64{-1.0, -0.5, 0.0}, 4)
	if err != nil {
		t.Fatalf("NewAxis() failed: %v", err)
	}

	got := Build(axis).Edges()
	want := []float64{-1.0, -0.875, -0.75, -0.625, -0.5, -0.375, -0.25, -0.125, 0.0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Errorf("edge[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIsLinearIsLogarithmic(t *testing.T) {
	linear := []float64{-1.0, -0.8, -0.6, -0.4, -0.2, 0.0}
	logarithmic := []float64{1, 10, 100, 1000}
	irregular := []float64{1, 2, 5, 10}

	if !IsLinear(linear) {
		t.Error("IsLinear(linear) = false, want true")
	}
	if IsLinear(logarithmic) {
		t.Error("IsLinear(logarithmic) = true, want false")
	}
	if !IsLogarithmic(logarithmic) {
		t.Error("IsLogarithmic(logarithmic) = false, want true")
	}
	if IsLogarithmic(linear) {
		t.Error("IsLogarithmic(linear) = true, want false")
	}
	if IsLinear(irregular) || IsLogarithmic(irregular) {
		t.Error("irregular edges classified as regular")
	}
}

func TestCenters(t *testing.T) {
	linAxis, err := NewAxis("czbins", []float64{-1.0, -0.5, 0.0}, 1)
	if err != nil {
		t.Fatalf("NewAxis() failed: %v", err)
	}
	got := Build(linAxis).Centers()
	want := []float64{-0.75, -0.25}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Errorf("linear center[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	logAxis, err := NewAxis("ebins", []float64{1, 10, 100}, 1)
	if err != nil {
		t.Fatalf("NewAxis() failed: %v", err)
	}
	got = Build(logAxis).Centers()
	want = []float64{math.Sqrt(10), math.Sqrt(1000)}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("log center[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
