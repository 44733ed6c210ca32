package exprs

import (
	"math"
	"testing"
)

func TestCompile_AcceptsParametrizationCurves(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantVar string
	}{
		{
			name:    "aeff coszen curve",
			src:     "0.903*abs(cz)**0.420+0.363",
			wantVar: VarCosZen,
		},
		{
			name:    "pid track sigmoid",
			src:     "0.868/(exp((0.822-log10(E))/0.301)+1)+0.043",
			wantVar: VarEnergy,
		},
		{
			name:    "pid cascade complement",
			src:     "1.0-(0.868/(exp((0.822-log10(E))/0.301)+1)+0.043)",
			wantVar: VarEnergy,
		},
		{
			name:    "nc track sigmoid",
			src:     "0.132/(exp((2.806-log10(E))/0.259)+1)+0.012",
			wantVar: VarEnergy,
		},
		{
			name:    "constant curve",
			src:     "1.0",
			wantVar: "",
		},
		{
			name:    "unary minus and parens",
			src:     "-(cz+1.0)*0.5",
			wantVar: VarCosZen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.src, err)
			}
			if c.Var() != tt.wantVar {
				t.Errorf("Var() = %q, want %q", c.Var(), tt.wantVar)
			}
			if c.Source() != tt.src {
				t.Errorf("Source() = %q, want %q", c.Source(), tt.src)
			}
		})
	}
}

func TestCompile_RejectsOutsideGrammar(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "assignment", src: "E = 1"},
		{name: "control flow", src: "1 if E > 0 else 2"},
		{name: "lambda", src: "lambda E: E"},
		{name: "unknown function", src: "sin(E)"},
		{name: "unknown variable", src: "0.5*energy"},
		{name: "mixed variables", src: "E*cz"},
		{name: "attribute access", src: "math.exp(E)"},
		{name: "string literal", src: "'import os'"},
		{name: "comparison", src: "E > 1"},
		{name: "list comprehension", src: "[x for x in range(3)]"},
		{name: "call on non-identifier", src: "(abs)(E)"},
		{name: "wrong arity", src: "abs(E, 2)"},
		{name: "modulo", src: "E % 2"},
		{name: "empty", src: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			if err == nil {
				t.Fatalf("Compile(%q) accepted, want parse error", tt.src)
			}
			if !IsParse(err) {
				t.Errorf("Compile(%q) error = %v, want parse kind", tt.src, err)
			}
		})
	}
}

func TestEval_CurveValues(t *testing.T) {
	const tol = 1e-9

	tests := []struct {
		name string
		src  string
		x    float64
		want float64
	}{
		{
			name: "aeff coszen at -1",
			src:  "0.903*abs(cz)**0.420+0.363",
			x:    -1.0,
			want: 1.266,
		},
		{
			name: "aeff coszen at -0.5",
			src:  "0.903*abs(cz)**0.420+0.363",
			x:    -0.5,
			want: 0.903*math.Pow(0.5, 0.420) + 0.363,
		},
		{
			name: "pid track at 10 GeV",
			src:  "0.868/(exp((0.822-log10(E))/0.301)+1)+0.043",
			x:    10.0,
			want: 0.868/(math.Exp((0.822-1.0)/0.301)+1) + 0.043,
		},
		{
			name: "parenthesized power",
			src:  "-(E**2)",
			x:    3.0,
			want: -9.0,
		},
		{
			name: "power binds tighter than unary minus",
			src:  "-E**2",
			x:    3.0,
			want: -9.0,
		},
		{
			name: "power is right associative",
			src:  "2**3**2",
			x:    0,
			want: 512.0,
		},
		{
			name: "signed exponent",
			src:  "2**-1",
			x:    0,
			want: 0.5,
		},
		{
			name: "integer division stays floating",
			src:  "1/E",
			x:    4.0,
			want: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.src, tt.x)
			if err != nil {
				t.Fatalf("Eval(%q, %g) failed: %v", tt.src, tt.x, err)
			}
			if math.Abs(got-tt.want) > tol {
				t.Errorf("Eval(%q, %g) = %.12g, want %.12g", tt.src, tt.x, got, tt.want)
			}
		})
	}
}

func TestEval_TrackProbabilityIsAProbability(t *testing.T) {
	trck := MustCompile("0.868/(exp((0.822-log10(E))/0.301)+1)+0.043")
	cscd := MustCompile("1.0-(0.868/(exp((0.822-log10(E))/0.301)+1)+0.043)")

	for _, e := range []float64{1, 2, 5, 10, 20, 40, 80} {
		pt, err := trck.Eval(e)
		if err != nil {
			t.Fatalf("trck.Eval(%g) failed: %v", e, err)
		}
		if pt <= 0 || pt >= 1 {
			t.Errorf("trck(%g) = %g, want in (0,1)", e, pt)
		}
		pc, err := cscd.Eval(e)
		if err != nil {
			t.Fatalf("cscd.Eval(%g) failed: %v", e, err)
		}
		if math.Abs(pt+pc-1.0) > 1e-12 {
			t.Errorf("trck+cscd at E=%g = %g, want 1", e, pt+pc)
		}
	}
}

func TestEval_DomainErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		x    float64
	}{
		{name: "log10 of zero", src: "log10(E)", x: 0},
		{name: "log10 of negative", src: "log10(cz)", x: -0.5},
		{name: "division by zero", src: "1/E", x: 0},
		{name: "fractional power of negative", src: "cz**0.5", x: -1.0},
		{name: "overflowing exp", src: "exp(E)", x: 1e6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.src, tt.x)
			if err == nil {
				t.Fatalf("Eval(%q, %g) succeeded, want domain error", tt.src, tt.x)
			}
			if !IsDomain(err) {
				t.Errorf("Eval(%q, %g) error = %v, want domain kind", tt.src, tt.x, err)
			}
		})
	}
}

func TestCompiled_ConcurrentEval(t *testing.T) {
	c := MustCompile("0.903*abs(cz)**0.420+0.363")

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for cz := -1.0; cz <= 0; cz += 0.01 {
				if _, err := c.Eval(cz); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Eval failed: %v", err)
		}
	}
}
