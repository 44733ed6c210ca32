package config

import (
	"fmt"
	"strings"

	"github.com/oscfit/oscfit/pkg/binning"
	"github.com/oscfit/oscfit/pkg/params"
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single validation finding with location
// information.
type ValidationError struct {
	// File is the source file path.
	File string `json:"file,omitempty"`

	// Line is the line number (1-indexed).
	Line int `json:"line,omitempty"`

	// Column is the column number (1-indexed).
	Column int `json:"column,omitempty"`

	// Path is the document path of the finding (e.g. "binning.czbins",
	// "params.theta23.range").
	Path string `json:"path,omitempty"`

	// Message is the error message.
	Message string `json:"message"`

	// Severity is "error" or "warning".
	Severity string `json:"severity"`
}

// String formats one finding on a single line.
func (v ValidationError) String() string {
	var b strings.Builder
	b.WriteString(v.Severity)
	if v.File != "" {
		fmt.Fprintf(&b, " %s", v.File)
		if v.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", v.Line, v.Column)
		}
	}
	if v.Path != "" {
		fmt.Fprintf(&b, " [%s]", v.Path)
	}
	b.WriteString(": ")
	b.WriteString(v.Message)
	return b.String()
}

// Error aggregates every violation found in one validation pass over a
// document. Validation collects all findings instead of stopping at the
// first, so a broken document is fixed in one round trip.
type Error struct {
	// Source names the document (file path or "inline").
	Source string

	// Violations lists every finding at error severity.
	Violations []ValidationError
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid template settings %s: %d violation(s)", e.Source, len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Settings is the fully loaded and validated configuration: the two binning
// axes and the parameter set every collaborator queries.
type Settings struct {
	// EnergyAxis is the coarse energy binning with its oversampling factor.
	EnergyAxis binning.Axis

	// CosZenAxis is the coarse cosine-zenith binning with its oversampling
	// factor.
	CosZenAxis binning.Axis

	// Params owns all parameters of the document.
	Params *params.Set

	// Source names the document the settings came from.
	Source string

	// Warnings lists advisory findings (e.g. a nominal value sitting outside
	// its own range) that did not block loading.
	Warnings []ValidationError
}

// binningDoc mirrors the document's "binning" object.
type binningDoc struct {
	EBins        []float64 `json:"ebins" validate:"required,min=2"`
	CZBins       []float64 `json:"czbins" validate:"required,min=2"`
	OversampleE  int       `json:"oversample_e" validate:"required,min=1"`
	OversampleCZ int       `json:"oversample_cz" validate:"required,min=1"`
}

// paramDoc mirrors one entry of the document's "params" object, minus the
// polymorphic "value" field, which is decoded by shape in the loader.
type paramDoc struct {
	Fixed bool      `json:"fixed"`
	Range []float64 `json:"range,omitempty" validate:"omitempty,len=2"`
	Scale *float64  `json:"scale,omitempty"`
	Prior *float64  `json:"prior,omitempty"`
}
