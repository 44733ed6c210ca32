package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Loader parses and validates template settings documents. The document
// format is JSON, which the CUE compiler accepts directly, so CUE-flavored
// settings files load through the same path.
type Loader struct {
	ctx      *cue.Context
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewLoader creates a new settings loader.
func NewLoader(logger zerolog.Logger) *Loader {
	v := validator.New()
	// Report findings under the document's field names, not Go's.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Loader{
		ctx:      cuecontext.New(),
		validate: v,
		logger:   logger.With().Str("component", "settings-loader").Logger(),
	}
}

// LoadFile loads template settings from a file.
func (l *Loader) LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template settings: %w", err)
	}
	return l.Load(path, data)
}

// Load parses and validates a template settings document. On failure it
// returns a *Error carrying every violation found, not just the first.
func (l *Loader) Load(source string, data []byte) (*Settings, error) {
	val := l.ctx.CompileBytes(data, cue.Filename(source))
	if err := val.Err(); err != nil {
		return nil, &Error{Source: source, Violations: convertCUEErrors(err)}
	}

	p := &pass{loader: l, source: source}
	settings := p.run(val)
	if len(p.errs) > 0 {
		l.logger.Error().
			Str("source", source).
			Int("violations", len(p.errs)).
			Msg("Template settings rejected")
		return nil, &Error{Source: source, Violations: p.errs}
	}

	settings.Source = source
	settings.Warnings = p.warns

	l.logger.Info().
		Str("source", source).
		Int("params", settings.Params.Len()).
		Int("free", len(settings.Params.Free())).
		Int("ebins", settings.EnergyAxis.NBins()).
		Int("czbins", settings.CosZenAxis.NBins()).
		Int("warnings", len(p.warns)).
		Msg("Template settings loaded")

	return settings, nil
}

// convertCUEErrors converts CUE errors to a ValidationError slice.
func convertCUEErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		var file string
		var line, column int
		if pos := cueerrors.Positions(e); len(pos) > 0 {
			file = pos[0].Filename()
			line = pos[0].Line()
			column = pos[0].Column()
		}
		out = append(out, ValidationError{
			File:     file,
			Line:     line,
			Column:   column,
			Message:  cueerrors.Details(e, nil),
			Severity: SeverityError,
		})
	}
	return out
}

// fieldName extracts the document key of a struct field.
func fieldName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}
