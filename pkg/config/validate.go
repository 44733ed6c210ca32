package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"cuelang.org/go/cue"
	"github.com/go-playground/validator/v10"

	"github.com/oscfit/oscfit/pkg/binning"
	"github.com/oscfit/oscfit/pkg/exprs"
	"github.com/oscfit/oscfit/pkg/params"
)

// pass is one collect-all validation pass over a compiled document.
type pass struct {
	loader *Loader
	source string
	errs   []ValidationError
	warns  []ValidationError
}

func (p *pass) errf(path, format string, args ...interface{}) {
	p.errs = append(p.errs, ValidationError{
		File:     p.source,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

func (p *pass) warnf(path, format string, args ...interface{}) {
	p.warns = append(p.warns, ValidationError{
		File:     p.source,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}

// structErrs converts validator findings into document-path findings.
func (p *pass) structErrs(prefix string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			p.errf(prefix+"."+fe.Field(), "failed %q constraint", fe.Tag())
		}
		return
	}
	p.errf(prefix, "%v", err)
}

// run validates the whole document and assembles the Settings. Callers must
// check p.errs before using the result.
func (p *pass) run(val cue.Value) *Settings {
	settings := &Settings{Params: params.NewSet()}

	p.binning(val, settings)
	p.params(val, settings)

	return settings
}

func (p *pass) binning(val cue.Value, settings *Settings) {
	bv := val.LookupPath(cue.ParsePath("binning"))
	if !bv.Exists() {
		p.errf("binning", "missing required object")
		return
	}

	var doc binningDoc
	if err := bv.Decode(&doc); err != nil {
		p.errf("binning", "failed to decode: %v", err)
		return
	}
	if err := p.loader.validate.Struct(doc); err != nil {
		// Axis construction would re-report the same fields under the
		// axis paths; one finding per defect.
		p.structErrs("binning", err)
		return
	}

	if axis, err := binning.NewAxis("ebins", doc.EBins, doc.OversampleE); err != nil {
		p.errf("binning.ebins", "%v", err)
	} else {
		settings.EnergyAxis = axis
	}
	if axis, err := binning.NewAxis("czbins", doc.CZBins, doc.OversampleCZ); err != nil {
		p.errf("binning.czbins", "%v", err)
	} else {
		settings.CosZenAxis = axis
	}
}

func (p *pass) params(val cue.Value, settings *Settings) {
	pv := val.LookupPath(cue.ParsePath("params"))
	if !pv.Exists() {
		p.errf("params", "missing required object")
		return
	}

	iter, err := pv.Fields()
	if err != nil {
		p.errf("params", "not an object: %v", err)
		return
	}

	for iter.Next() {
		name := fieldName(iter.Selector())
		param := p.param(name, iter.Value())
		if param == nil {
			continue
		}
		if err := settings.Params.Add(param); err != nil {
			p.errf("params."+name, "%v", err)
		}
	}

	p.hierarchyPairs(settings.Params)
	p.advisoryRanges(settings.Params)
}

// param decodes and validates a single parameter; nil if it had errors.
func (p *pass) param(name string, val cue.Value) *params.Parameter {
	path := "params." + name

	var doc paramDoc
	if err := val.Decode(&doc); err != nil {
		p.errf(path, "failed to decode: %v", err)
		return nil
	}
	if err := p.loader.validate.Struct(doc); err != nil {
		p.structErrs(path, err)
		return nil
	}
	if doc.Scale != nil && *doc.Scale == 0 {
		p.errf(path+".scale", "scale must be non-zero")
		return nil
	}
	if doc.Prior != nil && *doc.Prior <= 0 {
		p.errf(path+".prior", "prior sigma must be positive, got %g", *doc.Prior)
		return nil
	}

	value, ok := p.value(path, val.LookupPath(cue.ParsePath("value")))
	if !ok {
		return nil
	}

	var rng *[2]float64
	if len(doc.Range) == 2 {
		rng = &[2]float64{doc.Range[0], doc.Range[1]}
	}
	scale := 1.0
	if doc.Scale != nil {
		scale = *doc.Scale
	}

	param, err := params.New(name, value, doc.Fixed, rng, scale, doc.Prior)
	if err != nil {
		p.errf(path, "%v", err)
		return nil
	}
	return param
}

// value decodes the polymorphic "value" field by shape: scalar float,
// string path, flavor->string map, or flavor->channel->expression map.
func (p *pass) value(path string, val cue.Value) (params.Value, bool) {
	vpath := path + ".value"
	if !val.Exists() {
		p.errf(vpath, "missing required field")
		return params.Value{}, false
	}

	switch val.Kind() {
	case cue.IntKind, cue.FloatKind:
		f, err := val.Float64()
		if err != nil {
			p.errf(vpath, "not a float: %v", err)
			return params.Value{}, false
		}
		return params.Scalar(f), true

	case cue.StringKind:
		s, err := val.String()
		if err != nil {
			p.errf(vpath, "not a string: %v", err)
			return params.Value{}, false
		}
		return params.Path(s), true

	case cue.StructKind:
		return p.mapValue(vpath, val)

	default:
		p.errf(vpath, "unsupported value kind %s", val.Kind())
		return params.Value{}, false
	}
}

// mapValue decodes a struct-shaped value. A flat map of strings is either a
// per-flavor path map or a per-flavor curve map: if every entry parses in
// the restricted expression grammar it is a curve map, if none does it is a
// path map, and a mix is a document error. A nested map (flavor -> channel
// -> string, the particle_ID shape) is always a curve map with flattened
// "flavor.channel" keys.
func (p *pass) mapValue(vpath string, val cue.Value) (params.Value, bool) {
	flat := make(map[string]string)
	nested := false

	iter, err := val.Fields()
	if err != nil {
		p.errf(vpath, "not an object: %v", err)
		return params.Value{}, false
	}
	for iter.Next() {
		key := fieldName(iter.Selector())
		entry := iter.Value()

		switch entry.Kind() {
		case cue.StringKind:
			s, err := entry.String()
			if err != nil {
				p.errf(vpath+"."+key, "not a string: %v", err)
				return params.Value{}, false
			}
			flat[key] = s

		case cue.StructKind:
			nested = true
			inner, err := entry.Fields()
			if err != nil {
				p.errf(vpath+"."+key, "not an object: %v", err)
				return params.Value{}, false
			}
			for inner.Next() {
				channel := fieldName(inner.Selector())
				s, err := inner.Value().String()
				if err != nil {
					p.errf(vpath+"."+key+"."+channel, "not a string: %v", err)
					return params.Value{}, false
				}
				flat[key+"."+channel] = s
			}

		default:
			p.errf(vpath+"."+key, "unsupported entry kind %s", entry.Kind())
			return params.Value{}, false
		}
	}
	if len(flat) == 0 {
		p.errf(vpath, "mapping must not be empty")
		return params.Value{}, false
	}

	curves := make(map[string]*exprs.Compiled, len(flat))
	parseFailures := make(map[string]error)
	for key, src := range flat {
		c, err := exprs.Compile(src)
		if err != nil {
			parseFailures[key] = err
		} else {
			curves[key] = c
		}
	}

	pathLike := true
	for _, src := range flat {
		if looksLikeCurve(src) {
			pathLike = false
			break
		}
	}

	switch {
	case len(parseFailures) == 0:
		return params.CurveMap(curves), true
	case !nested && len(parseFailures) == len(flat) && pathLike:
		return params.PathMap(flat), true
	default:
		// A nested map is always expressions, a flat map must not mix
		// expressions with file paths, and a map of malformed expressions
		// must never silently degrade to paths; report every failing entry.
		for key, err := range parseFailures {
			p.errf(vpath+"."+key, "%v", err)
		}
		return params.Value{}, false
	}
}

// looksLikeCurve reports whether a string that did not parse as an
// expression was probably meant as one rather than as a file path: it
// contains arithmetic characters no path uses, or references a formal
// variable by name.
func looksLikeCurve(s string) bool {
	if strings.ContainsAny(s, "()*+") {
		return true
	}
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}) {
		if word == exprs.VarEnergy || word == exprs.VarCosZen {
			return true
		}
	}
	return false
}

// hierarchyPairs rejects a document declaring both the bare and the
// hierarchy-split form of a parameter, which would collide on selection.
func (p *pass) hierarchyPairs(set *params.Set) {
	for _, name := range set.Names() {
		for _, suffix := range []string{"_nh", "_ih"} {
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			bare := strings.TrimSuffix(name, suffix)
			if _, err := set.Get(bare); err == nil {
				p.errf("params."+name, "conflicts with %q on hierarchy selection", bare)
			}
		}
	}
}

// advisoryRanges flags free parameters whose nominal value sits on or
// outside their own range. Operator error, not fatal.
func (p *pass) advisoryRanges(set *params.Set) {
	for _, param := range set.Free() {
		if !param.InRange() {
			cur, _ := param.Current()
			rng, _ := param.Range()
			p.warnf("params."+param.Name()+".value",
				"value %g is not strictly inside range [%g, %g]", cur, rng[0], rng[1])
		}
	}
}
