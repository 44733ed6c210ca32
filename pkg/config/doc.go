// Package config loads and validates template settings documents for an
// atmospheric neutrino oscillation analysis.
//
// # Overview
//
// A template settings document is a single JSON object with two top-level
// keys: "binning" (energy and cosine-zenith bin edges plus per-axis
// oversampling factors) and "params" (named physical parameters carrying a
// nominal value, fixed/free flag, range, fit scale and optional Gaussian
// prior). The loader parses the document with the CUE compiler, so plain
// JSON and CUE-flavored settings load through the same path, and produces
// the typed structures the rest of the analysis consumes: two
// binning.Axis values and a params.Set.
//
// # Validation
//
// Validation is collect-all: a single Load reports every violation found
// (non-monotonic bin edges, non-positive oversampling, a free parameter
// without a range, malformed parametrization expressions), so a broken
// document is fixed in one round trip. Embedded expression strings are
// parse-checked at load time against the restricted grammar in package
// exprs; evaluation-time domain errors remain the caller's to handle.
// Advisory findings, such as a nominal value sitting outside its own
// declared range, are reported as warnings on the loaded Settings rather
// than blocking the load.
package config
