// Package telemetry provides structured logging for oscfit.
//
// It wraps zerolog with field helpers for the identifiers that recur across
// the codebase (settings source, fit run id, parameter name) and a small
// configuration type controlling level, format and destination. Component
// packages receive either a *Logger or its underlying zerolog.Logger via
// Zerolog and add their own component field.
package telemetry
