package exprs

import (
	"errors"
	"fmt"
)

// ErrorKind classifies expression failures.
type ErrorKind string

const (
	// KindParse indicates the source string is not in the supported grammar.
	KindParse ErrorKind = "parse"

	// KindDomain indicates a math domain violation during evaluation
	// (log of a non-positive value, division by zero, non-finite result).
	KindDomain ErrorKind = "domain"
)

// Error is the error type for the restricted expression grammar.
// nolint:revive // exprs.Error reads naturally at call sites
type Error struct {
	// Kind is the error classification.
	Kind ErrorKind

	// Source is the expression string being parsed or evaluated.
	Source string

	// Message is the human-readable error message.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("expression %s error in %q: %s: %v", e.Kind, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("expression %s error in %q: %s", e.Kind, e.Source, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsParse reports whether err is an expression parse error.
func IsParse(err error) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Kind == KindParse
}

// IsDomain reports whether err is an expression domain error.
func IsDomain(err error) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Kind == KindDomain
}

func parseErrf(src, format string, args ...interface{}) *Error {
	return &Error{Kind: KindParse, Source: src, Message: fmt.Sprintf(format, args...)}
}

func domainErrf(src, format string, args ...interface{}) *Error {
	return &Error{Kind: KindDomain, Source: src, Message: fmt.Sprintf(format, args...)}
}
