// Package faults defines the error taxonomy shared across the engine.
//
// Three conditions matter to callers: a place that simply is not there
// (NotFound), a spent daily budget (QuotaExhausted), and a defect in the
// wiring itself (Configuration). Everything else that goes wrong while
// working a keyword is a recoverable fetch failure.
package faults

import (
	"errors"

	"github.com/rotisserie/eris"
)

var (
	// ErrNotFound signals the map surface produced no usable identity for
	// a keyword. Expected, not an error condition for the run.
	ErrNotFound = errors.New("place not found")

	// ErrQuotaExhausted signals the daily budget for a source is spent.
	// Terminal for the run, triggers a checkpoint.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrConfiguration signals a programming or config defect (unknown
	// source kind, missing mapping entry). Fatal, aborts the run.
	ErrConfiguration = errors.New("configuration error")
)

// Configf wraps ErrConfiguration with a formatted description.
func Configf(format string, args ...any) error {
	return eris.Wrapf(ErrConfiguration, format, args...)
}

// IsFatal reports whether the error must abort the whole run rather than
// skip the current keyword.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
