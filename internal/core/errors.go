package core

import (
	"errors"
	"fmt"
)

// ErrMisconfigured matches every Misconfiguration via errors.Is.
var ErrMisconfigured = errors.New("misconfigured")

// Misconfiguration is a non-retryable failure caused by invalid parameters or
// a broken screen catalog. Retrying with a new seed can never fix it.
type Misconfiguration struct {
	Reason string
}

// Misconfigured builds a Misconfiguration from a format string.
func Misconfigured(format string, args ...any) error {
	return &Misconfiguration{Reason: fmt.Sprintf(format, args...)}
}

func (e *Misconfiguration) Error() string { return "misconfigured: " + e.Reason }

// Is lets errors.Is(err, ErrMisconfigured) match.
func (e *Misconfiguration) Is(target error) bool { return target == ErrMisconfigured }
