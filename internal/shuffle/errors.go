package shuffle

import (
	"fmt"
	"strings"
)

// Failure is a retryable stage failure: the attempt is discarded and the
// driver starts over with a fresh one.
type Failure struct {
	Stage  string
	Reason string
	// Snapshot is a text rendering of the grid or map when the stage failed.
	Snapshot string
}

// Fail builds a Failure from a format string. The driver fills in the stage
// name and snapshot.
func Fail(format string, args ...any) error {
	return &Failure{Reason: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	if f.Stage == "" {
		return f.Reason
	}
	return f.Stage + ": " + f.Reason
}

// GenerationFailure is returned once every attempt has failed.
type GenerationFailure struct {
	Variant  string
	Attempts int
	Last     *Failure
}

func (g *GenerationFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: generation failed after %d attempts", g.Variant, g.Attempts)
	if g.Last != nil {
		b.WriteString(": ")
		b.WriteString(g.Last.Error())
	}
	return b.String()
}

// Unwrap exposes the last stage failure.
func (g *GenerationFailure) Unwrap() error {
	if g.Last == nil {
		return nil
	}
	return g.Last
}
