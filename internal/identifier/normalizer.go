// Package identifier turns user-entered staff ids into canonical keys.
package identifier

import (
	"regexp"

	"golang.org/x/text/width"

	apperrors "github.com/spec-kit/safety-roster/pkg/util"
)

var canonical = regexp.MustCompile(`^[0-9]+$`)

// Normalize folds fullwidth digits (U+FF10..U+FF19) to ASCII and requires the
// result to be one or more ASCII digits. The input is expected to be trimmed.
func Normalize(raw string) (string, error) {
	folded := width.Fold.String(raw)
	if !canonical.MatchString(folded) {
		return "", apperrors.NewInvalidIdentifier(raw)
	}
	return folded, nil
}

// Valid reports whether id is already in canonical form.
func Valid(id string) bool {
	return canonical.MatchString(id)
}
