// Package country canonicalizes free-text country names so the dataset can
// be joined against a boundary reference.
package country

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Normalize folds accents to ASCII, upper-cases and collapses whitespace.
func Normalize(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(unidecode.Unidecode(name)), " "))
}

// Canonical returns the join key for a country name or ISO code. Names
// missing from the alias table are their own key. Canonical is idempotent.
func Canonical(name string) string {
	k := Normalize(name)
	if v, ok := aliases[k]; ok {
		return v
	}
	return k
}
