// Package slug derives stable, URL-safe identifiers from display text.
// Slugs are used as URL path segments and as the merge-key fallback, so the
// transformation must be pure and deterministic.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented runes and drops the combining marks,
// so "Zürich" slugs the same as "Zurich".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ForJob returns the slug for a job within a company's list.
func ForJob(title, company string) string {
	return Make(title + " " + company)
}

// ForCompany returns the slug for a company display name.
func ForCompany(name string) string {
	return Make(name)
}

// Make lowercases, strips diacritics, collapses runs of non-alphanumeric
// characters into a single '-' and trims leading/trailing separators.
// Lossy by design: distinct inputs can collide.
func Make(s string) string {
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
