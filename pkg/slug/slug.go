package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

	// Apostrophes join rather than separate: "men's" → "mens".
	apostrophes = strings.NewReplacer("'", "", "’", "")

	// ı has no decomposition, so it is mapped by hand.
	dotless = strings.NewReplacer("ı", "i")
)

// Generate creates a URL-friendly slug from the given name. Diacritics are
// stripped, so accented Latin letters map to their ASCII base.
//
// Examples:
//   - "men's clothing" → "mens-clothing"
//   - "Çocuk Ürünleri" → "cocuk-urunleri"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = apostrophes.Replace(s)
	s = dotless.Replace(s)

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	s = slugRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
