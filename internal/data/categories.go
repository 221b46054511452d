package data

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// productCategories maps canonical category slugs to their search keyword
// pools. These are the curated TikTok commerce niches for the Turkish
// market; the query builder picks one keyword per request for variety.
var productCategories = map[string][]string{
	"ev-yasam":           {"mutfak", "düzen", "temizlik", "dekorasyon", "evim", "çeyiz"},
	"guzellik-bakim":     {"makyaj", "ciltbakımı", "güzellik", "sacmodelleri", "bakım"},
	"moda-giyim":         {"kombin", "moda", "tesettür", "giyim", "stil", "butik"},
	"teknoloji-aksesuar": {"teknoloji", "telefonkilifi", "akıllısaat", "aksesuar", "kulaklık"},
	"anne-bebek":         {"bebek", "anne", "hamile", "oyuncak", "bebekgiyim"},
	"oto-arac":           {"araba", "modifiye", "otoaksesuar", "detailing"},
}

// categoryAliases maps normalized display names and shorthands to canonical
// slugs, so "Güzellik & Bakım", "kozmetik" and "guzellik-bakim" all resolve
// to the same pool.
var categoryAliases = map[string]string{
	"ev":                   "ev-yasam",
	"ev & yasam":           "ev-yasam",
	"ev-yasam":             "ev-yasam",
	"guzellik":             "guzellik-bakim",
	"guzellik & bakim":     "guzellik-bakim",
	"guzellik-bakim":       "guzellik-bakim",
	"kozmetik":             "guzellik-bakim",
	"moda":                 "moda-giyim",
	"moda & giyim":         "moda-giyim",
	"moda-giyim":           "moda-giyim",
	"teknoloji":            "teknoloji-aksesuar",
	"teknoloji & aksesuar": "teknoloji-aksesuar",
	"teknoloji-aksesuar":   "teknoloji-aksesuar",
	"anne":                 "anne-bebek",
	"anne & bebek":         "anne-bebek",
	"anne-bebek":           "anne-bebek",
	"bebek":                "anne-bebek",
	"oto":                  "oto-arac",
	"oto & arac":           "oto-arac",
	"oto-arac":             "oto-arac",
}

// Categories returns a copy of the built-in category keyword pools.
func Categories() map[string][]string {
	out := make(map[string][]string, len(productCategories))
	for name, keywords := range productCategories {
		out[name] = append([]string(nil), keywords...)
	}
	return out
}

// CategoryKeywords resolves a category name to its keyword pool. Lookup is
// case and accent insensitive and accepts the common aliases.
func CategoryKeywords(name string) ([]string, bool) {
	slug, ok := categoryAliases[NormalizeCategoryName(name)]
	if !ok {
		return nil, false
	}
	keywords, ok := productCategories[slug]
	return keywords, ok
}

// NormalizeCategoryName prepares a category name for lookup: lowercase,
// trimmed, accents stripped.
func NormalizeCategoryName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = removeAccents(s)
	// Dotless ı is not a combining form, fold it by hand.
	s = strings.ReplaceAll(s, "ı", "i")
	return strings.Join(strings.Fields(s), " ")
}

// removeAccents strips diacritical marks from a string.
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
