package product

import (
	"regexp"
	"strings"
	"sync"
)

// Compiled patterns keyed by field name; the key set is small and fixed
var (
	scalarPatterns sync.Map
	arrayPatterns  sync.Map
)

func pattern(cache *sync.Map, key, value string) *regexp.Regexp {
	if re, ok := cache.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := cache.LoadOrStore(key, regexp.MustCompile(`"`+regexp.QuoteMeta(key)+`"\s*:\s*`+value))
	return re.(*regexp.Regexp)
}

// ExtractScalar returns the first string value stored under key in a JSON-like
// text. It is a substring search, not a parser: escape sequences are left as-is
// and malformed surroundings are ignored. Returns "" if the key is absent.
func ExtractScalar(text, key string) string {
	m := pattern(&scalarPatterns, key, `"([^"]*)"`).FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractArray returns the elements of the string array stored under key,
// trimmed and with quote characters removed. The result is never nil.
func ExtractArray(text, key string) []string {
	items := []string{}

	m := pattern(&arrayPatterns, key, `\[([^\]]*)\]`).FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return items
	}

	for _, item := range strings.Split(m[1], ",") {
		items = append(items, strings.ReplaceAll(strings.TrimSpace(item), `"`, ""))
	}
	return items
}

// ParseSubmission pulls the publish fields out of a request body.
// Missing fields come back empty; it never fails.
func ParseSubmission(body string) *Submission {
	return &Submission{
		ID:          ExtractScalar(body, "id"),
		Title:       ExtractScalar(body, "title"),
		Description: ExtractScalar(body, "description"),
		ImageFile:   ExtractScalar(body, "image_file"),
		Tags:        ExtractArray(body, "tags"),
	}
}
