package service

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugify derives a URL-safe slug from a business name: lowercase, diacritics
// stripped, non-alphanumerics collapsed to single hyphens, leading/trailing
// hyphens trimmed. Returns "" when nothing usable remains.
func slugify(name string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripper, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// timestampSlug is the fallback when a name yields an empty slug.
func timestampSlug(now time.Time) string {
	return fmt.Sprintf("negocio-%d", now.Unix())
}

// slugSuffix returns a random 4-digit suffix for collision retries.
func slugSuffix() string {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%04d", time.Now().UnixNano()%10000)
	}
	n := (int(b[0])<<8 | int(b[1])) % 10000
	return fmt.Sprintf("%04d", n)
}
