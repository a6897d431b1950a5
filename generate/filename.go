package generate

import (
	"strings"
	"time"
	"unicode"

	"github.com/hauspek/reportkit/doc"
)

// Filename derives the artifact filename from the sanitized project name,
// a timestamp and the document kind.
func Filename(project string, kind doc.Kind, at time.Time) string {
	name := sanitizeName(project)
	if name == "" {
		name = "document"
	}
	return name + "_" + string(kind) + "_" + at.Format("20060102-150405") + ".pdf"
}

// sanitizeName keeps letters, digits, dashes and underscores; runs of
// anything else collapse to a single dash.
func sanitizeName(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
