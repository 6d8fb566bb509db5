package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackBaseName = "file"

// Namespace is the object store prefix holding every file of a submission.
func Namespace(id uuid.UUID) string {
	return id.String() + "/"
}

// NamespaceOf returns the submission id owning path, if path sits in a
// submission namespace.
func NamespaceOf(path string) (uuid.UUID, bool) {
	head, _, found := strings.Cut(path, "/")
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(head)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// PhotoPath builds a fresh, timestamped object path for an uploaded photo.
func PhotoPath(id uuid.UUID, now time.Time, fileName string) string {
	return fmt.Sprintf("%s%d-%s", Namespace(id), now.UnixMilli(), SanitizeFileName(fileName))
}

// SanitizeFileName lower-cases name, turns whitespace runs into hyphens and
// drops anything outside [a-z0-9-_]. The lower-cased extension is kept.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	ext := filepath.Ext(name)
	base := strings.TrimSpace(strings.TrimSuffix(name, ext))
	if base == "" && ext != "" {
		// ".env" style names have no extension, only a base.
		base, ext = ext, ""
	}

	cleanBase := clean(base, true)
	if cleanBase == "" {
		cleanBase = fallbackBaseName
	}
	cleanExt := clean(strings.TrimPrefix(ext, "."), false)
	if cleanExt == "" {
		return cleanBase
	}
	return cleanBase + "." + cleanExt
}

func clean(s string, hyphenate bool) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	inSpace := false
	for _, r := range folded {
		if unicode.IsSpace(r) {
			if hyphenate && !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || (hyphenate && (r == '-' || r == '_')) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
