package task

import (
	"regexp"
	"strings"
)

const maxSlugLength = 40

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	unsafeIDChars   = regexp.MustCompile(`[^a-z0-9_-]+`)
)

// GenerateSlug converts a title to a filename-friendly slug.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		truncated := slug[:maxSlugLength]
		// Only trim to the last hyphen if we cut mid-word.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndex(truncated, "-"); idx > 0 {
				truncated = truncated[:idx]
			}
		}
		slug = strings.TrimRight(truncated, "-")
	}
	if slug == "" {
		slug = "task"
	}
	return slug
}

// GenerateFilename creates a task filename from the full ID and a slug.
// Characters of the ID that are unsafe in file names become hyphens.
func GenerateFilename(id, slug string) string {
	prefix := strings.Trim(unsafeIDChars.ReplaceAllString(strings.ToLower(id), "-"), "-")
	if prefix == "" {
		prefix = "task"
	}
	return prefix + "-" + slug + ".md"
}
