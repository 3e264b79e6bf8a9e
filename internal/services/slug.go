package services

import (
	"path"
	"regexp"
	"strings"
)

var (
	nonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
	nonFileName = regexp.MustCompile(`[^\w.\-]+`)
	dashRuns    = regexp.MustCompile(`-+`)
)

// Slugify lowercases s and joins its alphanumeric runs with single dashes.
func Slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}

// SafeFileName keeps word characters, dots and dashes, lowercased.
func SafeFileName(s string) string {
	s = nonFileName.ReplaceAllString(strings.TrimSpace(s), "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.ToLower(strings.Trim(s, "-"))
}

var imageExt = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
}

// fileExt picks the extension from the file name, falling back to the
// content type and finally png.
func fileExt(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" && Slugify(ext) == ext {
		return ext
	}
	if ext, ok := imageExt[strings.ToLower(contentType)]; ok {
		return ext
	}
	return "png"
}
