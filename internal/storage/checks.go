package storage

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// CheckSize reports whether img is at most maxMB megabytes.
func CheckSize(img Image, maxMB int) bool {
	return img.Size() <= int64(maxMB)*1024*1024
}

// CheckType reports whether the content of img belongs to the given top-level
// media type, e.g. "image". The declared Content-Type must agree when present.
func CheckType(img Image, kind string) bool {
	if img.ContentType != "" {
		declared, _, err := mime.ParseMediaType(img.ContentType)
		if err != nil || !hasTopLevel(declared, kind) {
			return false
		}
	}
	return hasTopLevel(mimetype.Detect(img.Data).String(), kind)
}

func hasTopLevel(mediaType, kind string) bool {
	return strings.HasPrefix(strings.ToLower(mediaType), kind+"/")
}
