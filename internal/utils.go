package internal

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a unique ID for a single pipeline run.
// Log lines of one run share this ID.
func GenerateRunID() string {
	return uuid.New().String()
}

// imageExtensions lists the file extensions the OCR engines are known to read
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
}

// IsImageFile reports whether the filename carries a known image extension
func IsImageFile(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// MIMEType returns the image content type derived from the file extension.
// Unknown extensions fall back to image/png.
func MIMEType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}
