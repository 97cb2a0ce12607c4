package constants

import "strings"

// MaxFileSize is the upload ceiling enforced before submission (10 MiB).
const MaxFileSize = 10 << 20

// AllowedMIMETypes holds the document types the analysis endpoint accepts.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// AllowedExtensions holds the default allowed file extensions for boleto intake.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// MIMEByExtension maps a normalized extension to its declared MIME type.
var MIMEByExtension = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
