package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// drawingIDRegex matches registry identifiers such as "bouwkamp" or
// "lissajous-3-4".
var drawingIDRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateDrawingID validates a drawing identifier.
func ValidateDrawingID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDrawing, "drawing id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidDrawing, "drawing id too long (max 64 characters)")
	}
	if !drawingIDRegex.MatchString(id) {
		return New(ErrCodeInvalidDrawing, "invalid drawing id: %q", id)
	}
	return nil
}

// maxOutputName bounds archive names, which become directory names.
const maxOutputName = 128

// ValidateOutputName checks a name the archive turns into a directory or a
// document key: non-empty, at most 128 bytes, no control characters, no
// path separators or "..", and not hidden.
func ValidateOutputName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	case len(name) > maxOutputName:
		return New(ErrCodeInvalidPath, "output name too long (max %d characters)", maxOutputName)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "output name contains control characters")
	case strings.ContainsAny(name, `/\`) || strings.Contains(name, ".."):
		return New(ErrCodeInvalidPath, "output name %q contains a path separator or ..", name)
	case strings.HasPrefix(name, "."):
		return New(ErrCodeInvalidPath, "output name cannot be a hidden file")
	}
	return nil
}

// ValidateURL checks a plotter server address: an http or https URL with a
// host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
