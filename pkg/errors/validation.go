package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateLatitude checks that lat is a finite value in [-90, 90].
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return New(ErrCodeInvalidLocation, "latitude is not a finite number")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidLocation, "latitude %.4f out of range [-90, 90]", lat)
	}
	return nil
}

// ValidateLongitude checks that lon is a finite value in [-180, 180].
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return New(ErrCodeInvalidLocation, "longitude is not a finite number")
	}
	if lon < -180 || lon > 180 {
		return New(ErrCodeInvalidLocation, "longitude %.4f out of range [-180, 180]", lon)
	}
	return nil
}

// ValidateLabel checks that a display label (record name or tradition) is
// non-blank and free of control characters, which would break text layout.
func ValidateLabel(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidLocation, "%s cannot be empty", field)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLocation, "%s contains control characters", field)
		}
	}
	return nil
}

// ValidateOutputPath checks the image output path for obvious mistakes.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}
	return nil
}
