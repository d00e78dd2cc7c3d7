package errors

import (
	"path/filepath"
	"slices"
	"strings"
)

// ValidateColumns checks that every name in want is present in have.
// The first missing column is reported with [ErrCodeInvalidColumn].
//
// Empty names in want are ignored so optional columns can be passed through
// unconditionally.
func ValidateColumns(have func(string) bool, want ...string) error {
	for _, col := range want {
		if col == "" {
			continue
		}
		if !have(col) {
			return New(ErrCodeInvalidColumn, "column %q is not present in the data", col)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (must be one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateExportPath checks that an export path ends in one of the given
// extensions (without the leading dot) and returns the matching format.
func ValidateExportPath(path string, allowed []string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", New(ErrCodeInvalidFormat, "please specify the export format as a file extension (%s)", joinExts(allowed))
	}
	if !slices.Contains(allowed, ext) {
		return "", New(ErrCodeInvalidFormat, "unsupported export extension %q (must be %s)", "."+ext, joinExts(allowed))
	}
	return ext, nil
}

// ValidateTheme checks that name is a registered theme.
func ValidateTheme(name string, known []string) error {
	if name == "" {
		return New(ErrCodeInvalidTheme, "theme name cannot be empty")
	}
	if !slices.Contains(known, name) {
		return New(ErrCodeInvalidTheme, "unknown theme %q (available: %s)", name, strings.Join(known, ", "))
	}
	return nil
}

// ValidatePort checks that port is a usable TCP port.
func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return New(ErrCodeInvalidOption, "port %d out of range (1-65535)", port)
	}
	return nil
}

func joinExts(exts []string) string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = "." + e
	}
	return strings.Join(out, ", ")
}
