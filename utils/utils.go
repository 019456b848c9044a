// Package utils provides utility functions for the application.
package utils

import "strings"

func ToPtr[T any](v T) *T {
	return &v
}

// DerefString returns the pointed value or an empty string
func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NonEmptyPtr returns nil for blank strings, otherwise a pointer to the trimmed value
func NonEmptyPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// FirstNonEmpty returns the first argument that is not blank
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
