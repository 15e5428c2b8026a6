package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if the string is blank.
// Useful for fields that are optional and should be NULL in DB if not provided.
func NewNullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
