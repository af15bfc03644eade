package transform

import "strings"

// NormalizeEmail lowercases and trims an email so it can be used as a join key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims a display name. Case and inner spacing are kept as authored.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
