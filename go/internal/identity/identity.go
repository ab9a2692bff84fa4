// Package identity holds the single normalization routine applied at every
// email comparison boundary. All stored member and commissioner emails are
// normalized on the way in, so equality checks stay plain string compares.
package identity

import "strings"

const maxDisplayNameLen = 30

// Normalize lowercases and trims an email-like identity string.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Equal reports whether two identity strings refer to the same identity.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// DisplayName derives a default display name from an email: the part before
// the '@', truncated to 30 characters.
func DisplayName(email string) string {
	name := Normalize(email)
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if len(name) > maxDisplayNameLen {
		name = name[:maxDisplayNameLen]
	}
	return name
}
