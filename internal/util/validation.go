package util

import (
	"regexp"
)

var (
	sessionCodeRegex = regexp.MustCompile(`^[A-Z0-9]{8}$`)
	usernameRegex    = regexp.MustCompile(`^[A-Za-z0-9_]{5,32}$`)
)

// IsValidSessionCode reports whether s has the shape of a session code:
// exactly 8 uppercase alphanumeric characters.
func IsValidSessionCode(s string) bool {
	if s == "" {
		return false
	}
	return sessionCodeRegex.MatchString(s)
}

// IsLinkableUsername reports whether a Telegram username can be turned into
// a clickable t.me link.
func IsLinkableUsername(username string) bool {
	if username == "" {
		return false
	}
	return usernameRegex.MatchString(username)
}
