package util

import (
	"crypto/subtle"
	"strconv"
)

// FormatDisplayName picks the best human-readable name for a user: the
// first name, then the username, then the raw numeric id.
func FormatDisplayName(firstName, username string, userID int64) string {
	if firstName != "" {
		return firstName
	}
	if username != "" {
		return username
	}
	return strconv.FormatInt(userID, 10)
}

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
