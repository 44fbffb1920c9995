package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// GenerateSecureToken returns n random bytes encoded as URL-safe base64.
// Used for invite links, so the token has to survive being pasted into a
// query string.
func GenerateSecureToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GenerateTempPassword returns a random password for a freshly invited
// identity. The invitee replaces it when accepting the invite.
func GenerateTempPassword() (string, error) {
	bytes := make([]byte, 8) // 8 bytes = 16 hex chars
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
