package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

// MakeRandHexString returns size random bytes encoded as lowercase hex.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes b. Used for password buffers.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Sha256Hex returns the lowercase hex SHA-256 digest of s.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NewMediaID generates a fresh 256-bit media identifier, "0x" + 64 hex chars.
func NewMediaID() (string, error) {
	h, err := MakeRandHexString(MediaIDSize)
	if err != nil {
		return "", fmt.Errorf("media id: %w", err)
	}
	return MediaIDPrefix + h, nil
}

// NormalizeMediaID trims id and adds the "0x" prefix when missing.
// An empty id stays empty.
func NormalizeMediaID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, MediaIDPrefix) {
		return id
	}
	return MediaIDPrefix + id
}

// PayloadText is the string embedded into an image and later checked for
// during extraction.
func PayloadText(ownerSHA, mediaID string) string {
	return fmt.Sprintf("owner:%s|media:%s", ownerSHA, mediaID)
}

// ResolveAPIBase picks the backend base URL: the session's stored base first,
// then the configured one, then DefaultAPIBase. Trailing slashes are stripped.
func ResolveAPIBase(sessionBase, configuredBase string) string {
	for _, b := range []string{sessionBase, configuredBase} {
		if b = strings.TrimSpace(b); b != "" {
			return strings.TrimRight(b, "/")
		}
	}
	return strings.TrimRight(DefaultAPIBase, "/")
}

// AuthHeaders sets the bearer token on h when token is not empty. A nil h is
// allocated, so the result is always usable.
func AuthHeaders(token string, h http.Header) http.Header {
	if h == nil {
		h = http.Header{}
	}
	if token != "" {
		h.Set(AuthorizationHeaderName, "Bearer "+token)
	}
	return h
}
