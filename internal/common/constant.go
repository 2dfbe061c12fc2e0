// Package common contains shared constants, sentinel errors and small helpers
// used across imarqd components.
package common

const (
	// DefaultAPIBase is the backend used when neither the session nor the
	// configuration names one.
	DefaultAPIBase = "https://imarqd-backend-app.azurewebsites.net"

	// AuthorizationHeaderName carries the bearer token on authenticated calls.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-call identifier that is also logged.
	RequestIDHeaderName = "X-Request-ID"

	// MediaIDPrefix prefixes every hex-encoded media identifier.
	MediaIDPrefix = "0x"

	// MediaIDSize is the number of random bytes behind a media identifier.
	MediaIDSize = 32

	// AcceptanceThreshold is the minimal similarity score for a match.
	AcceptanceThreshold = 0.90

	// DefaultMaxResponseBytes caps backend and image download replies.
	DefaultMaxResponseBytes int64 = 32 << 20
)
