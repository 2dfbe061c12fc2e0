package common

import "errors"

var (
	// Local validation errors, reported before any network call.
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrCredentialsRequired = errors.New("email and password required")
	ErrHandleRequired      = errors.New("twitter handle required")

	// Session lifecycle.
	ErrNoSession          = errors.New("no session")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Flow outcomes reported as errors.
	ErrNoMediaIDs    = errors.New("no registered media found for this account")
	ErrNoImagesFound = errors.New("no images found on this handle")
	ErrScanFailed    = errors.New("twitter scan failed")
	ErrNothingToSave = errors.New("no protected image to download")
)
