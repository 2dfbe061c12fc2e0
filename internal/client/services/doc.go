// Package services holds the client use cases: session handling, protecting
// an image, verifying an image and scanning a Twitter handle for misuse.
//
// Services are stateless with respect to the user. The session is passed to
// every call and the backend is reached through client.Client, so tests swap
// in a fake.
package services
