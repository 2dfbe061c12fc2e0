// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
//  1. A transport-agnostic contract for the imarqd backend (see Client):
//     login, media ID listing, watermark embedding, media registration,
//     watermark extraction, the Twitter scanner, and plain image download.
//  2. An HTTP implementation (see HTTPClient) that resolves nothing on its own:
//     callers pass an Endpoint (base URL + bearer token) with every call.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens the
//     SQLite store and applies the embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses become *APIError, which keeps the response body text.
// Transport failures match ErrUnavailable; 401/403 responses match
// ErrUnauthorized. Use errors.Is / errors.As.
//
// Requests carry no local deadline unless the HTTPClient was built with a
// timeout; cancellation flows through the context.
package client
