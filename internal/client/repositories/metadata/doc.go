// Package metadata persists small pieces of client state, such as the login
// session and the last generated media ID, in the local SQLite metadata table.
package metadata
