// Package cli provides the interactive imarqd command-line client.
//
// It wires configuration, the local store, the backend services and a REPL.
// On start the saved session is restored; without one the user is asked to
// log in. Commands then run one at a time, each under its own context so
// Ctrl+C cancels a long verify or monitor scan without leaving the program.
//
// Commands:
//   - login / logout
//   - protect [path]   embed a watermark and register the media ID
//   - verify [path]    check an image against the account's media IDs
//   - monitor [handle] scan a Twitter handle for misuse
//   - download [dir]   save the last protected image
//   - history, status
//   - tab <panel>, run [arg]   panel switching (protect, verify, monitor)
//
// See App and runREPL for details.
package cli
