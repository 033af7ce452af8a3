// Package app wires application dependencies for the CLI.
//
// It loads Config, builds the logger, stores and identity service, picks the
// signing key, and on Connect dials the relay and authenticates a session,
// exposing the result via the Wire and App structs for commands to use.
package app
