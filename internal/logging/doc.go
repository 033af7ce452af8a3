// Package logging builds the zap logger shared by the CLI and services.
//
// Output goes to stderr with a console encoder. When a file is configured,
// entries are also written as JSON to that file, rotated by lumberjack.
package logging
