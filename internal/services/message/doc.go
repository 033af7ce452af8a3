// Package message sends and fetches payloads through a session and keeps a
// local record of both directions.
package message
