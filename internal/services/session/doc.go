// Package session drives one authenticated conversation with the relay.
//
// A session owns the transport, the signing key and the current nonce. It
// walks the handshake (request nonce, then authenticate), then serves send
// and fetch requests, adopting the nonce from every reply it can parse.
// Request/reply pairs are serialized; a transport failure leaves the
// session permanently failed.
package session
