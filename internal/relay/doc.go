// Package relay provides the TCP implementation of domain.Transport used to
// talk to the relay.
//
// The relay protocol has no length prefix on replies. Each Receive is a
// single read of up to MaxReply bytes, and the session treats whatever that
// read returns as one reply. A read that returns nothing, or a closed
// connection, is a transport error.
//
// Every send and receive runs under a deadline (Options.Timeout, or the
// context deadline if earlier). Expiry is reported as an error wrapping both
// domain.ErrTransport and domain.ErrTimeout rather than blocking forever.
package relay
