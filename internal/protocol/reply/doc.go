// Package reply reads fields out of relay replies at fixed offsets.
//
// Replies carry no type tag, so the caller picks the shape from the request
// it sent. Every reply holds the next session nonce at [2:18]. Fetch replies
// longer than 18 bytes additionally carry a delivery:
//
//	[0:2]     header, not interpreted
//	[2:18]    next nonce
//	[18:38]   reserved
//	[38:102]  sender public key
//	[102:183] reserved
//	[183:187] data length, big-endian
//	[187:]    data
//
// The offsets are fixed by the relay's reply layout and are not derived
// from the container format.
package reply
