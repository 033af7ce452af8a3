// Package frame builds the literal bytes of each relay request.
//
// Every signed frame is opcode || body || signature, where the signature
// covers the padded form of opcode || body (see package codec). The nonce
// request is the exception: a single opcode byte with no signature.
//
//	0x03 RequestNonce  03
//	0x04 Authenticate  04 | nonce(16) | pubkey(64) | sig(64)
//	0x05 FetchData     05 | nonce(16) | sig(64)
//	0x06 SendData      06 | container (already signed)
package frame
