// Package codec pads request bytes to the 64-byte signing block and signs
// them.
//
// The padding amount is 64 - len%64, so input that is already block aligned
// (including empty input) gains a whole extra block. The relay verifies
// against exactly this layout; do not change it to a minimal padding.
//
// Padding is a signing input only. It never appears on the wire.
package codec
