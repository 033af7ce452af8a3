// Package container encodes and decodes payload-delivery containers.
//
// Layout (integers big-endian):
//
//	total_size  4   declared size, see below
//	nonce       16
//	sender      64
//	count       1
//	recipients  count * (pubkey 64 | wrapped key 16)
//	data_len    4
//	data        data_len
//	signature   64  over the padded bytes from total_size through data
//
// total_size is computed from a formula before signing, never measured
// afterwards. The relay expects len(data) + 169 for a single recipient, which
// is 60 less than the bytes that actually follow the field with 64-byte keys;
// the value is kept as the relay expects it. Decoding therefore locates the
// data through data_len and the buffer length, not through total_size.
//
// The encoder emits one recipient; the decoder accepts any count.
package container
