package types

// Recipient is one addressed slot in a container.
type Recipient struct {
	PublicKey  PublicKey
	WrappedKey WrappedKey
}

// Container is the decoded form of a payload-delivery record.
//
// TotalSize is the declared size field as written on the wire:
// len(Data) + 169 for one recipient. It is fixed by that formula and falls
// 60 bytes short of what actually follows it; see container.DeclaredOverhead
// and container.LayoutOverhead. Decoders rely on the data length instead.
type Container struct {
	TotalSize  uint32
	Nonce      Nonce
	Sender     PublicKey
	Recipients []Recipient
	Data       []byte
	Signature  Signature
}
