package types

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Opcode identifies a request kind on the wire.
type Opcode byte

// Request opcodes understood by the relay.
const (
	OpRequestNonce Opcode = 0x03
	OpAuthenticate Opcode = 0x04
	OpFetchData    Opcode = 0x05
	OpSendData     Opcode = 0x06
)

// String returns a diagnostic name for the opcode.
func (o Opcode) String() string {
	switch o {
	case OpRequestNonce:
		return "request-nonce"
	case OpAuthenticate:
		return "authenticate"
	case OpFetchData:
		return "fetch-data"
	case OpSendData:
		return "send-data"
	default:
		return "unknown"
	}
}
