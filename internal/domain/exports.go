package domain

import (
	interfaces "courier/internal/domain/interfaces"
	types "courier/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	PublicKey    = types.PublicKey
	Nonce        = types.Nonce
	Signature    = types.Signature
	WrappedKey   = types.WrappedKey
	Fingerprint  = types.Fingerprint
	Opcode       = types.Opcode
	Recipient    = types.Recipient
	Container    = types.Container
	Delivery     = types.Delivery
	Direction    = types.Direction
	HistoryEntry = types.HistoryEntry
	SessionState = types.SessionState
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Signer          = interfaces.Signer
	KeyWrapper      = interfaces.KeyWrapper
	Transport       = interfaces.Transport
	IdentityStore   = interfaces.IdentityStore
	HistoryStore    = interfaces.HistoryStore
	IdentityService = interfaces.IdentityService
	SessionService  = interfaces.SessionService
	MessageService  = interfaces.MessageService
)

const (
	PublicKeySize  = types.PublicKeySize
	PrivateKeySize = types.PrivateKeySize
	SignatureSize  = types.SignatureSize
	NonceSize      = types.NonceSize
	WrappedKeySize = types.WrappedKeySize

	OpRequestNonce = types.OpRequestNonce
	OpAuthenticate = types.OpAuthenticate
	OpFetchData    = types.OpFetchData
	OpSendData     = types.OpSendData

	DirectionSent     = types.DirectionSent
	DirectionReceived = types.DirectionReceived

	StateUnauthenticated = types.StateUnauthenticated
	StateAwaitingNonce   = types.StateAwaitingNonce
	StateAuthenticated   = types.StateAuthenticated
	StateClosed          = types.StateClosed
	StateFailed          = types.StateFailed
)
