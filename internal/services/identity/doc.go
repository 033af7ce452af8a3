// Package identity manages creation, import and loading of the local key.
//
// It enforces the passphrase policy, generates or parses P-256 keys, and
// persists the private scalar through the domain.IdentityStore.
package identity
