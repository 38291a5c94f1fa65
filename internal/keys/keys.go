// Package keys is the crypto key-generation seam the Genesis Network
// model (spec §4.L) reads signing material through. Real key generation
// (Ed25519 node-gossip keys, admin keys, signing-cert PEM material) is out
// of scope for this system's core; only the interface is specified, with
// a deterministic stub implementation for tests.
package keys

import "context"

// SigningCert is a node's gossip CA certificate material.
type SigningCert struct {
	NodeAlias string
	DERBytes  []byte
}

// KeyManager resolves per-alias signing certificates and, when no admin
// public keys are supplied, derives one from each node's genesis key.
type KeyManager interface {
	// SigningCert returns the gossip CA certificate for alias.
	SigningCert(ctx context.Context, alias string) (SigningCert, error)
	// GenesisPublicKey returns the admin public key derived from alias's
	// genesis private key, used when the caller supplies no admin keys.
	GenesisPublicKey(ctx context.Context, alias string) (string, error)
}

// StubKeyManager is a deterministic, non-cryptographic KeyManager for
// tests and for environments with no real signing-cert directory wired in.
type StubKeyManager struct{}

// NewStubKeyManager constructs a StubKeyManager.
func NewStubKeyManager() *StubKeyManager { return &StubKeyManager{} }

func (StubKeyManager) SigningCert(ctx context.Context, alias string) (SigningCert, error) {
	return SigningCert{NodeAlias: alias, DERBytes: []byte("stub-der-" + alias)}, nil
}

func (StubKeyManager) GenesisPublicKey(ctx context.Context, alias string) (string, error) {
	return "stub-pubkey-" + alias, nil
}
