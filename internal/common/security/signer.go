package security

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
)

// Signer produces the authenticity signature carried by a score claim. The
// on-chain contract holds the matching verifying key and rejects claims
// signed by anything else. Implementations must never expose the private key.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() []byte
}

type ed25519Signer struct {
	key ed25519.PrivateKey
}

// NewEd25519Signer derives a signing key from a hex-encoded 32-byte seed.
// The seed comes from configuration and is loaded exactly once at startup.
func NewEd25519Signer(seedHex string) (Signer, error) {
	if seedHex == "" {
		return nil, errors.New("attestation signing seed is not configured")
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("attestation signing seed is not valid hex: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("attestation signing seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &ed25519Signer{key: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *ed25519Signer) Sign(message []byte) ([]byte, error) {
	if len(s.key) != ed25519.PrivateKeySize {
		return nil, errors.New("signing key unavailable")
	}
	return ed25519.Sign(s.key, message), nil
}

func (s *ed25519Signer) PublicKey() []byte {
	return []byte(s.key.Public().(ed25519.PublicKey))
}
