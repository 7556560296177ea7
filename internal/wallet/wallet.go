// Package wallet loads signing credentials from a wallet file and
// derives the ed25519 key used to sign transactions.
package wallet

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/joho/godotenv"

	"algorand-defi-lab/internal/domain"
)

// Wallet file keys.
const (
	KeyAddress  = "ALGORAND_WALLET_ADDRESS"
	KeyMnemonic = "ALGORAND_WALLET_MNEMONIC"
)

var (
	// ErrMissingCredentials is returned when the wallet file lacks
	// an address or mnemonic entry.
	ErrMissingCredentials = errors.New("wallet credentials not found")

	// ErrAddressMismatch is returned when the configured address does
	// not match the key derived from the mnemonic.
	ErrAddressMismatch = errors.New("address does not match mnemonic-derived key")
)

// Wallet holds a validated address and its derived signing key.
type Wallet struct {
	Address    types.Address
	PrivateKey ed25519.PrivateKey
}

// LoadCredentials reads the wallet file. Parsing is idempotent: reading
// the same file twice yields identical credentials.
func LoadCredentials(path string) (domain.Credentials, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read wallet file %s: %w", path, err)
	}

	creds := domain.Credentials{
		Address:  env[KeyAddress],
		Mnemonic: env[KeyMnemonic],
	}
	if creds.Address == "" || creds.Mnemonic == "" {
		return domain.Credentials{}, ErrMissingCredentials
	}
	return creds, nil
}

// FromCredentials derives the signing key and validates it against the
// configured address. Derivation is deterministic: the same mnemonic
// always yields the same key.
func FromCredentials(creds domain.Credentials) (*Wallet, error) {
	addr, err := types.DecodeAddress(creds.Address)
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}

	sk, err := mnemonic.ToPrivateKey(creds.Mnemonic)
	if err != nil {
		return nil, fmt.Errorf("derive key from mnemonic: %w", err)
	}

	pub, ok := sk.Public().(ed25519.PublicKey)
	if !ok || len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("derived key has unexpected public key type")
	}

	// An Algorand address is the public key plus checksum. Reject keys
	// that are not canonical curve points before comparing.
	if _, err := new(edwards25519.Point).SetBytes(pub); err != nil {
		return nil, fmt.Errorf("public key is not a canonical edwards25519 point: %w", err)
	}

	var derived types.Address
	copy(derived[:], pub)
	if derived != addr {
		return nil, ErrAddressMismatch
	}

	return &Wallet{Address: addr, PrivateKey: sk}, nil
}

// Load reads the wallet file and returns a validated wallet.
func Load(path string) (*Wallet, error) {
	creds, err := LoadCredentials(path)
	if err != nil {
		return nil, err
	}
	return FromCredentials(creds)
}
