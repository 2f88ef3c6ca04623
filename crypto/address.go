// Package crypto provides account identifiers for the ledger. Accounts are raw
// 20-byte values; the bech32 form is used wherever an account is rendered for
// humans (events, config, CLI).
package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the human-readable part of an encoded account.
type AddressPrefix string

// AccountPrefix is the prefix used for every ledger account.
const AccountPrefix AddressPrefix = "tflow"

// Address is a 20-byte account with its human-readable prefix.
type Address struct {
	prefix AddressPrefix
	bytes  [20]byte
}

// NewAddress wraps the supplied 20 bytes.
func NewAddress(prefix AddressPrefix, b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("crypto: address must be 20 bytes, got %d", len(b))
	}
	var raw [20]byte
	copy(raw[:], b)
	return Address{prefix: prefix, bytes: raw}, nil
}

// MustNewAddress is NewAddress for values already known to be 20 bytes long.
func MustNewAddress(prefix AddressPrefix, b []byte) Address {
	addr, err := NewAddress(prefix, b)
	if err != nil {
		panic(err)
	}
	return addr
}

// FromAccount wraps a raw account with the ledger prefix.
func FromAccount(account [20]byte) Address {
	return Address{prefix: AccountPrefix, bytes: account}
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Account returns the raw account bytes.
func (a Address) Account() [20]byte { return a.bytes }

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix { return a.prefix }

// IsZero reports whether the address is the null account.
func (a Address) IsZero() bool { return a.bytes == [20]byte{} }

// DecodeAddress parses a bech32 account. Only the ledger prefix is accepted.
func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(strings.TrimSpace(addrStr))
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	if AddressPrefix(prefix) != AccountPrefix {
		return Address{}, fmt.Errorf("crypto: unexpected address prefix %q", prefix)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	return NewAddress(AddressPrefix(prefix), conv)
}

// AccountString renders a raw account in bech32 form.
func AccountString(account [20]byte) string {
	return FromAccount(account).String()
}

// DeriveAccount deterministically maps a label (e.g. "alice" in a scenario
// file, or a module name) to an account using the trailing 20 bytes of its
// keccak256 digest.
func DeriveAccount(label string) [20]byte {
	digest := ethcrypto.Keccak256([]byte(label))
	var account [20]byte
	copy(account[:], digest[12:])
	return account
}

// --- Key Management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the byte representation of the private key.
func (k *PrivateKey) Bytes() []byte {
	return ethcrypto.FromECDSA(k.PrivateKey)
}

// Address derives the ledger account controlled by the key.
func (k *PrivateKey) Address() Address {
	return FromAccount(ethcrypto.PubkeyToAddress(k.PrivateKey.PublicKey))
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}
