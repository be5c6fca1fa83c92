// Package crypto provides the account-identifier and signature primitives
// shared across the ledger. Addresses are 20-byte identifiers rendered as
// bech32 strings; signature recovery piggybacks on go-ethereum's secp256k1
// implementation the same way the rest of the stack already does.
package crypto

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// AddressPrefix is the human-readable bech32 prefix used when rendering an
// Address as a string.
type AddressPrefix string

// SIBPrefix is the prefix used for every account address minted by the
// ledger. There is only one address namespace; unlike the teacher chain we
// do not distinguish a second token-specific prefix.
const SIBPrefix AddressPrefix = "sib"

// Address is a 20-byte account identifier. The zero-value Address is the
// reserved sentinel identifying the native payment asset.
type Address struct {
	prefix AddressPrefix
	bytes  []byte
}

// NewAddress constructs an Address from exactly 20 bytes.
func NewAddress(prefix AddressPrefix, b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("crypto: address must be 20 bytes, got %d", len(b))
	}
	cloned := append([]byte(nil), b...)
	return Address{prefix: prefix, bytes: cloned}, nil
}

// MustNewAddress constructs an Address and panics on error. Reserved for
// package-level constants and tests.
func MustNewAddress(prefix AddressPrefix, b []byte) Address {
	addr, err := NewAddress(prefix, b)
	if err != nil {
		panic(err)
	}
	return addr
}

// ZeroAddress is the sentinel identifying the native payment asset and the
// absence of a holder in transfer hooks.
var ZeroAddress = Address{prefix: SIBPrefix, bytes: make([]byte, 20)}

// IsZero reports whether the address is the all-zero sentinel.
func (a Address) IsZero() bool {
	if len(a.bytes) == 0 {
		return true
	}
	for _, b := range a.bytes {
		if b != 0 {
			return false
		}
	}
	return true
}

// Bytes returns a defensive copy of the address's raw bytes.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a.bytes...)
}

// Prefix returns the address's bech32 prefix.
func (a Address) Prefix() AddressPrefix {
	if a.prefix == "" {
		return SIBPrefix
	}
	return a.prefix
}

// String renders the address as bech32.
func (a Address) String() string {
	b := a.bytes
	if b == nil {
		b = make([]byte, 20)
	}
	conv, err := bech32.ConvertBits(b, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(a.Prefix()), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// DecodeAddress parses a bech32-encoded address string.
func DecodeAddress(s string) (Address, error) {
	prefix, decoded, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: invalid bech32 address: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: error converting bits: %w", err)
	}
	return NewAddress(AddressPrefix(prefix), conv)
}

// Equal reports whether two addresses denote the same 20 raw bytes,
// ignoring the display prefix.
func (a Address) Equal(other Address) bool {
	if len(a.bytes) != len(other.bytes) {
		return len(a.bytes) == 0 && len(other.bytes) == 0
	}
	for i := range a.bytes {
		if a.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}
