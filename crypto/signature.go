package crypto

import (
	"crypto/ecdsa"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ethSignedMessagePrefix matches Ethereum's "personal_sign" convention, which
// the attested-operator tooling already uses to wrap digests before signing.
const ethSignedMessagePrefix = "\x19Ethereum Signed Message:\n32"

// Keccak256 hashes data with Keccak-256, reusing go-ethereum's implementation
// so digests line up bit-for-bit with the attested-receipt format consumed by
// external tooling.
func Keccak256(data ...[]byte) []byte {
	return ethcrypto.Keccak256(data...)
}

// SignedMessageDigest wraps a 32-byte digest in the Ethereum-signed-message
// prefix, matching the attested-receipt and gasless-relay signing formats.
func SignedMessageDigest(hash []byte) []byte {
	return ethcrypto.Keccak256([]byte(ethSignedMessagePrefix), hash)
}

// RecoverAddress recovers the 20-byte address that produced sig over hash.
// sig must be the 65-byte [R || S || V] recoverable signature; V may be 0/1
// or 27/28.
func RecoverAddress(hash []byte, sig []byte) (Address, error) {
	normalised := normaliseRecoveryID(sig)
	pub, err := ethcrypto.SigToPub(hash, normalised)
	if err != nil {
		return Address{}, err
	}
	return addressFromPublicKey(pub), nil
}

func normaliseRecoveryID(sig []byte) []byte {
	if len(sig) != 65 {
		return sig
	}
	out := append([]byte(nil), sig...)
	if out[64] >= 27 {
		out[64] -= 27
	}
	return out
}

func addressFromPublicKey(pub *ecdsa.PublicKey) Address {
	full := ethcrypto.FromECDSAPub(pub)
	digest := ethcrypto.Keccak256(full[1:])
	addr, _ := NewAddress(SIBPrefix, digest[12:])
	return addr
}
