package receiver

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// addressTo32 left-pads a 20-byte address into a 32-byte abi-style word,
// matching how Ethereum tooling packs `address` in `abi.encodePacked`-free
// signing schemes.
func addressTo32(addr crypto.Address) []byte {
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return out
}

func idTo32(id types.ID) []byte {
	word := types.NewAmount(uint64(id)).Bytes32()
	return word[:]
}

func amountTo32(amount *types.Amount) []byte {
	if amount == nil {
		amount = types.ZeroAmount()
	}
	word := amount.Bytes32()
	return word[:]
}

func endpointHash(endpoint string) []byte {
	return crypto.Keccak256([]byte(endpoint))
}

// attestedReceiptDigest computes
// keccak256(agentId, amount, endpointHash, timestamp, logicHash).
func attestedReceiptDigest(agentID types.ID, amount *types.Amount, endpoint string, timestamp int64, logicHash [32]byte) []byte {
	return crypto.Keccak256(
		idTo32(agentID),
		amountTo32(amount),
		endpointHash(endpoint),
		idTo32(types.ID(timestamp)),
		logicHash[:],
	)
}

// signedPaymentDigest matches the gasless-relay signing format: keccak256
// over (payer, agentId, token, amount, endpointHash, nonce, deadline).
func signedPaymentDigest(payer crypto.Address, agentID types.ID, token crypto.Address, amount *types.Amount, endpoint string, nonce uint64, deadline int64) []byte {
	return crypto.Keccak256(
		addressTo32(payer),
		idTo32(agentID),
		addressTo32(token),
		amountTo32(amount),
		endpointHash(endpoint),
		idTo32(types.ID(nonce)),
		idTo32(types.ID(deadline)),
	)
}
