package events

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// VerifiedPaymentReceived fires when AttestedReceiver accepts an
// operator-attested revenue receipt.
type VerifiedPaymentReceived struct {
	AgentID   types.ID
	Amount    *types.Amount
	LogicHash [32]byte
	Signer    crypto.Address
	Timestamp int64
}

func (VerifiedPaymentReceived) EventType() string { return "receiver.verified_payment_received" }

func NewVerifiedPaymentReceived(agentID types.ID, amount *types.Amount, logicHash [32]byte, signer crypto.Address, timestamp int64) *VerifiedPaymentReceived {
	return &VerifiedPaymentReceived{AgentID: agentID, Amount: amount, LogicHash: logicHash, Signer: signer, Timestamp: timestamp}
}

// TokenAdded fires when TokenRegistry.addToken succeeds.
type TokenAdded struct {
	Token    crypto.Address
	Symbol   string
	Decimals uint8
}

func (TokenAdded) EventType() string { return "token.added" }

func NewTokenAdded(token crypto.Address, symbol string, decimals uint8) *TokenAdded {
	return &TokenAdded{Token: token, Symbol: symbol, Decimals: decimals}
}
