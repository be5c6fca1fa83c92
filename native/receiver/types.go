// Package receiver implements AttestedReceiver: the entrypoint that accepts
// revenue payments from the outside world — plain, signature-gated, and
// attested — and forwards net revenue to the Controller.
package receiver

import (
	"sibond/crypto"
	"sibond/ledger/types"

	"github.com/google/uuid"
)

// VerifiedPaymentRecord is the append-only audit log entry produced for
// every accepted payment, attested or not. IDs are random UUIDs rather
// than dense integers because the log is audit/indexer-facing, not a
// ledger mapping key: dense integer IDs elsewhere are reserved for
// agents, classes, nonces, orders, and groups.
type VerifiedPaymentRecord struct {
	ID        uuid.UUID
	Payer     crypto.Address
	AgentID   types.ID
	Token     crypto.Address
	Endpoint  string
	Amount    *types.Amount
	Timestamp int64
	LogicHash [32]byte
	Signer    crypto.Address
	Attested  bool
}
