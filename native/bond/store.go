package bond

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// Store persists every map BondRegistry keeps: classes, nonces, balances,
// and operator approvals. The interface is storage-agnostic; the shipped
// implementation is the in-memory MemStore (see store_mem.go).
type Store interface {
	GetClass(classID types.ID) (*Class, error)
	PutClass(class *Class) error
	NextClassID() (types.ID, error)

	GetNonce(classID, nonceID types.ID) (*Nonce, error)
	PutNonce(nonce *Nonce) error
	NextNonceID(classID types.ID) (types.ID, error)

	GetBalance(classID, nonceID types.ID, holder crypto.Address) (*types.Amount, error)
	SetBalance(classID, nonceID types.ID, holder crypto.Address, amount *types.Amount) error

	GetApproval(owner, operator crypto.Address) (bool, error)
	SetApproval(owner, operator crypto.Address, approved bool) error

	AgentClasses(agentID types.ID) ([]types.ID, error)
	AppendAgentClass(agentID, classID types.ID) error
}
