// Package controller implements Controller: the sole orchestrator that
// mutates BondRegistry, DividendVault, AgentRegistry, and (on tranched
// IPOs) TranchingEngine, enforcing the cross-cutting invariants that
// keep those components consistent with each other.
package controller

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// poolKey identifies a (agentId, token) bucket shared by RevenuePool and
// IPOCapital.
type poolKey struct {
	agentID types.ID
	token   string
}

func newPoolKey(agentID types.ID, token crypto.Address) poolKey {
	return poolKey{agentID: agentID, token: string(token.Bytes())}
}

// Verifier is the opaque proof-verification predicate SubmitSharpeProof
// delegates to; the Controller treats it as a black box and only acts on
// its boolean verdict.
type Verifier func(proof []byte, instances []*types.Amount) bool
