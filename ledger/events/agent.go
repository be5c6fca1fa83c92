package events

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// AgentRegistered fires when the Controller registers a new agent.
type AgentRegistered struct {
	AgentID types.ID
	Owner   crypto.Address
	Name    string
}

func (AgentRegistered) EventType() string { return "agent.registered" }

// NewAgentRegistered constructs an AgentRegistered event.
func NewAgentRegistered(agentID types.ID, owner crypto.Address, name string) *AgentRegistered {
	return &AgentRegistered{AgentID: agentID, Owner: owner, Name: name}
}

// AgentStateChanged fires whenever an agent transitions state.
type AgentStateChanged struct {
	AgentID  types.ID
	NewState string
}

func (AgentStateChanged) EventType() string { return "agent.state_changed" }

func NewAgentStateChanged(agentID types.ID, newState string) *AgentStateChanged {
	return &AgentStateChanged{AgentID: agentID, NewState: newState}
}

// CreditRatingUpdated fires only when an agent's rating letter changes.
type CreditRatingUpdated struct {
	AgentID types.ID
	Rating  string
}

func (CreditRatingUpdated) EventType() string { return "agent.credit_rating_updated" }

func NewCreditRatingUpdated(agentID types.ID, rating string) *CreditRatingUpdated {
	return &CreditRatingUpdated{AgentID: agentID, Rating: rating}
}

// CapitalEvolution fires when an agent crosses a cumulative-capital
// evolution-level milestone.
type CapitalEvolution struct {
	AgentID            types.ID
	NewLevel           uint8
	CapitalRaisedTotal *types.Amount
}

func (CapitalEvolution) EventType() string { return "agent.capital_evolution" }

func NewCapitalEvolution(agentID types.ID, newLevel uint8, total *types.Amount) *CapitalEvolution {
	return &CapitalEvolution{AgentID: agentID, NewLevel: newLevel, CapitalRaisedTotal: total}
}

// SharpeProofVerified fires when submitSharpeProof succeeds.
type SharpeProofVerified struct {
	AgentID       types.ID
	SharpeScaled  *types.Amount
	ProofHash     [32]byte
}

func (SharpeProofVerified) EventType() string { return "agent.sharpe_proof_verified" }

func NewSharpeProofVerified(agentID types.ID, sharpeScaled *types.Amount, proofHash [32]byte) *SharpeProofVerified {
	return &SharpeProofVerified{AgentID: agentID, SharpeScaled: sharpeScaled, ProofHash: proofHash}
}
