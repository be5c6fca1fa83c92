// Package agent implements AgentRegistry: the authoritative record of an
// agent's ownership, lifecycle state, revenue history, and derived credit
// rating.
package agent

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// State is an agent's lifecycle stage.
type State uint8

const (
	StateRegistered State = iota
	StateActive
	StateSuspended
	StateDeregistered
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateSuspended:
		return "Suspended"
	case StateDeregistered:
		return "Deregistered"
	default:
		return "Registered"
	}
}

// Rating is a derived credit-rating band.
type Rating uint8

const (
	RatingUnrated Rating = iota
	RatingC
	RatingB
	RatingA
	RatingAA
	RatingAAA
)

func (r Rating) String() string {
	switch r {
	case RatingC:
		return "C"
	case RatingB:
		return "B"
	case RatingA:
		return "A"
	case RatingAA:
		return "AA"
	case RatingAAA:
		return "AAA"
	default:
		return "Unrated"
	}
}

// RevenueSlots is the width of the rolling monthly revenue buffer.
const RevenueSlots = 12

// RevenueProfile is an agent's cumulative revenue and proof history.
type RevenueProfile struct {
	CumulativeEarned *types.Amount
	PaymentCount     uint64
	LastPaymentTime  int64
	SharpeScaled     *types.Amount
	LastProofHash    [32]byte
	RevenueBuffer    [RevenueSlots]*types.Amount
	LastSlotWritten  int
}

func (p RevenueProfile) clone() RevenueProfile {
	out := p
	out.CumulativeEarned = types.ZeroAmount()
	if p.CumulativeEarned != nil {
		out.CumulativeEarned.Set(p.CumulativeEarned)
	}
	out.SharpeScaled = types.ZeroAmount()
	if p.SharpeScaled != nil {
		out.SharpeScaled.Set(p.SharpeScaled)
	}
	for i := range out.RevenueBuffer {
		amt := types.ZeroAmount()
		if p.RevenueBuffer[i] != nil {
			amt.Set(p.RevenueBuffer[i])
		}
		out.RevenueBuffer[i] = amt
	}
	return out
}

// Agent is the Agent entity.
type Agent struct {
	ID                types.ID
	Owner             crypto.Address
	Name              string
	Description       string
	ModelHash         [32]byte
	Endpoint          string
	RegisteredAt      int64
	State             State
	Revenue           RevenueProfile
	Rating            Rating
	Score             uint64
	CapitalRaised     *types.Amount
	EvolutionLevel    uint8
	AttestedOperator  crypto.Address
	Exists            bool
}

func (a Agent) Clone() Agent {
	out := a
	out.Revenue = a.Revenue.clone()
	out.CapitalRaised = types.ZeroAmount()
	if a.CapitalRaised != nil {
		out.CapitalRaised.Set(a.CapitalRaised)
	}
	return out
}
