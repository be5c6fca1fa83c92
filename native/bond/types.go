// Package bond implements BondRegistry: the semi-fungible balance sheet
// mapping (classId, nonceId, holder) to amount, plus class/nonce
// metadata, operator approvals, and the transfer primitive that drives
// DividendVault's pre-change settlement hook.
package bond

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// Tranche tags a bond class for waterfall routing.
type Tranche uint8

const (
	TrancheStandard Tranche = iota
	TrancheSenior
	TrancheJunior
)

func (t Tranche) String() string {
	switch t {
	case TrancheSenior:
		return "senior"
	case TrancheJunior:
		return "junior"
	default:
		return "standard"
	}
}

// Class is a BondClass: the configuration template scoped to one agent.
type Class struct {
	ID             types.ID
	AgentID        types.ID
	CouponBps      types.BasisPoints
	MaturityPeriod int64
	SharpeAtIssue  *types.Amount
	MaxSupply      *types.Amount
	// TotalIssued is the running sum of totalIssued across every nonce of
	// this class, maintained incrementally so enforcing the class cap (sum <=
	// maxSupply) never requires enumerating nonces.
	TotalIssued  *types.Amount
	Tranche      Tranche
	PaymentToken crypto.Address
	Exists       bool
}

// Clone deep-copies a Class so stored state cannot be mutated through a
// returned view.
func (c Class) Clone() Class {
	out := c
	out.SharpeAtIssue = cloneAmount(c.SharpeAtIssue)
	out.MaxSupply = cloneAmount(c.MaxSupply)
	out.TotalIssued = cloneAmount(c.TotalIssued)
	return out
}

// Nonce is a BondNonce: one issuance batch inside a Class.
type Nonce struct {
	ClassID           types.ID
	ID                types.ID
	IssueTimestamp    int64
	MaturityTimestamp int64
	TotalIssued       *types.Amount
	PricePerBond      *types.Amount
	Redeemable        bool
	Exists            bool
}

// Clone deep-copies a Nonce.
func (n Nonce) Clone() Nonce {
	out := n
	out.TotalIssued = cloneAmount(n.TotalIssued)
	out.PricePerBond = cloneAmount(n.PricePerBond)
	return out
}

func cloneAmount(a *types.Amount) *types.Amount {
	out := types.ZeroAmount()
	if a != nil {
		out.Set(a)
	}
	return out
}

// Tuple identifies a single (class, nonce, amount) leg of a multi-leg
// issue/transfer/burn call.
type Tuple struct {
	ClassID types.ID
	NonceID types.ID
	Amount  *types.Amount
}
