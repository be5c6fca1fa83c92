// Package dividend implements DividendVault: the pull-based MasterChef-
// style accumulator that makes deposit and claim O(1) regardless of
// holder count.
package dividend

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// Scale is the fixed-point multiplier ("dividend units per bond") applied
// to AccPerBond, a 10^18 scaling factor.
var Scale = types.NewAmount(1_000_000_000_000_000_000)

// Key identifies one (class, nonce, token) accumulator.
type Key struct {
	ClassID types.ID
	NonceID types.ID
	Token   crypto.Address
}

// Accumulator is the per-(class,nonce,token) MasterChef state.
type Accumulator struct {
	AccPerBond     *types.Amount
	TotalDeposited *types.Amount
}

func (a Accumulator) clone() Accumulator {
	acc := types.ZeroAmount()
	if a.AccPerBond != nil {
		acc.Set(a.AccPerBond)
	}
	dep := types.ZeroAmount()
	if a.TotalDeposited != nil {
		dep.Set(a.TotalDeposited)
	}
	return Accumulator{AccPerBond: acc, TotalDeposited: dep}
}

// HolderKey identifies one holder's checkpoint against one accumulator.
type HolderKey struct {
	Holder  crypto.Address
	ClassID types.ID
	NonceID types.ID
	Token   crypto.Address
}

// HolderDebt is the per-holder reward-debt / retained-earnings pair.
type HolderDebt struct {
	RewardDebt      *types.Amount
	PendingRealised *types.Amount
}

func (d HolderDebt) clone() HolderDebt {
	rd := types.ZeroAmount()
	if d.RewardDebt != nil {
		rd.Set(d.RewardDebt)
	}
	pr := types.ZeroAmount()
	if d.PendingRealised != nil {
		pr.Set(d.PendingRealised)
	}
	return HolderDebt{RewardDebt: rd, PendingRealised: pr}
}
