// Package tranche implements TranchingEngine: the optional senior/junior
// overlay that pairs two BondRegistry classes for one agent and computes the
// time-weighted senior entitlement for a waterfall distribution.
package tranche

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// SecondsPerYear anchors the entitlement formula's annualisation.
const SecondsPerYear = 365 * 86400

// Group is TrancheGroup.
type Group struct {
	ID             types.ID
	AgentID        types.ID
	SeniorClassID  types.ID
	JuniorClassID  types.ID
	SeniorNonceID  types.ID
	JuniorNonceID  types.ID
	SeniorCouponBps types.BasisPoints
	JuniorCouponBps types.BasisPoints
	PaymentToken   crypto.Address
	Exists         bool
}

func (g Group) clone() Group { return g }
