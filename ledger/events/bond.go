package events

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// BondClassCreated fires when BondRegistry.createClass succeeds.
type BondClassCreated struct {
	ClassID         types.ID
	AgentID         types.ID
	CouponBps       types.BasisPoints
	MaturityPeriod  int64
	SharpeAtIssue   *types.Amount
	MaxSupply       *types.Amount
	Tranche         string
	PaymentToken    crypto.Address
}

func (BondClassCreated) EventType() string { return "bond.class_created" }

func NewBondClassCreated(classID, agentID types.ID, couponBps types.BasisPoints, maturityPeriod int64, sharpeAtIssue, maxSupply *types.Amount, tranche string, token crypto.Address) *BondClassCreated {
	return &BondClassCreated{
		ClassID:        classID,
		AgentID:        agentID,
		CouponBps:      couponBps,
		MaturityPeriod: maturityPeriod,
		SharpeAtIssue:  sharpeAtIssue,
		MaxSupply:      maxSupply,
		Tranche:        tranche,
		PaymentToken:   token,
	}
}

// BondNonceCreated fires when BondRegistry.createNonce succeeds.
type BondNonceCreated struct {
	ClassID      types.ID
	NonceID      types.ID
	PricePerBond *types.Amount
}

func (BondNonceCreated) EventType() string { return "bond.nonce_created" }

func NewBondNonceCreated(classID, nonceID types.ID, pricePerBond *types.Amount) *BondNonceCreated {
	return &BondNonceCreated{ClassID: classID, NonceID: nonceID, PricePerBond: pricePerBond}
}

// BondTuple identifies a single (class, nonce, amount) leg of a multi-leg
// issue/transfer/burn call.
type BondTuple struct {
	ClassID types.ID
	NonceID types.ID
	Amount  *types.Amount
}

// BondsIssued fires when BondRegistry.issue succeeds.
type BondsIssued struct {
	Operator crypto.Address
	To       crypto.Address
	Tuples   []BondTuple
}

func (BondsIssued) EventType() string { return "bond.issued" }

func NewBondsIssued(operator, to crypto.Address, tuples []BondTuple) *BondsIssued {
	return &BondsIssued{Operator: operator, To: to, Tuples: tuples}
}

// BondsTransferred fires when BondRegistry.transferFrom succeeds.
type BondsTransferred struct {
	Operator crypto.Address
	From     crypto.Address
	To       crypto.Address
	Tuples   []BondTuple
}

func (BondsTransferred) EventType() string { return "bond.transferred" }

func NewBondsTransferred(operator, from, to crypto.Address, tuples []BondTuple) *BondsTransferred {
	return &BondsTransferred{Operator: operator, From: from, To: to, Tuples: tuples}
}

// BondsBurned fires when BondRegistry.burn succeeds.
type BondsBurned struct {
	Operator crypto.Address
	From     crypto.Address
	ClassID  types.ID
	NonceID  types.ID
	Amount   *types.Amount
}

func (BondsBurned) EventType() string { return "bond.burned" }

func NewBondsBurned(operator, from crypto.Address, classID, nonceID types.ID, amount *types.Amount) *BondsBurned {
	return &BondsBurned{Operator: operator, From: from, ClassID: classID, NonceID: nonceID, Amount: amount}
}
