package events

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// RevenueReceived fires when Controller.onRevenue splits incoming revenue.
type RevenueReceived struct {
	AgentID          types.ID
	Amount           *types.Amount
	BondholderShare  *types.Amount
	OwnerShare       *types.Amount
	Token            crypto.Address
}

func (RevenueReceived) EventType() string { return "controller.revenue_received" }

func NewRevenueReceived(agentID types.ID, amount, bondholderShare, ownerShare *types.Amount, token crypto.Address) *RevenueReceived {
	return &RevenueReceived{AgentID: agentID, Amount: amount, BondholderShare: bondholderShare, OwnerShare: ownerShare, Token: token}
}

// IPOInitiated fires when Controller.initiateIPO succeeds.
type IPOInitiated struct {
	AgentID      types.ID
	ClassID      types.ID
	NonceID      types.ID
	CouponBps    types.BasisPoints
	PricePerBond *types.Amount
	Token        crypto.Address
}

func (IPOInitiated) EventType() string { return "controller.ipo_initiated" }

func NewIPOInitiated(agentID, classID, nonceID types.ID, couponBps types.BasisPoints, price *types.Amount, token crypto.Address) *IPOInitiated {
	return &IPOInitiated{AgentID: agentID, ClassID: classID, NonceID: nonceID, CouponBps: couponBps, PricePerBond: price, Token: token}
}

// TranchedIPOInitiated fires when Controller.initiateTranchedIPO succeeds.
type TranchedIPOInitiated struct {
	AgentID        types.ID
	GroupID        types.ID
	SeniorClassID  types.ID
	JuniorClassID  types.ID
}

func (TranchedIPOInitiated) EventType() string { return "controller.tranched_ipo_initiated" }

func NewTranchedIPOInitiated(agentID, groupID, seniorClassID, juniorClassID types.ID) *TranchedIPOInitiated {
	return &TranchedIPOInitiated{AgentID: agentID, GroupID: groupID, SeniorClassID: seniorClassID, JuniorClassID: juniorClassID}
}

// BondsPurchased fires when Controller.purchaseBonds succeeds.
type BondsPurchased struct {
	Buyer     crypto.Address
	ClassID   types.ID
	NonceID   types.ID
	Amount    *types.Amount
	TotalCost *types.Amount
	Token     crypto.Address
}

func (BondsPurchased) EventType() string { return "controller.bonds_purchased" }

func NewBondsPurchased(buyer crypto.Address, classID, nonceID types.ID, amount, totalCost *types.Amount, token crypto.Address) *BondsPurchased {
	return &BondsPurchased{Buyer: buyer, ClassID: classID, NonceID: nonceID, Amount: amount, TotalCost: totalCost, Token: token}
}

// BondsRedeemed fires when Controller.redeemBonds succeeds.
type BondsRedeemed struct {
	Holder  crypto.Address
	ClassID types.ID
	NonceID types.ID
	Amount  *types.Amount
}

func (BondsRedeemed) EventType() string { return "controller.bonds_redeemed" }

func NewBondsRedeemed(holder crypto.Address, classID, nonceID types.ID, amount *types.Amount) *BondsRedeemed {
	return &BondsRedeemed{Holder: holder, ClassID: classID, NonceID: nonceID, Amount: amount}
}

// IPOCapitalReleased fires when Controller.releaseIPOCapital succeeds.
type IPOCapitalReleased struct {
	AgentID   types.ID
	Token     crypto.Address
	Amount    *types.Amount
	Recipient crypto.Address
}

func (IPOCapitalReleased) EventType() string { return "controller.ipo_capital_released" }

func NewIPOCapitalReleased(agentID types.ID, token crypto.Address, amount *types.Amount, recipient crypto.Address) *IPOCapitalReleased {
	return &IPOCapitalReleased{AgentID: agentID, Token: token, Amount: amount, Recipient: recipient}
}
