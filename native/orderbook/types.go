// Package orderbook implements OrderBook: a maker/taker secondary market
// for bonds sitting beside the Controller and using only BondRegistry and
// TokenRegistry.
package orderbook

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// Order is the Order entity. A sell order escrows bonds; a buy order
// escrows cash.
type Order struct {
	ID           types.ID
	Maker        crypto.Address
	ClassID      types.ID
	NonceID      types.ID
	Remaining    *types.Amount
	PricePerBond *types.Amount
	Token        crypto.Address
	IsSell       bool
	Expiry       int64
	Active       bool
	Exists       bool
}

func (o Order) clone() Order {
	out := o
	out.Remaining = types.ZeroAmount()
	if o.Remaining != nil {
		out.Remaining.Set(o.Remaining)
	}
	out.PricePerBond = types.ZeroAmount()
	if o.PricePerBond != nil {
		out.PricePerBond.Set(o.PricePerBond)
	}
	return out
}
