package events

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// OrderCreated fires when the OrderBook accepts a new sell or buy order.
type OrderCreated struct {
	OrderID      types.ID
	Maker        crypto.Address
	ClassID      types.ID
	NonceID      types.ID
	Amount       *types.Amount
	PricePerBond *types.Amount
	Token        crypto.Address
	IsSell       bool
}

func (OrderCreated) EventType() string { return "orderbook.order_created" }

func NewOrderCreated(orderID types.ID, maker crypto.Address, classID, nonceID types.ID, amount, price *types.Amount, token crypto.Address, isSell bool) *OrderCreated {
	return &OrderCreated{OrderID: orderID, Maker: maker, ClassID: classID, NonceID: nonceID, Amount: amount, PricePerBond: price, Token: token, IsSell: isSell}
}

// OrderFilled fires on every (partial or full) fill.
type OrderFilled struct {
	OrderID    types.ID
	Taker      crypto.Address
	FillAmount *types.Amount
	CashMoved  *types.Amount
	FeeCharged *types.Amount
}

func (OrderFilled) EventType() string { return "orderbook.order_filled" }

func NewOrderFilled(orderID types.ID, taker crypto.Address, fillAmount, cashMoved, fee *types.Amount) *OrderFilled {
	return &OrderFilled{OrderID: orderID, Taker: taker, FillAmount: fillAmount, CashMoved: cashMoved, FeeCharged: fee}
}

// OrderCancelled fires when the maker cancels a live order.
type OrderCancelled struct {
	OrderID types.ID
	Maker   crypto.Address
}

func (OrderCancelled) EventType() string { return "orderbook.order_cancelled" }

func NewOrderCancelled(orderID types.ID, maker crypto.Address) *OrderCancelled {
	return &OrderCancelled{OrderID: orderID, Maker: maker}
}
