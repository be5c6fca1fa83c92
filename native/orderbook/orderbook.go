package orderbook

import (
	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/events"
	"sibond/ledger/types"
	"sibond/native/bond"
	"sibond/native/cash"
	nativecommon "sibond/native/common"
	"sibond/observability/metrics"
)

const moduleName = "orderbook"

// TokenChecker is the subset of TokenRegistry the book needs to validate a
// quote currency before escrowing it.
type TokenChecker interface {
	IsSupported(token crypto.Address) (bool, error)
}

// Registry is OrderBook: a maker/taker secondary market sitting beside the
// Controller, using only BondRegistry and TokenRegistry.
type Registry struct {
	store Store
	bonds *bond.Registry
	gateway cash.Gateway
	tokens  TokenChecker

	// self is the escrow identity the book presents to BondRegistry and
	// cash.Gateway: sell-order bonds and buy-order cash are held under
	// this address, never under the maker's own account.
	self     crypto.Address
	treasury crypto.Address
	feeBps   types.BasisPoints

	emitter events.Emitter
	pauses  nativecommon.PauseView
	now     func() int64
}

// NewRegistry constructs a Registry. self is the book's own escrow
// identity; makers must approve it as a BondRegistry operator before
// creating a sell order.
func NewRegistry(store Store, bonds *bond.Registry, gateway cash.Gateway, tokens TokenChecker, self, treasury crypto.Address, feeBps types.BasisPoints, emitter events.Emitter, now func() int64) *Registry {
	r := &Registry{
		store: store, bonds: bonds, gateway: gateway, tokens: tokens,
		self: self, treasury: treasury, feeBps: feeBps, emitter: emitter, now: now,
	}
	if r.emitter == nil {
		r.emitter = events.NoopEmitter{}
	}
	if r.now == nil {
		r.now = func() int64 { return 0 }
	}
	return r
}

// SetPauses wires the shared pause view.
func (r *Registry) SetPauses(p nativecommon.PauseView) { r.pauses = p }

func (r *Registry) requireToken(token crypto.Address) error {
	supported, err := r.tokens.IsSupported(token)
	if err != nil {
		return err
	}
	if !supported {
		return ledgererrors.ErrUnsupportedToken
	}
	return nil
}

// CreateSellOrder escrows amount bonds of (classID, nonceID) from caller
// into the book and records a live sell order. caller must have already
// approved the book's self address as a BondRegistry operator.
func (r *Registry) CreateSellOrder(caller crypto.Address, classID, nonceID types.ID, amount, pricePerBond *types.Amount, token crypto.Address, expiry int64) (types.ID, error) {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return 0, err
	}
	if amount == nil || amount.IsZero() || pricePerBond == nil || pricePerBond.IsZero() {
		return 0, ledgererrors.ErrZeroAmount
	}
	if err := r.requireToken(token); err != nil {
		return 0, err
	}
	approved, err := r.bonds.IsApproved(caller, r.self)
	if err != nil {
		return 0, err
	}
	if !approved {
		return 0, ledgererrors.ErrNotOperator
	}
	if err := r.bonds.TransferFrom(r.self, caller, r.self, []bond.Tuple{{ClassID: classID, NonceID: nonceID, Amount: amount}}); err != nil {
		return 0, err
	}
	return r.putNewOrder(caller, classID, nonceID, amount, pricePerBond, token, expiry, true)
}

// CreateBuyOrder escrows amount*pricePerBond of token from caller into the
// book and records a live buy order.
func (r *Registry) CreateBuyOrder(caller crypto.Address, classID, nonceID types.ID, amount, pricePerBond *types.Amount, token crypto.Address, expiry int64) (types.ID, error) {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return 0, err
	}
	if amount == nil || amount.IsZero() || pricePerBond == nil || pricePerBond.IsZero() {
		return 0, ledgererrors.ErrZeroAmount
	}
	if err := r.requireToken(token); err != nil {
		return 0, err
	}
	cost := new(types.Amount).Mul(amount, pricePerBond)
	if err := r.gateway.Move(caller, r.self, token, cost); err != nil {
		return 0, err
	}
	return r.putNewOrder(caller, classID, nonceID, amount, pricePerBond, token, expiry, false)
}

func (r *Registry) putNewOrder(maker crypto.Address, classID, nonceID types.ID, amount, pricePerBond *types.Amount, token crypto.Address, expiry int64, isSell bool) (types.ID, error) {
	id, err := r.store.NextOrderID()
	if err != nil {
		return 0, err
	}
	order := &Order{
		ID: id, Maker: maker, ClassID: classID, NonceID: nonceID,
		Remaining: amount, PricePerBond: pricePerBond, Token: token,
		IsSell: isSell, Expiry: expiry, Active: true, Exists: true,
	}
	if err := r.store.PutOrder(order); err != nil {
		return 0, err
	}
	r.emitter.Emit(events.NewOrderCreated(id, maker, classID, nonceID, amount, pricePerBond, token, isSell))
	return id, nil
}

func (r *Registry) get(orderID types.ID) (*Order, error) {
	o, err := r.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || !o.Exists {
		return nil, ledgererrors.ErrOrderInactive
	}
	return o, nil
}

// FillOrder fills exactly fillAmount of orderID's remaining quantity
// (ErrOrderOverfill if fillAmount exceeds it), charging feeBps against the cash leg and routing bonds/cash between
// maker, taker, and the book's escrow.
func (r *Registry) FillOrder(caller crypto.Address, orderID types.ID, fillAmount *types.Amount) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if fillAmount == nil || fillAmount.IsZero() {
		return ledgererrors.ErrZeroAmount
	}
	order, err := r.get(orderID)
	if err != nil {
		return err
	}
	if !order.Active {
		return ledgererrors.ErrOrderInactive
	}
	if order.Expiry != 0 && r.now() > order.Expiry {
		return ledgererrors.ErrOrderExpired
	}
	if fillAmount.Cmp(order.Remaining) > 0 {
		return ledgererrors.ErrOrderOverfill
	}

	cost := new(types.Amount).Mul(fillAmount, order.PricePerBond)
	fee := types.ApplyBps(cost, r.feeBps)
	net := types.SubAmounts(cost, fee)
	tuple := []bond.Tuple{{ClassID: order.ClassID, NonceID: order.NonceID, Amount: fillAmount}}

	if order.IsSell {
		if err := r.gateway.Move(caller, r.self, order.Token, cost); err != nil {
			return err
		}
		if err := r.gateway.Move(r.self, order.Maker, order.Token, net); err != nil {
			return err
		}
		if !fee.IsZero() {
			if err := r.gateway.Move(r.self, r.treasury, order.Token, fee); err != nil {
				return err
			}
		}
		if err := r.bonds.TransferFrom(r.self, r.self, caller, tuple); err != nil {
			return err
		}
	} else {
		if err := r.bonds.TransferFrom(caller, caller, order.Maker, tuple); err != nil {
			return err
		}
		if err := r.gateway.Move(r.self, caller, order.Token, net); err != nil {
			return err
		}
		if !fee.IsZero() {
			if err := r.gateway.Move(r.self, r.treasury, order.Token, fee); err != nil {
				return err
			}
		}
	}

	order.Remaining = types.SubAmounts(order.Remaining, fillAmount)
	if order.Remaining.IsZero() {
		order.Active = false
	}
	if err := r.store.PutOrder(order); err != nil {
		return err
	}
	metrics.OrderBook().RecordFill(order.IsSell)
	r.emitter.Emit(events.NewOrderFilled(orderID, caller, fillAmount, cost, fee))
	return nil
}

// CancelOrder refunds the maker's escrow and deactivates orderID.
// Maker-only.
func (r *Registry) CancelOrder(caller crypto.Address, orderID types.ID) error {
	order, err := r.get(orderID)
	if err != nil {
		return err
	}
	if !order.Maker.Equal(caller) {
		return ledgererrors.ErrNotOwner
	}
	if !order.Active {
		return ledgererrors.ErrOrderInactive
	}
	if order.IsSell {
		tuple := []bond.Tuple{{ClassID: order.ClassID, NonceID: order.NonceID, Amount: order.Remaining}}
		if err := r.bonds.TransferFrom(r.self, r.self, order.Maker, tuple); err != nil {
			return err
		}
	} else {
		refund := new(types.Amount).Mul(order.Remaining, order.PricePerBond)
		if err := r.gateway.Move(r.self, order.Maker, order.Token, refund); err != nil {
			return err
		}
	}
	order.Active = false
	if err := r.store.PutOrder(order); err != nil {
		return err
	}
	metrics.OrderBook().RecordCancel()
	r.emitter.Emit(events.NewOrderCancelled(orderID, caller))
	return nil
}

// GetOrder returns the stored order record.
func (r *Registry) GetOrder(orderID types.ID) (*Order, error) {
	return r.get(orderID)
}

// OrderCount returns the total number of orders ever created.
func (r *Registry) OrderCount() (uint64, error) {
	return r.store.OrderCount()
}
