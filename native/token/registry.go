package token

import (
	"strings"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/events"
	"sibond/ledger/types"
	nativecommon "sibond/native/common"
)

// Registry is TokenRegistry: the whitelist of accepted payment assets and
// their decimals/price metadata.
type Registry struct {
	store   Store
	owner   nativecommon.Capability
	emitter events.Emitter
}

// NewRegistry constructs a Registry and seeds the implicit native-asset
// record: symbol "BNB", 18 decimals, a configurable initial price.
func NewRegistry(store Store, owner crypto.Address, emitter events.Emitter, nativeInitialPrice *types.Amount) (*Registry, error) {
	r := &Registry{store: store, emitter: emitter}
	r.owner.Bind(owner)
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
	}
	price := types.ZeroAmount()
	if nativeInitialPrice != nil {
		price.Set(nativeInitialPrice)
	}
	native := &Info{
		Token:    crypto.ZeroAddress,
		Symbol:   NativeSymbol,
		Decimals: NativeDecimals,
		Price:    price,
		Active:   true,
	}
	if err := r.store.PutToken(native); err != nil {
		return nil, err
	}
	if err := r.store.AppendToList(crypto.ZeroAddress); err != nil {
		return nil, err
	}
	return r, nil
}

// AddToken registers a new non-native payment asset. Owner-only.
func (r *Registry) AddToken(caller, token crypto.Address, symbol string, decimals uint8, priceUnit *types.Amount) error {
	if err := r.owner.Authorize(caller); err != nil {
		return err
	}
	if token.IsZero() {
		return ledgererrors.ErrCannotRemoveNative
	}
	existing, err := r.store.GetToken(token)
	if err != nil {
		return err
	}
	if existing != nil && existing.Active {
		return ledgererrors.ErrTokenAlreadyActive
	}
	price := types.ZeroAmount()
	if priceUnit != nil {
		price.Set(priceUnit)
	}
	info := &Info{Token: token, Symbol: strings.TrimSpace(symbol), Decimals: decimals, Price: price, Active: true}
	if err := r.store.PutToken(info); err != nil {
		return err
	}
	if existing == nil {
		if err := r.store.AppendToList(token); err != nil {
			return err
		}
	}
	r.emitter.Emit(events.NewTokenAdded(token, info.Symbol, decimals))
	return nil
}

// RemoveToken marks a token inactive, preserving its history. Owner-only;
// the native sentinel can never be removed.
func (r *Registry) RemoveToken(caller, token crypto.Address) error {
	if err := r.owner.Authorize(caller); err != nil {
		return err
	}
	if token.IsZero() {
		return ledgererrors.ErrCannotRemoveNative
	}
	info, err := r.store.GetToken(token)
	if err != nil {
		return err
	}
	if info == nil {
		return ledgererrors.ErrUnsupportedToken
	}
	info.Active = false
	return r.store.PutToken(info)
}

// UpdatePrice updates the last-known unit price of an active token.
// Owner-only.
func (r *Registry) UpdatePrice(caller, token crypto.Address, newPriceUnit *types.Amount) error {
	if err := r.owner.Authorize(caller); err != nil {
		return err
	}
	info, err := r.store.GetToken(token)
	if err != nil {
		return err
	}
	if info == nil || !info.Active {
		return ledgererrors.ErrInactiveToken
	}
	price := types.ZeroAmount()
	if newPriceUnit != nil {
		price.Set(newPriceUnit)
	}
	info.Price = price
	return r.store.PutToken(info)
}

// IsSupported reports whether token is registered and active.
func (r *Registry) IsSupported(token crypto.Address) (bool, error) {
	info, err := r.store.GetToken(token)
	if err != nil {
		return false, err
	}
	return info != nil && info.Active, nil
}

// TokenInfo returns the stored record for token, or ErrUnsupportedToken if
// it was never registered.
func (r *Registry) TokenInfo(token crypto.Address) (Info, error) {
	info, err := r.store.GetToken(token)
	if err != nil {
		return Info{}, err
	}
	if info == nil {
		return Info{}, ledgererrors.ErrUnsupportedToken
	}
	return info.Clone(), nil
}

// TokenPrice returns the last-known unit price for an active token.
func (r *Registry) TokenPrice(token crypto.Address) (*types.Amount, error) {
	info, err := r.store.GetToken(token)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ledgererrors.ErrUnsupportedToken
	}
	if !info.Active {
		return nil, ledgererrors.ErrInactiveToken
	}
	return info.Price, nil
}

// AllTokens returns every token ever added, in insertion order. Callers
// filter by Active themselves.
func (r *Registry) AllTokens() ([]Info, error) {
	addrs, err := r.store.AllTokens()
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(addrs))
	for _, a := range addrs {
		info, err := r.store.GetToken(a)
		if err != nil {
			return nil, err
		}
		if info != nil {
			out = append(out, *info)
		}
	}
	return out, nil
}
