// Package token implements TokenRegistry: the whitelist of accepted
// payment assets consulted by every cash-handling component.
package token

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// Info describes a registered payment asset.
type Info struct {
	Token    crypto.Address
	Symbol   string
	Decimals uint8
	Price    *types.Amount
	Active   bool
}

// Clone returns a deep copy so callers cannot mutate the store's
// internal state through a returned view.
func (i Info) Clone() Info {
	price := types.ZeroAmount()
	if i.Price != nil {
		price.Set(i.Price)
	}
	return Info{Token: i.Token, Symbol: i.Symbol, Decimals: i.Decimals, Price: price, Active: i.Active}
}

// NativeSymbol/NativeDecimals describe the implicit native-asset record
// added at construction time.
const (
	NativeSymbol   = "BNB"
	NativeDecimals = 18
)
