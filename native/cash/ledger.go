// Package cash is the external payment-token collaborator: a payment
// token is either the native asset or a fungible token capable of
// transferFrom under an approval model. The core never prices or
// custodies real assets itself; every component that moves money does
// so through the Gateway interface so a host can swap in a real
// chain/bank integration without touching ledger logic.
package cash

import (
	"sync"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"
)

// Gateway abstracts pay-in/pay-out across the native asset and every
// registered fungible token, generalising the teacher's two hardcoded
// BalanceNHB/BalanceZNHB account fields (core/state/accounts.go) into an
// open per-token balance map.
type Gateway interface {
	Balance(addr crypto.Address, token crypto.Address) (*types.Amount, error)
	Credit(addr crypto.Address, token crypto.Address, amount *types.Amount) error
	Debit(addr crypto.Address, token crypto.Address, amount *types.Amount) error
	Move(from, to crypto.Address, token crypto.Address, amount *types.Amount) error
}

// Ledger is the default in-process Gateway: a mutex-guarded balance sheet
// keyed by (address, token).
type Ledger struct {
	mu       sync.Mutex
	balances map[string]map[string]*types.Amount
}

// NewLedger constructs an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]map[string]*types.Amount)}
}

func addrKey(a crypto.Address) string   { return string(a.Bytes()) }
func tokenKey(t crypto.Address) string  { return string(t.Bytes()) }

// Balance returns addr's balance of token.
func (l *Ledger) Balance(addr, token crypto.Address) (*types.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	byToken, ok := l.balances[addrKey(addr)]
	if !ok {
		return types.ZeroAmount(), nil
	}
	bal, ok := byToken[tokenKey(token)]
	if !ok {
		return types.ZeroAmount(), nil
	}
	out := types.ZeroAmount()
	out.Set(bal)
	return out, nil
}

// Credit increases addr's balance of token by amount.
func (l *Ledger) Credit(addr, token crypto.Address, amount *types.Amount) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	byToken, ok := l.balances[addrKey(addr)]
	if !ok {
		byToken = make(map[string]*types.Amount)
		l.balances[addrKey(addr)] = byToken
	}
	current, ok := byToken[tokenKey(token)]
	if !ok {
		current = types.ZeroAmount()
	}
	byToken[tokenKey(token)] = types.AddAmounts(current, amount)
	return nil
}

// Debit decreases addr's balance of token by amount, failing with
// ErrInsufficientBalance if the balance is too small.
func (l *Ledger) Debit(addr, token crypto.Address, amount *types.Amount) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	byToken, ok := l.balances[addrKey(addr)]
	if !ok {
		return ledgererrors.ErrInsufficientBalance
	}
	current, ok := byToken[tokenKey(token)]
	if !ok || current.Cmp(amount) < 0 {
		return ledgererrors.ErrInsufficientBalance
	}
	byToken[tokenKey(token)] = types.SubAmounts(current, amount)
	return nil
}

// Move debits from and credits to atomically (from the caller's point of
// view: either both happen or neither does).
func (l *Ledger) Move(from, to crypto.Address, token crypto.Address, amount *types.Amount) error {
	if err := l.Debit(from, token, amount); err != nil {
		return err
	}
	return l.Credit(to, token, amount)
}
