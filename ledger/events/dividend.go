package events

import (
	"sibond/crypto"
	"sibond/ledger/types"
)

// DividendDeposited fires when DividendVault.deposit succeeds.
type DividendDeposited struct {
	ClassID types.ID
	NonceID types.ID
	Token   crypto.Address
	Amount  *types.Amount
}

func (DividendDeposited) EventType() string { return "dividend.deposited" }

func NewDividendDeposited(classID, nonceID types.ID, token crypto.Address, amount *types.Amount) *DividendDeposited {
	return &DividendDeposited{ClassID: classID, NonceID: nonceID, Token: token, Amount: amount}
}

// DividendsDistributed fires when the Controller routes a revenue pool into
// DividendVault deposits for a class/nonce.
type DividendsDistributed struct {
	ClassID types.ID
	NonceID types.ID
	Amount  *types.Amount
}

func (DividendsDistributed) EventType() string { return "dividend.distributed" }

func NewDividendsDistributed(classID, nonceID types.ID, amount *types.Amount) *DividendsDistributed {
	return &DividendsDistributed{ClassID: classID, NonceID: nonceID, Amount: amount}
}

// DividendClaimed fires when DividendVault.claim pays out a holder.
type DividendClaimed struct {
	Holder  crypto.Address
	ClassID types.ID
	NonceID types.ID
	Token   crypto.Address
	Amount  *types.Amount
}

func (DividendClaimed) EventType() string { return "dividend.claimed" }

func NewDividendClaimed(holder crypto.Address, classID, nonceID types.ID, token crypto.Address, amount *types.Amount) *DividendClaimed {
	return &DividendClaimed{Holder: holder, ClassID: classID, NonceID: nonceID, Token: token, Amount: amount}
}
