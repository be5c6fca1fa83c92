package errors

import stderrors "errors"

var (
	ErrAgentNotActive    = stderrors.New("ledger: agent is not active")
	ErrAgentMissing      = stderrors.New("ledger: agent does not exist")
	ErrBondClassMissing  = stderrors.New("ledger: bond class does not exist")
	ErrBondNonceMissing  = stderrors.New("ledger: bond nonce does not exist")
	ErrNonceNotRedeemable = stderrors.New("ledger: bond nonce is not redeemable")
	ErrNonceNotMatured   = stderrors.New("ledger: bond nonce has not matured")
	ErrOrderExpired      = stderrors.New("ledger: order has expired")
	ErrOrderInactive     = stderrors.New("ledger: order is not active")
	ErrOrderOverfill     = stderrors.New("ledger: fill amount exceeds order remaining")
)
