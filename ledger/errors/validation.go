// Package errors enumerates the ledger's error taxonomy as sentinel
// values, grouped by kind, mirroring the teacher's one-file-per-domain
// core/errors convention. Callers compare with errors.Is; the error kind
// is the contract, the message is not.
package errors

import stderrors "errors"

var (
	ErrZeroAmount           = stderrors.New("ledger: amount must be non-zero")
	ErrZeroAddress          = stderrors.New("ledger: address must be non-zero")
	ErrCouponOutOfRange     = stderrors.New("ledger: coupon bps must be in (0, 10000]")
	ErrMaturityZero         = stderrors.New("ledger: maturity period must be positive")
	ErrSupplyExceeded       = stderrors.New("ledger: issuance would exceed class max supply")
	ErrUnsupportedToken     = stderrors.New("ledger: token is not supported")
	ErrInactiveToken        = stderrors.New("ledger: token is inactive")
	ErrTokenAlreadyActive   = stderrors.New("ledger: token already registered and active")
	ErrCannotRemoveNative   = stderrors.New("ledger: the native asset cannot be removed")
)
