package errors

import stderrors "errors"

var (
	ErrPaused      = stderrors.New("ledger: module is paused")
	ErrReentrancy  = stderrors.New("ledger: reentrant call rejected")
)
