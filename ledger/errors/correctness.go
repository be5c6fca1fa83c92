package errors

import stderrors "errors"

var (
	ErrZeroSupply         = stderrors.New("ledger: cannot deposit dividends against zero supply")
	ErrNothingToClaim     = stderrors.New("ledger: holder has nothing to claim")
	ErrInsufficientBalance = stderrors.New("ledger: insufficient bond balance")
	ErrInsufficientCapital = stderrors.New("ledger: insufficient escrowed capital")
)
