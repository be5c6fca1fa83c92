package errors

import stderrors "errors"

var (
	ErrNotOwner            = stderrors.New("ledger: caller is not the owner")
	ErrNotOperator         = stderrors.New("ledger: caller is not an approved operator")
	ErrNotAttestedOperator = stderrors.New("ledger: caller is not the authorised attested operator")
	ErrRelayNotAllowed     = stderrors.New("ledger: relay caller is not whitelisted")
)
