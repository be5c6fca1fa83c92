package errors

import stderrors "errors"

var (
	ErrProofInvalid      = stderrors.New("ledger: sharpe proof failed verification")
	ErrSignatureInvalid  = stderrors.New("ledger: signature does not recover to the expected signer")
	ErrSignatureExpired  = stderrors.New("ledger: signature deadline has elapsed")
	ErrAttestorMismatch  = stderrors.New("ledger: receipt signer is not the agent's attested operator")
	ErrReceiptOutOfWindow = stderrors.New("ledger: receipt timestamp outside the acceptance window")
)
