package receiver

import (
	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/events"
	"sibond/ledger/types"
	"sibond/native/cash"
)

// moduleName identifies this component to the shared pause view.
const moduleName = "receiver"

// TokenChecker is the subset of TokenRegistry the receiver needs.
type TokenChecker interface {
	IsSupported(token crypto.Address) (bool, error)
}

// RevenueSink is the Controller's revenue entrypoint.
type RevenueSink interface {
	OnRevenue(agentID types.ID, token crypto.Address, amount *types.Amount) error
}

// AttestedOperatorSource resolves an agent's currently-authorised attested
// operator, consulted via AgentRegistry.
type AttestedOperatorSource interface {
	AttestedOperator(agentID types.ID) (crypto.Address, error)
}

// Receiver is AttestedReceiver.
type Receiver struct {
	tokens     TokenChecker
	controller RevenueSink
	operators  AttestedOperatorSource
	gateway    cash.Gateway
	treasury   crypto.Address
	store      Store
	emitter    events.Emitter

	attestationWindowSeconds int64
	relayRestricted          bool
	relayWhitelist           map[string]bool
	now                      func() int64
}

// NewReceiver constructs a Receiver. Native/token funds pulled from payers
// are credited to treasury, matching the pseudo-account the Controller
// draws RevenuePool and IPOCapital movements from.
func NewReceiver(tokens TokenChecker, controller RevenueSink, operators AttestedOperatorSource, gateway cash.Gateway, treasury crypto.Address, store Store, emitter events.Emitter, attestationWindowSeconds int64, relayRestricted bool, relayWhitelist []crypto.Address, now func() int64) *Receiver {
	whitelist := make(map[string]bool, len(relayWhitelist))
	for _, addr := range relayWhitelist {
		whitelist[string(addr.Bytes())] = true
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if now == nil {
		now = func() int64 { return 0 }
	}
	return &Receiver{
		tokens:                   tokens,
		controller:               controller,
		operators:                operators,
		gateway:                  gateway,
		treasury:                 treasury,
		store:                    store,
		emitter:                  emitter,
		attestationWindowSeconds: attestationWindowSeconds,
		relayRestricted:          relayRestricted,
		relayWhitelist:           whitelist,
		now:                      now,
	}
}

// PayNative is the plain native-payment path: payer is the caller, value v
// is assumed already credited to payer's native balance by the host.
func (r *Receiver) PayNative(payer crypto.Address, agentID types.ID, endpoint string, v *types.Amount) error {
	if v == nil || v.IsZero() {
		return ledgererrors.ErrZeroAmount
	}
	if err := r.gateway.Move(payer, r.treasury, crypto.ZeroAddress, v); err != nil {
		return err
	}
	return r.forward(payer, agentID, crypto.ZeroAddress, endpoint, v, false, crypto.Address{}, [32]byte{})
}

// PayToken pulls amount of token from caller; token must be supported.
func (r *Receiver) PayToken(payer crypto.Address, agentID types.ID, token crypto.Address, amount *types.Amount, endpoint string) error {
	if amount == nil || amount.IsZero() {
		return ledgererrors.ErrZeroAmount
	}
	supported, err := r.tokens.IsSupported(token)
	if err != nil {
		return err
	}
	if !supported {
		return ledgererrors.ErrUnsupportedToken
	}
	if err := r.gateway.Move(payer, r.treasury, token, amount); err != nil {
		return err
	}
	return r.forward(payer, agentID, token, endpoint, amount, false, crypto.Address{}, [32]byte{})
}

// PayWithSignature is the gasless-relay path: verifies payer's signature
// over (payer, agentId, token, amount, endpointHash, nonce, deadline) and,
// if relayRestricted, that caller is whitelisted.
func (r *Receiver) PayWithSignature(caller, payer crypto.Address, agentID types.ID, token crypto.Address, amount *types.Amount, endpoint string, deadline int64, signature []byte) error {
	if amount == nil || amount.IsZero() {
		return ledgererrors.ErrZeroAmount
	}
	supported, err := r.tokens.IsSupported(token)
	if err != nil {
		return err
	}
	if !supported {
		return ledgererrors.ErrUnsupportedToken
	}
	if r.relayRestricted && !r.relayWhitelist[string(caller.Bytes())] {
		return ledgererrors.ErrRelayNotAllowed
	}
	if r.now() > deadline {
		return ledgererrors.ErrSignatureExpired
	}
	nonce, err := r.store.NonceOf(payer)
	if err != nil {
		return err
	}
	digest := signedPaymentDigest(payer, agentID, token, amount, endpoint, nonce, deadline)
	recovered, err := crypto.RecoverAddress(crypto.SignedMessageDigest(digest), signature)
	if err != nil || !recovered.Equal(payer) {
		return ledgererrors.ErrSignatureInvalid
	}
	if err := r.store.BumpNonce(payer); err != nil {
		return err
	}
	if err := r.gateway.Move(payer, r.treasury, token, amount); err != nil {
		return err
	}
	return r.forward(payer, agentID, token, endpoint, amount, false, crypto.Address{}, [32]byte{})
}

// PayNativeAttested is the attested path: recomputes the receipt digest,
// recovers the signer, asserts the signer is the agent's authorised
// attested operator, appends a VerifiedPaymentRecord, and forwards v.
func (r *Receiver) PayNativeAttested(payer crypto.Address, agentID types.ID, endpoint string, v *types.Amount, timestamp int64, logicHash [32]byte, signature []byte) error {
	if v == nil || v.IsZero() {
		return ledgererrors.ErrZeroAmount
	}
	if diff := r.now() - timestamp; diff > r.attestationWindowSeconds || diff < -r.attestationWindowSeconds {
		return ledgererrors.ErrReceiptOutOfWindow
	}
	digest := attestedReceiptDigest(agentID, v, endpoint, timestamp, logicHash)
	recovered, err := crypto.RecoverAddress(crypto.SignedMessageDigest(digest), signature)
	if err != nil {
		return ledgererrors.ErrSignatureInvalid
	}
	authorised, err := r.operators.AttestedOperator(agentID)
	if err != nil {
		return err
	}
	if !recovered.Equal(authorised) {
		return ledgererrors.ErrAttestorMismatch
	}
	if err := r.gateway.Move(payer, r.treasury, crypto.ZeroAddress, v); err != nil {
		return err
	}
	if err := r.store.AddVerifiedRevenue(agentID, v); err != nil {
		return err
	}
	return r.forward(payer, agentID, crypto.ZeroAddress, endpoint, v, true, recovered, logicHash)
}

// VerifiedRevenue returns the cumulative value accepted via
// PayNativeAttested for agentID.
func (r *Receiver) VerifiedRevenue(agentID types.ID) (*types.Amount, error) {
	return r.store.VerifiedRevenue(agentID)
}

// Records returns the append-only audit log.
func (r *Receiver) Records() ([]VerifiedPaymentRecord, error) { return r.store.Records() }

func (r *Receiver) forward(payer crypto.Address, agentID types.ID, token crypto.Address, endpoint string, amount *types.Amount, attested bool, signer crypto.Address, logicHash [32]byte) error {
	rec := &VerifiedPaymentRecord{
		Payer:     payer,
		AgentID:   agentID,
		Token:     token,
		Endpoint:  endpoint,
		Amount:    amount,
		Timestamp: r.now(),
		LogicHash: logicHash,
		Signer:    signer,
		Attested:  attested,
	}
	if err := r.store.AppendRecord(rec); err != nil {
		return err
	}
	if err := r.controller.OnRevenue(agentID, token, amount); err != nil {
		return err
	}
	if attested {
		r.emitter.Emit(events.NewVerifiedPaymentReceived(agentID, amount, logicHash, signer, rec.Timestamp))
	}
	return nil
}
