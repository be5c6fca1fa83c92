package bond

import (
	"time"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/events"
	"sibond/ledger/types"
	nativecommon "sibond/native/common"
)

// DividendHook is DividendVault's pre-change settlement callback, invoked
// before every balance mutation so accrued-but-unclaimed dividends are
// snapshotted against the pre-mutation balance.
type DividendHook interface {
	OnBalanceChange(from, to crypto.Address, classID, nonceID types.ID, delta *types.Amount) error
}

type noopHook struct{}

func (noopHook) OnBalanceChange(crypto.Address, crypto.Address, types.ID, types.ID, *types.Amount) error {
	return nil
}

// Registry is BondRegistry.
type Registry struct {
	store Store
	hook  DividendHook

	// Both the Controller and the TranchingEngine are accepted as
	// operators: a tranched IPO has TranchingEngine call createClass/
	// createNonce on the Controller's behalf.
	controller nativecommon.Capability
	tranching  nativecommon.Capability

	emitter events.Emitter
	pauses  nativecommon.PauseView
	now     func() int64
	guard   nativecommon.ReentrancyGuard
}

const moduleName = "bond"

// NewRegistry constructs a Registry backed by store.
func NewRegistry(store Store, controller crypto.Address, emitter events.Emitter) *Registry {
	r := &Registry{store: store, hook: noopHook{}, emitter: emitter, now: func() int64 { return time.Now().Unix() }}
	r.controller.Bind(controller)
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
	}
	return r
}

// SetDividendHook wires the DividendVault settlement callback.
func (r *Registry) SetDividendHook(hook DividendHook) {
	if hook == nil {
		hook = noopHook{}
	}
	r.hook = hook
}

// SetTranchingOperator grants the TranchingEngine capability to call
// createClass/createNonce, used only during a tranched IPO.
func (r *Registry) SetTranchingOperator(addr crypto.Address) {
	r.tranching.Bind(addr)
}

// SetPauses wires the shared pause view.
func (r *Registry) SetPauses(p nativecommon.PauseView) { r.pauses = p }

// SetClock overrides the time source used to stamp nonce issue/maturity
// timestamps; tests use this to pin deterministic values.
func (r *Registry) SetClock(now func() int64) {
	if now != nil {
		r.now = now
	}
}

func (r *Registry) authorize(caller crypto.Address) error {
	if r.controller.Authorize(caller) == nil {
		return nil
	}
	if r.tranching.Authorize(caller) == nil {
		return nil
	}
	return ledgererrors.ErrNotOperator
}

// CreateClass assigns the next classId and validates its bounds:
// 0 < couponBps <= 10000, maturityPeriod > 0, maxSupply > 0.
func (r *Registry) CreateClass(caller crypto.Address, agentID types.ID, couponBps types.BasisPoints, maturityPeriod int64, sharpeAtIssue, maxSupply *types.Amount, tranche Tranche, paymentToken crypto.Address) (types.ID, error) {
	if err := r.authorize(caller); err != nil {
		return 0, err
	}
	if couponBps == 0 || couponBps > types.MaxBasisPoints {
		return 0, ledgererrors.ErrCouponOutOfRange
	}
	if maturityPeriod <= 0 {
		return 0, ledgererrors.ErrMaturityZero
	}
	if maxSupply == nil || maxSupply.IsZero() {
		return 0, ledgererrors.ErrZeroAmount
	}

	classID, err := r.store.NextClassID()
	if err != nil {
		return 0, err
	}
	class := &Class{
		ID:             classID,
		AgentID:        agentID,
		CouponBps:      couponBps,
		MaturityPeriod: maturityPeriod,
		SharpeAtIssue:  sharpeAtIssue,
		MaxSupply:      maxSupply,
		TotalIssued:    types.ZeroAmount(),
		Tranche:        tranche,
		PaymentToken:   paymentToken,
		Exists:         true,
	}
	if err := r.store.PutClass(class); err != nil {
		return 0, err
	}
	if err := r.store.AppendAgentClass(agentID, classID); err != nil {
		return 0, err
	}
	r.emitter.Emit(events.NewBondClassCreated(classID, agentID, couponBps, maturityPeriod, sharpeAtIssue, maxSupply, tranche.String(), paymentToken))
	return classID, nil
}

// CreateNonce assigns the next nonceId within classID.
func (r *Registry) CreateNonce(caller crypto.Address, classID types.ID, pricePerBond *types.Amount) (types.ID, error) {
	if err := r.authorize(caller); err != nil {
		return 0, err
	}
	class, err := r.store.GetClass(classID)
	if err != nil {
		return 0, err
	}
	if class == nil || !class.Exists {
		return 0, ledgererrors.ErrBondClassMissing
	}
	if pricePerBond == nil || pricePerBond.IsZero() {
		return 0, ledgererrors.ErrZeroAmount
	}

	nonceID, err := r.store.NextNonceID(classID)
	if err != nil {
		return 0, err
	}
	issued := r.now()
	nonce := &Nonce{
		ClassID:           classID,
		ID:                nonceID,
		IssueTimestamp:    issued,
		MaturityTimestamp: issued + class.MaturityPeriod,
		TotalIssued:       types.ZeroAmount(),
		PricePerBond:       pricePerBond,
		Exists:             true,
	}
	if err := r.store.PutNonce(nonce); err != nil {
		return 0, err
	}
	r.emitter.Emit(events.NewBondNonceCreated(classID, nonceID, pricePerBond))
	return nonceID, nil
}

func (r *Registry) classAndNonce(classID, nonceID types.ID) (*Class, *Nonce, error) {
	class, err := r.store.GetClass(classID)
	if err != nil {
		return nil, nil, err
	}
	if class == nil || !class.Exists {
		return nil, nil, ledgererrors.ErrBondClassMissing
	}
	nonce, err := r.store.GetNonce(classID, nonceID)
	if err != nil {
		return nil, nil, err
	}
	if nonce == nil || !nonce.Exists {
		return nil, nil, ledgererrors.ErrBondNonceMissing
	}
	return class, nonce, nil
}

// Issue mints amount units of (classID, nonceID) to `to`, enforcing the
// class's max supply and settling the recipient's dividend debt via
// the pre-change hook before the balance changes.
func (r *Registry) Issue(caller, to crypto.Address, tuples []Tuple) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	for _, t := range tuples {
		if t.Amount == nil || t.Amount.IsZero() {
			return ledgererrors.ErrZeroAmount
		}
		class, nonce, err := r.classAndNonce(t.ClassID, t.NonceID)
		if err != nil {
			return err
		}
		newClassTotal := types.AddAmounts(class.TotalIssued, t.Amount)
		if newClassTotal.Cmp(class.MaxSupply) > 0 {
			return ledgererrors.ErrSupplyExceeded
		}
		if err := r.hook.OnBalanceChange(crypto.ZeroAddress, to, t.ClassID, t.NonceID, t.Amount); err != nil {
			return err
		}
		bal, err := r.store.GetBalance(t.ClassID, t.NonceID, to)
		if err != nil {
			return err
		}
		if err := r.store.SetBalance(t.ClassID, t.NonceID, to, types.AddAmounts(bal, t.Amount)); err != nil {
			return err
		}
		nonce.TotalIssued = types.AddAmounts(nonce.TotalIssued, t.Amount)
		if err := r.store.PutNonce(nonce); err != nil {
			return err
		}
		class.TotalIssued = newClassTotal
		if err := r.store.PutClass(class); err != nil {
			return err
		}
	}
	r.emitter.Emit(events.NewBondsIssued(caller, to, tuplesToEvents(tuples)))
	return nil
}

func tuplesToEvents(in []Tuple) []events.BondTuple {
	out := make([]events.BondTuple, len(in))
	for i, t := range in {
		out[i] = events.BondTuple{ClassID: t.ClassID, NonceID: t.NonceID, Amount: t.Amount}
	}
	return out
}

// TransferFrom moves bonds between holders. caller must be from or an
// approved operator of from.
func (r *Registry) TransferFrom(caller, from, to crypto.Address, tuples []Tuple) error {
	if !from.Equal(caller) {
		approved, err := r.store.GetApproval(from, caller)
		if err != nil {
			return err
		}
		if !approved {
			return ledgererrors.ErrNotOperator
		}
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.guard.Enter(); err != nil {
		return err
	}
	defer r.guard.Exit()

	for _, t := range tuples {
		if t.Amount == nil || t.Amount.IsZero() {
			return ledgererrors.ErrZeroAmount
		}
		if _, _, err := r.classAndNonce(t.ClassID, t.NonceID); err != nil {
			return err
		}
		fromBal, err := r.store.GetBalance(t.ClassID, t.NonceID, from)
		if err != nil {
			return err
		}
		if fromBal.Cmp(t.Amount) < 0 {
			return ledgererrors.ErrInsufficientBalance
		}
		if err := r.hook.OnBalanceChange(from, to, t.ClassID, t.NonceID, t.Amount); err != nil {
			return err
		}
		toBal, err := r.store.GetBalance(t.ClassID, t.NonceID, to)
		if err != nil {
			return err
		}
		if err := r.store.SetBalance(t.ClassID, t.NonceID, from, types.SubAmounts(fromBal, t.Amount)); err != nil {
			return err
		}
		if err := r.store.SetBalance(t.ClassID, t.NonceID, to, types.AddAmounts(toBal, t.Amount)); err != nil {
			return err
		}
	}
	r.emitter.Emit(events.NewBondsTransferred(caller, from, to, tuplesToEvents(tuples)))
	return nil
}

// Burn destroys amount units of (classID, nonceID) held by from.
// Operator-only.
func (r *Registry) Burn(caller, from crypto.Address, classID, nonceID types.ID, amount *types.Amount) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return ledgererrors.ErrZeroAmount
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	class, nonce, err := r.classAndNonce(classID, nonceID)
	if err != nil {
		return err
	}
	fromBal, err := r.store.GetBalance(classID, nonceID, from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ledgererrors.ErrInsufficientBalance
	}
	if err := r.hook.OnBalanceChange(from, crypto.ZeroAddress, classID, nonceID, amount); err != nil {
		return err
	}
	if err := r.store.SetBalance(classID, nonceID, from, types.SubAmounts(fromBal, amount)); err != nil {
		return err
	}
	nonce.TotalIssued = types.SubAmounts(nonce.TotalIssued, amount)
	if err := r.store.PutNonce(nonce); err != nil {
		return err
	}
	class.TotalIssued = types.SubAmounts(class.TotalIssued, amount)
	if err := r.store.PutClass(class); err != nil {
		return err
	}
	r.emitter.Emit(events.NewBondsBurned(caller, from, classID, nonceID, amount))
	return nil
}

// SetApproval grants or revokes operator status for a third party over the
// caller's bonds.
func (r *Registry) SetApproval(owner, operator crypto.Address, approved bool) error {
	return r.store.SetApproval(owner, operator, approved)
}

// IsApproved reports whether operator may move owner's bonds.
func (r *Registry) IsApproved(owner, operator crypto.Address) (bool, error) {
	return r.store.GetApproval(owner, operator)
}

// MarkRedeemable flips a nonce's redeemable flag. Idempotent,
// operator-only.
func (r *Registry) MarkRedeemable(caller crypto.Address, classID, nonceID types.ID) error {
	if err := r.authorize(caller); err != nil {
		return err
	}
	_, nonce, err := r.classAndNonce(classID, nonceID)
	if err != nil {
		return err
	}
	nonce.Redeemable = true
	return r.store.PutNonce(nonce)
}

// BalanceOf returns holder's balance of (classID, nonceID).
func (r *Registry) BalanceOf(classID, nonceID types.ID, holder crypto.Address) (*types.Amount, error) {
	return r.store.GetBalance(classID, nonceID, holder)
}

// TotalSupply returns the total issued (net of burns) for (classID,
// nonceID).
func (r *Registry) TotalSupply(classID, nonceID types.ID) (*types.Amount, error) {
	nonce, err := r.store.GetNonce(classID, nonceID)
	if err != nil {
		return nil, err
	}
	if nonce == nil {
		return types.ZeroAmount(), nil
	}
	return nonce.TotalIssued, nil
}

// Class returns the stored class record.
func (r *Registry) Class(classID types.ID) (*Class, error) {
	class, err := r.store.GetClass(classID)
	if err != nil {
		return nil, err
	}
	if class == nil || !class.Exists {
		return nil, ledgererrors.ErrBondClassMissing
	}
	return class, nil
}

// Nonce returns the stored nonce record.
func (r *Registry) Nonce(classID, nonceID types.ID) (*Nonce, error) {
	nonce, err := r.store.GetNonce(classID, nonceID)
	if err != nil {
		return nil, err
	}
	if nonce == nil || !nonce.Exists {
		return nil, ledgererrors.ErrBondNonceMissing
	}
	return nonce, nil
}

// AgentClasses lists every class created for agentID.
func (r *Registry) AgentClasses(agentID types.ID) ([]types.ID, error) {
	return r.store.AgentClasses(agentID)
}

// ClassesByTranche filters AgentClasses by tranche tag.
func (r *Registry) ClassesByTranche(agentID types.ID, tranche Tranche) ([]types.ID, error) {
	all, err := r.store.AgentClasses(agentID)
	if err != nil {
		return nil, err
	}
	out := make([]types.ID, 0, len(all))
	for _, id := range all {
		class, err := r.store.GetClass(id)
		if err != nil {
			return nil, err
		}
		if class != nil && class.Exists && class.Tranche == tranche {
			out = append(out, id)
		}
	}
	return out, nil
}
