package tranche

import (
	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"
	"sibond/native/bond"
	nativecommon "sibond/native/common"
)

// BondCreator is the subset of BondRegistry the engine needs to mint the
// senior/junior class pair on the Controller's behalf.
type BondCreator interface {
	CreateClass(caller crypto.Address, agentID types.ID, couponBps types.BasisPoints, maturityPeriod int64, sharpeAtIssue, maxSupply *types.Amount, tranche bond.Tranche, paymentToken crypto.Address) (types.ID, error)
	CreateNonce(caller crypto.Address, classID types.ID, pricePerBond *types.Amount) (types.ID, error)
}

// Registry is TranchingEngine.
type Registry struct {
	store Store
	bonds BondCreator

	// self is the address the engine presents to BondRegistry as caller;
	// the Controller must have granted it the tranching operator
	// capability via BondRegistry.SetTranchingOperator.
	self crypto.Address

	controller nativecommon.Capability
}

// NewRegistry constructs a Registry. self is the identity the engine uses
// when calling into BondRegistry.
func NewRegistry(store Store, bonds BondCreator, self crypto.Address, controller crypto.Address) *Registry {
	r := &Registry{store: store, bonds: bonds, self: self}
	r.controller.Bind(controller)
	return r
}

// CreateGroup mints a paired senior/junior class+nonce for agentID and
// records the pairing. Operator-only; both coupons, the maturity period,
// both max supplies and both prices must be non-zero. agentID and
// sharpeAtIssue are not checked, so a zero Sharpe value is accepted.
func (r *Registry) CreateGroup(caller crypto.Address, agentID types.ID, seniorCouponBps, juniorCouponBps types.BasisPoints, maturityPeriod int64, seniorMaxSupply, juniorMaxSupply, sharpeAtIssue *types.Amount, paymentToken crypto.Address, seniorPrice, juniorPrice *types.Amount) (types.ID, error) {
	if err := r.controller.Authorize(caller); err != nil {
		return 0, err
	}
	if seniorCouponBps == 0 || juniorCouponBps == 0 {
		return 0, ledgererrors.ErrCouponOutOfRange
	}
	if maturityPeriod <= 0 {
		return 0, ledgererrors.ErrMaturityZero
	}
	if seniorMaxSupply == nil || seniorMaxSupply.IsZero() || juniorMaxSupply == nil || juniorMaxSupply.IsZero() {
		return 0, ledgererrors.ErrZeroAmount
	}
	if seniorPrice == nil || seniorPrice.IsZero() || juniorPrice == nil || juniorPrice.IsZero() {
		return 0, ledgererrors.ErrZeroAmount
	}

	seniorClassID, err := r.bonds.CreateClass(r.self, agentID, seniorCouponBps, maturityPeriod, sharpeAtIssue, seniorMaxSupply, bond.TrancheSenior, paymentToken)
	if err != nil {
		return 0, err
	}
	juniorClassID, err := r.bonds.CreateClass(r.self, agentID, juniorCouponBps, maturityPeriod, sharpeAtIssue, juniorMaxSupply, bond.TrancheJunior, paymentToken)
	if err != nil {
		return 0, err
	}
	seniorNonceID, err := r.bonds.CreateNonce(r.self, seniorClassID, seniorPrice)
	if err != nil {
		return 0, err
	}
	juniorNonceID, err := r.bonds.CreateNonce(r.self, juniorClassID, juniorPrice)
	if err != nil {
		return 0, err
	}

	groupID, err := r.store.NextGroupID()
	if err != nil {
		return 0, err
	}
	group := &Group{
		ID:              groupID,
		AgentID:         agentID,
		SeniorClassID:   seniorClassID,
		JuniorClassID:   juniorClassID,
		SeniorNonceID:   seniorNonceID,
		JuniorNonceID:   juniorNonceID,
		SeniorCouponBps: seniorCouponBps,
		JuniorCouponBps: juniorCouponBps,
		PaymentToken:    paymentToken,
		Exists:          true,
	}
	if err := r.store.PutGroup(group); err != nil {
		return 0, err
	}
	if err := r.store.SetClassGroup(seniorClassID, groupID); err != nil {
		return 0, err
	}
	if err := r.store.SetClassGroup(juniorClassID, groupID); err != nil {
		return 0, err
	}
	return groupID, nil
}

// GetGroup returns the stored group record.
func (r *Registry) GetGroup(id types.ID) (*Group, error) {
	group, err := r.store.GetGroup(id)
	if err != nil {
		return nil, err
	}
	if group == nil || !group.Exists {
		return nil, ledgererrors.ErrBondClassMissing
	}
	return group, nil
}

// ClassToGroup returns the groupId classID belongs to, or 0 if untranched.
func (r *Registry) ClassToGroup(classID types.ID) (types.ID, error) {
	return r.store.GroupOfClass(classID)
}

// IsTranched reports whether classID belongs to a group.
func (r *Registry) IsTranched(classID types.ID) (bool, error) {
	groupID, err := r.store.GroupOfClass(classID)
	if err != nil {
		return false, err
	}
	return groupID.IsSet(), nil
}

// Counterpart returns the paired class for classID (senior<->junior).
func (r *Registry) Counterpart(classID types.ID) (types.ID, error) {
	groupID, err := r.store.GroupOfClass(classID)
	if err != nil {
		return 0, err
	}
	if !groupID.IsSet() {
		return 0, ledgererrors.ErrBondClassMissing
	}
	group, err := r.GetGroup(groupID)
	if err != nil {
		return 0, err
	}
	switch classID {
	case group.SeniorClassID:
		return group.JuniorClassID, nil
	case group.JuniorClassID:
		return group.SeniorClassID, nil
	default:
		return 0, ledgererrors.ErrBondClassMissing
	}
}

// GroupCount returns the number of groups ever created.
func (r *Registry) GroupCount() (uint64, error) { return r.store.GroupCount() }

// SeniorEntitlement computes the time-weighted senior share of a revenue
// pool for the elapsed period since issuance:
// seniorSupply * seniorCouponBps * timeDelta / (10000 * SecondsPerYear).
// Zero supply yields zero.
func SeniorEntitlement(seniorSupply *types.Amount, seniorCouponBps types.BasisPoints, timeDeltaSeconds int64) *types.Amount {
	if seniorSupply == nil || seniorSupply.IsZero() || timeDeltaSeconds <= 0 {
		return types.ZeroAmount()
	}
	numerator := new(types.Amount).Mul(seniorSupply, types.NewAmount(uint64(seniorCouponBps)))
	numerator.Mul(numerator, types.NewAmount(uint64(timeDeltaSeconds)))
	denominator := types.NewAmount(uint64(types.MaxBasisPoints) * SecondsPerYear)
	out := new(types.Amount)
	out.Div(numerator, denominator)
	return out
}
