package agent

import (
	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/events"
	"sibond/ledger/types"
	nativecommon "sibond/native/common"
)

// SecondsPerYear anchors the age factor's normalisation window.
const SecondsPerYear = 365 * 86400

// bpsScale is the common 0-10000 range every credit factor is normalised
// into before weighting.
const bpsScale = 10000

// Weights, in bps, summing to 10000.
const (
	weightSharpe    = 3500
	weightStability = 2500
	weightFrequency = 1500
	weightAge       = 1000
	weightRevenue   = 1500
)

// Registry is AgentRegistry. Every mutating entrypoint is Controller-only.
type Registry struct {
	store      Store
	controller nativecommon.Capability
	emitter    events.Emitter
	now        func() int64
}

// NewRegistry constructs a Registry backed by store.
func NewRegistry(store Store, controller crypto.Address, emitter events.Emitter, now func() int64) *Registry {
	r := &Registry{store: store, emitter: emitter, now: now}
	r.controller.Bind(controller)
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
	}
	if now == nil {
		r.now = func() int64 { return 0 }
	}
	return r
}

func (r *Registry) get(agentID types.ID) (*Agent, error) {
	a, err := r.store.GetAgent(agentID)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.Exists {
		return nil, ledgererrors.ErrAgentMissing
	}
	return a, nil
}

// RegisterAgent creates a new Agent in the Registered state.
func (r *Registry) RegisterAgent(caller crypto.Address, owner crypto.Address, name, description string, modelHash [32]byte, endpoint string) (types.ID, error) {
	if err := r.controller.Authorize(caller); err != nil {
		return 0, err
	}
	if owner.IsZero() {
		return 0, ledgererrors.ErrZeroAddress
	}
	id, err := r.store.NextAgentID()
	if err != nil {
		return 0, err
	}
	a := &Agent{
		ID:            id,
		Owner:         owner,
		Name:          name,
		Description:   description,
		ModelHash:     modelHash,
		Endpoint:      endpoint,
		RegisteredAt:  r.now(),
		State:         StateRegistered,
		Rating:        RatingUnrated,
		CapitalRaised: types.ZeroAmount(),
		Exists:        true,
	}
	a.Revenue.CumulativeEarned = types.ZeroAmount()
	a.Revenue.SharpeScaled = types.ZeroAmount()
	for i := range a.Revenue.RevenueBuffer {
		a.Revenue.RevenueBuffer[i] = types.ZeroAmount()
	}
	if err := r.store.PutAgent(a); err != nil {
		return 0, err
	}
	r.emitter.Emit(events.NewAgentRegistered(id, owner, name))
	return id, nil
}

// UpdateState transitions agentID to newState, Controller-only.
func (r *Registry) UpdateState(caller crypto.Address, agentID types.ID, newState State) error {
	if err := r.controller.Authorize(caller); err != nil {
		return err
	}
	a, err := r.get(agentID)
	if err != nil {
		return err
	}
	a.State = newState
	if err := r.store.PutAgent(a); err != nil {
		return err
	}
	r.emitter.Emit(events.NewAgentStateChanged(agentID, newState.String()))
	return nil
}

// SetAttestedOperator records the externally-keyed party authorised to sign
// revenue receipts and draw IPO capital for agentID. Controller-only.
func (r *Registry) SetAttestedOperator(caller crypto.Address, agentID types.ID, operator crypto.Address) error {
	if err := r.controller.Authorize(caller); err != nil {
		return err
	}
	a, err := r.get(agentID)
	if err != nil {
		return err
	}
	a.AttestedOperator = operator
	return r.store.PutAgent(a)
}

// AttestedOperator returns the agent's currently-authorised attested
// operator.
func (r *Registry) AttestedOperator(agentID types.ID) (crypto.Address, error) {
	a, err := r.get(agentID)
	if err != nil {
		return crypto.Address{}, err
	}
	return a.AttestedOperator, nil
}

// RecordRevenue folds amount into the agent's cumulative total, payment
// count, last-payment timestamp, and rolling 12-slot monthly buffer
// (slot = (nowDays/30) mod 12, zeroed when newly entered).
func (r *Registry) RecordRevenue(caller crypto.Address, agentID types.ID, amount *types.Amount) error {
	if err := r.controller.Authorize(caller); err != nil {
		return err
	}
	a, err := r.get(agentID)
	if err != nil {
		return err
	}
	now := r.now()
	slot := int((now / 86400 / 30) % RevenueSlots)
	if slot != a.Revenue.LastSlotWritten {
		a.Revenue.RevenueBuffer[slot] = types.ZeroAmount()
		a.Revenue.LastSlotWritten = slot
	}
	a.Revenue.RevenueBuffer[slot] = types.AddAmounts(a.Revenue.RevenueBuffer[slot], amount)
	a.Revenue.CumulativeEarned = types.AddAmounts(a.Revenue.CumulativeEarned, amount)
	a.Revenue.PaymentCount++
	a.Revenue.LastPaymentTime = now
	return r.store.PutAgent(a)
}

// UpdateSharpe records the most recently proven Sharpe ratio (scaled 10^18)
// and the proof hash that produced it.
func (r *Registry) UpdateSharpe(caller crypto.Address, agentID types.ID, sharpeScaled *types.Amount, proofHash [32]byte) error {
	if err := r.controller.Authorize(caller); err != nil {
		return err
	}
	a, err := r.get(agentID)
	if err != nil {
		return err
	}
	a.Revenue.SharpeScaled = sharpeScaled
	a.Revenue.LastProofHash = proofHash
	return r.store.PutAgent(a)
}

// RecalcCredit recomputes the composite credit score from the agent's
// current profile and re-derives its rating band. revenueStability and
// paymentFrequency are externally-supplied normalisation inputs in
// [0, 10^18]; the Controller holds and passes these rather than deriving
// them internally. Emits CreditRatingUpdated only when the rating letter
// changes.
func (r *Registry) RecalcCredit(caller crypto.Address, agentID types.ID, revenueStability, paymentFrequency *types.Amount) (Rating, error) {
	if err := r.controller.Authorize(caller); err != nil {
		return RatingUnrated, err
	}
	a, err := r.get(agentID)
	if err != nil {
		return RatingUnrated, err
	}

	sharpeFactor := sharpeFactorBps(a.Revenue.SharpeScaled)
	stabilityFactor := normaliseUnitScaled(revenueStability)
	frequencyFactor := normaliseUnitScaled(paymentFrequency)
	ageFactor := clampRatioBps(r.now()-a.RegisteredAt, SecondsPerYear)
	revenueFactor := clampRatioAmountBps(a.Revenue.CumulativeEarned, types.NewAmount(100).Mul(types.NewAmount(100), oneEther()))

	composite := (sharpeFactor*weightSharpe + stabilityFactor*weightStability +
		frequencyFactor*weightFrequency + ageFactor*weightAge + revenueFactor*weightRevenue) / bpsScale

	newRating := ratingFromScore(composite)
	oldRating := a.Rating
	a.Rating = newRating
	a.Score = composite
	if err := r.store.PutAgent(a); err != nil {
		return RatingUnrated, err
	}
	if newRating != oldRating {
		r.emitter.Emit(events.NewCreditRatingUpdated(agentID, newRating.String()))
	}
	return newRating, nil
}

// RecordCapitalRaised adds amount to agentID's cumulative capital-raised
// counter and bumps the evolution level if a milestone threshold is
// crossed. milestones is the ascending five-threshold list from
// config.Config.EvolutionMilestones.
func (r *Registry) RecordCapitalRaised(caller crypto.Address, agentID types.ID, amount *types.Amount, milestones []*types.Amount) error {
	if err := r.controller.Authorize(caller); err != nil {
		return err
	}
	a, err := r.get(agentID)
	if err != nil {
		return err
	}
	a.CapitalRaised = types.AddAmounts(a.CapitalRaised, amount)

	newLevel := a.EvolutionLevel
	for i, threshold := range milestones {
		level := uint8(i + 1)
		if level <= newLevel {
			continue
		}
		if threshold != nil && a.CapitalRaised.Cmp(threshold) >= 0 {
			newLevel = level
		}
	}
	changed := newLevel != a.EvolutionLevel
	a.EvolutionLevel = newLevel
	if err := r.store.PutAgent(a); err != nil {
		return err
	}
	if changed {
		r.emitter.Emit(events.NewCapitalEvolution(agentID, newLevel, a.CapitalRaised))
	}
	return nil
}

// Agent returns the stored agent record.
func (r *Registry) Agent(agentID types.ID) (*Agent, error) {
	return r.get(agentID)
}

func ratingFromScore(score uint64) Rating {
	switch {
	case score >= 8000:
		return RatingAAA
	case score >= 6000:
		return RatingAA
	case score >= 4000:
		return RatingA
	case score >= 2000:
		return RatingB
	default:
		return RatingC
	}
}

func oneEther() *types.Amount { return types.NewAmount(1_000_000_000_000_000_000) }

// sharpeFactorBps implements clamp(sharpe/3.0, 0, 1) * 10000 on a value
// scaled by 10^18.
func sharpeFactorBps(sharpeScaled *types.Amount) uint64 {
	if sharpeScaled == nil || sharpeScaled.IsZero() {
		return 0
	}
	threshold := new(types.Amount).Mul(oneEther(), types.NewAmount(3))
	if sharpeScaled.Cmp(threshold) >= 0 {
		return bpsScale
	}
	num := new(types.Amount).Mul(sharpeScaled, types.NewAmount(bpsScale))
	out := new(types.Amount).Div(num, threshold)
	return out.Uint64()
}

// normaliseUnitScaled maps a value in [0, 10^18] linearly onto [0, 10000].
func normaliseUnitScaled(v *types.Amount) uint64 {
	if v == nil || v.IsZero() {
		return 0
	}
	scale := oneEther()
	if v.Cmp(scale) >= 0 {
		return bpsScale
	}
	num := new(types.Amount).Mul(v, types.NewAmount(bpsScale))
	out := new(types.Amount).Div(num, scale)
	return out.Uint64()
}

func clampRatioBps(numerator, denominator int64) uint64 {
	if numerator <= 0 || denominator <= 0 {
		return 0
	}
	if numerator >= denominator {
		return bpsScale
	}
	return uint64(numerator) * bpsScale / uint64(denominator)
}

func clampRatioAmountBps(numerator, denominator *types.Amount) uint64 {
	if numerator == nil || numerator.IsZero() {
		return 0
	}
	if numerator.Cmp(denominator) >= 0 {
		return bpsScale
	}
	num := new(types.Amount).Mul(numerator, types.NewAmount(bpsScale))
	out := new(types.Amount).Div(num, denominator)
	return out.Uint64()
}
