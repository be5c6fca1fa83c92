package controller

import (
	"time"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/events"
	"sibond/ledger/types"
	"sibond/native/agent"
	"sibond/native/bond"
	"sibond/native/cash"
	nativecommon "sibond/native/common"
	"sibond/native/dividend"
	"sibond/native/token"
	"sibond/native/tranche"
	"sibond/observability/metrics"
)

// moduleName identifies this component to the shared pause view.
const moduleName = "controller"

// Controller is the orchestrator: the only component that mutates
// BondRegistry, DividendVault, AgentRegistry, and TranchingEngine.
type Controller struct {
	store Store

	self crypto.Address

	bonds     *bond.Registry
	dividends *dividend.Vault
	agents    *agent.Registry
	tranches  *tranche.Registry
	tokens    *token.Registry
	gateway   cash.Gateway
	treasury  crypto.Address

	verifier Verifier

	bondholderShareBps types.BasisPoints
	milestones         []*types.Amount
	// creditStability and creditFrequency are the externally-supplied
	// normalisation inputs RecalcCredit needs; the Controller treats them
	// as inputs handed down by the host rather than deriving them itself.
	creditStability *types.Amount
	creditFrequency *types.Amount

	emitter events.Emitter
	pauses  nativecommon.PauseView
	guard   nativecommon.ReentrancyGuard
	now     func() int64
}

// Deps bundles the already-wired leaf components the Controller
// orchestrates. Every leaf must have already granted this Controller's
// `self` address operator status before New is called.
type Deps struct {
	Self      crypto.Address
	Bonds     *bond.Registry
	Dividends *dividend.Vault
	Agents    *agent.Registry
	Tranches  *tranche.Registry
	Tokens    *token.Registry
	Gateway   cash.Gateway
	Treasury  crypto.Address
	Verifier  Verifier

	BondholderShareBps types.BasisPoints
	Milestones         []*types.Amount
	CreditStability    *types.Amount
	CreditFrequency    *types.Amount

	Emitter events.Emitter
	Now     func() int64
}

// New constructs a Controller from Deps.
func New(store Store, deps Deps) *Controller {
	c := &Controller{
		store:              store,
		self:               deps.Self,
		bonds:              deps.Bonds,
		dividends:          deps.Dividends,
		agents:             deps.Agents,
		tranches:           deps.Tranches,
		tokens:             deps.Tokens,
		gateway:            deps.Gateway,
		treasury:           deps.Treasury,
		verifier:           deps.Verifier,
		bondholderShareBps: deps.BondholderShareBps,
		milestones:         deps.Milestones,
		creditStability:    deps.CreditStability,
		creditFrequency:    deps.CreditFrequency,
		emitter:            deps.Emitter,
		now:                deps.Now,
	}
	if c.emitter == nil {
		c.emitter = events.NoopEmitter{}
	}
	if c.now == nil {
		c.now = func() int64 { return time.Now().Unix() }
	}
	if c.creditStability == nil {
		c.creditStability = types.ZeroAmount()
	}
	if c.creditFrequency == nil {
		c.creditFrequency = types.ZeroAmount()
	}
	return c
}

// SetPauses wires the shared pause view.
func (c *Controller) SetPauses(p nativecommon.PauseView) { c.pauses = p }

func (c *Controller) instrument(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.Controller().Observe(operation, err, time.Since(start).Seconds())
	return err
}

func (c *Controller) requireToken(token crypto.Address) error {
	supported, err := c.tokens.IsSupported(token)
	if err != nil {
		return err
	}
	if !supported {
		return ledgererrors.ErrUnsupportedToken
	}
	return nil
}

// InitiateIPO creates a Standard-tranche class and its first nonce for
// agentID. caller must be the agent's owner.
func (c *Controller) InitiateIPO(caller crypto.Address, agentID types.ID, couponBps types.BasisPoints, maturityPeriod int64, pricePerBond, maxSupply *types.Amount, paymentToken crypto.Address) (classID, nonceID types.ID, err error) {
	err = c.instrument("initiate_ipo", func() error {
		if e := nativecommon.Guard(c.pauses, moduleName); e != nil {
			return e
		}
		a, e := c.agents.Agent(agentID)
		if e != nil {
			return e
		}
		if !a.Owner.Equal(caller) {
			return ledgererrors.ErrNotOwner
		}
		if a.State != agent.StateActive {
			return ledgererrors.ErrAgentNotActive
		}
		if e := c.requireToken(paymentToken); e != nil {
			return e
		}
		cid, e := c.bonds.CreateClass(c.self, agentID, couponBps, maturityPeriod, a.Revenue.SharpeScaled, maxSupply, bond.TrancheStandard, paymentToken)
		if e != nil {
			return e
		}
		nid, e := c.bonds.CreateNonce(c.self, cid, pricePerBond)
		if e != nil {
			return e
		}
		if e := c.store.SetActiveNonce(cid, nid); e != nil {
			return e
		}
		if e := c.store.SetHasIPO(agentID); e != nil {
			return e
		}
		classID, nonceID = cid, nid
		c.emitter.Emit(events.NewIPOInitiated(agentID, cid, nid, couponBps, pricePerBond, paymentToken))
		return nil
	})
	return classID, nonceID, err
}

// InitiateTranchedIPO delegates to TranchingEngine to mint a paired
// senior/junior class for agentID.
func (c *Controller) InitiateTranchedIPO(caller crypto.Address, agentID types.ID, seniorCouponBps, juniorCouponBps types.BasisPoints, maturityPeriod int64, seniorMaxSupply, juniorMaxSupply *types.Amount, paymentToken crypto.Address, seniorPrice, juniorPrice *types.Amount) (seniorClassID, juniorClassID types.ID, err error) {
	err = c.instrument("initiate_tranched_ipo", func() error {
		if e := nativecommon.Guard(c.pauses, moduleName); e != nil {
			return e
		}
		a, e := c.agents.Agent(agentID)
		if e != nil {
			return e
		}
		if !a.Owner.Equal(caller) {
			return ledgererrors.ErrNotOwner
		}
		if a.State != agent.StateActive {
			return ledgererrors.ErrAgentNotActive
		}
		if e := c.requireToken(paymentToken); e != nil {
			return e
		}
		groupID, e := c.tranches.CreateGroup(c.self, agentID, seniorCouponBps, juniorCouponBps, maturityPeriod, seniorMaxSupply, juniorMaxSupply, a.Revenue.SharpeScaled, paymentToken, seniorPrice, juniorPrice)
		if e != nil {
			return e
		}
		group, e := c.tranches.GetGroup(groupID)
		if e != nil {
			return e
		}
		if e := c.store.SetActiveNonce(group.SeniorClassID, group.SeniorNonceID); e != nil {
			return e
		}
		if e := c.store.SetActiveNonce(group.JuniorClassID, group.JuniorNonceID); e != nil {
			return e
		}
		if e := c.store.SetHasIPO(agentID); e != nil {
			return e
		}
		seniorClassID, juniorClassID = group.SeniorClassID, group.JuniorClassID
		c.emitter.Emit(events.NewTranchedIPOInitiated(agentID, groupID, seniorClassID, juniorClassID))
		return nil
	})
	return seniorClassID, juniorClassID, err
}

// PurchaseBonds buys amount bonds of classID for caller, pulling cost in
// token from caller and crediting it to the agent's IPOCapital escrow.
func (c *Controller) PurchaseBonds(caller crypto.Address, classID types.ID, amount *types.Amount, token crypto.Address) error {
	return c.instrument("purchase_bonds", func() error {
		if e := nativecommon.Guard(c.pauses, moduleName); e != nil {
			return e
		}
		if e := c.guard.Enter(); e != nil {
			return e
		}
		defer c.guard.Exit()

		if amount == nil || amount.IsZero() {
			return ledgererrors.ErrZeroAmount
		}
		class, e := c.bonds.Class(classID)
		if e != nil {
			return e
		}
		nonceID, e := c.store.ActiveNonce(classID)
		if e != nil {
			return e
		}
		nonce, e := c.bonds.Nonce(classID, nonceID)
		if e != nil {
			return e
		}
		newClassTotal := types.AddAmounts(class.TotalIssued, amount)
		if newClassTotal.Cmp(class.MaxSupply) > 0 {
			return ledgererrors.ErrSupplyExceeded
		}

		cost := new(types.Amount).Mul(amount, nonce.PricePerBond)
		if e := c.gateway.Move(caller, c.treasury, token, cost); e != nil {
			return e
		}
		if e := c.bonds.Issue(c.self, caller, []bond.Tuple{{ClassID: classID, NonceID: nonceID, Amount: amount}}); e != nil {
			return e
		}
		if e := c.store.AddIPOCapital(class.AgentID, token, cost); e != nil {
			return e
		}
		if e := c.agents.RecordCapitalRaised(c.self, class.AgentID, cost, c.milestones); e != nil {
			return e
		}
		c.emitter.Emit(events.NewBondsPurchased(caller, classID, nonceID, amount, cost, token))
		return nil
	})
}

// TransferBonds is a thin wrapper over BondRegistry.transferFrom with
// from = caller.
func (c *Controller) TransferBonds(caller, to crypto.Address, classID, nonceID types.ID, amount *types.Amount) error {
	return c.instrument("transfer_bonds", func() error {
		return c.bonds.TransferFrom(caller, caller, to, []bond.Tuple{{ClassID: classID, NonceID: nonceID, Amount: amount}})
	})
}

// RedeemBonds burns amount from caller and pays out amount*pricePerBond
// from the agent's IPOCapital escrow. Requires the nonce to be redeemable
// and fails with ErrInsufficientCapital rather than drawing from owner
// funds when escrow can't cover the payout.
func (c *Controller) RedeemBonds(caller crypto.Address, classID, nonceID types.ID, amount *types.Amount) error {
	return c.instrument("redeem_bonds", func() error {
		if e := nativecommon.Guard(c.pauses, moduleName); e != nil {
			return e
		}
		if e := c.guard.Enter(); e != nil {
			return e
		}
		defer c.guard.Exit()

		class, e := c.bonds.Class(classID)
		if e != nil {
			return e
		}
		nonce, e := c.bonds.Nonce(classID, nonceID)
		if e != nil {
			return e
		}
		if !nonce.Redeemable {
			return ledgererrors.ErrNonceNotRedeemable
		}
		payout := new(types.Amount).Mul(amount, nonce.PricePerBond)
		escrow, e := c.store.IPOCapital(class.AgentID, class.PaymentToken)
		if e != nil {
			return e
		}
		if escrow.Cmp(payout) < 0 {
			return ledgererrors.ErrInsufficientCapital
		}
		if e := c.bonds.Burn(c.self, caller, classID, nonceID, amount); e != nil {
			return e
		}
		if e := c.store.SubIPOCapital(class.AgentID, class.PaymentToken, payout); e != nil {
			return e
		}
		if e := c.gateway.Move(c.treasury, caller, class.PaymentToken, payout); e != nil {
			return e
		}
		c.emitter.Emit(events.NewBondsRedeemed(caller, classID, nonceID, amount))
		return nil
	})
}

// MarkBondsRedeemable flips the redeemable flag once the nonce has
// matured. Caller must be the agent's owner or attested operator.
func (c *Controller) MarkBondsRedeemable(caller crypto.Address, classID, nonceID types.ID) error {
	return c.instrument("mark_bonds_redeemable", func() error {
		class, e := c.bonds.Class(classID)
		if e != nil {
			return e
		}
		a, e := c.agents.Agent(class.AgentID)
		if e != nil {
			return e
		}
		if !a.Owner.Equal(caller) && !a.AttestedOperator.Equal(caller) {
			return ledgererrors.ErrNotOwner
		}
		nonce, e := c.bonds.Nonce(classID, nonceID)
		if e != nil {
			return e
		}
		if c.now() < nonce.MaturityTimestamp {
			return ledgererrors.ErrNonceNotMatured
		}
		return c.bonds.MarkRedeemable(c.self, classID, nonceID)
	})
}

// ReleaseIPOCapital lets the attested operator draw down escrowed capital.
func (c *Controller) ReleaseIPOCapital(caller crypto.Address, agentID types.ID, token crypto.Address, amount *types.Amount, recipient crypto.Address) error {
	return c.instrument("release_ipo_capital", func() error {
		a, e := c.agents.Agent(agentID)
		if e != nil {
			return e
		}
		if !a.AttestedOperator.Equal(caller) {
			return ledgererrors.ErrNotAttestedOperator
		}
		escrow, e := c.store.IPOCapital(agentID, token)
		if e != nil {
			return e
		}
		if escrow.Cmp(amount) < 0 {
			return ledgererrors.ErrInsufficientCapital
		}
		if e := c.store.SubIPOCapital(agentID, token, amount); e != nil {
			return e
		}
		if e := c.gateway.Move(c.treasury, recipient, token, amount); e != nil {
			return e
		}
		c.emitter.Emit(events.NewIPOCapitalReleased(agentID, token, amount, recipient))
		return nil
	})
}

// OnRevenue is AttestedReceiver's forwarding entrypoint: splits amount by
// bondholderShareBps between RevenuePool and the agent owner.
func (c *Controller) OnRevenue(agentID types.ID, token crypto.Address, amount *types.Amount) error {
	return c.instrument("on_revenue", func() error {
		a, e := c.agents.Agent(agentID)
		if e != nil {
			return e
		}
		bondholderShare := types.ApplyBps(amount, c.bondholderShareBps)
		ownerShare := types.SubAmounts(amount, bondholderShare)
		if e := c.store.AddRevenuePool(agentID, token, bondholderShare); e != nil {
			return e
		}
		if !ownerShare.IsZero() {
			if e := c.gateway.Move(c.treasury, a.Owner, token, ownerShare); e != nil {
				return e
			}
		}
		if e := c.agents.RecordRevenue(c.self, agentID, amount); e != nil {
			return e
		}
		if _, e := c.agents.RecalcCredit(c.self, agentID, c.creditStability, c.creditFrequency); e != nil {
			return e
		}
		c.emitter.Emit(events.NewRevenueReceived(agentID, amount, bondholderShare, ownerShare, token))
		return nil
	})
}

// DistributeDividends routes the agent's revenue pool for classID's
// payment token into DividendVault, applying senior-first waterfall
// routing when classID is tranched. Both target supplies are validated
// before either deposit commits so a mid-way ErrZeroSupply can never
// leave the pool partially paid out and uncleared.
func (c *Controller) DistributeDividends(classID, nonceID types.ID) error {
	return c.instrument("distribute_dividends", func() error {
		class, e := c.bonds.Class(classID)
		if e != nil {
			return e
		}
		pool, e := c.store.RevenuePool(class.AgentID, class.PaymentToken)
		if e != nil {
			return e
		}
		if pool.IsZero() {
			return nil
		}

		tranched, e := c.tranches.IsTranched(classID)
		if e != nil {
			return e
		}
		if tranched {
			groupID, e := c.tranches.ClassToGroup(classID)
			if e != nil {
				return e
			}
			group, e := c.tranches.GetGroup(groupID)
			if e != nil {
				return e
			}
			seniorNonce, e := c.bonds.Nonce(group.SeniorClassID, group.SeniorNonceID)
			if e != nil {
				return e
			}
			seniorSupply, e := c.bonds.TotalSupply(group.SeniorClassID, group.SeniorNonceID)
			if e != nil {
				return e
			}
			elapsed := c.now() - seniorNonce.IssueTimestamp
			entitlement := tranche.SeniorEntitlement(seniorSupply, group.SeniorCouponBps, elapsed)
			seniorPortion := entitlement
			if pool.Cmp(entitlement) < 0 {
				seniorPortion = pool
			}
			juniorPortion := types.SubAmounts(pool, seniorPortion)

			if !seniorPortion.IsZero() {
				if seniorSupply.IsZero() {
					return ledgererrors.ErrZeroSupply
				}
			}
			if !juniorPortion.IsZero() {
				juniorSupply, e := c.bonds.TotalSupply(group.JuniorClassID, group.JuniorNonceID)
				if e != nil {
					return e
				}
				if juniorSupply.IsZero() {
					return ledgererrors.ErrZeroSupply
				}
			}

			if !seniorPortion.IsZero() {
				if e := c.dividends.Deposit(c.self, group.SeniorClassID, group.SeniorNonceID, class.PaymentToken, seniorPortion); e != nil {
					return e
				}
			}
			if !juniorPortion.IsZero() {
				if e := c.dividends.Deposit(c.self, group.JuniorClassID, group.JuniorNonceID, class.PaymentToken, juniorPortion); e != nil {
					return e
				}
			}
		} else {
			if e := c.dividends.Deposit(c.self, classID, nonceID, class.PaymentToken, pool); e != nil {
				return e
			}
		}
		if e := c.store.SubRevenuePool(class.AgentID, class.PaymentToken, pool); e != nil {
			return e
		}
		c.emitter.Emit(events.NewDividendsDistributed(classID, nonceID, pool))
		return nil
	})
}

// SubmitSharpeProof calls the opaque verifier; on success it records the
// proven Sharpe ratio and recalculates the agent's credit rating.
func (c *Controller) SubmitSharpeProof(agentID types.ID, proof []byte, instances []*types.Amount) error {
	return c.instrument("submit_sharpe_proof", func() error {
		if len(instances) == 0 || c.verifier == nil || !c.verifier(proof, instances) {
			return ledgererrors.ErrProofInvalid
		}
		proofHash := [32]byte{}
		copy(proofHash[:], crypto.Keccak256(proof))
		if e := c.agents.UpdateSharpe(c.self, agentID, instances[0], proofHash); e != nil {
			return e
		}
		if _, e := c.agents.RecalcCredit(c.self, agentID, c.creditStability, c.creditFrequency); e != nil {
			return e
		}
		c.emitter.Emit(events.NewSharpeProofVerified(agentID, instances[0], proofHash))
		return nil
	})
}

// CalculateDynamicCoupon returns a monotonically decreasing function of
// the agent's composite credit score, clamped to [100, 3000] bps.
func (c *Controller) CalculateDynamicCoupon(classID types.ID) (types.BasisPoints, error) {
	class, err := c.bonds.Class(classID)
	if err != nil {
		return 0, err
	}
	a, err := c.agents.Agent(class.AgentID)
	if err != nil {
		return 0, err
	}
	baseCoupon := uint64(class.CouponBps)
	score := a.Score
	if score > 10000 {
		score = 10000
	}
	bps := baseCoupon * (10000 - score) / 5000
	if bps < 100 {
		bps = 100
	}
	if bps > 3000 {
		bps = 3000
	}
	return types.BasisPoints(bps), nil
}
