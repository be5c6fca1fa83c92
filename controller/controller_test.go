package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/events"
	"sibond/ledger/types"
	"sibond/native/agent"
	"sibond/native/bond"
	"sibond/native/cash"
	"sibond/native/dividend"
	"sibond/native/token"
	"sibond/native/tranche"
	"sibond/storage"
)

func testAddr(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

func oneEtherAmt() *types.Amount { return types.NewAmount(1_000_000_000_000_000_000) }

type harness struct {
	c        *Controller
	bonds    *bond.Registry
	agents   *agent.Registry
	tranches *tranche.Registry
	tokens   *token.Registry
	gateway  *cash.Ledger
	self     crypto.Address
	treasury crypto.Address
	owner    crypto.Address
	clock    *int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	self := testAddr(1)
	treasury := testAddr(2)
	owner := testAddr(3)

	clock := new(int64)
	*clock = 1000
	nowFn := func() int64 { return *clock }

	bonds := bond.NewRegistry(bond.NewMemStore(), self, nil)
	bonds.SetTranchingOperator(self)
	bonds.SetClock(nowFn)

	gateway := cash.NewLedger()
	vault := dividend.NewVault(dividend.NewMemStore(), bonds, gateway, treasury, self, nil)
	bonds.SetDividendHook(vault)

	agents := agent.NewRegistry(agent.NewMemStore(), self, nil, nowFn)
	tranches := tranche.NewRegistry(tranche.NewMemStore(), bonds, self, self)

	tokens, err := token.NewRegistry(token.NewKVStore(storage.NewMemDB()), self, nil, types.NewAmount(1))
	require.NoError(t, err)

	h := &harness{
		bonds: bonds, agents: agents, tranches: tranches, tokens: tokens,
		gateway: gateway, self: self, treasury: treasury, owner: owner,
	}

	store := NewMemStore()
	c := New(store, Deps{
		Self:               self,
		Bonds:              bonds,
		Dividends:          vault,
		Agents:             agents,
		Tranches:           tranches,
		Tokens:             tokens,
		Gateway:            gateway,
		Treasury:           treasury,
		BondholderShareBps: 5000,
		Milestones:         nil,
		Now:                nowFn,
	})
	h.c = c
	h.clock = clock
	return h
}

func (h *harness) registerAgent(t *testing.T) types.ID {
	t.Helper()
	id, err := h.agents.RegisterAgent(h.self, h.owner, "agent-1", "desc", [32]byte{}, "https://agent.example/endpoint")
	require.NoError(t, err)
	require.NoError(t, h.agents.UpdateState(h.self, id, agent.StateActive))
	return id
}

func TestInitiateIPOAndPurchase(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	classID, nonceID, err := h.c.InitiateIPO(h.owner, agentID, 500, 86400*30, oneEtherAmt(), types.NewAmount(1_000_000), crypto.ZeroAddress)
	require.NoError(t, err)

	buyer := testAddr(9)
	cost := new(types.Amount).Mul(types.NewAmount(10), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(buyer, crypto.ZeroAddress, cost))

	require.NoError(t, h.c.PurchaseBonds(buyer, classID, types.NewAmount(10), crypto.ZeroAddress))

	balance, err := h.bonds.BalanceOf(classID, nonceID, buyer)
	require.NoError(t, err)
	require.Equal(t, uint64(10), balance.Uint64())

	escrow, err := h.c.store.IPOCapital(agentID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, cost.Uint64(), escrow.Uint64())
}

func TestInitiateIPORejectsWrongOwner(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)
	intruder := testAddr(99)

	_, _, err := h.c.InitiateIPO(intruder, agentID, 500, 86400*30, oneEtherAmt(), types.NewAmount(1000), crypto.ZeroAddress)
	require.ErrorIs(t, err, ledgererrors.ErrNotOwner)
}

func TestRedeemBondsRoundTrip(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	classID, nonceID, err := h.c.InitiateIPO(h.owner, agentID, 500, 1, oneEtherAmt(), types.NewAmount(1_000_000), crypto.ZeroAddress)
	require.NoError(t, err)

	buyer := testAddr(9)
	cost := new(types.Amount).Mul(types.NewAmount(10), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(buyer, crypto.ZeroAddress, cost))
	require.NoError(t, h.c.PurchaseBonds(buyer, classID, types.NewAmount(10), crypto.ZeroAddress))

	*h.clock += 10

	require.NoError(t, h.c.MarkBondsRedeemable(h.owner, classID, nonceID))
	require.NoError(t, h.c.RedeemBonds(buyer, classID, nonceID, types.NewAmount(10)))

	balance, err := h.bonds.BalanceOf(classID, nonceID, buyer)
	require.NoError(t, err)
	require.True(t, balance.IsZero())

	paid, err := h.gateway.Balance(buyer, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, cost.Uint64(), paid.Uint64())
}

func TestRedeemBondsBeforeMaturityFails(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	classID, nonceID, err := h.c.InitiateIPO(h.owner, agentID, 500, 86400, oneEtherAmt(), types.NewAmount(1_000_000), crypto.ZeroAddress)
	require.NoError(t, err)

	buyer := testAddr(9)
	require.NoError(t, h.gateway.Credit(buyer, crypto.ZeroAddress, oneEtherAmt()))
	require.NoError(t, h.c.PurchaseBonds(buyer, classID, types.NewAmount(1), crypto.ZeroAddress))

	err = h.c.MarkBondsRedeemable(h.owner, classID, nonceID)
	require.ErrorIs(t, err, ledgererrors.ErrNonceNotMatured)
}

func TestOnRevenueSplitsBondholderAndOwnerShare(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	amount := new(types.Amount).Mul(types.NewAmount(100), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(h.treasury, crypto.ZeroAddress, amount))

	require.NoError(t, h.c.OnRevenue(agentID, crypto.ZeroAddress, amount))

	pool, err := h.c.store.RevenuePool(agentID, crypto.ZeroAddress)
	require.NoError(t, err)
	half := new(types.Amount).Mul(types.NewAmount(50), oneEtherAmt())
	require.Equal(t, half.Uint64(), pool.Uint64())

	ownerBalance, err := h.gateway.Balance(h.owner, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, half.Uint64(), ownerBalance.Uint64())

	a, err := h.agents.Agent(agentID)
	require.NoError(t, err)
	require.Equal(t, amount.Uint64(), a.Revenue.CumulativeEarned.Uint64())
}

func TestDistributeDividendsStandardClass(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	classID, nonceID, err := h.c.InitiateIPO(h.owner, agentID, 500, 86400*30, oneEtherAmt(), types.NewAmount(1_000_000), crypto.ZeroAddress)
	require.NoError(t, err)

	buyer := testAddr(9)
	cost := new(types.Amount).Mul(types.NewAmount(10), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(buyer, crypto.ZeroAddress, cost))
	require.NoError(t, h.c.PurchaseBonds(buyer, classID, types.NewAmount(10), crypto.ZeroAddress))

	revenue := new(types.Amount).Mul(types.NewAmount(20), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(h.treasury, crypto.ZeroAddress, revenue))
	require.NoError(t, h.c.OnRevenue(agentID, crypto.ZeroAddress, revenue))

	require.NoError(t, h.c.DistributeDividends(classID, nonceID))

	pool, err := h.c.store.RevenuePool(agentID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.True(t, pool.IsZero())

	amt, err := h.bonds.Nonce(classID, nonceID)
	require.NoError(t, err)
	require.NotNil(t, amt)
}

func TestDistributeDividendsTranchedWaterfall(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	seniorID, juniorID, err := h.c.InitiateTranchedIPO(h.owner, agentID, 1000, 500, 365*86400,
		types.NewAmount(1_000_000), types.NewAmount(1_000_000), crypto.ZeroAddress, oneEtherAmt(), oneEtherAmt())
	require.NoError(t, err)

	buyer := testAddr(9)
	cost := new(types.Amount).Mul(types.NewAmount(100), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(buyer, crypto.ZeroAddress, cost))

	groupID, err := h.tranches.ClassToGroup(seniorID)
	require.NoError(t, err)
	group, err := h.tranches.GetGroup(groupID)
	require.NoError(t, err)

	require.NoError(t, h.c.PurchaseBonds(buyer, seniorID, types.NewAmount(100), crypto.ZeroAddress))

	*h.clock += 365 * 86400 / 2

	revenue := new(types.Amount).Mul(types.NewAmount(1), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(h.treasury, crypto.ZeroAddress, revenue))
	require.NoError(t, h.c.OnRevenue(agentID, crypto.ZeroAddress, revenue))

	require.NoError(t, h.c.DistributeDividends(seniorID, group.SeniorNonceID))

	pool, err := h.c.store.RevenuePool(agentID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.True(t, pool.IsZero())

	require.NotEqual(t, seniorID, juniorID)
}

func TestReleaseIPOCapitalRequiresAttestedOperator(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	classID, _, err := h.c.InitiateIPO(h.owner, agentID, 500, 86400, oneEtherAmt(), types.NewAmount(1_000_000), crypto.ZeroAddress)
	require.NoError(t, err)

	buyer := testAddr(9)
	cost := new(types.Amount).Mul(types.NewAmount(10), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(buyer, crypto.ZeroAddress, cost))
	require.NoError(t, h.c.PurchaseBonds(buyer, classID, types.NewAmount(10), crypto.ZeroAddress))

	err = h.c.ReleaseIPOCapital(h.owner, agentID, crypto.ZeroAddress, cost, h.owner)
	require.ErrorIs(t, err, ledgererrors.ErrNotAttestedOperator)

	operator := testAddr(77)
	require.NoError(t, h.agents.SetAttestedOperator(h.self, agentID, operator))
	require.NoError(t, h.c.ReleaseIPOCapital(operator, agentID, crypto.ZeroAddress, cost, operator))

	balance, err := h.gateway.Balance(operator, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, cost.Uint64(), balance.Uint64())
}

func TestEventsEmittedOnIPOAndPurchase(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	log := events.NewLog()
	h.c.emitter = log

	classID, _, err := h.c.InitiateIPO(h.owner, agentID, 500, 86400*30, oneEtherAmt(), types.NewAmount(1_000_000), crypto.ZeroAddress)
	require.NoError(t, err)

	buyer := testAddr(9)
	cost := new(types.Amount).Mul(types.NewAmount(10), oneEtherAmt())
	require.NoError(t, h.gateway.Credit(buyer, crypto.ZeroAddress, cost))
	require.NoError(t, h.c.PurchaseBonds(buyer, classID, types.NewAmount(10), crypto.ZeroAddress))

	recorded := log.All()
	require.Len(t, recorded, 2)
	require.Equal(t, "controller.ipo_initiated", recorded[0].EventType())
	require.Equal(t, "controller.bonds_purchased", recorded[1].EventType())
}

func TestCalculateDynamicCouponClampsRange(t *testing.T) {
	h := newHarness(t)
	agentID := h.registerAgent(t)

	classID, _, err := h.c.InitiateIPO(h.owner, agentID, 2000, 86400, oneEtherAmt(), types.NewAmount(1_000_000), crypto.ZeroAddress)
	require.NoError(t, err)

	bps, err := h.c.CalculateDynamicCoupon(classID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, uint64(bps), uint64(100))
	require.LessOrEqual(t, uint64(bps), uint64(3000))
}
