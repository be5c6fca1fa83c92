package agent

import (
	"testing"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"

	"github.com/stretchr/testify/require"
)

func testAddr(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

func newTestRegistry(now int64) (*Registry, crypto.Address) {
	controller := testAddr(1)
	reg := NewRegistry(NewMemStore(), controller, nil, func() int64 { return now })
	return reg, controller
}

func TestRegisterAgentAndState(t *testing.T) {
	reg, controller := newTestRegistry(1000)
	id, err := reg.RegisterAgent(controller, testAddr(5), "Agent One", "desc", [32]byte{1}, "https://example.invalid")
	require.NoError(t, err)
	require.EqualValues(t, 1, id)

	a, err := reg.Agent(id)
	require.NoError(t, err)
	require.Equal(t, StateRegistered, a.State)

	require.NoError(t, reg.UpdateState(controller, id, StateActive))
	a, err = reg.Agent(id)
	require.NoError(t, err)
	require.Equal(t, StateActive, a.State)
}

func TestRegisterAgentUnauthorized(t *testing.T) {
	reg, _ := newTestRegistry(1000)
	_, err := reg.RegisterAgent(testAddr(99), testAddr(5), "x", "y", [32]byte{}, "")
	require.ErrorIs(t, err, ledgererrors.ErrNotOperator)
}

func TestRecordRevenueAccumulates(t *testing.T) {
	reg, controller := newTestRegistry(1000)
	id, err := reg.RegisterAgent(controller, testAddr(5), "A", "", [32]byte{}, "")
	require.NoError(t, err)

	require.NoError(t, reg.RecordRevenue(controller, id, types.NewAmount(100)))
	require.NoError(t, reg.RecordRevenue(controller, id, types.NewAmount(50)))

	a, err := reg.Agent(id)
	require.NoError(t, err)
	require.Equal(t, uint64(150), a.Revenue.CumulativeEarned.Uint64())
	require.Equal(t, uint64(2), a.Revenue.PaymentCount)
}

func TestRecalcCreditRatingBands(t *testing.T) {
	reg, controller := newTestRegistry(SecondsPerYear)
	id, err := reg.RegisterAgent(controller, testAddr(5), "A", "", [32]byte{}, "")
	require.NoError(t, err)

	oneE18 := types.NewAmount(1_000_000_000_000_000_000)
	require.NoError(t, reg.UpdateSharpe(controller, id, new(types.Amount).Mul(oneE18, types.NewAmount(3)), [32]byte{2}))
	require.NoError(t, reg.RecordRevenue(controller, id, new(types.Amount).Mul(types.NewAmount(100), oneE18)))

	rating, err := reg.RecalcCredit(controller, id, oneE18, oneE18)
	require.NoError(t, err)
	require.Equal(t, RatingAAA, rating)
}

func TestRecordCapitalRaisedBumpsEvolution(t *testing.T) {
	reg, controller := newTestRegistry(1000)
	id, err := reg.RegisterAgent(controller, testAddr(5), "A", "", [32]byte{}, "")
	require.NoError(t, err)

	milestones := []*types.Amount{
		types.NewAmount(1000),
		types.NewAmount(2000),
		types.NewAmount(3000),
		types.NewAmount(4000),
		types.NewAmount(5000),
	}
	require.NoError(t, reg.RecordCapitalRaised(controller, id, types.NewAmount(1500), milestones))

	a, err := reg.Agent(id)
	require.NoError(t, err)
	require.EqualValues(t, 1, a.EvolutionLevel)
	require.Equal(t, uint64(1500), a.CapitalRaised.Uint64())

	require.NoError(t, reg.RecordCapitalRaised(controller, id, types.NewAmount(2000), milestones))
	a, err = reg.Agent(id)
	require.NoError(t, err)
	require.EqualValues(t, 3, a.EvolutionLevel)
}

func TestAttestedOperator(t *testing.T) {
	reg, controller := newTestRegistry(1000)
	id, err := reg.RegisterAgent(controller, testAddr(5), "A", "", [32]byte{}, "")
	require.NoError(t, err)

	op := testAddr(42)
	require.NoError(t, reg.SetAttestedOperator(controller, id, op))
	got, err := reg.AttestedOperator(id)
	require.NoError(t, err)
	require.True(t, got.Equal(op))
}

func TestAgentMissing(t *testing.T) {
	reg, _ := newTestRegistry(1000)
	_, err := reg.Agent(999)
	require.ErrorIs(t, err, ledgererrors.ErrAgentMissing)
}
