package tranche

import (
	"testing"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"
	"sibond/native/bond"

	"github.com/stretchr/testify/require"
)

func testAddr(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

func newTestRegistry(t *testing.T) (*Registry, *bond.Registry) {
	t.Helper()
	controller := testAddr(1)
	self := testAddr(2)
	bonds := bond.NewRegistry(bond.NewMemStore(), controller, nil)
	bonds.SetTranchingOperator(self)
	reg := NewRegistry(NewMemStore(), bonds, self, controller)
	return reg, bonds
}

func TestCreateGroupValidation(t *testing.T) {
	reg, _ := newTestRegistry(t)
	controller := testAddr(1)

	_, err := reg.CreateGroup(controller, 1, 0, 800, 86400, types.NewAmount(100), types.NewAmount(100), types.NewAmount(1), crypto.ZeroAddress, types.NewAmount(1), types.NewAmount(1))
	require.ErrorIs(t, err, ledgererrors.ErrCouponOutOfRange)

	_, err = reg.CreateGroup(controller, 1, 500, 800, 0, types.NewAmount(100), types.NewAmount(100), types.NewAmount(1), crypto.ZeroAddress, types.NewAmount(1), types.NewAmount(1))
	require.ErrorIs(t, err, ledgererrors.ErrMaturityZero)

	_, err = reg.CreateGroup(testAddr(99), 1, 500, 800, 86400, types.NewAmount(100), types.NewAmount(100), types.NewAmount(1), crypto.ZeroAddress, types.NewAmount(1), types.NewAmount(1))
	require.ErrorIs(t, err, ledgererrors.ErrNotOperator)
}

func TestCreateGroupWiresBondRegistry(t *testing.T) {
	reg, bonds := newTestRegistry(t)
	controller := testAddr(1)

	groupID, err := reg.CreateGroup(controller, 1, 500, 800, 90*86400, types.NewAmount(500), types.NewAmount(500), types.NewAmount(1), crypto.ZeroAddress, types.NewAmount(1), types.NewAmount(1))
	require.NoError(t, err)

	group, err := reg.GetGroup(groupID)
	require.NoError(t, err)
	require.True(t, group.Exists)

	seniorClass, err := bonds.Class(group.SeniorClassID)
	require.NoError(t, err)
	require.Equal(t, bond.TrancheSenior, seniorClass.Tranche)

	juniorClass, err := bonds.Class(group.JuniorClassID)
	require.NoError(t, err)
	require.Equal(t, bond.TrancheJunior, juniorClass.Tranche)

	tranched, err := reg.IsTranched(group.SeniorClassID)
	require.NoError(t, err)
	require.True(t, tranched)

	counterpart, err := reg.Counterpart(group.SeniorClassID)
	require.NoError(t, err)
	require.Equal(t, group.JuniorClassID, counterpart)

	count, err := reg.GroupCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

// TestSeniorEntitlementWaterfall checks the raw entitlement formula with
// senior 500bps, supply 500 and 30 days elapsed. The formula works on the
// amounts as given, with no price or 10^18 scaling, so the result is
// 2.05... floored to 2 base units. Capping the entitlement at the pool
// (min(pool, entitlement)) is the Controller's job, not this function's;
// this test only checks the formula itself.
func TestSeniorEntitlementWaterfall(t *testing.T) {
	seniorSupply := types.NewAmount(500)
	entitlement := SeniorEntitlement(seniorSupply, 500, 30*86400)
	// 500 * 500 * (30*86400) / (10000 * 365*86400) = 2.05..., floored to 2
	// by integer division on uint64 inputs:
	expected := (uint64(500) * uint64(500) * uint64(30*86400)) / (uint64(10000) * uint64(365*86400))
	require.Equal(t, expected, entitlement.Uint64())
}

func TestSeniorEntitlementZeroSupply(t *testing.T) {
	entitlement := SeniorEntitlement(types.ZeroAmount(), 500, 30*86400)
	require.True(t, entitlement.IsZero())
}
