package dividend

import (
	"testing"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"
	"sibond/native/bond"
	"sibond/native/cash"

	"github.com/stretchr/testify/require"
)

func testAddr(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

// harness wires a real bond.Registry (for balances/supply/hook) to a
// dividend.Vault, mirroring how the Controller wires the two components.
type harness struct {
	bonds    *bond.Registry
	vault    *Vault
	gateway  *cash.Ledger
	treasury crypto.Address
	classID  types.ID
	nonceID  types.ID
}

func newHarness(t *testing.T, maxSupply uint64) *harness {
	t.Helper()
	controller := testAddr(1)
	treasury := testAddr(250)
	bonds := bond.NewRegistry(bond.NewMemStore(), controller, nil)
	gateway := cash.NewLedger()
	vault := NewVault(dividendMemStore(), bonds, gateway, treasury, controller, nil)
	bonds.SetDividendHook(vault)

	classID, err := bonds.CreateClass(controller, 1, 500, 3600, types.NewAmount(1), types.NewAmount(maxSupply), bond.TrancheStandard, crypto.ZeroAddress)
	require.NoError(t, err)
	nonceID, err := bonds.CreateNonce(controller, classID, types.NewAmount(1))
	require.NoError(t, err)

	require.NoError(t, gateway.Credit(treasury, crypto.ZeroAddress, types.NewAmount(1_000_000)))

	return &harness{bonds: bonds, vault: vault, gateway: gateway, treasury: treasury, classID: classID, nonceID: nonceID}
}

func dividendMemStore() Store { return NewMemStore() }

func TestDeposit_ZeroSupplyFails(t *testing.T) {
	h := newHarness(t, 1000)
	controllerCaller := testAddr(1)
	err := h.vault.Deposit(controllerCaller, h.classID, h.nonceID, crypto.ZeroAddress, types.NewAmount(10))
	require.ErrorIs(t, err, ledgererrors.ErrZeroSupply)
}

// TestTransferPreservesDividends checks a balance transfer settles the
// sender's accrued claim at the old balance before the new balance takes
// over, so neither side gains or loses dividend entitlement from the
// transfer itself.
func TestTransferPreservesDividends(t *testing.T) {
	h := newHarness(t, 1000)
	controller := testAddr(1)
	alice := testAddr(2)
	bob := testAddr(3)

	require.NoError(t, h.bonds.Issue(controller, alice, []bond.Tuple{{ClassID: h.classID, NonceID: h.nonceID, Amount: types.NewAmount(100)}}))
	require.NoError(t, h.vault.Deposit(controller, h.classID, h.nonceID, crypto.ZeroAddress, types.NewAmount(1_000_000_000_000_000_000)))

	require.NoError(t, h.bonds.TransferFrom(alice, alice, bob, []bond.Tuple{{ClassID: h.classID, NonceID: h.nonceID, Amount: types.NewAmount(50)}}))

	aliceClaimable, err := h.vault.Claimable(alice, h.classID, h.nonceID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000_000_000_000), aliceClaimable.Uint64())

	bobClaimable, err := h.vault.Claimable(bob, h.classID, h.nonceID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.True(t, bobClaimable.IsZero())

	require.NoError(t, h.vault.Deposit(controller, h.classID, h.nonceID, crypto.ZeroAddress, types.NewAmount(1_000_000_000_000_000_000)))
	aliceClaimable, err = h.vault.Claimable(alice, h.classID, h.nonceID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(1_500_000_000_000_000_000), aliceClaimable.Uint64())

	bobClaimable, err = h.vault.Claimable(bob, h.classID, h.nonceID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(500_000_000_000_000_000), bobClaimable.Uint64())
}

// TestClaimIdempotence checks a second claim with nothing newly accrued
// fails instead of double-paying.
func TestClaimIdempotence(t *testing.T) {
	h := newHarness(t, 1000)
	controller := testAddr(1)
	alice := testAddr(2)
	require.NoError(t, h.bonds.Issue(controller, alice, []bond.Tuple{{ClassID: h.classID, NonceID: h.nonceID, Amount: types.NewAmount(10)}}))
	require.NoError(t, h.vault.Deposit(controller, h.classID, h.nonceID, crypto.ZeroAddress, types.NewAmount(1000)))

	paid, err := h.vault.Claim(alice, h.classID, h.nonceID, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), paid.Uint64())

	_, err = h.vault.Claim(alice, h.classID, h.nonceID, crypto.ZeroAddress)
	require.ErrorIs(t, err, ledgererrors.ErrNothingToClaim)

	bal, err := h.gateway.Balance(alice, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), bal.Uint64())
}

// TestThreeHolderDust checks an indivisible deposit across three equal
// holders rounds each share down consistently, with the remainder left
// unclaimed rather than misallocated.
func TestThreeHolderDust(t *testing.T) {
	h := newHarness(t, 1000)
	controller := testAddr(1)
	holders := []crypto.Address{testAddr(10), testAddr(11), testAddr(12)}
	for _, holder := range holders {
		require.NoError(t, h.bonds.Issue(controller, holder, []bond.Tuple{{ClassID: h.classID, NonceID: h.nonceID, Amount: types.NewAmount(1)}}))
	}
	require.NoError(t, h.vault.Deposit(controller, h.classID, h.nonceID, crypto.ZeroAddress, types.NewAmount(1_000_000_000_000_000_000)))

	var total uint64
	for _, holder := range holders {
		c, err := h.vault.Claimable(holder, h.classID, h.nonceID, crypto.ZeroAddress)
		require.NoError(t, err)
		require.Equal(t, uint64(333_333_333_333_333_333), c.Uint64())
		total += c.Uint64()
	}
	require.LessOrEqual(t, uint64(1_000_000_000_000_000_000)-total, uint64(2))
}
