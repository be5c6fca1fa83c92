package token

import (
	"testing"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"
	"sibond/storage"

	"github.com/stretchr/testify/require"
)

func testAddr(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

func newTestRegistry(t *testing.T) (*Registry, crypto.Address) {
	t.Helper()
	owner := testAddr(1)
	store := NewKVStore(storage.NewMemDB())
	reg, err := NewRegistry(store, owner, nil, types.NewAmount(300))
	require.NoError(t, err)
	return reg, owner
}

func TestRegistry_NativeSeeded(t *testing.T) {
	reg, _ := newTestRegistry(t)

	supported, err := reg.IsSupported(crypto.ZeroAddress)
	require.NoError(t, err)
	require.True(t, supported)

	info, err := reg.TokenInfo(crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, NativeSymbol, info.Symbol)
	require.EqualValues(t, NativeDecimals, info.Decimals)
}

func TestRegistry_AddRemoveUpdate(t *testing.T) {
	reg, owner := newTestRegistry(t)
	usd := testAddr(9)

	require.NoError(t, reg.AddToken(owner, usd, "USDX", 6, types.NewAmount(1)))
	supported, err := reg.IsSupported(usd)
	require.NoError(t, err)
	require.True(t, supported)

	require.ErrorIs(t, reg.AddToken(owner, usd, "USDX", 6, types.NewAmount(1)), ledgererrors.ErrTokenAlreadyActive)

	require.NoError(t, reg.RemoveToken(owner, usd))
	supported, err = reg.IsSupported(usd)
	require.NoError(t, err)
	require.False(t, supported)

	_, err = reg.TokenPrice(usd)
	require.ErrorIs(t, err, ledgererrors.ErrInactiveToken)

	require.ErrorIs(t, reg.UpdatePrice(owner, usd, types.NewAmount(2)), ledgererrors.ErrInactiveToken)
}

func TestRegistry_CannotRemoveNative(t *testing.T) {
	reg, owner := newTestRegistry(t)
	require.ErrorIs(t, reg.RemoveToken(owner, crypto.ZeroAddress), ledgererrors.ErrCannotRemoveNative)
	require.ErrorIs(t, reg.AddToken(owner, crypto.ZeroAddress, "X", 18, nil), ledgererrors.ErrCannotRemoveNative)
}

func TestRegistry_UnauthorisedCaller(t *testing.T) {
	reg, _ := newTestRegistry(t)
	intruder := testAddr(42)
	require.ErrorIs(t, reg.AddToken(intruder, testAddr(7), "X", 18, nil), ledgererrors.ErrNotOperator)
}

func TestRegistry_AllTokensInsertionOrder(t *testing.T) {
	reg, owner := newTestRegistry(t)
	a := testAddr(2)
	b := testAddr(3)
	require.NoError(t, reg.AddToken(owner, a, "AAA", 18, nil))
	require.NoError(t, reg.AddToken(owner, b, "BBB", 18, nil))

	all, err := reg.AllTokens()
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.True(t, all[0].Token.IsZero())
	require.Equal(t, "AAA", all[1].Symbol)
	require.Equal(t, "BBB", all[2].Symbol)
}
