package cash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"
)

func testAddr(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

func TestCreditAndBalance(t *testing.T) {
	l := NewLedger()
	addr := testAddr(1)

	require.NoError(t, l.Credit(addr, crypto.ZeroAddress, types.NewAmount(100)))
	bal, err := l.Balance(addr, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(100), bal.Uint64())
}

func TestDebitInsufficientBalance(t *testing.T) {
	l := NewLedger()
	addr := testAddr(1)

	err := l.Debit(addr, crypto.ZeroAddress, types.NewAmount(1))
	require.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)

	require.NoError(t, l.Credit(addr, crypto.ZeroAddress, types.NewAmount(5)))
	err = l.Debit(addr, crypto.ZeroAddress, types.NewAmount(10))
	require.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
}

func TestMoveIsAtomic(t *testing.T) {
	l := NewLedger()
	from := testAddr(1)
	to := testAddr(2)

	require.NoError(t, l.Credit(from, crypto.ZeroAddress, types.NewAmount(50)))
	require.NoError(t, l.Move(from, to, crypto.ZeroAddress, types.NewAmount(30)))

	fromBal, err := l.Balance(from, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(20), fromBal.Uint64())

	toBal, err := l.Balance(to, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(30), toBal.Uint64())

	err = l.Move(from, to, crypto.ZeroAddress, types.NewAmount(1000))
	require.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)

	fromBal, err = l.Balance(from, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(20), fromBal.Uint64())
}

func TestBalancesAreIsolatedPerToken(t *testing.T) {
	l := NewLedger()
	addr := testAddr(1)
	otherToken := testAddr(9)

	require.NoError(t, l.Credit(addr, crypto.ZeroAddress, types.NewAmount(10)))
	require.NoError(t, l.Credit(addr, otherToken, types.NewAmount(20)))

	native, err := l.Balance(addr, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(10), native.Uint64())

	other, err := l.Balance(addr, otherToken)
	require.NoError(t, err)
	require.Equal(t, uint64(20), other.Uint64())
}
