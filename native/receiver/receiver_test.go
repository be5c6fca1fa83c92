package receiver

import (
	"crypto/ecdsa"
	"testing"

	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
	"sibond/ledger/types"
	"sibond/native/cash"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func testAddr(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

type stubTokens struct{ supported map[string]bool }

func (s stubTokens) IsSupported(token crypto.Address) (bool, error) {
	return s.supported[string(token.Bytes())], nil
}

type stubController struct {
	calls []struct {
		agentID types.ID
		token   crypto.Address
		amount  *types.Amount
	}
}

func (s *stubController) OnRevenue(agentID types.ID, token crypto.Address, amount *types.Amount) error {
	s.calls = append(s.calls, struct {
		agentID types.ID
		token   crypto.Address
		amount  *types.Amount
	}{agentID, token, amount})
	return nil
}

type stubOperators struct{ operator crypto.Address }

func (s stubOperators) AttestedOperator(types.ID) (crypto.Address, error) { return s.operator, nil }

func newHarness(t *testing.T) (*Receiver, *stubController, *cash.Ledger, crypto.Address) {
	t.Helper()
	gateway := cash.NewLedger()
	controller := &stubController{}
	treasury := testAddr(250)
	store := NewMemStore()
	r := NewReceiver(stubTokens{supported: map[string]bool{}}, controller, stubOperators{}, gateway, treasury, store, nil, 300, false, nil, func() int64 { return 1000 })
	return r, controller, gateway, treasury
}

func TestPayNativeForwardsRevenue(t *testing.T) {
	r, controller, gateway, treasury := newHarness(t)
	payer := testAddr(9)
	require.NoError(t, gateway.Credit(payer, crypto.ZeroAddress, types.NewAmount(100)))

	require.NoError(t, r.PayNative(payer, 1, "ep", types.NewAmount(100)))
	require.Len(t, controller.calls, 1)
	require.Equal(t, uint64(100), controller.calls[0].amount.Uint64())

	bal, err := gateway.Balance(treasury, crypto.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(100), bal.Uint64())
}

func TestPayNativeZeroRejected(t *testing.T) {
	r, _, _, _ := newHarness(t)
	err := r.PayNative(testAddr(9), 1, "ep", types.ZeroAmount())
	require.ErrorIs(t, err, ledgererrors.ErrZeroAmount)
}

func TestPayTokenUnsupported(t *testing.T) {
	r, _, _, _ := newHarness(t)
	err := r.PayToken(testAddr(9), 1, testAddr(77), types.NewAmount(5), "ep")
	require.ErrorIs(t, err, ledgererrors.ErrUnsupportedToken)
}

func TestPayNativeAttestedAcceptsAuthorisedSigner(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	signerAddr, err := crypto.RecoverAddress(
		crypto.SignedMessageDigest(attestedReceiptDigest(1, types.NewAmount(10), "ep", 1000, [32]byte{9})),
		signDigest(t, key, attestedReceiptDigest(1, types.NewAmount(10), "ep", 1000, [32]byte{9})),
	)
	require.NoError(t, err)

	gateway := cash.NewLedger()
	controller := &stubController{}
	treasury := testAddr(250)
	store := NewMemStore()
	r := NewReceiver(stubTokens{}, controller, stubOperators{operator: signerAddr}, gateway, treasury, store, nil, 300, false, nil, func() int64 { return 1000 })

	payer := testAddr(9)
	require.NoError(t, gateway.Credit(payer, crypto.ZeroAddress, types.NewAmount(10)))

	sig := signDigest(t, key, attestedReceiptDigest(1, types.NewAmount(10), "ep", 1000, [32]byte{9}))
	require.NoError(t, r.PayNativeAttested(payer, 1, "ep", types.NewAmount(10), 1000, [32]byte{9}, sig))

	revenue, err := r.VerifiedRevenue(1)
	require.NoError(t, err)
	require.Equal(t, uint64(10), revenue.Uint64())
}

func TestPayNativeAttestedRejectsWrongSigner(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	gateway := cash.NewLedger()
	controller := &stubController{}
	treasury := testAddr(250)
	store := NewMemStore()
	r := NewReceiver(stubTokens{}, controller, stubOperators{operator: testAddr(66)}, gateway, treasury, store, nil, 300, false, nil, func() int64 { return 1000 })

	payer := testAddr(9)
	require.NoError(t, gateway.Credit(payer, crypto.ZeroAddress, types.NewAmount(10)))

	sig := signDigest(t, key, attestedReceiptDigest(1, types.NewAmount(10), "ep", 1000, [32]byte{9}))
	err = r.PayNativeAttested(payer, 1, "ep", types.NewAmount(10), 1000, [32]byte{9}, sig)
	require.ErrorIs(t, err, ledgererrors.ErrAttestorMismatch)
}

func TestPayNativeAttestedOutOfWindow(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	gateway := cash.NewLedger()
	controller := &stubController{}
	treasury := testAddr(250)
	store := NewMemStore()
	r := NewReceiver(stubTokens{}, controller, stubOperators{}, gateway, treasury, store, nil, 300, false, nil, func() int64 { return 10000 })

	payer := testAddr(9)
	sig := signDigest(t, key, attestedReceiptDigest(1, types.NewAmount(10), "ep", 1000, [32]byte{9}))
	err = r.PayNativeAttested(payer, 1, "ep", types.NewAmount(10), 1000, [32]byte{9}, sig)
	require.ErrorIs(t, err, ledgererrors.ErrReceiptOutOfWindow)
}

func signDigest(t *testing.T, key *ecdsa.PrivateKey, digest []byte) []byte {
	t.Helper()
	wrapped := crypto.SignedMessageDigest(digest)
	sig, err := ethcrypto.Sign(wrapped, key)
	require.NoError(t, err)
	return sig
}
