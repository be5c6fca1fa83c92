package receiver

import (
	"sync"

	"sibond/crypto"
	"sibond/ledger/types"

	"github.com/google/uuid"
)

// Store persists the payer-nonce replay counters and the verified-payment
// audit log.
type Store interface {
	NonceOf(payer crypto.Address) (uint64, error)
	BumpNonce(payer crypto.Address) error

	AppendRecord(rec *VerifiedPaymentRecord) error
	Records() ([]VerifiedPaymentRecord, error)

	VerifiedRevenue(agentID types.ID) (*types.Amount, error)
	AddVerifiedRevenue(agentID types.ID, amount *types.Amount) error
}

// MemStore is the default in-process Store.
type MemStore struct {
	mu              sync.Mutex
	nonces          map[string]uint64
	records         []VerifiedPaymentRecord
	verifiedRevenue map[types.ID]*types.Amount
}

// NewMemStore constructs an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{
		nonces:          make(map[string]uint64),
		verifiedRevenue: make(map[types.ID]*types.Amount),
	}
}

func (s *MemStore) NonceOf(payer crypto.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonces[string(payer.Bytes())], nil
}

func (s *MemStore) BumpNonce(payer crypto.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces[string(payer.Bytes())]++
	return nil
}

func (s *MemStore) AppendRecord(rec *VerifiedPaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.records = append(s.records, *rec)
	return nil
}

func (s *MemStore) Records() ([]VerifiedPaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VerifiedPaymentRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemStore) VerifiedRevenue(agentID types.ID) (*types.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifiedRevenue[agentID]
	if !ok {
		return types.ZeroAmount(), nil
	}
	out := types.ZeroAmount()
	out.Set(v)
	return out, nil
}

func (s *MemStore) AddVerifiedRevenue(agentID types.ID, amount *types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.verifiedRevenue[agentID]
	if !ok {
		current = types.ZeroAmount()
	}
	s.verifiedRevenue[agentID] = types.AddAmounts(current, amount)
	return nil
}
