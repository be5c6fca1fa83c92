package bond

import (
	"sync"

	"sibond/crypto"
	"sibond/ledger/types"
)

// MemStore is the default in-process Store: a mutex-guarded set of maps.
// It backs the library-mode wiring and every test in this package.
type MemStore struct {
	mu sync.Mutex

	classes    map[types.ID]*Class
	nextClass  types.ID
	nonces     map[types.ID]map[types.ID]*Nonce
	nextNonce  map[types.ID]types.ID
	balances   map[types.ID]map[types.ID]map[string]*types.Amount
	approvals  map[string]map[string]bool
	agentClass map[types.ID][]types.ID
}

// NewMemStore constructs an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{
		classes:    make(map[types.ID]*Class),
		nonces:     make(map[types.ID]map[types.ID]*Nonce),
		nextNonce:  make(map[types.ID]types.ID),
		balances:   make(map[types.ID]map[types.ID]map[string]*types.Amount),
		approvals:  make(map[string]map[string]bool),
		agentClass: make(map[types.ID][]types.ID),
	}
}

func (s *MemStore) GetClass(classID types.ID) (*Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.classes[classID]
	if !ok {
		return nil, nil
	}
	clone := c.Clone()
	return &clone, nil
}

func (s *MemStore) PutClass(class *Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := class.Clone()
	s.classes[class.ID] = &clone
	return nil
}

func (s *MemStore) NextClassID() (types.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextClass++
	return s.nextClass, nil
}

func (s *MemStore) GetNonce(classID, nonceID types.ID) (*Nonce, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byClass, ok := s.nonces[classID]
	if !ok {
		return nil, nil
	}
	n, ok := byClass[nonceID]
	if !ok {
		return nil, nil
	}
	clone := n.Clone()
	return &clone, nil
}

func (s *MemStore) PutNonce(nonce *Nonce) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byClass, ok := s.nonces[nonce.ClassID]
	if !ok {
		byClass = make(map[types.ID]*Nonce)
		s.nonces[nonce.ClassID] = byClass
	}
	clone := nonce.Clone()
	byClass[nonce.ID] = &clone
	return nil
}

func (s *MemStore) NextNonceID(classID types.ID) (types.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextNonce[classID]++
	return s.nextNonce[classID], nil
}

func balKey(holder crypto.Address) string { return string(holder.Bytes()) }

func (s *MemStore) GetBalance(classID, nonceID types.ID, holder crypto.Address) (*types.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byClass, ok := s.balances[classID]
	if !ok {
		return types.ZeroAmount(), nil
	}
	byNonce, ok := byClass[nonceID]
	if !ok {
		return types.ZeroAmount(), nil
	}
	amt, ok := byNonce[balKey(holder)]
	if !ok {
		return types.ZeroAmount(), nil
	}
	out := types.ZeroAmount()
	out.Set(amt)
	return out, nil
}

func (s *MemStore) SetBalance(classID, nonceID types.ID, holder crypto.Address, amount *types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byClass, ok := s.balances[classID]
	if !ok {
		byClass = make(map[types.ID]map[string]*types.Amount)
		s.balances[classID] = byClass
	}
	byNonce, ok := byClass[nonceID]
	if !ok {
		byNonce = make(map[string]*types.Amount)
		byClass[nonceID] = byNonce
	}
	clone := types.ZeroAmount()
	clone.Set(amount)
	byNonce[balKey(holder)] = clone
	return nil
}

func (s *MemStore) GetApproval(owner, operator crypto.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byOwner, ok := s.approvals[balKey(owner)]
	if !ok {
		return false, nil
	}
	return byOwner[balKey(operator)], nil
}

func (s *MemStore) SetApproval(owner, operator crypto.Address, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byOwner, ok := s.approvals[balKey(owner)]
	if !ok {
		byOwner = make(map[string]bool)
		s.approvals[balKey(owner)] = byOwner
	}
	byOwner[balKey(operator)] = approved
	return nil
}

func (s *MemStore) AgentClasses(agentID types.ID) ([]types.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ID, len(s.agentClass[agentID]))
	copy(out, s.agentClass[agentID])
	return out, nil
}

func (s *MemStore) AppendAgentClass(agentID, classID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentClass[agentID] = append(s.agentClass[agentID], classID)
	return nil
}
