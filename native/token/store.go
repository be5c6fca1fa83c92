package token

import (
	"encoding/json"
	"fmt"

	"sibond/crypto"
	"sibond/ledger/types"
	"sibond/storage"
)

// Store persists token records and the insertion-ordered list of every
// token ever added.
type Store interface {
	GetToken(token crypto.Address) (*Info, error)
	PutToken(info *Info) error
	AllTokens() ([]crypto.Address, error)
	AppendToList(token crypto.Address) error
}

const (
	tokenKeyPrefix = "token/record/"
	tokenListKey   = "token/list"
)

// KVStore is the storage.Database-backed Store, the only implementation
// this package ships; tests run it over storage.MemDB.
type KVStore struct {
	db storage.Database
}

// NewKVStore wraps db as a token Store.
func NewKVStore(db storage.Database) *KVStore {
	return &KVStore{db: db}
}

func tokenKey(token crypto.Address) []byte {
	return []byte(tokenKeyPrefix + string(token.Bytes()))
}

func (s *KVStore) GetToken(token crypto.Address) (*Info, error) {
	raw, err := s.db.Get(tokenKey(token))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec jsonInfo
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("token: decode record: %w", err)
	}
	return rec.toInfo(token), nil
}

func (s *KVStore) PutToken(info *Info) error {
	if info == nil {
		return fmt.Errorf("token: nil record")
	}
	raw, err := json.Marshal(fromInfo(info))
	if err != nil {
		return err
	}
	return s.db.Put(tokenKey(info.Token), raw)
}

func (s *KVStore) AllTokens() ([]crypto.Address, error) {
	raw, err := s.db.Get([]byte(tokenListKey))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list [][]byte
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	out := make([]crypto.Address, 0, len(list))
	for _, b := range list {
		addr, err := crypto.NewAddress(crypto.SIBPrefix, b)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func (s *KVStore) AppendToList(token crypto.Address) error {
	existing, err := s.AllTokens()
	if err != nil {
		return err
	}
	list := make([][]byte, 0, len(existing)+1)
	for _, a := range existing {
		list = append(list, a.Bytes())
	}
	list = append(list, token.Bytes())
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(tokenListKey), raw)
}

// jsonInfo is the wire shape for a token record; the address is the map
// key so it is not re-encoded in the value.
type jsonInfo struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Price    string `json:"price"`
	Active   bool   `json:"active"`
}

func fromInfo(i *Info) jsonInfo {
	price := "0"
	if i.Price != nil {
		price = i.Price.Dec()
	}
	return jsonInfo{Symbol: i.Symbol, Decimals: i.Decimals, Price: price, Active: i.Active}
}

func (r jsonInfo) toInfo(token crypto.Address) *Info {
	price := types.ZeroAmount()
	if r.Price != "" {
		_ = price.SetFromDecimal(r.Price)
	}
	return &Info{Token: token, Symbol: r.Symbol, Decimals: r.Decimals, Price: price, Active: r.Active}
}
