// Package config loads the ledger's bootstrap parameters from TOML,
// following the teacher's config.Load(path) convention.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable the Controller and its leaves need at wiring
// time. Governance-path changes to these values are out of scope for the
// core; they are fixed at boot.
type Config struct {
	// ListenAddress is reserved for a host embedding the ledger behind an
	// RPC surface; the core itself exposes no transport.
	ListenAddress string `toml:"ListenAddress"`
	// DataDir selects where the LevelDB backend persists state when
	// StorageBackend is "leveldb".
	DataDir string `toml:"DataDir"`
	// StorageBackend is either "memory" or "leveldb".
	StorageBackend string `toml:"StorageBackend"`

	// BondholderShareBps is the default split routed to RevenuePool on
	// Controller.OnRevenue; defaults to 7000 (70%).
	BondholderShareBps uint64 `toml:"BondholderShareBps"`

	// AttestationWindowSeconds bounds how far a receipt's timestamp may
	// drift from the current time before AttestedReceiver rejects it.
	AttestationWindowSeconds int64 `toml:"AttestationWindowSeconds"`

	// OrderBookFeeBps is the protocol fee OrderBook.FillOrder charges
	// against the cash leg of every fill.
	OrderBookFeeBps uint64 `toml:"OrderBookFeeBps"`

	// RelayRestricted toggles whether payWithSignature requires the caller
	// to be in RelayWhitelist.
	RelayRestricted bool     `toml:"RelayRestricted"`
	RelayWhitelist  []string `toml:"RelayWhitelist"`

	// EvolutionMilestones is the ascending list of cumulative
	// capital-raised thresholds (native-asset units) mapping to evolution
	// levels 1..5.
	EvolutionMilestones []string `toml:"EvolutionMilestones"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		StorageBackend:           "memory",
		BondholderShareBps:       7000,
		AttestationWindowSeconds: 300,
		OrderBookFeeBps:          30,
		RelayRestricted:          false,
		EvolutionMilestones: []string{
			"1000000000000000000000",
			"10000000000000000000000",
			"100000000000000000000000",
			"1000000000000000000000000",
			"10000000000000000000000000",
		},
	}
}

// Load reads a TOML configuration file at path, falling back to Default()
// when the file does not exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
