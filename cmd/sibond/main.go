// Command sibond wires every native component into a single process and
// logs readiness. It is a library-mode demonstration of the full
// component graph, not a network-facing server: this repo is scoped to
// the ledger/settlement core with no transport surface.
package main

import (
	"flag"
	"log/slog"
	"time"

	"sibond/config"
	"sibond/controller"
	"sibond/crypto"
	"sibond/ledger/types"
	"sibond/native/agent"
	"sibond/native/bond"
	"sibond/native/cash"
	"sibond/native/dividend"
	"sibond/native/orderbook"
	"sibond/native/receiver"
	"sibond/native/token"
	"sibond/native/tranche"
	"sibond/observability/logging"
	"sibond/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "path to the configuration file")
	env := flag.String("env", "development", "deployment environment tag for log output")
	flag.Parse()

	logger := logging.Setup("sibond", *env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	db, err := openStorage(cfg)
	if err != nil {
		logger.Error("failed to open storage backend", slog.String("error", err.Error()))
		return
	}
	defer db.Close()

	identity := deriveIdentity()
	logger.Info("deployment identity",
		slog.String("controller", identity.controller.String()),
		slog.String("tranching", identity.tranching.String()),
		slog.String("orderbook", identity.orderbook.String()),
		slog.String("treasury", identity.treasury.String()),
	)

	bonds := bond.NewRegistry(bond.NewMemStore(), identity.controller, nil)
	bonds.SetTranchingOperator(identity.tranching)

	gateway := cash.NewLedger()
	vault := dividend.NewVault(dividend.NewMemStore(), bonds, gateway, identity.treasury, identity.controller, nil)
	bonds.SetDividendHook(vault)

	agents := agent.NewRegistry(agent.NewMemStore(), identity.controller, nil, clock)
	tranches := tranche.NewRegistry(tranche.NewMemStore(), bonds, identity.tranching, identity.controller)

	tokens, err := token.NewRegistry(token.NewKVStore(db), identity.controller, nil, types.NewAmount(100))
	if err != nil {
		logger.Error("failed to seed token registry", slog.String("error", err.Error()))
		return
	}

	ctl := controller.New(controller.NewMemStore(), controller.Deps{
		Self:               identity.controller,
		Bonds:              bonds,
		Dividends:          vault,
		Agents:             agents,
		Tranches:           tranches,
		Tokens:             tokens,
		Gateway:            gateway,
		Treasury:           identity.treasury,
		BondholderShareBps: types.BasisPoints(cfg.BondholderShareBps),
		Milestones:         parseMilestones(cfg.EvolutionMilestones),
		Now:                clock,
	})

	rcv := receiver.NewReceiver(tokens, ctl, agents, gateway, identity.treasury,
		receiver.NewMemStore(), nil, cfg.AttestationWindowSeconds, cfg.RelayRestricted, parseWhitelist(cfg.RelayWhitelist), clock)

	book := orderbook.NewRegistry(orderbook.NewMemStore(), bonds, gateway, tokens,
		identity.orderbook, identity.treasury, types.BasisPoints(cfg.OrderBookFeeBps), nil, clock)

	logger.Info("sibond ledger wired and ready",
		slog.String("storage_backend", cfg.StorageBackend),
		slog.Int64("attestation_window_seconds", cfg.AttestationWindowSeconds),
	)

	// rcv and book are held live by the process; a real host exposes them
	// behind its own transport (HTTP, gRPC, a message queue) which is out
	// of scope here.
	_, _ = rcv, book
}

func clock() int64 { return time.Now().Unix() }

// deployIdentity bundles the addresses a real deployment binds as the
// Controller, TranchingEngine, and OrderBook's own escrow identities.
// Generating fixed addresses on every boot is a placeholder for the key
// management a production host supplies; see cmd/internal/passphrase in
// the teacher for the pattern this would graduate into.
type deployIdentity struct {
	controller crypto.Address
	tranching  crypto.Address
	orderbook  crypto.Address
	treasury   crypto.Address
}

func deriveIdentity() deployIdentity {
	return deployIdentity{
		controller: seedAddress(1),
		tranching:  seedAddress(2),
		orderbook:  seedAddress(3),
		treasury:   seedAddress(4),
	}
}

func seedAddress(seed byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = seed
	return crypto.MustNewAddress(crypto.SIBPrefix, raw)
}

func openStorage(cfg *config.Config) (storage.Database, error) {
	if cfg.StorageBackend == "leveldb" {
		return storage.NewLevelDB(cfg.DataDir)
	}
	return storage.NewMemDB(), nil
}

func parseMilestones(raw []string) []*types.Amount {
	out := make([]*types.Amount, 0, len(raw))
	for _, s := range raw {
		amt := types.ZeroAmount()
		if err := amt.SetFromDecimal(s); err != nil {
			continue
		}
		out = append(out, amt)
	}
	return out
}

func parseWhitelist(raw []string) []crypto.Address {
	out := make([]crypto.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := crypto.DecodeAddress(s)
		if err != nil {
			continue
		}
		out = append(out, addr)
	}
	return out
}
