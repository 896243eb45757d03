package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"weidex/config"
	"weidex/core"
	"weidex/core/events"
	nativecommon "weidex/native/common"
	"weidex/rpc"
	"weidex/storage"
	"weidex/storage/archive"
)

// node holds the long-lived components of a running daemon.
type node struct {
	db        storage.Database
	archive   *archive.Archive
	hub       *events.Hub
	processor *core.Processor
	server    *rpc.Server
}

// statePath returns where the state backend lives under the data directory.
func statePath(cfg *config.Config) string {
	if strings.EqualFold(strings.TrimSpace(cfg.Backend), storage.BackendBolt) {
		return filepath.Join(cfg.DataDir, "state.db")
	}
	return filepath.Join(cfg.DataDir, "state")
}

func archivePath(cfg *config.Config) string {
	path := strings.TrimSpace(cfg.EventArchive)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.DataDir, path)
}

// newNode opens storage, wires the processor and writes the genesis on first
// start.
func newNode(cfg *config.Config, logger *slog.Logger) (*node, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := storage.Open(cfg.Backend, statePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	n := &node{db: db, hub: events.NewHub()}

	sinks := events.Multi{n.hub}
	if path := archivePath(cfg); path != "" {
		n.archive, err = archive.Open(path, logger)
		if err != nil {
			n.Close()
			return nil, err
		}
		sinks = append(sinks, n.archive)
	}

	n.processor, err = core.NewProcessor(db, core.Options{
		Vault:   common.HexToAddress(cfg.VaultAddress),
		Quota:   nativecommon.Quota{MaxBatchOrders: cfg.MaxBatchOrders},
		Logger:  logger,
		Emitter: sinks,
	})
	if err != nil {
		n.Close()
		return nil, err
	}

	spec, err := cfg.GenesisSpec()
	if err != nil {
		n.Close()
		return nil, err
	}
	g, err := spec.Resolve()
	if err != nil {
		n.Close()
		return nil, err
	}
	wrote, err := n.processor.Bootstrap(g)
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("apply genesis: %w", err)
	}
	if wrote {
		logger.Info("genesis applied",
			slog.String("owner", g.Owner.Hex()),
			slog.Int("allocations", len(g.Alloc)),
			slog.Uint64("height", g.StartHeight))
	}

	opts := rpc.Options{
		Logger: logger,
		Hub:    n.hub,
		RateLimit: rpc.RateLimit{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		},
		MaxOrders: cfg.MaxBatchOrders,
	}
	if n.archive != nil {
		opts.Archive = n.archive
	}
	n.server = rpc.NewServer(n.processor, opts)
	return n, nil
}

// Close releases storage. It is safe on a partially built node.
func (n *node) Close() {
	if n.archive != nil {
		_ = n.archive.Close()
	}
	if n.db != nil {
		n.db.Close()
	}
}
