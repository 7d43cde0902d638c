// Package memstore provides a Store implementation that keeps all
// data in memory. It is used in tests and is not for production use.
package memstore

import (
	"context"
	"sync"

	"vestchain/protocol/bc"
	"vestchain/protocol/state"
)

// MemStore satisfies the protocol.Store interface.
type MemStore struct {
	mu       sync.Mutex
	Txs      map[bc.Hash]*bc.Tx
	Snapshot *state.Snapshot
}

// New returns a new MemStore.
func New() *MemStore {
	return &MemStore{Txs: make(map[bc.Hash]*bc.Tx)}
}

func (m *MemStore) SaveTx(ctx context.Context, tx *bc.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Txs[tx.Hash] = tx
	return nil
}

func (m *MemStore) SaveSnapshot(ctx context.Context, snapshot *state.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshot = state.Copy(snapshot)
	return nil
}

func (m *MemStore) LatestSnapshot(ctx context.Context) (*state.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot == nil {
		return nil, nil
	}
	return state.Copy(m.Snapshot), nil
}
