/*

Package protocol provides the ledger: the single serialized commit
point for transactions, plus queries over the resulting state.

A ledger is backed by a Store, which persists committed transactions
and state snapshots. Commits follow a copy-apply-swap discipline: the
current snapshot is copied, the transaction applied to the copy, the
copy persisted, and only then installed as the new current snapshot.
Readers therefore always see a complete, consistent snapshot.

*/
package protocol

import (
	"context"
	"sync"
	"time"

	"vestchain/errors"
	"vestchain/log"
	"vestchain/metrics"
	"vestchain/protocol/bc"
	"vestchain/protocol/state"
	"vestchain/protocol/validation"
)

// Store provides storage for committed transactions and state
// snapshots. Implementations must allow the latest snapshot to be
// recovered after a restart.
type Store interface {
	SaveTx(context.Context, *bc.Tx) error
	SaveSnapshot(context.Context, *state.Snapshot) error

	// LatestSnapshot returns the most recently saved snapshot,
	// or nil when no snapshot has been saved.
	LatestSnapshot(context.Context) (*state.Snapshot, error)
}

// Ledger holds the live output set and coordinates transaction
// commits against it. Methods are safe for concurrent use.
type Ledger struct {
	store Store

	commitMu sync.Mutex // serializes commits

	mu       sync.RWMutex // protects the following
	snapshot *state.Snapshot
}

// NewLedger returns a new Ledger backed by store, initialized from
// the store's latest snapshot. A store with no snapshot yields an
// empty ledger.
func NewLedger(ctx context.Context, store Store) (*Ledger, error) {
	snapshot, err := store.LatestSnapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading latest snapshot")
	}
	if snapshot == nil {
		snapshot = state.Empty()
	}
	return &Ledger{store: store, snapshot: snapshot}, nil
}

// Snapshot returns the current state snapshot.
// Callers must treat it as read-only.
func (l *Ledger) Snapshot() *state.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

// LockedOutputs returns the live outputs locked under program,
// in deterministic order.
func (l *Ledger) LockedOutputs(program []byte) []*state.Output {
	return l.Snapshot().ByProgram(program)
}

// ValidateTx checks tx against the current snapshot at the current
// time, without committing it.
func (l *Ledger) ValidateTx(tx *bc.Tx) error {
	err := validation.CheckTxWellFormed(tx)
	if err != nil {
		return err
	}
	return validation.ConfirmTx(l.Snapshot(), bc.NowMillis(), tx)
}

// CommitTx validates tx at the current time and, if valid, applies
// it to the ledger state and persists the result.
func (l *Ledger) CommitTx(ctx context.Context, tx *bc.Tx) error {
	return l.CommitTxAt(ctx, bc.NowMillis(), tx)
}

// CommitTxAt is CommitTx with an explicit timestamp, in Unix
// milliseconds. The timestamp must fall within the transaction's
// declared validity window.
//
// Validation failures keep their original roots, so callers can
// distinguish rejection reasons with errors.Root.
func (l *Ledger) CommitTxAt(ctx context.Context, timestampMS uint64, tx *bc.Tx) error {
	defer metrics.RecordElapsed(time.Now())

	l.commitMu.Lock()
	defer l.commitMu.Unlock()

	err := validation.CheckTxWellFormed(tx)
	if err != nil {
		return err
	}

	snapshot := state.Copy(l.Snapshot())
	err = validation.ConfirmTx(snapshot, timestampMS, tx)
	if err != nil {
		return err
	}
	err = snapshot.ApplyTx(tx)
	if err != nil {
		return errors.Wrap(err, "applying tx")
	}

	err = l.store.SaveTx(ctx, tx)
	if err != nil {
		return errors.Wrap(err, "storing committed tx")
	}
	err = l.store.SaveSnapshot(ctx, snapshot)
	if err != nil {
		return errors.Wrap(err, "storing state snapshot")
	}

	l.mu.Lock()
	l.snapshot = snapshot
	l.mu.Unlock()

	log.Write(ctx,
		"message", "committed tx",
		"txid", tx.Hash,
		"timestamp", timestampMS,
		"outputs", len(tx.Outputs),
	)
	return nil
}
