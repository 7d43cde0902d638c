// Package txdb provides a durable protocol.Store backed by Badger.
// It persists committed transactions by hash and the latest state
// snapshot, so a ledger can be reopened where it left off.
package txdb

import (
	"bytes"
	"context"
	"io"
	"sort"

	badger "github.com/dgraph-io/badger/v2"

	"vestchain/encoding/blockchain"
	"vestchain/env"
	"vestchain/errors"
	"vestchain/protocol/bc"
	"vestchain/protocol/state"
)

var dbDir = env.String("VESTCHAIN_DB_DIR", "vestchain.db")

// ErrNotFound is returned when a requested transaction is not in the
// store.
var ErrNotFound = errors.New("transaction not found")

var snapshotKey = []byte("s/latest")

func txKey(hash bc.Hash) []byte {
	return append([]byte("t/"), hash[:]...)
}

// Store satisfies the protocol.Store interface.
type Store struct {
	db *badger.DB
}

// Open opens the database in dir, creating it if necessary.
// An empty dir uses $VESTCHAIN_DB_DIR.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = *dbDir
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrapf(err, "opening db in %s", dir)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that keeps everything in memory.
// It is useful in tests that exercise the durable codepath.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "opening in-memory db")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTx persists tx under its hash.
func (s *Store) SaveTx(ctx context.Context, tx *bc.Tx) error {
	var buf bytes.Buffer
	_, err := tx.WriteTo(&buf)
	if err != nil {
		return errors.Wrap(err, "serializing tx")
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(txKey(tx.Hash), buf.Bytes())
	})
	return errors.Wrapf(err, "storing tx %s", tx.Hash)
}

// Tx returns the stored transaction with the given hash.
func (s *Store) Tx(ctx context.Context, hash bc.Hash) (*bc.Tx, error) {
	var data bc.TxData
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(txKey(hash))
		if err == badger.ErrKeyNotFound {
			return errors.WithDetailf(ErrNotFound, "tx %s", hash)
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return data.ReadFrom(bytes.NewReader(raw))
	})
	if err != nil {
		return nil, err
	}
	return bc.NewTx(data), nil
}

// SaveSnapshot persists snapshot as the latest state.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot *state.Snapshot) error {
	raw, err := serializeSnapshot(snapshot)
	if err != nil {
		return errors.Wrap(err, "serializing snapshot")
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, raw)
	})
	return errors.Wrap(err, "storing snapshot")
}

// LatestSnapshot returns the most recently saved snapshot, or nil
// when none has been saved.
func (s *Store) LatestSnapshot(ctx context.Context) (*state.Snapshot, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading snapshot")
	}
	if raw == nil {
		return nil, nil
	}
	snapshot, err := parseSnapshot(raw)
	return snapshot, errors.Wrap(err, "parsing snapshot")
}

// serializeSnapshot encodes the live output set: a varint31 count
// followed by each output's outpoint and commitment, in outpoint
// order for determinism.
func serializeSnapshot(snapshot *state.Snapshot) ([]byte, error) {
	outs := make([]*state.Output, 0, len(snapshot.Outputs))
	for _, o := range snapshot.Outputs {
		outs = append(outs, o)
	}
	sort.Slice(outs, func(i, j int) bool {
		a, b := outs[i].Outpoint, outs[j].Outpoint
		if a.Hash != b.Hash {
			return bytes.Compare(a.Hash[:], b.Hash[:]) < 0
		}
		return a.Index < b.Index
	})

	var buf bytes.Buffer
	_, err := blockchain.WriteVarint31(&buf, uint64(len(outs)))
	if err != nil {
		return nil, err
	}
	for _, o := range outs {
		_, err = o.Outpoint.WriteTo(&buf)
		if err != nil {
			return nil, err
		}
		_, err = blockchain.WriteVarint63(&buf, o.Amount)
		if err != nil {
			return nil, err
		}
		_, err = blockchain.WriteVarstr31(&buf, o.Program)
		if err != nil {
			return nil, err
		}
		_, err = blockchain.WriteVarstr31(&buf, o.ReferenceData)
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func parseSnapshot(raw []byte) (*state.Snapshot, error) {
	r := bytes.NewReader(raw)
	n, _, err := blockchain.ReadVarint31(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading output count")
	}
	snapshot := state.Empty()
	for ; n > 0; n-- {
		var p bc.Outpoint
		_, err = io.ReadFull(r, p.Hash[:])
		if err != nil {
			return nil, errors.Wrap(err, "reading outpoint hash")
		}
		p.Index, _, err = blockchain.ReadUint32(r)
		if err != nil {
			return nil, errors.Wrap(err, "reading outpoint index")
		}
		var out bc.TxOutput
		out.Amount, _, err = blockchain.ReadVarint63(r)
		if err != nil {
			return nil, errors.Wrap(err, "reading amount")
		}
		out.Program, _, err = blockchain.ReadVarstr31(r)
		if err != nil {
			return nil, errors.Wrap(err, "reading program")
		}
		out.ReferenceData, _, err = blockchain.ReadVarstr31(r)
		if err != nil {
			return nil, errors.Wrap(err, "reading reference data")
		}
		snapshot.Outputs[p] = state.NewOutput(out, p)
	}
	if r.Len() > 0 {
		return nil, errors.New("trailing snapshot data")
	}
	return snapshot, nil
}
