// Package state tracks the set of live (unspent) outputs.
package state

import (
	"bytes"
	"sort"

	"vestchain/errors"
	"vestchain/protocol/bc"
)

var (
	// ErrMissingOutput is returned when applying a transaction
	// that spends an output not in the snapshot.
	ErrMissingOutput = errors.New("spent output is not in the state snapshot")

	// ErrDuplicateOutput is returned when applying a transaction
	// that would create an output that already exists.
	ErrDuplicateOutput = errors.New("output already exists in the state snapshot")
)

// Output represents a live output available for spending.
type Output struct {
	bc.Outpoint
	bc.TxOutput
}

// NewOutput creates a new Output.
func NewOutput(o bc.TxOutput, p bc.Outpoint) *Output {
	return &Output{
		TxOutput: o,
		Outpoint: p,
	}
}

// Snapshot encompasses the ledger state: the set of live outputs
// keyed by outpoint.
//
// Snapshots are not safe for concurrent modification. The commit
// path copies the current snapshot, applies to the copy, and swaps.
type Snapshot struct {
	Outputs map[bc.Outpoint]*Output
}

// Empty returns an empty state snapshot.
func Empty() *Snapshot {
	return &Snapshot{Outputs: make(map[bc.Outpoint]*Output)}
}

// Copy makes a copy of snapshot original. It is an O(n) operation
// where n is the number of live outputs.
func Copy(original *Snapshot) *Snapshot {
	c := &Snapshot{Outputs: make(map[bc.Outpoint]*Output, len(original.Outputs))}
	for p, o := range original.Outputs {
		c.Outputs[p] = o
	}
	return c
}

// Output returns the live output at outpoint p, or nil.
func (s *Snapshot) Output(p bc.Outpoint) *Output {
	return s.Outputs[p]
}

// ByProgram returns the live outputs locked under the given control
// program, sorted by outpoint for deterministic enumeration.
func (s *Snapshot) ByProgram(program []byte) []*Output {
	var outs []*Output
	for _, o := range s.Outputs {
		if bytes.Equal(o.Program, program) {
			outs = append(outs, o)
		}
	}
	sort.Slice(outs, func(i, j int) bool {
		a, b := outs[i].Outpoint, outs[j].Outpoint
		if a.Hash != b.Hash {
			return bytes.Compare(a.Hash[:], b.Hash[:]) < 0
		}
		return a.Index < b.Index
	})
	return outs
}

// ApplyTx updates s in place: spent outputs are removed and the
// transaction's outputs inserted. Each spent output must be present
// and each new output absent, otherwise s is left unmodified.
func (s *Snapshot) ApplyTx(tx *bc.Tx) error {
	for _, in := range tx.Inputs {
		if in.IsIssuance() {
			continue
		}
		if s.Outputs[in.Previous] == nil {
			return errors.WithDetailf(ErrMissingOutput, "outpoint %s", in.Previous)
		}
	}
	for i := range tx.Outputs {
		p := tx.OutputOutpoint(i)
		if s.Outputs[p] != nil {
			return errors.WithDetailf(ErrDuplicateOutput, "outpoint %s", p)
		}
	}

	for _, in := range tx.Inputs {
		if in.IsIssuance() {
			continue
		}
		delete(s.Outputs, in.Previous)
	}
	for i, out := range tx.Outputs {
		p := tx.OutputOutpoint(i)
		s.Outputs[p] = NewOutput(*out, p)
	}
	return nil
}
