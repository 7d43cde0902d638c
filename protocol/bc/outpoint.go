package bc

import (
	"io"
	"strconv"

	"vestchain/encoding/blockchain"
)

// Outpoint is a raw txhash+index pointer to an output.
type Outpoint struct {
	Hash  Hash   `json:"hash"`
	Index uint32 `json:"index"`
}

// NewOutpoint returns a new Outpoint referencing
// output index of the transaction with the given hash.
func NewOutpoint(b []byte, index uint32) *Outpoint {
	result := &Outpoint{Index: index}
	copy(result.Hash[:], b)
	return result
}

// String returns the Outpoint in the human-readable form "hash:index".
func (p Outpoint) String() string {
	return p.Hash.String() + ":" + strconv.FormatUint(uint64(p.Index), 10)
}

// WriteTo writes p to w. The index is fixed-width so the issuance
// sentinel InvalidOutputIndex encodes like any other value.
func (p Outpoint) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Hash[:])
	if err != nil {
		return int64(n), err
	}
	n2, err := blockchain.WriteUint32(w, p.Index)
	return int64(n + n2), err
}

func (p *Outpoint) readFrom(r io.Reader) (int, error) {
	n, err := io.ReadFull(r, p.Hash[:])
	if err != nil {
		return n, err
	}
	index, n2, err := blockchain.ReadUint32(r)
	if err != nil {
		return n + n2, err
	}
	p.Index = index
	return n + n2, nil
}
