package bc

import (
	"bytes"
	"encoding/hex"
	"io"

	"vestchain/crypto/sha3pool"
	"vestchain/encoding/blockchain"
	"vestchain/errors"
)

const (
	// CurrentTransactionVersion is the current latest
	// supported transaction version.
	CurrentTransactionVersion = 1

	// InvalidOutputIndex indicates an issuance input.
	InvalidOutputIndex uint32 = 0xffffffff
)

// Serialization flags for writeTo.
const (
	// SerWitness includes witness arguments in the serialization.
	// The transaction hash is computed without them so that
	// signatures can cover the hash.
	SerWitness byte = 1 << iota
)

// ErrBadTxSerialization is returned when parsing a malformed
// transaction serialization.
var ErrBadTxSerialization = errors.New("malformed transaction serialization")

// Tx holds a transaction along with its hash.
type Tx struct {
	TxData
	Hash Hash
}

// NewTx returns a new Tx containing data and its hash.
// If you have already computed the hash, use struct literal
// notation to make a Tx object directly.
func NewTx(data TxData) *Tx {
	return &Tx{
		TxData: data,
		Hash:   data.Hash(),
	}
}

// TxData encodes a transaction in the ledger.
// Most users will want to use Tx instead;
// it includes the hash.
type TxData struct {
	Version   uint32
	Inputs    []*TxInput
	Outputs   []*TxOutput
	MinTimeMS uint64
	MaxTimeMS uint64

	// ReferenceData is opaque caller-supplied data
	// committed to by the transaction hash.
	ReferenceData []byte
}

// Hash computes the transaction hash over the witness-stripped
// serialization of tx. Writes to the hash state cannot fail, and all
// fixed-width fields encode unconditionally, so the only remaining
// failure is a range error on a count or length; that indicates a
// corrupt in-memory transaction and panics rather than producing a
// truncated, colliding hash.
func (tx *TxData) Hash() Hash {
	h := sha3pool.Get256()
	err := tx.writeTo(h, 0)
	if err != nil {
		panic(err)
	}
	var v Hash
	h.Sum(v[:0])
	sha3pool.Put256(h)
	return v
}

// SigHash returns the hash that must be signed to authorize
// spending tx's inputs. It is the transaction hash: witness
// arguments are excluded, so adding signatures does not
// invalidate earlier ones.
func (tx *TxData) SigHash() Hash {
	return tx.Hash()
}

// OutputOutpoint returns the outpoint of tx's output at index i.
func (tx *Tx) OutputOutpoint(i int) Outpoint {
	return Outpoint{Hash: tx.Hash, Index: uint32(i)}
}

// MarshalText satisfies the encoding.TextMarshaler interface.
func (tx *TxData) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	_, err := tx.WriteTo(&buf)
	if err != nil {
		return nil, err
	}
	b := make([]byte, hex.EncodedLen(buf.Len()))
	hex.Encode(b, buf.Bytes())
	return b, nil
}

// UnmarshalText satisfies the encoding.TextUnmarshaler interface.
func (tx *TxData) UnmarshalText(p []byte) error {
	b := make([]byte, hex.DecodedLen(len(p)))
	_, err := hex.Decode(b, p)
	if err != nil {
		return err
	}
	return tx.ReadFrom(bytes.NewReader(b))
}

// WriteTo writes tx to w, including witness data.
func (tx *TxData) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := tx.writeTo(cw, SerWitness)
	return cw.n, err
}

func (tx *TxData) writeTo(w io.Writer, serflags byte) error {
	_, err := blockchain.WriteVarint31(w, uint64(tx.Version))
	if err != nil {
		return err
	}
	_, err = blockchain.WriteVarint63(w, tx.MinTimeMS)
	if err != nil {
		return err
	}
	_, err = blockchain.WriteVarint63(w, tx.MaxTimeMS)
	if err != nil {
		return err
	}
	_, err = blockchain.WriteVarint31(w, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}
	for _, in := range tx.Inputs {
		err = in.writeTo(w, serflags)
		if err != nil {
			return err
		}
	}
	_, err = blockchain.WriteVarint31(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}
	for _, out := range tx.Outputs {
		err = out.writeTo(w)
		if err != nil {
			return err
		}
	}
	_, err = blockchain.WriteVarstr31(w, tx.ReferenceData)
	return err
}

// ReadFrom reads a serialized transaction from r into tx.
// Parse failures have ErrBadTxSerialization as their root.
func (tx *TxData) ReadFrom(r io.Reader) error {
	return errors.Sub(ErrBadTxSerialization, tx.readFrom(r))
}

func (tx *TxData) readFrom(r io.Reader) error {
	version, _, err := blockchain.ReadVarint31(r)
	if err != nil {
		return errors.Wrap(err, "reading version")
	}
	tx.Version = version
	tx.MinTimeMS, _, err = blockchain.ReadVarint63(r)
	if err != nil {
		return errors.Wrap(err, "reading min time")
	}
	tx.MaxTimeMS, _, err = blockchain.ReadVarint63(r)
	if err != nil {
		return errors.Wrap(err, "reading max time")
	}
	nin, _, err := blockchain.ReadVarint31(r)
	if err != nil {
		return errors.Wrap(err, "reading input count")
	}
	for ; nin > 0; nin-- {
		in := new(TxInput)
		err = in.readFrom(r)
		if err != nil {
			return errors.Wrap(err, "reading input")
		}
		tx.Inputs = append(tx.Inputs, in)
	}
	nout, _, err := blockchain.ReadVarint31(r)
	if err != nil {
		return errors.Wrap(err, "reading output count")
	}
	for ; nout > 0; nout-- {
		out := new(TxOutput)
		err = out.readFrom(r)
		if err != nil {
			return errors.Wrap(err, "reading output")
		}
		tx.Outputs = append(tx.Outputs, out)
	}
	tx.ReferenceData, _, err = blockchain.ReadVarstr31(r)
	return errors.Wrap(err, "reading reference data")
}

// countWriter counts bytes written through it.
type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
