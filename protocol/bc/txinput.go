package bc

import (
	"io"

	"vestchain/encoding/blockchain"
)

// TxInput encodes a single input in a transaction.
//
// A spend input commits to the output it consumes: the outpoint plus
// a copy of the output's amount and control program. The witness
// argument list carries whatever data satisfies the program (revealed
// terms, public keys, signatures) and is excluded from the
// transaction hash.
type TxInput struct {
	Previous Outpoint
	Amount   uint64
	Program  []byte

	// Witness
	Arguments [][]byte
}

// NewSpendInput creates a spend of the output at the given outpoint.
// amount and program must match the output being spent.
func NewSpendInput(prev Outpoint, amount uint64, program []byte, arguments [][]byte) *TxInput {
	return &TxInput{
		Previous:  prev,
		Amount:    amount,
		Program:   program,
		Arguments: arguments,
	}
}

// NewIssuanceInput creates an input that issues the given amount.
func NewIssuanceInput(amount uint64) *TxInput {
	return &TxInput{
		Previous: Outpoint{Index: InvalidOutputIndex},
		Amount:   amount,
	}
}

// IsIssuance returns true if in issues new value
// rather than spending an existing output.
func (in *TxInput) IsIssuance() bool {
	return in.Previous.Index == InvalidOutputIndex
}

func (in *TxInput) writeTo(w io.Writer, serflags byte) error {
	_, err := in.Previous.WriteTo(w)
	if err != nil {
		return err
	}
	_, err = blockchain.WriteVarint63(w, in.Amount)
	if err != nil {
		return err
	}
	_, err = blockchain.WriteVarstr31(w, in.Program)
	if err != nil {
		return err
	}
	if serflags&SerWitness != 0 {
		_, err = blockchain.WriteVarstrList(w, in.Arguments)
		if err != nil {
			return err
		}
	}
	return nil
}

func (in *TxInput) readFrom(r io.Reader) error {
	_, err := in.Previous.readFrom(r)
	if err != nil {
		return err
	}
	in.Amount, _, err = blockchain.ReadVarint63(r)
	if err != nil {
		return err
	}
	in.Program, _, err = blockchain.ReadVarstr31(r)
	if err != nil {
		return err
	}
	in.Arguments, _, err = blockchain.ReadVarstrList(r)
	return err
}
