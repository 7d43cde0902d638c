package bc

import (
	"io"

	"vestchain/encoding/blockchain"
)

// TxOutput encodes a single output in a transaction.
type TxOutput struct {
	Amount        uint64
	Program       []byte
	ReferenceData []byte
}

// NewTxOutput creates an output of the given amount
// locked under the given control program.
func NewTxOutput(amount uint64, program, referenceData []byte) *TxOutput {
	return &TxOutput{
		Amount:        amount,
		Program:       program,
		ReferenceData: referenceData,
	}
}

func (out *TxOutput) writeTo(w io.Writer) error {
	_, err := blockchain.WriteVarint63(w, out.Amount)
	if err != nil {
		return err
	}
	_, err = blockchain.WriteVarstr31(w, out.Program)
	if err != nil {
		return err
	}
	_, err = blockchain.WriteVarstr31(w, out.ReferenceData)
	return err
}

func (out *TxOutput) readFrom(r io.Reader) error {
	var err error
	out.Amount, _, err = blockchain.ReadVarint63(r)
	if err != nil {
		return err
	}
	out.Program, _, err = blockchain.ReadVarstr31(r)
	if err != nil {
		return err
	}
	out.ReferenceData, _, err = blockchain.ReadVarstr31(r)
	return err
}
