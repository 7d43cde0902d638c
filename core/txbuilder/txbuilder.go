// Package txbuilder builds ledger transactions from a list of
// actions, producing a template carrying signing instructions for
// each input. Build partners satisfy the instructions, then the
// template is finalized into a committed transaction.
package txbuilder

import (
	"context"
	"time"

	"vestchain/errors"
	"vestchain/protocol/bc"
)

var (
	// ErrBadRefData means a build or action tried to set transaction
	// reference data conflicting with data already set.
	ErrBadRefData = errors.New("transaction reference data does not match previous template's reference data")

	// ErrBadAmount is returned for amounts exceeding the maximum
	// value of int64.
	ErrBadAmount = errors.New("invalid asset amount")

	// ErrBadInstructionCount means a template carries more signing
	// instructions than its transaction has inputs.
	ErrBadInstructionCount = errors.New("too many signing instructions in template")

	// ErrBadTxInputIdx means a signing instruction references a
	// missing transaction input.
	ErrBadTxInputIdx = errors.New("unsigned tx missing input")
)

// Template represents a partially- or fully-signed transaction.
type Template struct {
	Transaction         *bc.TxData
	SigningInstructions []*SigningInstruction

	// Local is true if this template was built locally from scratch,
	// as opposed to adding onto a base transaction.
	Local bool
}

// SigHash returns the hash signing instructions commit to:
// the witness-independent hash of the template's transaction.
func (t *Template) SigHash() [32]byte {
	return bc.NewTx(*t.Transaction).SigHash()
}

// SigningInstruction gives directions for satisfying one input of a
// template's transaction.
type SigningInstruction struct {
	Position          int
	WitnessComponents []WitnessComponent
}

// AddWitnessData adds a DataWitness for revealing data (such as
// serialized vesting terms) in the input witness.
func (si *SigningInstruction) AddWitnessData(data []byte) {
	si.WitnessComponents = append(si.WitnessComponents, DataWitness(data))
}

// AddWitnessKey adds a SignatureWitness requesting a signature by
// pubKey, the 33-byte compressed encoding of a public key.
func (si *SigningInstruction) AddWitnessKey(pubKey []byte) {
	si.WitnessComponents = append(si.WitnessComponents, &SignatureWitness{PubKey: pubKey})
}

// Action contributes inputs, outputs, and signing instructions to a
// transaction under construction.
type Action interface {
	Build(context.Context, *TemplateBuilder) error
}

// Build builds or adds on to a transaction. Initially, inputs are
// left unconsumed, and destinations unsatisfied. Build partners then
// satisfy and consume inputs and destinations. The final party must
// ensure that the transaction is balanced before finalizing.
func Build(ctx context.Context, tx *bc.TxData, actions []Action, maxTime time.Time) (*Template, error) {
	builder := TemplateBuilder{
		base:      tx,
		maxTimeMS: bc.Millis(maxTime),
	}

	for i, action := range actions {
		err := action.Build(ctx, &builder)
		if err != nil {
			builder.rollback()
			return nil, errors.WithDetailf(err, "invalid action %d", i)
		}
	}

	tpl, err := builder.Build()
	if err != nil {
		builder.rollback()
		return nil, err
	}
	return tpl, nil
}

// Sign satisfies the template's signing instructions using signFn,
// then materializes the witnesses into the transaction's inputs.
func Sign(ctx context.Context, tpl *Template, signFn SignFunc) error {
	for i, sigInst := range tpl.SigningInstructions {
		for j, c := range sigInst.WitnessComponents {
			err := c.Sign(ctx, tpl, signFn)
			if err != nil {
				return errors.WithDetailf(err, "adding signature(s) to witness component %d of input %d", j, i)
			}
		}
	}
	return materializeWitnesses(tpl)
}

// materializeWitnesses turns each signing instruction's components
// into the argument vector for the corresponding input witness.
func materializeWitnesses(tpl *Template) error {
	tx := tpl.Transaction
	if len(tpl.SigningInstructions) > len(tx.Inputs) {
		return errors.Wrap(ErrBadInstructionCount)
	}
	for i, sigInst := range tpl.SigningInstructions {
		if sigInst.Position >= len(tx.Inputs) || tx.Inputs[sigInst.Position] == nil {
			return errors.WithDetailf(ErrBadTxInputIdx, "signing instruction %d references missing tx input %d", i, sigInst.Position)
		}

		var witness [][]byte
		for j, c := range sigInst.WitnessComponents {
			err := c.Materialize(&witness)
			if err != nil {
				return errors.WithDetailf(err, "error in witness component %d of input %d", j, i)
			}
		}
		tx.Inputs[sigInst.Position].Arguments = witness
	}
	return nil
}
