package txbuilder

import (
	"context"

	"vestchain/protocol/bc"
	"vestchain/protocol/state"
)

// Issue returns an action issuing amount units of new value.
func Issue(amount uint64) Action {
	return issueAction{amount: amount}
}

type issueAction struct {
	amount uint64
}

func (a issueAction) Build(ctx context.Context, b *TemplateBuilder) error {
	return b.AddInput(bc.NewIssuanceInput(a.amount), &SigningInstruction{})
}

// ControlProgram returns an action adding an output paying amount to
// the given control program.
func ControlProgram(amount uint64, program, refData []byte) Action {
	return controlProgramAction{amount: amount, program: program, refData: refData}
}

type controlProgramAction struct {
	amount  uint64
	program []byte
	refData []byte
}

func (a controlProgramAction) Build(ctx context.Context, b *TemplateBuilder) error {
	return b.AddOutput(bc.NewTxOutput(a.amount, a.program, a.refData))
}

// ControlWithKey returns an action adding an output spendable by the
// key whose hash is keyHash.
func ControlWithKey(amount uint64, keyHash bc.Hash) Action {
	return controlProgramAction{amount: amount, program: bc.KeyProgram(keyHash)}
}

// SpendOutput returns an action spending a known live output, to be
// satisfied with a signature by pubKey.
func SpendOutput(out *state.Output, pubKey []byte) Action {
	return spendOutputAction{out: out, pubKey: pubKey}
}

type spendOutputAction struct {
	out    *state.Output
	pubKey []byte
}

func (a spendOutputAction) Build(ctx context.Context, b *TemplateBuilder) error {
	in := bc.NewSpendInput(a.out.Outpoint, a.out.Amount, a.out.Program, nil)
	si := &SigningInstruction{}
	si.AddWitnessKey(a.pubKey)
	return b.AddInput(in, si)
}

// SetTxRefData returns an action setting the transaction-level
// reference data.
func SetTxRefData(data []byte) Action {
	return setTxRefDataAction{data: data}
}

type setTxRefDataAction struct {
	data []byte
}

func (a setTxRefDataAction) Build(ctx context.Context, b *TemplateBuilder) error {
	return b.setReferenceData(a.data)
}
