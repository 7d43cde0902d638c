package vest

import (
	"bytes"
	"context"

	"vestchain/core/txbuilder"
	"vestchain/errors"
	"vestchain/protocol/bc"
	"vestchain/protocol/state"
	"vestchain/protocol/vesting"
)

// ErrTermsMismatch means a release action was given terms that do not
// hash to the control program of the output it is spending.
var ErrTermsMismatch = errors.New("terms do not match the locked output's program")

// LockAction returns an action adding an output locking amount under
// terms.
func LockAction(terms vesting.Terms, amount uint64) txbuilder.Action {
	return lockAction{terms: terms, amount: amount}
}

type lockAction struct {
	terms  vesting.Terms
	amount uint64
}

func (a lockAction) Build(ctx context.Context, b *txbuilder.TemplateBuilder) error {
	return b.AddOutput(bc.NewTxOutput(a.amount, a.terms.Program(), nil))
}

// ReleaseAction returns an action spending out, revealing terms in
// the witness and requesting a signature by pubKey. It constrains the
// transaction's validity window to open no earlier than the terms'
// maturity time, since an earlier window could never validate.
func ReleaseAction(out *state.Output, terms vesting.Terms, pubKey []byte) txbuilder.Action {
	return releaseAction{out: out, terms: terms, pubKey: pubKey}
}

type releaseAction struct {
	out    *state.Output
	terms  vesting.Terms
	pubKey []byte
}

func (a releaseAction) Build(ctx context.Context, b *txbuilder.TemplateBuilder) error {
	if !bytes.Equal(a.out.Program, a.terms.Program()) {
		return errors.WithDetailf(ErrTermsMismatch, "outpoint %s", a.out.Outpoint)
	}
	in := bc.NewSpendInput(a.out.Outpoint, a.out.Amount, a.out.Program, nil)
	si := &txbuilder.SigningInstruction{}
	si.AddWitnessData(a.terms.Bytes())
	si.AddWitnessKey(a.pubKey)
	b.RestrictMinTimeMS(a.terms.MaturityMS)
	return b.AddInput(in, si)
}

// spendAnyoneAction spends an anyone-can-spend output. No witness is
// required.
type spendAnyoneAction struct {
	out *state.Output
}

func (a spendAnyoneAction) Build(ctx context.Context, b *txbuilder.TemplateBuilder) error {
	in := bc.NewSpendInput(a.out.Outpoint, a.out.Amount, a.out.Program, nil)
	return b.AddInput(in, &txbuilder.SigningInstruction{})
}
