package state

import (
	"testing"

	"vestchain/errors"
	"vestchain/protocol/bc"
)

func issueTx(amount uint64, program []byte) *bc.Tx {
	return bc.NewTx(bc.TxData{
		Version: bc.CurrentTransactionVersion,
		Inputs:  []*bc.TxInput{bc.NewIssuanceInput(amount)},
		Outputs: []*bc.TxOutput{bc.NewTxOutput(amount, program, nil)},
	})
}

func TestApplyTx(t *testing.T) {
	snap := Empty()

	tx1 := issueTx(100, bc.AnyoneProgram())
	err := snap.ApplyTx(tx1)
	if err != nil {
		t.Fatal(err)
	}

	p := tx1.OutputOutpoint(0)
	if snap.Output(p) == nil {
		t.Fatal("issued output missing from snapshot")
	}

	spend := bc.NewTx(bc.TxData{
		Version: bc.CurrentTransactionVersion,
		Inputs:  []*bc.TxInput{bc.NewSpendInput(p, 100, bc.AnyoneProgram(), nil)},
		Outputs: []*bc.TxOutput{bc.NewTxOutput(100, bc.AnyoneProgram(), nil)},
	})
	err = snap.ApplyTx(spend)
	if err != nil {
		t.Fatal(err)
	}

	if snap.Output(p) != nil {
		t.Error("spent output still in snapshot")
	}
	if snap.Output(spend.OutputOutpoint(0)) == nil {
		t.Error("new output missing from snapshot")
	}

	// Spending the same output again must fail.
	err = snap.ApplyTx(spend)
	if errors.Root(err) != ErrMissingOutput {
		t.Errorf("double spend: got %v, want ErrMissingOutput", err)
	}
}

func TestApplyTxAtomic(t *testing.T) {
	snap := Empty()
	tx1 := issueTx(100, bc.AnyoneProgram())
	if err := snap.ApplyTx(tx1); err != nil {
		t.Fatal(err)
	}

	// One good input, one missing input: nothing should change.
	bogus := bc.Outpoint{Hash: bc.NewHash([]byte("nope")), Index: 0}
	bad := bc.NewTx(bc.TxData{
		Version: bc.CurrentTransactionVersion,
		Inputs: []*bc.TxInput{
			bc.NewSpendInput(tx1.OutputOutpoint(0), 100, bc.AnyoneProgram(), nil),
			bc.NewSpendInput(bogus, 1, bc.AnyoneProgram(), nil),
		},
		Outputs: []*bc.TxOutput{bc.NewTxOutput(101, bc.AnyoneProgram(), nil)},
	})
	err := snap.ApplyTx(bad)
	if errors.Root(err) != ErrMissingOutput {
		t.Fatalf("got %v, want ErrMissingOutput", err)
	}
	if snap.Output(tx1.OutputOutpoint(0)) == nil {
		t.Error("failed apply must not consume inputs")
	}
}

func TestByProgram(t *testing.T) {
	snap := Empty()
	keyProg := bc.KeyProgram(bc.NewHash([]byte("a key")))

	if err := snap.ApplyTx(issueTx(1, keyProg)); err != nil {
		t.Fatal(err)
	}
	if err := snap.ApplyTx(issueTx(2, keyProg)); err != nil {
		t.Fatal(err)
	}
	if err := snap.ApplyTx(issueTx(3, bc.AnyoneProgram())); err != nil {
		t.Fatal(err)
	}

	outs := snap.ByProgram(keyProg)
	if len(outs) != 2 {
		t.Fatalf("ByProgram found %d outputs, want 2", len(outs))
	}
	var total uint64
	for _, o := range outs {
		total += o.Amount
	}
	if total != 3 {
		t.Errorf("ByProgram total = %d, want 3", total)
	}

	// Copy must not share mutations.
	c := Copy(snap)
	delete(c.Outputs, outs[0].Outpoint)
	if snap.Output(outs[0].Outpoint) == nil {
		t.Error("mutating a copy leaked into the original")
	}
}
