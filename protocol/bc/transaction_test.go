package bc

import (
	"bytes"
	"testing"
)

func TestTransactionRoundTrip(t *testing.T) {
	prevHash := NewHash([]byte("prevtx"))
	tx := TxData{
		Version:   CurrentTransactionVersion,
		MinTimeMS: 1000,
		MaxTimeMS: 2000,
		Inputs: []*TxInput{
			NewSpendInput(Outpoint{Hash: prevHash, Index: 0}, 50, AnyoneProgram(), [][]byte{[]byte("arg")}),
			NewIssuanceInput(25),
		},
		Outputs: []*TxOutput{
			NewTxOutput(75, KeyProgram(NewHash([]byte("key"))), nil),
		},
		ReferenceData: []byte("memo"),
	}

	var buf bytes.Buffer
	_, err := tx.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}

	var got TxData
	err = got.ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got.Hash() != tx.Hash() {
		t.Errorf("round trip changed tx hash: got %s, want %s", got.Hash(), tx.Hash())
	}
	if len(got.Inputs) != 2 || len(got.Outputs) != 1 {
		t.Fatalf("round trip lost inputs or outputs: %+v", got)
	}
	if !bytes.Equal(got.Inputs[0].Arguments[0], []byte("arg")) {
		t.Errorf("round trip lost witness arguments")
	}
	if !got.Inputs[1].IsIssuance() {
		t.Errorf("issuance input lost its marker")
	}
}

func TestIssuanceTxIdentity(t *testing.T) {
	// The issuance sentinel index must serialize, and distinct
	// issuance txs must keep distinct hashes.
	tx1 := TxData{
		Version: CurrentTransactionVersion,
		Inputs:  []*TxInput{NewIssuanceInput(10)},
		Outputs: []*TxOutput{NewTxOutput(10, AnyoneProgram(), nil)},
	}
	tx2 := TxData{
		Version: CurrentTransactionVersion,
		Inputs:  []*TxInput{NewIssuanceInput(10)},
		Outputs: []*TxOutput{NewTxOutput(10, KeyProgram(NewHash([]byte("key"))), nil)},
	}

	var buf bytes.Buffer
	if _, err := tx1.WriteTo(&buf); err != nil {
		t.Fatalf("serializing issuance tx: %v", err)
	}
	var got TxData
	if err := got.ReadFrom(&buf); err != nil {
		t.Fatalf("parsing issuance tx: %v", err)
	}
	if !got.Inputs[0].IsIssuance() {
		t.Error("issuance marker lost in round trip")
	}
	if got.Hash() != tx1.Hash() {
		t.Errorf("round trip changed issuance tx hash: got %s, want %s", got.Hash(), tx1.Hash())
	}

	if tx1.Hash() == tx2.Hash() {
		t.Error("issuance txs with different outputs must not share a hash")
	}

	tx3 := tx1
	tx3.Inputs = []*TxInput{NewIssuanceInput(11)}
	tx3.Outputs = []*TxOutput{NewTxOutput(11, AnyoneProgram(), nil)}
	if tx1.Hash() == tx3.Hash() {
		t.Error("issuance txs with different amounts must not share a hash")
	}
}

func TestHashExcludesWitness(t *testing.T) {
	prev := Outpoint{Hash: NewHash([]byte("prevtx")), Index: 1}
	tx1 := TxData{
		Version: CurrentTransactionVersion,
		Inputs:  []*TxInput{NewSpendInput(prev, 10, AnyoneProgram(), nil)},
		Outputs: []*TxOutput{NewTxOutput(10, AnyoneProgram(), nil)},
	}
	tx2 := TxData{
		Version: CurrentTransactionVersion,
		Inputs:  []*TxInput{NewSpendInput(prev, 10, AnyoneProgram(), [][]byte{[]byte("sig")})},
		Outputs: []*TxOutput{NewTxOutput(10, AnyoneProgram(), nil)},
	}

	if tx1.Hash() != tx2.Hash() {
		t.Error("witness arguments must not affect the tx hash")
	}

	tx2.Outputs[0].Amount = 11
	if tx1.Hash() == tx2.Hash() {
		t.Error("output amount must affect the tx hash")
	}
}

func TestParseProgram(t *testing.T) {
	keyHash := NewHash([]byte("some key"))

	cases := []struct {
		prog    []byte
		typ     byte
		hash    Hash
		wantErr bool
	}{
		{AnyoneProgram(), ProgTypeAnyone, Hash{}, false},
		{NeverProgram(), ProgTypeNever, Hash{}, false},
		{KeyProgram(keyHash), ProgTypeKey, keyHash, false},
		{VestingProgram(keyHash), ProgTypeVesting, keyHash, false},
		{nil, 0, Hash{}, true},
		{[]byte{ProgTypeKey, 1, 2}, 0, Hash{}, true},
		{[]byte{0x77}, 0, Hash{}, true},
	}

	for i, c := range cases {
		typ, h, err := ParseProgram(c.prog)
		if c.wantErr {
			if err == nil {
				t.Errorf("case %d: ParseProgram(%x) succeeded, want error", i, c.prog)
			}
			continue
		}
		if err != nil {
			t.Errorf("case %d: ParseProgram(%x): %v", i, c.prog, err)
			continue
		}
		if typ != c.typ || h != c.hash {
			t.Errorf("case %d: got (%#x, %s), want (%#x, %s)", i, typ, h, c.typ, c.hash)
		}
	}
}

func TestHashText(t *testing.T) {
	h := NewHash([]byte("vestchain"))
	s := h.String()
	got, err := ParseHash(s)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Errorf("ParseHash(%q) = %s, want %s", s, got, h)
	}

	_, err = ParseHash("abc")
	if err == nil {
		t.Error("ParseHash of short string should fail")
	}
}
