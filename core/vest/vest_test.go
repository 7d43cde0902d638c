package vest

import (
	"bytes"
	"context"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"

	"vestchain/core/txbuilder"
	"vestchain/errors"
	"vestchain/protocol/bc"
	"vestchain/protocol/prottest"
	"vestchain/protocol/vesting"
	"vestchain/testutil"
)

func signFn(keys ...*secp256k1.PrivateKey) txbuilder.SignFunc {
	return func(ctx context.Context, pubKey []byte, hash [32]byte) ([]byte, error) {
		for _, k := range keys {
			if bytes.Equal(k.PubKey().SerializeCompressed(), pubKey) {
				sig, err := schnorr.Sign(k, hash[:])
				if err != nil {
					return nil, err
				}
				return sig.Serialize(), nil
			}
		}
		return nil, errors.New("no key available")
	}
}

func TestLockAndRelease(t *testing.T) {
	ctx := context.Background()
	s := NewService(prottest.NewLedger(t))
	key := testutil.TestKey(1)
	terms := vesting.Terms{Beneficiary: testutil.TestKeyHash(1), MaturityMS: 20000}

	_, err := s.Lock(ctx, terms, 100)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if got := s.LockedTotal(terms); got != 100 {
		t.Fatalf("locked total = %d, want 100", got)
	}

	// The lock remembers its terms by control program.
	if remembered, ok := s.Terms(terms.Program()); !ok || remembered != terms {
		t.Errorf("Terms(program) = %v, %v; want %v, true", remembered, ok, terms)
	}

	// Too early: the built window cannot open before maturity, so a
	// commit before maturity is rejected.
	_, err = s.ReleaseAt(ctx, terms.MaturityMS-1, terms, key.PubKey().SerializeCompressed(), signFn(key))
	if errors.Root(err) != txbuilder.ErrRejected {
		t.Errorf("early release: got %v, want ErrRejected", err)
	}
	if got := s.LockedTotal(terms); got != 100 {
		t.Errorf("locked total after failed release = %d, want 100", got)
	}

	// At maturity the beneficiary can claim.
	tx, err := s.ReleaseAt(ctx, terms.MaturityMS, terms, key.PubKey().SerializeCompressed(), signFn(key))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if got := s.LockedTotal(terms); got != 0 {
		t.Errorf("locked total after release = %d, want 0", got)
	}

	// The released amount is now held by the beneficiary's key.
	out := s.ledger.Snapshot().Output(tx.OutputOutpoint(0))
	if out == nil {
		t.Fatal("release output missing from ledger")
	}
	if !bytes.Equal(out.Program, bc.KeyProgram(terms.Beneficiary)) {
		t.Error("release output is not locked to the beneficiary's key")
	}
	if out.Amount != 100 {
		t.Errorf("release output amount = %d, want 100", out.Amount)
	}
}

func TestReleaseWrongSigner(t *testing.T) {
	ctx := context.Background()
	s := NewService(prottest.NewLedger(t))
	mallory := testutil.TestKey(2)
	terms := vesting.Terms{Beneficiary: testutil.TestKeyHash(1), MaturityMS: 20000}

	if _, err := s.Lock(ctx, terms, 50); err != nil {
		testutil.FatalErr(t, err)
	}

	// Mallory signs validly, but is not the beneficiary.
	_, err := s.ReleaseAt(ctx, terms.MaturityMS, terms, mallory.PubKey().SerializeCompressed(), signFn(mallory))
	if errors.Root(err) != vesting.ErrWrongSigner {
		t.Errorf("got %v, want ErrWrongSigner", err)
	}
	if got := s.LockedTotal(terms); got != 50 {
		t.Errorf("locked total after failed release = %d, want 50", got)
	}
}

func TestReleaseIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewService(prottest.NewLedger(t))
	key2 := testutil.TestKey(2)

	// Two independent funds, same maturity, different beneficiaries.
	terms2 := vesting.Terms{Beneficiary: testutil.TestKeyHash(2), MaturityMS: 20000}
	terms4 := vesting.Terms{Beneficiary: testutil.TestKeyHash(4), MaturityMS: 20000}

	if _, err := s.Lock(ctx, terms2, 30); err != nil {
		testutil.FatalErr(t, err)
	}
	if _, err := s.Lock(ctx, terms4, 70); err != nil {
		testutil.FatalErr(t, err)
	}

	_, err := s.ReleaseAt(ctx, 20000, terms2, key2.PubKey().SerializeCompressed(), signFn(key2))
	if err != nil {
		testutil.FatalErr(t, err)
	}

	if got := s.LockedTotal(terms2); got != 0 {
		t.Errorf("terms2 locked total = %d, want 0", got)
	}
	if got := s.LockedTotal(terms4); got != 70 {
		t.Errorf("terms4 locked total = %d, want 70", got)
	}
}

func TestReleaseMergesOutputs(t *testing.T) {
	ctx := context.Background()
	s := NewService(prottest.NewLedger(t))
	key := testutil.TestKey(1)
	terms := vesting.Terms{Beneficiary: testutil.TestKeyHash(1), MaturityMS: 1000}

	if _, err := s.Lock(ctx, terms, 10); err != nil {
		testutil.FatalErr(t, err)
	}
	if _, err := s.Lock(ctx, terms, 25); err != nil {
		testutil.FatalErr(t, err)
	}
	if got := len(s.Locked(terms)); got != 2 {
		t.Fatalf("got %d locked outputs, want 2", got)
	}

	tx, err := s.ReleaseAt(ctx, 1000, terms, key.PubKey().SerializeCompressed(), signFn(key))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	out := s.ledger.Snapshot().Output(tx.OutputOutpoint(0))
	if out == nil || out.Amount != 35 {
		t.Errorf("merged release output = %v, want amount 35", out)
	}
}

func TestReleaseNothingLocked(t *testing.T) {
	ctx := context.Background()
	s := NewService(prottest.NewLedger(t))
	key := testutil.TestKey(1)
	terms := vesting.Terms{Beneficiary: testutil.TestKeyHash(1), MaturityMS: 1000}

	_, err := s.Release(ctx, terms, key.PubKey().SerializeCompressed(), signFn(key))
	if errors.Root(err) != ErrNoLockedFunds {
		t.Errorf("got %v, want ErrNoLockedFunds", err)
	}
}

func TestGiftAndBurn(t *testing.T) {
	ctx := context.Background()
	s := NewService(prottest.NewLedger(t))

	if _, err := s.Gift(ctx, 12); err != nil {
		testutil.FatalErr(t, err)
	}
	tx, err := s.ClaimGift(ctx, testutil.TestKeyHash(3))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	out := s.ledger.Snapshot().Output(tx.OutputOutpoint(0))
	if out == nil || out.Amount != 12 {
		t.Errorf("claimed gift output = %v, want amount 12", out)
	}

	burnTx, err := s.Burn(ctx, 7)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	burned := s.ledger.Snapshot().Output(burnTx.OutputOutpoint(0))
	if burned == nil || !bytes.Equal(burned.Program, bc.NeverProgram()) {
		t.Error("burned output missing or not never-spendable")
	}
}
