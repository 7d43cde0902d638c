// Package validation decides whether transactions are admissible.
//
// Validation happens in two phases. CheckTxWellFormed performs the
// context-free phase: structural checks plus witness authorization
// for every input, including evaluation of vesting conditions.
// ConfirmTx performs the stateful phase against a state snapshot.
package validation

import (
	"bytes"
	"math"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"

	"vestchain/errors"
	"vestchain/protocol/bc"
	"vestchain/protocol/state"
	"vestchain/protocol/vesting"
)

// ErrBadTx is returned for transactions failing validation.
// Authorization failures are the exception: they keep their own
// roots (vesting.ErrWrongSigner, vesting.ErrMaturityNotReached,
// ErrUnspendable, ErrMissingSignature) so callers can tell expected
// rejections apart from malformed transactions.
var ErrBadTx = errors.New("invalid transaction")

var (
	// "suberrors" for ErrBadTx
	errTxVersion       = errors.New("unknown transaction version")
	errNotYet          = errors.New("timestamp is before transaction min time")
	errTooLate         = errors.New("timestamp is after transaction max time")
	errNoInputs        = errors.New("inputs are missing")
	errTooManyInputs   = errors.New("number of inputs overflows int32")
	errMisorderedTime  = errors.New("positive maxtime must be >= mintime")
	errDuplicateInput  = errors.New("duplicate input")
	errEmptyOutput     = errors.New("output value must be greater than 0")
	errInputTooBig     = errors.New("input value exceeds maximum value of int64")
	errInputSumTooBig  = errors.New("sum of inputs overflows int64")
	errOutputTooBig    = errors.New("output value exceeds maximum value of int64")
	errOutputSumTooBig = errors.New("sum of outputs overflows int64")
	errUnbalanced      = errors.New("amounts are not balanced on inputs and outputs")
	errInvalidOutput   = errors.New("spent output is not in the state snapshot")
	errPrevoutMismatch = errors.New("input commitment does not match the spent output")
	errNoTermsReveal   = errors.New("vesting spend is missing the terms reveal")
	errTermsMismatch   = errors.New("revealed terms do not match the control program")
	errWitnessFormat   = errors.New("witness keys and signatures are not paired")
	errBadPubKey       = errors.New("invalid public key in witness")
	errBadSignature    = errors.New("invalid signature in witness")
)

// Authorization rejections. Expected outcomes, not malformed input.
var (
	// ErrUnspendable is returned for spends of never-spendable outputs.
	ErrUnspendable = errors.New("output is never spendable")

	// ErrMissingSignature is returned when a key-locked spend lacks a
	// valid signature by the required key.
	ErrMissingSignature = errors.New("signature by the required key is missing")
)

func badTxErr(err error) error {
	err = errors.WithData(err, "badtx", err)
	err = errors.WithDetail(err, err.Error())
	return errors.Sub(ErrBadTx, err)
}

func badTxErrf(err error, f string, args ...interface{}) error {
	err = errors.WithData(err, "badtx", err)
	err = errors.WithDetailf(err, f, args...)
	return errors.Sub(ErrBadTx, err)
}

// CheckTxWellFormed checks whether tx is "well-formed" (the
// context-free phase of validation):
// - inputs and outputs balance
// - no duplicate inputs
// - the declared time window is ordered
// - every input's witness satisfies its control program
//
// Result is nil for well-formed transactions; otherwise ErrBadTx
// with supporting detail, or an authorization rejection with its
// own root.
func CheckTxWellFormed(tx *bc.Tx) error {
	if tx.Version < 1 || tx.Version > bc.CurrentTransactionVersion {
		return badTxErrf(errTxVersion, "unknown transaction version %d", tx.Version)
	}

	if len(tx.Inputs) == 0 {
		return badTxErr(errNoInputs)
	}
	if len(tx.Inputs) > math.MaxInt32 {
		return badTxErr(errTooManyInputs)
	}

	if tx.MaxTimeMS > 0 && tx.MaxTimeMS < tx.MinTimeMS {
		return badTxErr(errMisorderedTime)
	}

	var inSum uint64
	for i, in := range tx.Inputs {
		if in.Amount > math.MaxInt64 {
			return badTxErrf(errInputTooBig, "input %d value %d", i, in.Amount)
		}
		sum, ok := addUint64(inSum, in.Amount)
		if !ok {
			return badTxErr(errInputSumTooBig)
		}
		inSum = sum

		if in.IsIssuance() {
			continue
		}
		for j := 0; j < i; j++ {
			other := tx.Inputs[j]
			if !other.IsIssuance() && other.Previous == in.Previous {
				return badTxErrf(errDuplicateInput, "input %d is a duplicate of %d", i, j)
			}
		}
	}

	var outSum uint64
	for i, out := range tx.Outputs {
		if out.Amount == 0 {
			return badTxErrf(errEmptyOutput, "output %d", i)
		}
		if out.Amount > math.MaxInt64 {
			return badTxErrf(errOutputTooBig, "output %d value %d", i, out.Amount)
		}
		sum, ok := addUint64(outSum, out.Amount)
		if !ok {
			return badTxErr(errOutputSumTooBig)
		}
		outSum = sum

		_, _, err := bc.ParseProgram(out.Program)
		if err != nil {
			return badTxErrf(err, "output %d control program", i)
		}
	}

	if inSum != outSum {
		return badTxErrf(errUnbalanced, "inputs total %d, outputs total %d", inSum, outSum)
	}

	for i, in := range tx.Inputs {
		if in.IsIssuance() {
			continue
		}
		err := checkInputAuthorization(tx, i, in)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkInputAuthorization checks that input i's witness satisfies
// the control program of the output it spends.
func checkInputAuthorization(tx *bc.Tx, i int, in *bc.TxInput) error {
	typ, commitment, err := bc.ParseProgram(in.Program)
	if err != nil {
		return badTxErrf(err, "input %d control program", i)
	}

	switch typ {
	case bc.ProgTypeAnyone:
		return nil

	case bc.ProgTypeNever:
		return errors.WithDetailf(ErrUnspendable, "input %d", i)

	case bc.ProgTypeKey:
		signers, err := witnessSigners(tx, in.Arguments)
		if err != nil {
			return badTxErrf(err, "input %d witness", i)
		}
		for _, s := range signers {
			if s == commitment {
				return nil
			}
		}
		return errors.WithDetailf(ErrMissingSignature, "input %d wants key %s", i, commitment)

	case bc.ProgTypeVesting:
		if len(in.Arguments) < 1 {
			return badTxErrf(errNoTermsReveal, "input %d", i)
		}
		terms, err := vesting.ParseTerms(in.Arguments[0])
		if err != nil {
			return badTxErrf(err, "input %d terms reveal", i)
		}
		if terms.Hash() != commitment {
			return badTxErrf(errTermsMismatch, "input %d", i)
		}
		signers, err := witnessSigners(tx, in.Arguments[1:])
		if err != nil {
			return badTxErrf(err, "input %d witness", i)
		}
		vctx := vesting.Context{
			Signers:   signers,
			MinTimeMS: tx.MinTimeMS,
			MaxTimeMS: tx.MaxTimeMS,
		}
		err = vesting.Validate(terms, vctx)
		if err != nil {
			return errors.WithDetailf(err, "input %d", i)
		}
		return nil
	}

	// ParseProgram only yields the types above.
	return badTxErrf(bc.ErrBadProgram, "input %d program type %#x", i, typ)
}

// witnessSigners verifies the (pubkey, signature) pairs in args and
// returns the identities that produced a valid signature over the
// transaction's sig hash. Any malformed key, malformed signature, or
// failed verification is an error.
func witnessSigners(tx *bc.Tx, args [][]byte) ([]bc.Hash, error) {
	if len(args)%2 != 0 {
		return nil, errors.WithDetailf(errWitnessFormat, "%d arguments", len(args))
	}
	sigHash := tx.SigHash()
	var signers []bc.Hash
	for i := 0; i < len(args); i += 2 {
		pub, err := secp256k1.ParsePubKey(args[i])
		if err != nil {
			return nil, errors.Sub(errBadPubKey, errors.Wrapf(err, "argument %d", i))
		}
		sig, err := schnorr.ParseSignature(args[i+1])
		if err != nil {
			return nil, errors.Sub(errBadSignature, errors.Wrapf(err, "argument %d", i+1))
		}
		if !sig.Verify(sigHash[:], pub) {
			return nil, errors.WithDetailf(errBadSignature, "argument %d does not verify", i+1)
		}
		signers = append(signers, bc.PubKeyHash(pub.SerializeCompressed()))
	}
	return signers, nil
}

// ConfirmTx validates tx against the given state snapshot at the
// given timestamp before it is committed. It assumes tx has already
// undergone the well-formedness check in CheckTxWellFormed.
//
// ConfirmTx must not mutate the snapshot.
func ConfirmTx(snapshot *state.Snapshot, timestampMS uint64, tx *bc.Tx) error {
	if timestampMS < tx.MinTimeMS {
		return badTxErr(errNotYet)
	}
	if tx.MaxTimeMS > 0 && timestampMS > tx.MaxTimeMS {
		return badTxErr(errTooLate)
	}

	for i, in := range tx.Inputs {
		if in.IsIssuance() {
			continue
		}
		o := snapshot.Output(in.Previous)
		if o == nil {
			return badTxErrf(errInvalidOutput, "output %s for input %d is invalid", in.Previous, i)
		}
		if o.Amount != in.Amount || !bytes.Equal(o.Program, in.Program) {
			return badTxErrf(errPrevoutMismatch, "input %d", i)
		}
	}
	return nil
}

func addUint64(a, b uint64) (uint64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
