package txbuilder

import (
	"context"

	"vestchain/errors"
)

// ErrMissingSig is returned when materializing a signature witness
// that has not been satisfied.
var ErrMissingSig = errors.New("signature witness is missing its signature")

// SignFunc is the function passed into Sign that produces a
// signature over hash for the key identified by its 33-byte
// compressed public key encoding. Actual key handling lives with the
// caller; the builder never sees private keys.
type SignFunc func(ctx context.Context, pubKey []byte, hash [32]byte) ([]byte, error)

// WitnessComponent encodes instructions for finalizing a transaction
// by populating its input witnesses. Each WitnessComponent object
// produces zero or more arguments for the witness of the txinput it
// corresponds to.
type WitnessComponent interface {
	// Sign is called to add signatures. Actual signing is delegated
	// to a callback function.
	Sign(context.Context, *Template, SignFunc) error

	// Materialize is called to turn the component into a vector of
	// arguments for the input witness.
	Materialize(*[][]byte) error
}

// DataWitness produces a fixed argument, such as the serialized
// vesting terms revealed when releasing a locked output.
type DataWitness []byte

func (d DataWitness) Sign(ctx context.Context, tpl *Template, signFn SignFunc) error {
	return nil
}

func (d DataWitness) Materialize(args *[][]byte) error {
	*args = append(*args, d)
	return nil
}

// SignatureWitness produces a (pubkey, signature) argument pair. The
// signature commits to the witness-independent hash of the
// template's transaction.
type SignatureWitness struct {
	PubKey []byte
	Sig    []byte
}

// Sign populates sw.Sig with a signature over the template's
// transaction, unless it already carries one.
func (sw *SignatureWitness) Sign(ctx context.Context, tpl *Template, signFn SignFunc) error {
	if len(sw.Sig) > 0 {
		// Already signed.
		return nil
	}
	sig, err := signFn(ctx, sw.PubKey, tpl.SigHash())
	if err != nil {
		return errors.Wrapf(err, "computing signature for key %x", sw.PubKey)
	}
	sw.Sig = sig
	return nil
}

func (sw *SignatureWitness) Materialize(args *[][]byte) error {
	if len(sw.Sig) == 0 {
		return errors.WithDetailf(ErrMissingSig, "key %x", sw.PubKey)
	}
	*args = append(*args, sw.PubKey, sw.Sig)
	return nil
}
