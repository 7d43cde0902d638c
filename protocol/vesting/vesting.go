/*

Package vesting implements time-locked conditional fund release.

Funds are locked under a set of Terms naming a beneficiary and a
maturity time. A locked output's control program commits to the hash
of the serialized terms; whoever proposes a release must reveal the
terms and satisfy them.

Validate is the heart of the package: a pure predicate deciding
whether a proposed release transaction is authorized. It never reads
a clock. The transaction declares the time window it claims to
execute within, and the window must provably open no earlier than
maturity. The window check alone would let anyone claim after
maturity, and the signature check alone would let the beneficiary
claim early, so both must hold.

*/
package vesting

import (
	"bytes"
	"io"

	"vestchain/encoding/blockchain"
	"vestchain/errors"
	"vestchain/protocol/bc"
)

// Rejection reasons returned by Validate. Both are expected,
// non-fatal outcomes; callers distinguish them with errors.Root.
var (
	// ErrWrongSigner means the beneficiary is not in the
	// transaction's signer set.
	ErrWrongSigner = errors.New("release is not signed by the beneficiary")

	// ErrMaturityNotReached means the transaction's validity window
	// opens before the terms' maturity time.
	ErrMaturityNotReached = errors.New("validity window opens before maturity")
)

// ErrBadTerms is returned when parsing malformed serialized terms.
var ErrBadTerms = errors.New("invalid vesting terms")

// Terms fix the conditions a locked fund is released under.
// They are set when the fund is locked and never change.
type Terms struct {
	// Beneficiary is the hash of the public key that must sign
	// a release transaction.
	Beneficiary bc.Hash

	// MaturityMS is the earliest time, in Unix milliseconds, at
	// which the locked fund becomes claimable.
	MaturityMS uint64
}

// Hash computes the commitment to t: the SHA3-256 digest of its
// canonical serialization. It identifies the locked fund's condition
// and doubles as the lookup key for outputs locked under t.
func (t Terms) Hash() bc.Hash {
	var buf bytes.Buffer
	t.WriteTo(&buf) // error is impossible
	return bc.NewHash(buf.Bytes())
}

// Program returns the control program locking an output under t.
func (t Terms) Program() []byte {
	return bc.VestingProgram(t.Hash())
}

// WriteTo writes the canonical serialization of t to w.
func (t Terms) WriteTo(w io.Writer) (int64, error) {
	n, err := blockchain.WriteVarstr31(w, t.Beneficiary[:])
	if err != nil {
		return int64(n), err
	}
	n2, err := blockchain.WriteVarint63(w, t.MaturityMS)
	return int64(n + n2), err
}

// Bytes returns the canonical serialization of t,
// suitable for revealing in a spend witness.
func (t Terms) Bytes() []byte {
	var buf bytes.Buffer
	t.WriteTo(&buf) // error is impossible
	return buf.Bytes()
}

// ParseTerms decodes terms from their canonical serialization.
func ParseTerms(b []byte) (t Terms, err error) {
	r := bytes.NewReader(b)
	ben, _, err := blockchain.ReadVarstr31(r)
	if err != nil {
		return t, errors.Sub(ErrBadTerms, errors.Wrap(err, "reading beneficiary"))
	}
	if len(ben) != len(t.Beneficiary) {
		return t, errors.WithDetailf(ErrBadTerms, "beneficiary hash is %d bytes, want %d", len(ben), len(t.Beneficiary))
	}
	copy(t.Beneficiary[:], ben)
	t.MaturityMS, _, err = blockchain.ReadVarint63(r)
	if err != nil {
		return t, errors.Sub(ErrBadTerms, errors.Wrap(err, "reading maturity"))
	}
	if r.Len() > 0 {
		return t, errors.WithDetailf(ErrBadTerms, "%d bytes of trailing data", r.Len())
	}
	return t, nil
}

// Context is a read-only view of the proposed release transaction,
// supplied by the transaction admission layer. It is constructed
// fresh for each validation attempt.
type Context struct {
	// Signers holds the identities (public key hashes) that
	// produced a valid signature over the transaction.
	Signers []bc.Hash

	// MinTimeMS and MaxTimeMS bound the window the transaction
	// claims to execute within. MaxTimeMS of zero means unbounded.
	MinTimeMS uint64
	MaxTimeMS uint64
}

// SignedBy reports whether id is in the context's signer set.
func (c Context) SignedBy(id bc.Hash) bool {
	for _, s := range c.Signers {
		if s == id {
			return true
		}
	}
	return false
}

// Validate decides whether a proposed release transaction is
// authorized under terms. It returns nil when the beneficiary signed
// the transaction and the declared validity window opens at or after
// maturity.
//
// A rejection is reported as ErrWrongSigner or ErrMaturityNotReached
// (the signer check runs first), wrapped with a human-readable
// detail. The detail is for diagnostics only and carries no meaning
// for admission.
//
// Validate is pure: no I/O, no mutation, and identical inputs always
// produce identical results.
func Validate(terms Terms, ctx Context) error {
	if !ctx.SignedBy(terms.Beneficiary) {
		return errors.WithDetailf(ErrWrongSigner, "beneficiary %s absent from %d signer(s)", terms.Beneficiary, len(ctx.Signers))
	}
	if ctx.MinTimeMS < terms.MaturityMS {
		return errors.WithDetailf(ErrMaturityNotReached, "window opens at %dms, maturity at %dms", ctx.MinTimeMS, terms.MaturityMS)
	}
	return nil
}
