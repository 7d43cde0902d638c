package bc

import "vestchain/errors"

// Control program types. A control program is a compact condition
// attached to an output, deciding who may spend it: a 1-byte type tag
// optionally followed by a 32-byte commitment hash.
const (
	// ProgTypeNever marks an output that can never be spent.
	ProgTypeNever byte = 0x00

	// ProgTypeKey requires a signature by the key whose hash is committed.
	ProgTypeKey byte = 0x01

	// ProgTypeVesting commits to the hash of serialized vesting terms.
	// Spending requires revealing the terms and satisfying them.
	ProgTypeVesting byte = 0x02

	// ProgTypeAnyone marks an output spendable by anyone.
	ProgTypeAnyone byte = 0x51
)

// ErrBadProgram is returned when parsing a malformed control program.
var ErrBadProgram = errors.New("invalid control program")

// NeverProgram returns a control program that can never be satisfied.
func NeverProgram() []byte {
	return []byte{ProgTypeNever}
}

// AnyoneProgram returns a control program satisfied by any spend.
func AnyoneProgram() []byte {
	return []byte{ProgTypeAnyone}
}

// KeyProgram returns a control program requiring a signature
// by the key whose hash is keyHash.
func KeyProgram(keyHash Hash) []byte {
	return hashProgram(ProgTypeKey, keyHash)
}

// VestingProgram returns a control program committing to the
// hash of serialized vesting terms.
func VestingProgram(termsHash Hash) []byte {
	return hashProgram(ProgTypeVesting, termsHash)
}

func hashProgram(typ byte, h Hash) []byte {
	prog := make([]byte, 1+len(h))
	prog[0] = typ
	copy(prog[1:], h[:])
	return prog
}

// ParseProgram splits a control program into its type tag and
// commitment hash. For types carrying no commitment (anyone, never)
// the returned hash is zero.
func ParseProgram(prog []byte) (typ byte, h Hash, err error) {
	if len(prog) == 0 {
		return 0, h, errors.WithDetail(ErrBadProgram, "empty program")
	}
	typ = prog[0]
	switch typ {
	case ProgTypeAnyone, ProgTypeNever:
		if len(prog) != 1 {
			return 0, h, errors.WithDetailf(ErrBadProgram, "type %#x wants 1 byte, got %d", typ, len(prog))
		}
		return typ, h, nil
	case ProgTypeKey, ProgTypeVesting:
		if len(prog) != 1+len(h) {
			return 0, h, errors.WithDetailf(ErrBadProgram, "type %#x wants %d bytes, got %d", typ, 1+len(h), len(prog))
		}
		copy(h[:], prog[1:])
		return typ, h, nil
	}
	return 0, h, errors.WithDetailf(ErrBadProgram, "unknown program type %#x", typ)
}

// PubKeyHash computes the identity of a public key:
// the SHA3-256 digest of its 33-byte compressed encoding.
func PubKeyHash(pubkey []byte) Hash {
	return NewHash(pubkey)
}
