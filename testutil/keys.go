package testutil

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"vestchain/protocol/bc"
)

// TestKey returns a deterministic secp256k1 private key for tests.
// Distinct values of n yield distinct keys.
func TestKey(n int) *secp256k1.PrivateKey {
	seed := bc.NewHash([]byte(fmt.Sprintf("vestchain test key %d", n)))
	return secp256k1.PrivKeyFromBytes(seed[:])
}

// TestKeyHash returns the identity (public key hash) of TestKey(n).
func TestKeyHash(n int) bc.Hash {
	return bc.PubKeyHash(TestKey(n).PubKey().SerializeCompressed())
}
