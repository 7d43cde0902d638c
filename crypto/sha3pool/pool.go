// Package sha3pool is a freelist for SHA3-256 hash objects.
package sha3pool

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

var pool = &sync.Pool{New: func() interface{} { return sha3.New256() }}

// Get256 returns an initialized SHA3-256 hash ready to use.
// It is like sha3.New256 except it uses the freelist.
// The caller should call Put256 when finished with the returned object.
func Get256() hash.Hash {
	return pool.Get().(hash.Hash)
}

// Put256 resets h and puts it in the freelist.
func Put256(h hash.Hash) {
	h.Reset()
	pool.Put(h)
}

// Sum256 hashes data with SHA3-256 and stores the digest in sum,
// which must have capacity for 32 bytes.
func Sum256(sum []byte, data []byte) {
	h := Get256()
	h.Write(data)
	h.Sum(sum[:0])
	Put256(h)
}
