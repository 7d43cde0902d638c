package bc

import (
	"encoding/hex"
	"fmt"
	"io"

	"vestchain/crypto/sha3pool"
	"vestchain/errors"
)

// Hash represents a 256-bit hash.
type Hash [32]byte

// NewHash computes the SHA3-256 digest of data.
func NewHash(data []byte) (h Hash) {
	sha3pool.Sum256(h[:], data)
	return h
}

// String returns the bytes of h encoded in hex.
func (h Hash) String() string {
	b, _ := h.MarshalText()
	return string(b)
}

// Bytes returns the bytes of h as a slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// MarshalText satisfies the TextMarshaler interface.
// It returns the bytes of h encoded in hex,
// for formats that can't hold arbitrary binary data.
// It never returns an error.
func (h Hash) MarshalText() ([]byte, error) {
	b := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(b, h[:])
	return b, nil
}

// UnmarshalText satisfies the TextUnmarshaler interface.
// It decodes hex data from b into h.
func (h *Hash) UnmarshalText(b []byte) error {
	if len(b) != hex.EncodedLen(len(h)) {
		return fmt.Errorf("bad hash hex length %d", len(b))
	}
	_, err := hex.Decode(h[:], b)
	return err
}

// ParseHash takes a hex-encoded hash and returns
// a 32 byte array.
func ParseHash(s string) (h Hash, err error) {
	if len(s) != hex.EncodedLen(len(h)) {
		return h, errors.New("wrong hex length")
	}
	_, err = hex.Decode(h[:], []byte(s))
	return h, errors.Wrap(err, "decode hex")
}

// WriteTo satisfies the io.WriterTo interface.
func (h Hash) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(h[:])
	return int64(n), err
}

// ReadFrom satisfies the io.ReaderFrom interface.
func (h *Hash) ReadFrom(r io.Reader) (int64, error) {
	n, err := io.ReadFull(r, h[:])
	return int64(n), err
}
