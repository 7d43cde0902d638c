// Package blockchain provides the tools for encoding
// data primitives in blockchain structures
package blockchain

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var ErrRange = errors.New("value out of range")

func ReadVarint31(r io.Reader) (uint32, int, error) {
	br := &byteReader{r: r}
	val, err := binary.ReadUvarint(br)
	if err != nil {
		return 0, br.n, err
	}
	if val > math.MaxInt32 {
		return 0, br.n, ErrRange
	}
	return uint32(val), br.n, nil
}

func ReadVarint63(r io.Reader) (uint64, int, error) {
	br := &byteReader{r: r}
	val, err := binary.ReadUvarint(br)
	if err != nil {
		return 0, br.n, err
	}
	if val > math.MaxInt64 {
		return 0, br.n, ErrRange
	}
	return uint64(val), br.n, nil
}

func ReadVarstr31(r io.Reader) ([]byte, int, error) {
	len, n, err := ReadVarint31(r)
	if err != nil {
		return nil, n, err
	}
	if len == 0 {
		return nil, n, nil
	}
	buf := make([]byte, len)
	n2, err := io.ReadFull(r, buf)
	return buf, n + n2, err
}

// ReadVarstrList reads a varint31 length prefix followed by
// that many varstrs.
func ReadVarstrList(r io.Reader) ([][]byte, int, error) {
	nelts, n, err := ReadVarint31(r)
	if err != nil {
		return nil, n, err
	}
	var result [][]byte
	for ; nelts > 0; nelts-- {
		s, n2, err := ReadVarstr31(r)
		n += n2
		if err != nil {
			return nil, n, err
		}
		result = append(result, s)
	}
	return result, n, nil
}

// ReadUint32 reads a fixed-width big-endian uint32. Unlike the
// varints it covers the full uint32 range, so it suits values such
// as output indexes whose sentinel is 0xffffffff.
func ReadUint32(r io.Reader) (uint32, int, error) {
	var buf [4]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return 0, n, err
	}
	return binary.BigEndian.Uint32(buf[:]), n, nil
}

// WriteUint32 writes val as a fixed-width big-endian uint32.
func WriteUint32(w io.Writer, val uint32) (int, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], val)
	return w.Write(buf[:])
}

func WriteVarint31(w io.Writer, val uint64) (int, error) {
	if val > math.MaxInt32 {
		return 0, ErrRange
	}
	var buf [9]byte
	n := binary.PutUvarint(buf[:], val)
	b, err := w.Write(buf[:n])
	return b, err
}

func WriteVarint63(w io.Writer, val uint64) (int, error) {
	if val > math.MaxInt64 {
		return 0, ErrRange
	}
	var buf [9]byte
	n := binary.PutUvarint(buf[:], val)
	b, err := w.Write(buf[:n])
	return b, err
}

func WriteVarstr31(w io.Writer, str []byte) (int, error) {
	n, err := WriteVarint31(w, uint64(len(str)))
	if err != nil {
		return n, err
	}
	n2, err := w.Write(str)
	return n + n2, err
}

// WriteVarstrList writes a varint31 length prefix followed by
// the elements of l as varstrs.
func WriteVarstrList(w io.Writer, l [][]byte) (int, error) {
	n, err := WriteVarint31(w, uint64(len(l)))
	if err != nil {
		return n, err
	}
	for _, s := range l {
		n2, err := WriteVarstr31(w, s)
		n += n2
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// byteReader wraps io.Reader, satisfies io.ByteReader, keeps a
// count of the bytes consumed.
type byteReader struct {
	n int
	r io.Reader
}

func (r *byteReader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r.r, b[:])
	if err != nil {
		return 0, err
	}
	r.n++
	return b[0], nil
}
