package blockchain

import (
	"bytes"
	"math"
	"testing"
)

func TestVarint31(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 5000, math.MaxInt32}
	for _, c := range cases {
		b := new(bytes.Buffer)
		n, err := WriteVarint31(b, c)
		if err != nil {
			t.Fatalf("WriteVarint31(%d): %v", c, err)
		}
		if n != b.Len() {
			t.Errorf("WriteVarint31(%d) wrote %d bytes, reported %d", c, b.Len(), n)
		}
		v, n2, err := ReadVarint31(b)
		if err != nil {
			t.Fatalf("ReadVarint31(%d): %v", c, err)
		}
		if n2 != n {
			t.Errorf("ReadVarint31(%d) read %d bytes, want %d", c, n2, n)
		}
		if uint64(v) != c {
			t.Errorf("ReadVarint31 got %d, want %d", v, c)
		}
	}

	_, err := WriteVarint31(new(bytes.Buffer), math.MaxInt32+1)
	if err != ErrRange {
		t.Errorf("WriteVarint31(out of range) = %v, want ErrRange", err)
	}
}

func TestUint32(t *testing.T) {
	// Full uint32 range, including the 0xffffffff issuance sentinel.
	cases := []uint32{0, 1, math.MaxInt32, math.MaxUint32}
	for _, c := range cases {
		b := new(bytes.Buffer)
		n, err := WriteUint32(b, c)
		if err != nil {
			t.Fatalf("WriteUint32(%d): %v", c, err)
		}
		if n != 4 || b.Len() != 4 {
			t.Errorf("WriteUint32(%d) wrote %d bytes, want 4", c, b.Len())
		}
		v, n2, err := ReadUint32(b)
		if err != nil {
			t.Fatalf("ReadUint32(%d): %v", c, err)
		}
		if n2 != 4 {
			t.Errorf("ReadUint32(%d) read %d bytes, want 4", c, n2)
		}
		if v != c {
			t.Errorf("ReadUint32 got %d, want %d", v, c)
		}
	}
}

func TestVarint63(t *testing.T) {
	cases := []uint64{0, 1, math.MaxInt32, math.MaxInt64}
	for _, c := range cases {
		b := new(bytes.Buffer)
		_, err := WriteVarint63(b, c)
		if err != nil {
			t.Fatalf("WriteVarint63(%d): %v", c, err)
		}
		v, _, err := ReadVarint63(b)
		if err != nil {
			t.Fatalf("ReadVarint63(%d): %v", c, err)
		}
		if v != c {
			t.Errorf("ReadVarint63 got %d, want %d", v, c)
		}
	}

	_, err := WriteVarint63(new(bytes.Buffer), math.MaxInt64+1)
	if err != ErrRange {
		t.Errorf("WriteVarint63(out of range) = %v, want ErrRange", err)
	}
}

func TestVarstr31(t *testing.T) {
	cases := [][]byte{nil, {}, {1}, []byte("a longer string with spaces")}
	for _, c := range cases {
		b := new(bytes.Buffer)
		_, err := WriteVarstr31(b, c)
		if err != nil {
			t.Fatalf("WriteVarstr31(%x): %v", c, err)
		}
		got, _, err := ReadVarstr31(b)
		if err != nil {
			t.Fatalf("ReadVarstr31(%x): %v", c, err)
		}
		if len(c) == 0 {
			if got != nil {
				t.Errorf("ReadVarstr31 got %x, want nil", got)
			}
			continue
		}
		if !bytes.Equal(got, c) {
			t.Errorf("ReadVarstr31 got %x, want %x", got, c)
		}
	}
}

func TestVarstrList(t *testing.T) {
	l := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}
	b := new(bytes.Buffer)
	_, err := WriteVarstrList(b, l)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := ReadVarstrList(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(l) {
		t.Fatalf("ReadVarstrList got %d elements, want %d", len(got), len(l))
	}
	for i := range l {
		if !bytes.Equal(got[i], l[i]) {
			t.Errorf("element %d: got %x, want %x", i, got[i], l[i])
		}
	}
}
