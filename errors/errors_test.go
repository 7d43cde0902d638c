package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	err := errors.New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}

	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}

	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}

	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}
}

func TestWrapNil(t *testing.T) {
	var err error

	err1 := Wrap(err, "1")
	if err1 != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
}

func TestWrapf(t *testing.T) {
	err := errors.New("0")
	err1 := Wrapf(err, "there are %d errors being wrapped", 1)
	if err1.Error() != "there are 1 errors being wrapped: 0" {
		t.Fatalf("err msg = %s want 'there are 1 errors being wrapped: 0'", err1.Error())
	}
}

func TestSub(t *testing.T) {
	sentinel := errors.New("sentinel")
	inner := errors.New("inner")
	err := Sub(sentinel, WithDetail(inner, "some detail"))

	if got := Root(err); got != sentinel {
		t.Errorf("Root(%v)=%v want %v", err, got, sentinel)
	}
	if got := Detail(err); got != "some detail" {
		t.Errorf("Detail(%v)=%q want %q", err, got, "some detail")
	}
	if got := Sub(sentinel, nil); got != nil {
		t.Errorf("Sub(sentinel, nil)=%v want nil", got)
	}
	if got := Sub(nil, inner); got != nil {
		t.Errorf("Sub(nil, inner)=%v want nil", got)
	}
}

func TestDetail(t *testing.T) {
	err := New("a")
	err1 := WithDetail(err, "banana")
	err2 := WithDetailf(err1, "number %d", 8)

	if got := Detail(err2); got != "banana; number 8" {
		t.Errorf("Detail(%v)=%q want %q", err2, got, "banana; number 8")
	}
	if got := Root(err2); got != err {
		t.Errorf("Root(%v)=%v want %v", err2, got, err)
	}
}

func TestData(t *testing.T) {
	err := New("a")
	err1 := WithData(err, "k1", "v1")
	err2 := WithData(err1, "k2", "v2")

	want := map[string]interface{}{"k1": "v1", "k2": "v2"}
	got := Data(err2)
	if len(got) != len(want) {
		t.Fatalf("Data(%v)=%v want %v", err2, got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Data(%v)[%q]=%v want %v", err2, k, got[k], v)
		}
	}
}
