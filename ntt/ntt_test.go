// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ntt

import (
	"testing"

	"github.com/luxfi/ligerito/field"
)

func smallDomain(t *testing.T, logSize int) *Domain[field.Small] {
	t.Helper()
	d, err := NewDomain(logSize, field.SmallBasis(logSize))
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	return d
}

func largeDomain(t *testing.T, logSize int) *Domain[field.Large] {
	t.Helper()
	d, err := NewDomain(logSize, field.LargeBasis(logSize))
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	return d
}

func smallData(n int, seed uint32) []field.Small {
	out := make([]field.Small, n)
	x := seed
	for i := range out {
		x = x*1664525 + 1013904223
		out[i] = field.Small(x)
	}
	return out
}

func TestTransformRoundTrip(t *testing.T) {
	d := smallDomain(t, 10)
	for _, logN := range []int{1, 3, 6, 10} {
		data := smallData(1<<logN, uint32(logN))
		orig := append([]field.Small(nil), data...)
		if err := d.NTT(data); err != nil {
			t.Fatalf("NTT: %v", err)
		}
		if err := d.INTT(data); err != nil {
			t.Fatalf("INTT: %v", err)
		}
		for i := range data {
			if data[i] != orig[i] {
				t.Fatalf("size 2^%d: round trip differs at %d", logN, i)
			}
		}
	}
}

func TestTransformRoundTripLarge(t *testing.T) {
	d := largeDomain(t, 6)
	data := make([]field.Large, 64)
	for i := range data {
		data[i] = field.Large{Lo: uint64(i)*0x9E3779B97F4A7C15 + 1, Hi: uint64(i)}
	}
	orig := append([]field.Large(nil), data...)
	if err := d.NTT(data); err != nil {
		t.Fatalf("NTT: %v", err)
	}
	if err := d.INTT(data); err != nil {
		t.Fatalf("INTT: %v", err)
	}
	for i := range data {
		if data[i] != orig[i] {
			t.Fatalf("round trip differs at %d", i)
		}
	}
}

func TestEncodeSystematic(t *testing.T) {
	d := smallDomain(t, 8)
	msg := smallData(64, 7)
	code, err := d.Encode(msg, 2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(code) != 256 {
		t.Fatalf("codeword length %d, want 256", len(code))
	}
	dec, err := d.Decode(code[:64])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := range msg {
		if dec[i] != msg[i] {
			t.Fatalf("systematic decode differs at %d", i)
		}
	}
}

func TestEncodeLinear(t *testing.T) {
	d := smallDomain(t, 7)
	a := smallData(32, 11)
	b := smallData(32, 13)
	sum := make([]field.Small, 32)
	for i := range sum {
		sum[i] = a[i].Add(b[i])
	}
	ea, _ := d.Encode(a, 2)
	eb, _ := d.Encode(b, 2)
	es, err := d.Encode(sum, 2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for j := range es {
		if es[j] != ea[j].Add(eb[j]) {
			t.Fatalf("encoding is not linear at %d", j)
		}
	}
}

// Every codeword symbol must equal the novel-basis polynomial at the
// domain point: enc(msg)[j] = sum_i msg[i] * prod_k Whats_k(w_j)^bit_k(i).
// The recursion weights depend on exactly this identity.
func TestEncodeMatchesBasisEval(t *testing.T) {
	d := smallDomain(t, 5)
	msg := smallData(8, 3)
	code, err := d.Encode(msg, 2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for j := uint64(0); j < 32; j++ {
		want := field.SmallZero
		for i, c := range msg {
			term := c
			for k := 0; k < 3; k++ {
				if i>>k&1 == 1 {
					term = term.Mul(d.BasisEval(k, j))
				}
			}
			want = want.Add(term)
		}
		if code[j] != want {
			t.Fatalf("codeword symbol %d disagrees with basis evaluation", j)
		}
	}
}

// The zero message encodes to the zero codeword and a constant message
// of length one encodes to a constant codeword.
func TestEncodeDegenerate(t *testing.T) {
	d := smallDomain(t, 4)
	zero, err := d.Encode(make([]field.Small, 8), 1)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for j, s := range zero {
		if !s.IsZero() {
			t.Fatalf("zero message produced nonzero symbol at %d", j)
		}
	}
	c := field.Small(0xDEADBEEF)
	one, err := d.Encode([]field.Small{c}, 3)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for j, s := range one {
		if s != c {
			t.Fatalf("constant message not constant at %d", j)
		}
	}
}

func TestShapeErrors(t *testing.T) {
	d := smallDomain(t, 6)
	if err := d.NTT(smallData(24, 1)); err != ErrNotPowerOfTwo {
		t.Fatalf("24 elements: got %v, want ErrNotPowerOfTwo", err)
	}
	if err := d.NTT(smallData(128, 1)); err != ErrDomainTooSmall {
		t.Fatalf("oversize transform: got %v, want ErrDomainTooSmall", err)
	}
	if _, err := NewDomain(0, field.SmallBasis(1)); err != ErrEmptyDomain {
		t.Fatalf("empty domain: got %v", err)
	}
	if _, err := NewDomain(4, field.SmallBasis(3)); err != ErrDomainTooSmall {
		t.Fatalf("short basis: got %v", err)
	}
}

// A dependent basis collapses a subspace polynomial to zero at its own
// normalisation point and must be rejected.
func TestDependentBasis(t *testing.T) {
	basis := field.SmallBasis(4)
	basis[3] = basis[0].Add(basis[1])
	if _, err := NewDomain(4, basis); err != ErrDependentBasis {
		t.Fatalf("dependent basis: got %v", err)
	}
}
