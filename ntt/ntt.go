// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ntt implements the additive number-theoretic transform over
// binary tower fields and the Reed-Solomon encoder built on it.
//
// The evaluation domain of size 2^L is the F2 span of the tower basis
// beta_0..beta_{L-1}; the domain point with index j is the field element
// whose coordinate bits are the bits of j. Coefficients live in the
// novel polynomial basis of Lin, Chung and Han:
//
//	X_i(x) = prod_k Whats_k(x)^{bit_k(i)}
//
// where Whats_k is the subspace vanishing polynomial of span(beta_0..
// beta_{k-1}) normalised so that Whats_k(beta_k) = 1. The butterflies
// need Whats_s evaluated at block offsets only; because Whats_s is
// F2-linear those values are XOR combinations of the O(L^2) table
// Whats_s(beta_k), so twiddles are generated on the fly and no
// O(2^L)-sized tables are ever materialised.
package ntt

import (
	"errors"
	"math/bits"

	"github.com/luxfi/ligerito/field"
)

var (
	ErrNotPowerOfTwo  = errors.New("ntt: length is not a power of two")
	ErrDomainTooSmall = errors.New("ntt: transform exceeds domain size")
	ErrDependentBasis = errors.New("ntt: basis elements are not independent")
	ErrEmptyDomain    = errors.New("ntt: domain must have positive size")
)

// Domain carries the twiddle table for transforms of size up to
// 2^logSize over a fixed tower basis.
type Domain[E field.Elem[E]] struct {
	logSize int
	one     E

	// tw[s][k] = Whats_s(beta_k), defined for k >= s with tw[s][s] = 1.
	// Entries below the diagonal stay zero; Whats_s vanishes on the
	// span of the lower basis elements.
	tw [][]E
}

// NewDomain builds the twiddle table for a domain spanned by
// basis[0..logSize). basis[0] must be the multiplicative identity so
// that domain indices coincide with field coordinates.
func NewDomain[E field.Elem[E]](logSize int, basis []E) (*Domain[E], error) {
	if logSize <= 0 {
		return nil, ErrEmptyDomain
	}
	if len(basis) < logSize {
		return nil, ErrDomainTooSmall
	}
	if basis[0].IsZero() {
		return nil, ErrDependentBasis
	}
	d := &Domain[E]{logSize: logSize}
	d.one = basis[0].Mul(basis[0].Inv())

	// w[k] tracks W_s(beta_k) as s advances, starting from
	// W_0(x) = x. The recurrence W_{s+1}(x) = W_s(x)*(W_s(x)+W_s(beta_s))
	// follows from the F2-linearity of W_s.
	w := make([]E, logSize)
	copy(w, basis[:logSize])
	d.tw = make([][]E, logSize)
	for s := 0; s < logSize; s++ {
		ds := w[s]
		if ds.IsZero() {
			return nil, ErrDependentBasis
		}
		dsInv := ds.Inv()
		row := make([]E, logSize)
		for k := s; k < logSize; k++ {
			row[k] = w[k].Mul(dsInv)
		}
		d.tw[s] = row
		for k := s; k < logSize; k++ {
			w[k] = w[k].Mul(w[k].Add(ds))
		}
	}
	return d, nil
}

// LogSize returns the log2 of the largest supported transform.
func (d *Domain[E]) LogSize() int { return d.logSize }

// BasisEval returns Whats_k evaluated at the domain point with index j,
// assembled from the twiddle table by linearity.
func (d *Domain[E]) BasisEval(k int, j uint64) E {
	var acc E
	if j>>uint(k)&1 == 1 {
		acc = d.one
	}
	for b := k + 1; b < d.logSize; b++ {
		if j>>uint(b)&1 == 1 {
			acc = acc.Add(d.tw[k][b])
		}
	}
	return acc
}

// twiddleAt returns Whats_s at the offset point encoded by the bits of
// base above position s. Bits at or below s are zero for block bases.
func (d *Domain[E]) twiddleAt(s int, base int) E {
	var acc E
	for b := s + 1; b < d.logSize; b++ {
		if base>>uint(b)&1 == 1 {
			acc = acc.Add(d.tw[s][b])
		}
	}
	return acc
}

func checkSize[E field.Elem[E]](d *Domain[E], n int) (int, error) {
	if n == 0 || n&(n-1) != 0 {
		return 0, ErrNotPowerOfTwo
	}
	l := bits.TrailingZeros(uint(n))
	if l > d.logSize {
		return 0, ErrDomainTooSmall
	}
	return l, nil
}

// NTT transforms data in place from novel-basis coefficients to
// evaluations over the first len(data) domain points.
func (d *Domain[E]) NTT(data []E) error {
	l, err := checkSize(d, len(data))
	if err != nil {
		return err
	}
	for s := l - 1; s >= 0; s-- {
		half := 1 << s
		for base := 0; base < len(data); base += half << 1 {
			t := d.twiddleAt(s, base)
			for i := base; i < base+half; i++ {
				lo := data[i].Add(t.Mul(data[i+half]))
				data[i] = lo
				data[i+half] = lo.Add(data[i+half])
			}
		}
	}
	return nil
}

// INTT is the exact inverse of NTT.
func (d *Domain[E]) INTT(data []E) error {
	l, err := checkSize(d, len(data))
	if err != nil {
		return err
	}
	for s := 0; s < l; s++ {
		half := 1 << s
		for base := 0; base < len(data); base += half << 1 {
			t := d.twiddleAt(s, base)
			for i := base; i < base+half; i++ {
				hi := data[i].Add(data[i+half])
				data[i+half] = hi
				data[i] = data[i].Add(t.Mul(hi))
			}
		}
	}
	return nil
}

// Encode Reed-Solomon encodes a message of 2^m novel-basis coefficients
// into a codeword of length 2^(m+logInvRate): zero-pad and run one
// forward transform. The first 2^m codeword symbols are the size-2^m
// NTT of the message, so the message is recovered from the prefix by
// Decode.
func (d *Domain[E]) Encode(msg []E, logInvRate int) ([]E, error) {
	if logInvRate < 0 {
		return nil, ErrDomainTooSmall
	}
	out := make([]E, len(msg)<<uint(logInvRate))
	copy(out, msg)
	if err := d.NTT(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode inverts the systematic prefix of a codeword back to the
// message coefficients.
func (d *Domain[E]) Decode(prefix []E) ([]E, error) {
	out := make([]E, len(prefix))
	copy(out, prefix)
	if err := d.INTT(out); err != nil {
		return nil, err
	}
	return out, nil
}
