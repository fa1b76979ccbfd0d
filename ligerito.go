// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ligerito implements the Ligerito polynomial commitment
// scheme: a transparent, hash-based, post-quantum commitment for
// multilinear polynomials over binary tower fields.
//
// The outer commitment is Ligero-style: the coefficient vector is
// reshaped into a matrix, each row Reed-Solomon encoded with the
// additive NTT, and the codeword columns Merkle committed. A sumcheck
// over the evaluation claim then runs interleaved with a tower of
// recursive inner commitments: after each batch of rounds the verifier
// samples columns of the current commitment, and the prover re-commits
// the much shorter folded vector as the next level. The opened columns
// are bound to the recursion through batched tensor claims that resolve
// at the final, fully opened level. Proof size for a 2^20 coefficient
// polynomial is on the order of 150 KiB.
//
// The package exposes four operations: Prove, Verify,
// ExpectedPolynomialLength and Config.Digest. Everything else is
// configuration. Prove and Verify are self-contained; two calls on
// different goroutines share no state. The verifier is single-threaded,
// deterministic, and performs no encoding.
package ligerito

import (
	"fmt"

	"github.com/luxfi/ligerito/field"
)

// Evaluate computes f(point) for the multilinear polynomial with the
// given monomial coefficient vector by successive variable folding,
// O(N) field operations. point[0] pairs with the most significant
// coefficient index bit. This is the reference the proved claim is
// measured against.
func Evaluate(coeffs []field.Small, point []field.Large) (field.Large, error) {
	n := len(point)
	if len(coeffs) != 1<<n {
		return field.LargeZero, fmt.Errorf("%w: %d coefficients for %d variables",
			ErrShapeMismatch, len(coeffs), n)
	}
	if n == 0 {
		return coeffs[0].Embed(), nil
	}
	// Bind the least significant variable first; each pass halves the
	// table. The first pass also promotes into the large field.
	z := point[n-1]
	cur := make([]field.Large, len(coeffs)/2)
	for j := range cur {
		cur[j] = coeffs[2*j].Embed().Add(coeffs[2*j+1].MulCross(z))
	}
	for t := n - 2; t >= 0; t-- {
		z = point[t]
		next := cur[:len(cur)/2]
		for j := range next {
			next[j] = cur[2*j].Add(z.Mul(cur[2*j+1]))
		}
		cur = next
	}
	return cur[0], nil
}
