// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ligerito

import "github.com/luxfi/ligerito/field"

// The sumcheck weight function stays, across the whole recursion, a sum
// of tensors
//
//	coeff * prod_t (f0_t + (f1_t - f0_t) * i_t)
//
// over the remaining index bits (most significant variable first). The
// initial tensor is the monomial evaluation-point tensor (1, z_t); each
// level transition adds one tensor per opened column, built from the
// normalised subspace polynomials of that level's code. Binding a
// variable to a challenge multiplies the tensor coefficient by the
// folded factor, so the verifier reduces the entire weight function to
// a scalar in O(tensors * n) field operations and never materialises a
// table.

type factor struct {
	f0, f1 field.Large
}

type tensor struct {
	coeff   field.Large
	factors []factor
	next    int // first unconsumed factor
}

type weightSet struct {
	tensors []tensor
}

// newPointWeights starts the weight set for the monomial-basis
// evaluation claim f(z) = sum_i v_i * prod z_t^{bit_t(i)}; variable t
// pairs with the most significant remaining index bit.
func newPointWeights(z []field.Large) *weightSet {
	factors := make([]factor, len(z))
	for t, zt := range z {
		factors[t] = factor{f0: field.LargeOne, f1: zt}
	}
	return &weightSet{tensors: []tensor{{coeff: field.LargeOne, factors: factors}}}
}

// add appends a tensor whose factor list spans exactly the remaining
// variables.
func (ws *weightSet) add(coeff field.Large, factors []factor) {
	ws.tensors = append(ws.tensors, tensor{coeff: coeff, factors: factors})
}

// fold binds the next variable of every tensor to alpha:
// coeff *= (1+alpha)*f0 + alpha*f1.
func (ws *weightSet) fold(alpha field.Large) {
	oneAlpha := field.LargeOne.Add(alpha)
	for i := range ws.tensors {
		t := &ws.tensors[i]
		f := t.factors[t.next]
		t.next++
		t.coeff = t.coeff.Mul(oneAlpha.Mul(f.f0).Add(alpha.Mul(f.f1)))
	}
}

// scalar returns the fully folded weight value. All factors must have
// been consumed.
func (ws *weightSet) scalar() field.Large {
	acc := field.LargeZero
	for _, t := range ws.tensors {
		if t.next != len(t.factors) {
			panic("ligerito: weight tensor folded out of step")
		}
		acc = acc.Add(t.coeff)
	}
	return acc
}

// expandTensor materialises coeff * prod factors as a table over the
// full hypercube of the factor list, most significant variable first,
// and adds it into dst. dst length must be 1 << len(factors).
func expandTensor(dst []field.Large, coeff field.Large, factors []factor) {
	cur := make([]field.Large, 1, len(dst))
	cur[0] = coeff
	for _, f := range factors {
		next := make([]field.Large, 2*len(cur))
		for i, c := range cur {
			next[2*i] = c.Mul(f.f0)
			next[2*i+1] = c.Mul(f.f1)
		}
		cur = next
	}
	for i := range dst {
		dst[i] = dst[i].Add(cur[i])
	}
}

// expandEq materialises the equality-weight table of a challenge
// vector: eq[r] = prod_u ((1+alpha_u) if bit_u(r)=0 else alpha_u),
// bits most significant first. These are the folding weights a level's
// sumcheck rounds apply to the matrix rows.
func expandEq(alphas []field.Large) []field.Large {
	cur := make([]field.Large, 1, 1<<len(alphas))
	cur[0] = field.LargeOne
	for _, a := range alphas {
		oneA := field.LargeOne.Add(a)
		next := make([]field.Large, 2*len(cur))
		for i, c := range cur {
			next[2*i] = c.Mul(oneA)
			next[2*i+1] = c.Mul(a)
		}
		cur = next
	}
	return cur
}
