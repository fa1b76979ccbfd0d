// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sumcheck implements the multilinear sumcheck rounds used by
// Ligerito. The prover holds two tables over the remaining hypercube, a
// weight table and a value table, and each round communicates the
// univariate round polynomial of their inner product in the round
// variable. Round polynomials have degree at most 2 and travel as three
// coefficients so the wire format is fixed per round; in characteristic
// 2 the consistency equation p(0) + p(1) = claim reads c1 + c2 = claim.
package sumcheck

import (
	"errors"
	"runtime"
	"sync"

	"github.com/luxfi/ligerito/field"
)

var (
	ErrInconsistentRound = errors.New("sumcheck: round polynomial does not match claim")
	ErrTableSize         = errors.New("sumcheck: tables must have equal power-of-two length")
)

// RoundPoly is one round message, p(X) = C0 + C1*X + C2*X^2.
type RoundPoly struct {
	C0, C1, C2 field.Large
}

// Bytes returns the 48-byte wire form.
func (p RoundPoly) Bytes() []byte {
	out := make([]byte, 0, 3*field.LargeBytes)
	out = p.C0.AppendBytes(out)
	out = p.C1.AppendBytes(out)
	return p.C2.AppendBytes(out)
}

// RoundPolyFromBytes parses the 48-byte wire form.
func RoundPolyFromBytes(b []byte) RoundPoly {
	return RoundPoly{
		C0: field.LargeFromBytes(b),
		C1: field.LargeFromBytes(b[field.LargeBytes:]),
		C2: field.LargeFromBytes(b[2*field.LargeBytes:]),
	}
}

// SumAt01 returns p(0) + p(1). In characteristic 2 the constant term
// cancels, leaving C1 + C2.
func (p RoundPoly) SumAt01() field.Large { return p.C1.Add(p.C2) }

// Eval returns p(x) by Horner's rule.
func (p RoundPoly) Eval(x field.Large) field.Large {
	return p.C0.Add(x.Mul(p.C1.Add(x.Mul(p.C2))))
}

// parallelThreshold is the table size below which chunking the inner
// sums across cores costs more than it saves.
const parallelThreshold = 1 << 12

// Round computes the round polynomial for the top variable of two large
// tables. Writing the tables as halves (w0, w1) and (v0, v1), the round
// polynomial is sum (w0 + X(w0+w1)) * (v0 + X(v0+v1)).
func Round(w, v []field.Large) RoundPoly {
	half := len(w) / 2
	acc := func(lo, hi int) RoundPoly {
		var p RoundPoly
		for j := lo; j < hi; j++ {
			w0, w1 := w[j], w[j+half]
			v0, v1 := v[j], v[j+half]
			dw := w0.Add(w1)
			dv := v0.Add(v1)
			p.C0 = p.C0.Add(w0.Mul(v0))
			p.C1 = p.C1.Add(w0.Mul(dv).Add(v0.Mul(dw)))
			p.C2 = p.C2.Add(dw.Mul(dv))
		}
		return p
	}
	return chunked(half, acc)
}

// RoundSmall is Round with a small-field value table, as at the first
// rounds of the outer level. Sums over the values happen in the small
// field; each term then crosses into the large field once.
func RoundSmall(w []field.Large, v []field.Small) RoundPoly {
	half := len(w) / 2
	acc := func(lo, hi int) RoundPoly {
		var p RoundPoly
		for j := lo; j < hi; j++ {
			w0 := w[j]
			dw := w0.Add(w[j+half])
			v0, v1 := v[j], v[j+half]
			dv := v0.Add(v1)
			p.C0 = p.C0.Add(v0.MulCross(w0))
			p.C1 = p.C1.Add(dv.MulCross(w0).Add(v0.MulCross(dw)))
			p.C2 = p.C2.Add(dv.MulCross(dw))
		}
		return p
	}
	return chunked(half, acc)
}

func chunked(half int, acc func(lo, hi int) RoundPoly) RoundPoly {
	workers := runtime.GOMAXPROCS(0)
	if half < parallelThreshold || workers < 2 {
		return acc(0, half)
	}
	if workers > half {
		workers = half
	}
	parts := make([]RoundPoly, workers)
	var wg sync.WaitGroup
	for c := 0; c < workers; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			lo := half * c / workers
			hi := half * (c + 1) / workers
			parts[c] = acc(lo, hi)
		}(c)
	}
	wg.Wait()
	var p RoundPoly
	for _, q := range parts {
		p.C0 = p.C0.Add(q.C0)
		p.C1 = p.C1.Add(q.C1)
		p.C2 = p.C2.Add(q.C2)
	}
	return p
}

// Fold binds the top variable of a large table to alpha and halves it
// in place: t'[j] = t[j] + alpha*(t[j] + t[j+half]).
func Fold(t []field.Large, alpha field.Large) []field.Large {
	half := len(t) / 2
	for j := 0; j < half; j++ {
		t[j] = t[j].Add(alpha.Mul(t[j].Add(t[j+half])))
	}
	return t[:half]
}

// FoldSmall binds the top variable of a small-field table, promoting
// the result into the large field.
func FoldSmall(v []field.Small, alpha field.Large) []field.Large {
	half := len(v) / 2
	out := make([]field.Large, half)
	for j := 0; j < half; j++ {
		out[j] = v[j].Embed().Add(v[j].Add(v[j+half]).MulCross(alpha))
	}
	return out
}

// Verifier tracks the running claim across rounds.
type Verifier struct {
	claim field.Large
}

// NewVerifier starts a claim chain at the caller's claimed sum.
func NewVerifier(claim field.Large) *Verifier {
	return &Verifier{claim: claim}
}

// Observe checks the round consistency equation against the running
// claim.
func (s *Verifier) Observe(p RoundPoly) error {
	if p.SumAt01() != s.claim {
		return ErrInconsistentRound
	}
	return nil
}

// Bind fixes the round variable to the sampled challenge; the claim
// becomes p(alpha).
func (s *Verifier) Bind(p RoundPoly, alpha field.Large) {
	s.claim = p.Eval(alpha)
}

// Claim returns the current running claim.
func (s *Verifier) Claim() field.Large { return s.claim }

// SetClaim replaces the running claim; the orchestrator uses it at
// level boundaries where the batched column claims fold in.
func (s *Verifier) SetClaim(c field.Large) { s.claim = c }
