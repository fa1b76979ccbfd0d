// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ligerito

import (
	"fmt"
	"hash"

	"github.com/luxfi/ligerito/field"
	"github.com/luxfi/ligerito/merkle"
	"github.com/luxfi/ligerito/ntt"
	"github.com/luxfi/ligerito/sumcheck"
	"github.com/luxfi/ligerito/transcript"
)

// Verify checks a proof blob against the public inputs. A nil return is
// acceptance. Any non-nil return is a rejection; the error kind is
// diagnostic only and carries no cryptographic distinction.
//
// The verifier is single-threaded and never materialises a polynomial
// or an encoded matrix: it touches only roots, opened columns, round
// polynomials and the folded weight scalars.
func Verify(cfg *Config, point []field.Large, value field.Large, blob []byte) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrConfigInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(point) != cfg.NumVars {
		return fmt.Errorf("%w: evaluation point has %d coordinates, want %d",
			ErrShapeMismatch, len(point), cfg.NumVars)
	}
	proof, err := UnmarshalProof(cfg, blob)
	if err != nil {
		return err
	}

	tr, err := transcript.New(cfg.Transcript)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	digest := cfg.Digest()
	tr.Absorb(labelConfig, digest[:])
	var pub []byte
	for _, z := range point {
		pub = z.AppendBytes(pub)
	}
	tr.Absorb(labelPoint, pub)
	tr.Absorb(labelClaim, value.AppendBytes(nil))
	tr.Absorb(labelRoot, proof.OuterRoot[:])

	ws := newPointWeights(point)
	sc := sumcheck.NewVerifier(value)
	newHash := cfg.newHash()

	roundIdx := 0
	for l, lp := range cfg.Levels {
		alphas := make([]field.Large, 0, lp.LogRows)
		for t := 0; t < lp.LogRows; t++ {
			rp := proof.Rounds[roundIdx]
			roundIdx++
			tr.Absorb(labelSumcheck, rp.Bytes())
			if err := sc.Observe(rp); err != nil {
				return fmt.Errorf("%w: round %d", ErrSumcheckFailed, roundIdx-1)
			}
			alpha := tr.SampleLarge(labelAlpha)
			sc.Bind(rp, alpha)
			ws.fold(alpha)
			alphas = append(alphas, alpha)
		}

		root := proof.OuterRoot
		if l > 0 {
			root = proof.Steps[l-1].InnerRoot
		}

		if l < cfg.RecursiveSteps() {
			if err := verifyStep(cfg, l, tr, sc, ws, &proof.Steps[l], root, alphas, newHash); err != nil {
				return err
			}
			continue
		}

		// Final level: every codeword column of the last commitment is
		// open, each one a copy of the final vector.
		indices := make([]uint32, lp.CodewordCols())
		for j := range indices {
			indices[j] = uint32(j)
		}
		leaves := columnLeaves(proof.Final.Columns)
		if err := merkle.VerifyMulti(newHash, root, lp.CodewordCols(), indices, leaves, &proof.Final.Proof); err != nil {
			return fmt.Errorf("%w: final level: %v", ErrBadMerkleProof, err)
		}
		e := proof.Final.FinalEvaluation
		eq := expandEq(alphas)
		first := proof.Final.Columns[0]
		for t, col := range proof.Final.Columns {
			y := field.LargeZero
			for i, w := range eq {
				y = y.Add(w.Mul(col[i]))
			}
			if y != e {
				return fmt.Errorf("%w: final column %d does not fold to the claimed evaluation",
					ErrLigerConsistency, t)
			}
			if t > 0 {
				for i := range col {
					if col[i] != first[i] {
						return fmt.Errorf("%w: final columns disagree", ErrLigerConsistency)
					}
				}
			}
		}
		tr.Absorb(labelFinal, e.AppendBytes(nil))
		if ws.scalar().Mul(e) != sc.Claim() {
			return fmt.Errorf("%w", ErrFinalEvaluationMismatch)
		}
	}
	return nil
}

// verifyStep replays one level transition: derive the column indices,
// check the batched opening against the level root, fold the opened
// columns with this level's challenge weights, and batch the resulting
// spot claims into the running claim and the weight set.
func verifyStep(cfg *Config, l int, tr *transcript.Transcript, sc *sumcheck.Verifier,
	ws *weightSet, step *RecursiveStep, root [32]byte, alphas []field.Large,
	newHash func() hash.Hash) error {

	lp := cfg.Levels[l]
	indices := tr.SampleIndices(labelColumns, lp.Queries, lp.CodewordCols())

	var leaves [][]byte
	if lp.Field == FieldSmall {
		leaves = columnLeaves(step.SmallColumns)
	} else {
		leaves = columnLeaves(step.Columns)
	}
	if err := merkle.VerifyMulti(newHash, root, lp.CodewordCols(), indices, leaves, &step.Proof); err != nil {
		return fmt.Errorf("%w: level %d: %v", ErrBadMerkleProof, l, err)
	}

	lambda := tr.SampleLarge(labelBatch)
	eq := expandEq(alphas)
	claim := sc.Claim()
	pw := lambda

	if lp.Field == FieldSmall {
		dom, err := ntt.NewDomain(lp.LogCols+lp.LogInvRate, field.SmallBasis(lp.LogCols+lp.LogInvRate))
		if err != nil {
			return err
		}
		for t, j := range indices {
			col := step.SmallColumns[t]
			y := field.LargeZero
			for i, w := range eq {
				y = y.Add(col[i].MulCross(w))
			}
			claim = claim.Add(pw.Mul(y))
			ws.add(pw, codeFactors(dom, lp.LogCols, j, liftSmall))
			pw = pw.Mul(lambda)
		}
	} else {
		dom, err := ntt.NewDomain(lp.LogCols+lp.LogInvRate, field.LargeBasis(lp.LogCols+lp.LogInvRate))
		if err != nil {
			return err
		}
		for t, j := range indices {
			col := step.Columns[t]
			y := field.LargeZero
			for i, w := range eq {
				y = y.Add(w.Mul(col[i]))
			}
			claim = claim.Add(pw.Mul(y))
			ws.add(pw, codeFactors(dom, lp.LogCols, j, liftLarge))
			pw = pw.Mul(lambda)
		}
	}
	sc.SetClaim(claim)
	tr.Absorb(labelRoot, step.InnerRoot[:])
	return nil
}
