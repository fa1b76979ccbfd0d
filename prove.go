// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ligerito

import (
	"fmt"

	log "github.com/luxfi/log"

	"github.com/luxfi/ligerito/field"
	"github.com/luxfi/ligerito/ntt"
	"github.com/luxfi/ligerito/sumcheck"
	"github.com/luxfi/ligerito/transcript"
)

// Transcript labels. Every absorb and squeeze of the protocol carries
// one of these; the schedule is fixed and identical for prover and
// verifier.
const (
	labelConfig   = "ligerito/config"
	labelPoint    = "ligerito/point"
	labelClaim    = "ligerito/claim"
	labelRoot     = "ligerito/root"
	labelSumcheck = "ligerito/sumcheck"
	labelAlpha    = "ligerito/alpha"
	labelColumns  = "ligerito/columns"
	labelBatch    = "ligerito/batch"
	labelFinal    = "ligerito/final"
)

// ProverOption configures a Prove call.
type ProverOption func(*proverState)

// WithLogger attaches a logger for per-level progress. The verifier
// never logs.
func WithLogger(l log.Logger) ProverOption {
	return func(p *proverState) { p.log = l }
}

type proverState struct {
	cfg *Config
	tr  *transcript.Transcript
	log log.Logger

	proof *Proof

	// Sumcheck tables over the remaining hypercube. vSmall is live
	// until the first outer round folds it into vLarge.
	wTable []field.Large
	vSmall []field.Small
	vLarge []field.Large

	// Current level's commitment, exactly one set.
	cmSmall *committed[field.Small]
	cmLarge *committed[field.Large]

	smallDom *ntt.Domain[field.Small]
	largeDom *ntt.Domain[field.Large] // domain of the current large level
}

// Prove commits to the multilinear polynomial with the given monomial
// coefficient vector and produces a proof that it evaluates to value at
// point. The call is deterministic: the transcript fully determines all
// challenges and no randomness is sampled outside it.
func Prove(cfg *Config, coeffs []field.Small, point []field.Large, value field.Large, opts ...ProverOption) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrConfigInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(coeffs) != ExpectedPolynomialLength(cfg) {
		return nil, fmt.Errorf("%w: got %d coefficients, config commits to %d",
			ErrShapeMismatch, len(coeffs), ExpectedPolynomialLength(cfg))
	}
	if len(point) != cfg.NumVars {
		return nil, fmt.Errorf("%w: evaluation point has %d coordinates, want %d",
			ErrShapeMismatch, len(point), cfg.NumVars)
	}

	p := &proverState{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}

	tr, err := transcript.New(cfg.Transcript)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	p.tr = tr

	digest := cfg.Digest()
	p.proof = &Proof{Version: ConfigVersion, ConfigDigest: digest}
	tr.Absorb(labelConfig, digest[:])
	var pub []byte
	for _, z := range point {
		pub = z.AppendBytes(pub)
	}
	tr.Absorb(labelPoint, pub)
	tr.Absorb(labelClaim, value.AppendBytes(nil))

	if err := p.commitOuter(coeffs); err != nil {
		return nil, err
	}
	tr.Absorb(labelRoot, p.proof.OuterRoot[:])

	// The weight table starts as the monomial evaluation-point tensor,
	// so the claim chain opens at sum_i w[i]*v[i] = f(point) = value.
	p.wTable = make([]field.Large, len(coeffs))
	ws := newPointWeights(point)
	expandTensor(p.wTable, field.LargeOne, ws.tensors[0].factors)

	for l := range cfg.Levels {
		if err := p.runLevel(l); err != nil {
			return nil, err
		}
	}
	return p.proof.MarshalBinary(), nil
}

func (p *proverState) commitOuter(coeffs []field.Small) error {
	lp := p.cfg.Levels[0]
	newHash := p.cfg.newHash()
	if lp.Field == FieldSmall {
		dom, err := ntt.NewDomain(lp.LogCols+lp.LogInvRate, field.SmallBasis(lp.LogCols+lp.LogInvRate))
		if err != nil {
			return err
		}
		p.smallDom = dom
		cm, err := commitMatrix(coeffs, lp, dom, newHash)
		if err != nil {
			return err
		}
		p.cmSmall = cm
		p.vSmall = coeffs
		p.proof.OuterRoot = cm.root
		return nil
	}
	// Large-field outer level: promote the coefficients up front.
	dom, err := ntt.NewDomain(lp.LogCols+lp.LogInvRate, field.LargeBasis(lp.LogCols+lp.LogInvRate))
	if err != nil {
		return err
	}
	p.largeDom = dom
	vec := make([]field.Large, len(coeffs))
	for i, c := range coeffs {
		vec[i] = c.Embed()
	}
	cm, err := commitMatrix(vec, lp, dom, newHash)
	if err != nil {
		return err
	}
	p.cmLarge = cm
	p.vLarge = vec
	p.proof.OuterRoot = cm.root
	return nil
}

// runLevel executes one level: its sumcheck rounds, then either the
// transition to the next commitment or the final opening.
func (p *proverState) runLevel(l int) error {
	lp := p.cfg.Levels[l]
	for t := 0; t < lp.LogRows; t++ {
		var rp sumcheck.RoundPoly
		if p.vSmall != nil {
			rp = sumcheck.RoundSmall(p.wTable, p.vSmall)
		} else {
			rp = sumcheck.Round(p.wTable, p.vLarge)
		}
		p.proof.Rounds = append(p.proof.Rounds, rp)
		p.tr.Absorb(labelSumcheck, rp.Bytes())
		alpha := p.tr.SampleLarge(labelAlpha)
		p.wTable = sumcheck.Fold(p.wTable, alpha)
		if p.vSmall != nil {
			p.vLarge = sumcheck.FoldSmall(p.vSmall, alpha)
			p.vSmall = nil
		} else {
			p.vLarge = sumcheck.Fold(p.vLarge, alpha)
		}
	}
	if l < p.cfg.RecursiveSteps() {
		return p.transition(l)
	}
	return p.finish(l)
}

// transition opens the sampled columns of the current commitment,
// commits the folded value table as the next level, and folds the
// opened-column claims into the weight table with the batching scalar.
func (p *proverState) transition(l int) error {
	lp := p.cfg.Levels[l]
	indices := p.tr.SampleIndices(labelColumns, lp.Queries, lp.CodewordCols())

	var step RecursiveStep
	if p.cmSmall != nil {
		step.SmallColumns = p.cmSmall.columns(indices)
		mp, err := p.cmSmall.tree.Open(indices)
		if err != nil {
			return err
		}
		step.Proof = *mp
	} else {
		step.Columns = p.cmLarge.columns(indices)
		mp, err := p.cmLarge.tree.Open(indices)
		if err != nil {
			return err
		}
		step.Proof = *mp
	}
	lambda := p.tr.SampleLarge(labelBatch)

	// The spot claims enc(v)[j] = y_j become weight tensors scaled by
	// powers of the batching scalar.
	pw := lambda
	for _, j := range indices {
		var fs []factor
		if p.cmSmall != nil {
			fs = codeFactors(p.smallDom, lp.LogCols, j, liftSmall)
		} else {
			fs = codeFactors(p.largeDom, lp.LogCols, j, liftLarge)
		}
		expandTensor(p.wTable, pw, fs)
		pw = pw.Mul(lambda)
	}

	// The folded value table is the next committed vector. Encoding
	// copies it, so later folds do not alias the commitment.
	next := p.cfg.Levels[l+1]
	dom, err := ntt.NewDomain(next.LogCols+next.LogInvRate, field.LargeBasis(next.LogCols+next.LogInvRate))
	if err != nil {
		return err
	}
	cm, err := commitMatrix(p.vLarge, next, dom, p.cfg.newHash())
	if err != nil {
		return err
	}
	step.InnerRoot = cm.root
	p.tr.Absorb(labelRoot, cm.root[:])
	p.proof.Steps = append(p.proof.Steps, step)

	if p.log != nil {
		p.log.Debug("ligerito level committed",
			"level", l+1, "rows", next.Rows(), "cols", next.Cols(), "queries", lp.Queries)
	}

	// The previous level's matrix is the peak-memory object; release
	// it now that its columns are opened.
	p.cmSmall = nil
	p.cmLarge = cm
	p.smallDom = nil
	p.largeDom = dom
	return nil
}

// finish opens every codeword column of the last commitment. The final
// vector has a single message column, so each codeword column is the
// vector itself; publishing them all lets the verifier check the
// commitment directly against the claimed final evaluation.
func (p *proverState) finish(l int) error {
	lp := p.cfg.Levels[l]
	cc := lp.CodewordCols()
	indices := make([]uint32, cc)
	for j := range indices {
		indices[j] = uint32(j)
	}
	p.proof.Final.Columns = p.cmLarge.columns(indices)
	mp, err := p.cmLarge.tree.Open(indices)
	if err != nil {
		return err
	}
	p.proof.Final.Proof = *mp
	e := p.vLarge[0]
	p.proof.Final.FinalEvaluation = e
	p.tr.Absorb(labelFinal, e.AppendBytes(nil))
	p.cmLarge = nil
	return nil
}
