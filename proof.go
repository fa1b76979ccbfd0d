// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ligerito

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/ligerito/field"
	"github.com/luxfi/ligerito/merkle"
	"github.com/luxfi/ligerito/sumcheck"
)

// RecursiveStep carries the prover messages of one level transition:
// the opened codeword columns of the level's commitment, their batched
// Merkle proof, and the root of the next (inner) commitment. Exactly
// one of SmallColumns and Columns is set, matching the level's field.
type RecursiveStep struct {
	SmallColumns [][]field.Small
	Columns      [][]field.Large
	Proof        merkle.MultiProof
	InnerRoot    [32]byte
}

// FinalStep carries the fully opened last commitment and the claimed
// final evaluation that closes the sumcheck claim chain.
type FinalStep struct {
	Columns         [][]field.Large
	Proof           merkle.MultiProof
	FinalEvaluation field.Large
}

// Proof is the in-memory form of a proof blob. The evaluation point and
// claimed value are not part of it; they are public inputs supplied to
// Verify out of band.
type Proof struct {
	Version      byte
	ConfigDigest [32]byte
	OuterRoot    [32]byte
	Rounds       []sumcheck.RoundPoly
	Steps        []RecursiveStep
	Final        FinalStep
}

// MarshalBinary serialises the proof. All integers are little-endian;
// field elements use their canonical fixed-width byte form. The only
// length prefix is the node count of each batched Merkle proof, which
// the config cannot imply because shared-path compression depends on
// the sampled indices.
func (p *Proof) MarshalBinary() []byte {
	buf := []byte{p.Version}
	buf = append(buf, p.ConfigDigest[:]...)
	buf = append(buf, p.OuterRoot[:]...)
	for _, rp := range p.Rounds {
		buf = append(buf, rp.Bytes()...)
	}
	for _, step := range p.Steps {
		for _, col := range step.SmallColumns {
			for _, e := range col {
				buf = e.AppendBytes(buf)
			}
		}
		for _, col := range step.Columns {
			for _, e := range col {
				buf = e.AppendBytes(buf)
			}
		}
		buf = appendMerkle(buf, step.Proof)
		buf = append(buf, step.InnerRoot[:]...)
	}
	for _, col := range p.Final.Columns {
		for _, e := range col {
			buf = e.AppendBytes(buf)
		}
	}
	buf = appendMerkle(buf, p.Final.Proof)
	buf = p.Final.FinalEvaluation.AppendBytes(buf)
	return buf
}

func appendMerkle(buf []byte, mp merkle.MultiProof) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(mp.Nodes)))
	for _, n := range mp.Nodes {
		buf = append(buf, n[:]...)
	}
	return buf
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, fmt.Errorf("%w: truncated at offset %d", ErrMalformedProof, r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) merkleProof() (merkle.MultiProof, error) {
	var mp merkle.MultiProof
	b, err := r.take(4)
	if err != nil {
		return mp, err
	}
	count := int(binary.LittleEndian.Uint32(b))
	// A node count the whole blob could not hold is rejected before
	// allocating.
	if count > len(r.buf)/32 {
		return mp, fmt.Errorf("%w: merkle node count %d", ErrMalformedProof, count)
	}
	mp.Nodes = make([][32]byte, count)
	for i := range mp.Nodes {
		b, err := r.take(32)
		if err != nil {
			return mp, err
		}
		copy(mp.Nodes[i][:], b)
	}
	return mp, nil
}

// UnmarshalProof parses a blob against a config. The version and the
// config digest are checked before anything else is touched; a digest
// mismatch is a transcript disagreement, not a parse failure.
func UnmarshalProof(cfg *Config, blob []byte) (*Proof, error) {
	r := &reader{buf: blob}
	b, err := r.take(1)
	if err != nil {
		return nil, err
	}
	p := &Proof{Version: b[0]}
	if p.Version != ConfigVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedProof, p.Version)
	}
	if b, err = r.take(32); err != nil {
		return nil, err
	}
	copy(p.ConfigDigest[:], b)
	if p.ConfigDigest != cfg.Digest() {
		return nil, fmt.Errorf("%w: config digest differs", ErrTranscriptMismatch)
	}
	if b, err = r.take(32); err != nil {
		return nil, err
	}
	copy(p.OuterRoot[:], b)

	p.Rounds = make([]sumcheck.RoundPoly, cfg.NumVars)
	for i := range p.Rounds {
		if b, err = r.take(3 * field.LargeBytes); err != nil {
			return nil, err
		}
		p.Rounds[i] = sumcheck.RoundPolyFromBytes(b)
	}

	p.Steps = make([]RecursiveStep, cfg.RecursiveSteps())
	for l := range p.Steps {
		lp := cfg.Levels[l]
		step := &p.Steps[l]
		if lp.Field == FieldSmall {
			step.SmallColumns = make([][]field.Small, lp.Queries)
			for t := range step.SmallColumns {
				col := make([]field.Small, lp.Rows())
				for i := range col {
					if b, err = r.take(field.SmallBytes); err != nil {
						return nil, err
					}
					col[i] = field.SmallFromBytes(b)
				}
				step.SmallColumns[t] = col
			}
		} else {
			step.Columns = make([][]field.Large, lp.Queries)
			for t := range step.Columns {
				col := make([]field.Large, lp.Rows())
				for i := range col {
					if b, err = r.take(field.LargeBytes); err != nil {
						return nil, err
					}
					col[i] = field.LargeFromBytes(b)
				}
				step.Columns[t] = col
			}
		}
		if step.Proof, err = r.merkleProof(); err != nil {
			return nil, err
		}
		if b, err = r.take(32); err != nil {
			return nil, err
		}
		copy(step.InnerRoot[:], b)
	}

	final := cfg.Levels[len(cfg.Levels)-1]
	p.Final.Columns = make([][]field.Large, final.Queries)
	for t := range p.Final.Columns {
		col := make([]field.Large, final.Rows())
		for i := range col {
			if b, err = r.take(field.LargeBytes); err != nil {
				return nil, err
			}
			col[i] = field.LargeFromBytes(b)
		}
		p.Final.Columns[t] = col
	}
	if p.Final.Proof, err = r.merkleProof(); err != nil {
		return nil, err
	}
	if b, err = r.take(field.LargeBytes); err != nil {
		return nil, err
	}
	p.Final.FinalEvaluation = field.LargeFromBytes(b)

	if r.off != len(blob) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedProof, len(blob)-r.off)
	}
	return p, nil
}
