// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ligerito

import (
	"fmt"
	"hash"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/ligerito/field"
	"github.com/luxfi/ligerito/merkle"
	"github.com/luxfi/ligerito/ntt"
)

// committed is one level's Ligero commitment on the prover side: the
// encoded matrix and its column Merkle tree. It is the peak-memory
// object of its level and is released as soon as the level's columns
// have been opened.
type committed[E field.Elem[E]] struct {
	enc  [][]E // encoded rows, each of codeword-column length
	tree *merkle.Tree
	root [32]byte
}

// commitMatrix reshapes vec row-major into the level's matrix,
// Reed-Solomon encodes every row, hashes every codeword column and
// builds the Merkle tree. Rows encode and columns hash in parallel;
// both are independent by construction.
func commitMatrix[E field.Elem[E]](vec []E, lp LevelParams, dom *ntt.Domain[E], newHash func() hash.Hash) (*committed[E], error) {
	rows, cols := lp.Rows(), lp.Cols()
	if len(vec) != rows*cols {
		return nil, fmt.Errorf("%w: vector length %d does not fill a %dx%d matrix",
			ErrShapeMismatch, len(vec), rows, cols)
	}

	c := &committed[E]{enc: make([][]E, rows)}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < rows; i++ {
		g.Go(func() error {
			row, err := dom.Encode(vec[i*cols:(i+1)*cols], lp.LogInvRate)
			if err != nil {
				return err
			}
			c.enc[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cc := lp.CodewordCols()
	leaves := make([][]byte, cc)
	var hg errgroup.Group
	hg.SetLimit(runtime.GOMAXPROCS(0))
	for j := 0; j < cc; j++ {
		hg.Go(func() error {
			leaves[j] = c.columnBytes(uint32(j))
			return nil
		})
	}
	if err := hg.Wait(); err != nil {
		return nil, err
	}

	tree, err := merkle.Commit(leaves, newHash)
	if err != nil {
		return nil, err
	}
	c.tree = tree
	c.root = tree.Root()
	return c, nil
}

// column returns codeword column j as a field vector.
func (c *committed[E]) column(j uint32) []E {
	col := make([]E, len(c.enc))
	for i, row := range c.enc {
		col[i] = row[j]
	}
	return col
}

// columns returns the codeword columns at the given indices.
func (c *committed[E]) columns(indices []uint32) [][]E {
	out := make([][]E, len(indices))
	for t, j := range indices {
		out[t] = c.column(j)
	}
	return out
}

// columnBytes serialises column j in row order, the leaf encoding of
// the column Merkle tree.
func (c *committed[E]) columnBytes(j uint32) []byte {
	var buf []byte
	for _, row := range c.enc {
		buf = row[j].AppendBytes(buf)
	}
	return buf
}

// columnLeaves serialises received column vectors the same way the
// prover hashed them, for the verifier's Merkle check.
func columnLeaves[E field.Elem[E]](cols [][]E) [][]byte {
	leaves := make([][]byte, len(cols))
	for t, col := range cols {
		var buf []byte
		for _, e := range col {
			buf = e.AppendBytes(buf)
		}
		leaves[t] = buf
	}
	return leaves
}

// codeFactors returns the weight-tensor factors of the claim
// "codeword symbol j of the level's row code", one factor per message
// index bit, most significant variable first. The novel polynomial
// basis is multiplicative over the bits, X_i(w_j) = prod_k
// Whats_k(w_j)^{bit_k(i)}, which is exactly what makes this claim a
// tensor. lift embeds small-field subspace values into the large field
// where the sumcheck runs.
func codeFactors[E field.Elem[E]](dom *ntt.Domain[E], logCols int, j uint32, lift func(E) field.Large) []factor {
	fs := make([]factor, logCols)
	for u := 0; u < logCols; u++ {
		k := logCols - 1 - u // variable u binds the MSB-first bit, basis counts LSB-first
		fs[u] = factor{f0: field.LargeOne, f1: lift(dom.BasisEval(k, uint64(j)))}
	}
	return fs
}

func liftSmall(e field.Small) field.Large { return e.Embed() }
func liftLarge(e field.Large) field.Large { return e }
