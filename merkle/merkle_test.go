// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import (
	"crypto/sha256"
	"hash"
	"testing"

	"github.com/zeebo/blake3"
)

func blake3Hash() hash.Hash { return blake3.New() }

func testLeaves(n int) [][]byte {
	leaves := make([][]byte, n)
	for i := range leaves {
		leaves[i] = []byte{byte(i), byte(i >> 8), 0xAB}
	}
	return leaves
}

func TestCommitOpenVerify(t *testing.T) {
	for _, newHash := range []func() hash.Hash{blake3Hash, sha256.New} {
		leaves := testLeaves(64)
		tree, err := Commit(leaves, newHash)
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		root := tree.Root()

		cases := [][]uint32{
			{0},
			{63},
			{0, 1},
			{0, 63},
			{5, 6, 7, 8},
			{0, 2, 4, 8, 16, 32, 33, 62, 63},
		}
		for _, indices := range cases {
			proof, err := tree.Open(indices)
			if err != nil {
				t.Fatalf("Open(%v): %v", indices, err)
			}
			opened := make([][]byte, len(indices))
			for i, idx := range indices {
				opened[i] = leaves[idx]
			}
			if err := VerifyMulti(newHash, root, 64, indices, opened, proof); err != nil {
				t.Fatalf("VerifyMulti(%v): %v", indices, err)
			}
		}
	}
}

func TestOpenAllLeaves(t *testing.T) {
	leaves := testLeaves(16)
	tree, err := Commit(leaves, blake3Hash)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	indices := make([]uint32, 16)
	for i := range indices {
		indices[i] = uint32(i)
	}
	proof, err := tree.Open(indices)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Every sibling is recomputable, so the proof carries no nodes.
	if len(proof.Nodes) != 0 {
		t.Fatalf("full opening carried %d nodes", len(proof.Nodes))
	}
	if err := VerifyMulti(blake3Hash, tree.Root(), 16, indices, leaves, proof); err != nil {
		t.Fatalf("VerifyMulti: %v", err)
	}
}

func TestVerifyRejectsTamper(t *testing.T) {
	leaves := testLeaves(32)
	tree, _ := Commit(leaves, blake3Hash)
	root := tree.Root()
	indices := []uint32{3, 17, 30}
	proof, _ := tree.Open(indices)
	opened := [][]byte{leaves[3], leaves[17], leaves[30]}

	// Tampered leaf.
	bad := append([]byte(nil), leaves[17]...)
	bad[0] ^= 1
	if err := VerifyMulti(blake3Hash, root, 32, indices, [][]byte{leaves[3], bad, leaves[30]}, proof); err != ErrProofMismatch {
		t.Fatalf("tampered leaf: got %v", err)
	}

	// Tampered internal node.
	if len(proof.Nodes) == 0 {
		t.Fatal("expected proof nodes")
	}
	badProof := &MultiProof{Nodes: append([][32]byte(nil), proof.Nodes...)}
	badProof.Nodes[0][0] ^= 1
	if err := VerifyMulti(blake3Hash, root, 32, indices, opened, badProof); err != ErrProofMismatch {
		t.Fatalf("tampered node: got %v", err)
	}

	// Wrong root.
	root[5] ^= 1
	if err := VerifyMulti(blake3Hash, root, 32, indices, opened, proof); err != ErrProofMismatch {
		t.Fatalf("wrong root: got %v", err)
	}
}

func TestVerifyRejectsBadIndices(t *testing.T) {
	leaves := testLeaves(8)
	tree, _ := Commit(leaves, blake3Hash)
	root := tree.Root()
	proof, _ := tree.Open([]uint32{1, 2})
	opened := [][]byte{leaves[1], leaves[2]}

	if err := VerifyMulti(blake3Hash, root, 8, []uint32{2, 1}, opened, proof); err != ErrIndexOrder {
		t.Fatalf("unsorted: got %v", err)
	}
	if err := VerifyMulti(blake3Hash, root, 8, []uint32{1, 1}, opened, proof); err != ErrIndexOrder {
		t.Fatalf("duplicate: got %v", err)
	}
	if err := VerifyMulti(blake3Hash, root, 8, []uint32{1, 8}, opened, proof); err != ErrIndexRange {
		t.Fatalf("out of range: got %v", err)
	}
	if err := VerifyMulti(blake3Hash, root, 8, []uint32{1}, opened, proof); err != ErrLeafCount {
		t.Fatalf("leaf count: got %v", err)
	}
	if _, err := tree.Open([]uint32{9}); err != ErrIndexRange {
		t.Fatalf("open out of range: got %v", err)
	}
}

func TestVerifyRejectsTruncatedProof(t *testing.T) {
	leaves := testLeaves(32)
	tree, _ := Commit(leaves, blake3Hash)
	indices := []uint32{4, 21}
	proof, _ := tree.Open(indices)
	opened := [][]byte{leaves[4], leaves[21]}

	short := &MultiProof{Nodes: proof.Nodes[:len(proof.Nodes)-1]}
	if err := VerifyMulti(blake3Hash, tree.Root(), 32, indices, opened, short); err != ErrProofTruncated {
		t.Fatalf("short proof: got %v", err)
	}
	long := &MultiProof{Nodes: append(append([][32]byte(nil), proof.Nodes...), [32]byte{1})}
	if err := VerifyMulti(blake3Hash, tree.Root(), 32, indices, opened, long); err != ErrProofTruncated {
		t.Fatalf("long proof: got %v", err)
	}
}

func TestCommitShapeErrors(t *testing.T) {
	if _, err := Commit(nil, blake3Hash); err != ErrEmptyLeaves {
		t.Fatalf("empty: got %v", err)
	}
	if _, err := Commit(testLeaves(12), blake3Hash); err != ErrNotPowerOfTwo {
		t.Fatalf("non power of two: got %v", err)
	}
}

// Batched proofs must be strictly smaller than one path per index once
// the opened set shares subtrees.
func TestSharedPathCompression(t *testing.T) {
	leaves := testLeaves(256)
	tree, _ := Commit(leaves, blake3Hash)
	indices := []uint32{16, 17, 18, 19}
	proof, _ := tree.Open(indices)
	if len(proof.Nodes) >= 4*8 {
		t.Fatalf("no compression: %d nodes", len(proof.Nodes))
	}
}
