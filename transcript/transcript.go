// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transcript implements the Fiat-Shamir transcript that turns
// the interactive Ligerito protocol into a non-interactive one.
//
// The transcript is a pure hash chain over a 32-byte state. It exposes
// exactly two primitives, labelled absorb and labelled squeeze; every
// challenge of the protocol is derived by squeezing. The expansion
// backend is part of the protocol configuration: blake3 is canonical,
// blake2b, shake128 and sha256 counter mode exist for interoperability
// with deployments that pinned those. Transcripts with different
// backends diverge at the first squeeze, and cross-verification is
// already refused earlier by the configuration digest.
package transcript

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/cloudflare/circl/xof"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"

	"github.com/luxfi/ligerito/field"
)

// ID names a transcript expansion backend.
type ID uint8

const (
	Blake3 ID = iota
	Blake2b
	Shake128
	Sha256
)

var ErrUnknownID = errors.New("transcript: unknown algorithm")

// Separators keep absorbs, squeezes and state ratchets in disjoint
// hash input spaces.
const (
	tagAbsorb  = byte(0xA0)
	tagSqueeze = byte(0xA1)
	tagRatchet = byte(0xA2)
)

// Transcript is the Fiat-Shamir sponge. It is owned by exactly one
// prove or verify call; Clone exists for speculative challenge
// derivation and shares nothing with its origin.
type Transcript struct {
	id    ID
	state [32]byte
}

// New creates a transcript with the given backend, starting from the
// hash of a fixed protocol tag.
func New(id ID) (*Transcript, error) {
	switch id {
	case Blake3, Blake2b, Shake128, Sha256:
	default:
		return nil, ErrUnknownID
	}
	t := &Transcript{id: id}
	t.state = t.sum([]byte("ligerito/v1"))
	return t, nil
}

// Clone returns an independent copy of the transcript state.
func (t *Transcript) Clone() *Transcript {
	c := *t
	return &c
}

func appendLabel(buf []byte, label string) []byte {
	if len(label) > 255 {
		panic("transcript: label too long")
	}
	buf = append(buf, byte(len(label)))
	return append(buf, label...)
}

// Absorb mixes a labelled prover message into the state.
func (t *Transcript) Absorb(label string, data []byte) {
	buf := make([]byte, 0, 34+len(label)+len(data))
	buf = append(buf, t.state[:]...)
	buf = append(buf, tagAbsorb)
	buf = appendLabel(buf, label)
	buf = append(buf, data...)
	t.state = t.sum(buf)
}

// Squeeze derives n labelled challenge bytes and ratchets the state so
// no two squeezes ever see the same seed.
func (t *Transcript) Squeeze(label string, n int) []byte {
	buf := make([]byte, 0, 34+len(label))
	buf = append(buf, t.state[:]...)
	buf = append(buf, tagSqueeze)
	buf = appendLabel(buf, label)
	seed := t.sum(buf)

	out := make([]byte, n)
	t.expand(seed, out)

	buf = buf[:0]
	buf = append(buf, seed[:]...)
	buf = append(buf, tagRatchet)
	t.state = t.sum(buf)
	return out
}

// SampleLarge squeezes 16 bytes and interprets them as an element of
// GF(2^128); the map is a bijection, so the sample is uniform.
func (t *Transcript) SampleLarge(label string) field.Large {
	return field.LargeFromBytes(t.Squeeze(label, field.LargeBytes))
}

// SampleIndices squeezes count distinct column indices below bound,
// returned sorted ascending. bound must be a power of two so the raw
// draw is unbiased.
func (t *Transcript) SampleIndices(label string, count, bound int) []uint32 {
	if bound <= 0 || bound&(bound-1) != 0 {
		panic("transcript: index bound must be a power of two")
	}
	if count > bound {
		panic("transcript: more indices than columns")
	}
	mask := uint32(bound - 1)
	seen := make(map[uint32]struct{}, count)
	out := make([]uint32, 0, count)
	for len(out) < count {
		raw := t.Squeeze(label, 4)
		idx := binary.LittleEndian.Uint32(raw) & mask
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	sortIndices(out)
	return out
}

func sortIndices(s []uint32) {
	// Insertion sort; the index sets are small.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func (t *Transcript) sum(data []byte) [32]byte {
	switch t.id {
	case Blake3:
		return blake3.Sum256(data)
	case Blake2b:
		return blake2b.Sum256(data)
	case Shake128:
		var out [32]byte
		s := xof.SHAKE128.New()
		s.Write(data)
		s.Read(out[:])
		return out
	default:
		return sha256.Sum256(data)
	}
}

func (t *Transcript) expand(seed [32]byte, out []byte) {
	switch t.id {
	case Blake3:
		h := blake3.New()
		h.Write(seed[:])
		h.Digest().Read(out)
	case Blake2b:
		x, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, nil)
		if err != nil {
			panic(err)
		}
		x.Write(seed[:])
		x.Read(out)
	case Shake128:
		s := xof.SHAKE128.New()
		s.Write(seed[:])
		s.Read(out)
	default:
		// sha256 has no XOF mode; expand counter blocks.
		var block [36]byte
		copy(block[:32], seed[:])
		for i := 0; len(out) > 0; i++ {
			binary.LittleEndian.PutUint32(block[32:], uint32(i))
			d := sha256.Sum256(block[:])
			n := copy(out, d[:])
			out = out[n:]
		}
	}
}
