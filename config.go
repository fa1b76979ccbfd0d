// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ligerito

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"

	"github.com/luxfi/ligerito/transcript"
)

// FieldKind selects the field a level's matrix lives in.
type FieldKind uint8

const (
	FieldSmall FieldKind = iota // GF(2^32)
	FieldLarge                  // GF(2^128)
)

// HashID selects the Merkle and config-digest hash.
type HashID uint8

const (
	HashBlake3 HashID = iota
	HashSha256
)

// BasisID selects the Reed-Solomon evaluation basis.
type BasisID uint8

// BasisTower is the Wiedemann tower basis, the only basis of the v1
// wire format.
const BasisTower BasisID = 0

// ConfigVersion is bumped for any change that alters the proof byte
// layout.
const ConfigVersion = 1

// LevelParams fixes one level of the commitment tower.
type LevelParams struct {
	LogRows    int       // log2 of matrix rows; sumcheck rounds at this level
	LogCols    int       // log2 of matrix cols; message length of the row code
	LogInvRate int       // log2 of the Reed-Solomon inverse rate
	Queries    int       // opened codeword columns at this level
	Field      FieldKind // matrix field
}

// Rows returns the matrix row count.
func (lp LevelParams) Rows() int { return 1 << lp.LogRows }

// Cols returns the matrix column count before encoding.
func (lp LevelParams) Cols() int { return 1 << lp.LogCols }

// CodewordCols returns the encoded column count.
func (lp LevelParams) CodewordCols() int { return 1 << (lp.LogCols + lp.LogInvRate) }

// Config enumerates every public parameter of the scheme. It is
// validated once at entry; the digest of the record is the first value
// absorbed into the transcript, so prover and verifier cannot silently
// disagree on any of it.
type Config struct {
	Version    uint8
	NumVars    int           // n; committed length is 2^n
	Levels     []LevelParams // outer level first, final level last
	Hash       HashID
	Transcript transcript.ID
	Basis      BasisID
}

// RecursiveSteps returns K, the number of inner commitments.
func (c *Config) RecursiveSteps() int { return len(c.Levels) - 1 }

// ExpectedPolynomialLength returns the coefficient count the config
// commits to.
func ExpectedPolynomialLength(c *Config) int { return 1 << c.NumVars }

// Validate checks every structural invariant. Any violation is
// ErrConfigInvalid; the scheme never repairs a config.
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, fmt.Sprintf(format, args...))
	}
	if c.Version != ConfigVersion {
		return fail("unsupported version %d", c.Version)
	}
	if c.Basis != BasisTower {
		return fail("unknown basis %d", c.Basis)
	}
	switch c.Hash {
	case HashBlake3, HashSha256:
	default:
		return fail("unknown hash %d", c.Hash)
	}
	switch c.Transcript {
	case transcript.Blake3, transcript.Blake2b, transcript.Shake128, transcript.Sha256:
	default:
		return fail("unknown transcript %d", c.Transcript)
	}
	if c.NumVars < 1 || c.NumVars > 32 {
		return fail("unsupported variable count %d", c.NumVars)
	}
	if len(c.Levels) < 2 {
		return fail("need at least an outer and a final level")
	}
	rounds := 0
	for i, lp := range c.Levels {
		if lp.LogRows < 1 || lp.LogCols < 0 || lp.LogInvRate < 1 {
			return fail("level %d: degenerate shape", i)
		}
		if lp.Queries < 1 || lp.Queries > lp.CodewordCols() {
			return fail("level %d: query count %d outside (0, %d]", i, lp.Queries, lp.CodewordCols())
		}
		switch lp.Field {
		case FieldSmall:
			if i != 0 {
				return fail("level %d: only the outer level may use the small field", i)
			}
			if lp.LogCols+lp.LogInvRate > 32 {
				return fail("level %d: code domain exceeds the small field", i)
			}
		case FieldLarge:
			if lp.LogCols+lp.LogInvRate > 64 {
				return fail("level %d: code domain exceeds the supported basis", i)
			}
		default:
			return fail("level %d: unknown field", i)
		}
		if i > 0 {
			prev := c.Levels[i-1]
			if lp.LogRows+lp.LogCols != prev.LogCols {
				return fail("level %d: shape does not chain (2^%d * 2^%d != 2^%d)",
					i, lp.LogRows, lp.LogCols, prev.LogCols)
			}
			if prev.Field == FieldLarge && lp.Field == FieldSmall {
				return fail("level %d: field downgrade", i)
			}
			if lp.LogRows+lp.LogCols >= prev.LogRows+prev.LogCols {
				return fail("level %d: tower does not shrink", i)
			}
		}
		rounds += lp.LogRows
	}
	final := c.Levels[len(c.Levels)-1]
	if final.LogCols != 0 {
		return fail("final level must reduce to a single column")
	}
	if final.Queries != final.CodewordCols() {
		return fail("final level must open every codeword column")
	}
	if rounds != c.NumVars {
		return fail("level rows sum to %d rounds, want %d", rounds, c.NumVars)
	}
	return nil
}

// Digest returns the 32-byte hash of the canonical serialisation of
// the config record. It is a pure function of the record.
func (c *Config) Digest() [32]byte {
	buf := []byte{c.Version, byte(c.Hash), byte(c.Transcript), byte(c.Basis)}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(c.NumVars))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c.Levels)))
	for _, lp := range c.Levels {
		buf = append(buf, byte(lp.LogRows), byte(lp.LogCols), byte(lp.LogInvRate), byte(lp.Field))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(lp.Queries))
	}
	if c.Hash == HashSha256 {
		return sha256.Sum256(buf)
	}
	return blake3.Sum256(buf)
}

// newHash returns the Merkle hash constructor the config pins.
func (c *Config) newHash() func() hash.Hash {
	if c.Hash == HashSha256 {
		return sha256.New
	}
	return func() hash.Hash { return blake3.New() }
}

// canonicalShapes lists the published level shapes. Outer levels keep
// the paper's 148 queries at inverse rate 4 in the small field, except
// n=12, whose outer level opens 64 columns to keep the proof small; inner
// levels trade a deeper code (inverse rate 8) for 80 queries in the
// large field so opened-column payloads stay flat across the tower.
var canonicalShapes = map[int][]LevelParams{
	12: {
		{LogRows: 6, LogCols: 6, LogInvRate: 2, Queries: 64, Field: FieldSmall},
		{LogRows: 6, LogCols: 0, LogInvRate: 2, Queries: 4, Field: FieldLarge},
	},
	16: {
		{LogRows: 6, LogCols: 10, LogInvRate: 2, Queries: 148, Field: FieldSmall},
		{LogRows: 4, LogCols: 6, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 6, LogCols: 0, LogInvRate: 2, Queries: 4, Field: FieldLarge},
	},
	20: {
		{LogRows: 6, LogCols: 14, LogInvRate: 2, Queries: 148, Field: FieldSmall},
		{LogRows: 4, LogCols: 10, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 6, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 6, LogCols: 0, LogInvRate: 2, Queries: 4, Field: FieldLarge},
	},
	24: {
		{LogRows: 6, LogCols: 18, LogInvRate: 2, Queries: 148, Field: FieldSmall},
		{LogRows: 4, LogCols: 14, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 10, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 6, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 6, LogCols: 0, LogInvRate: 2, Queries: 4, Field: FieldLarge},
	},
	28: {
		{LogRows: 6, LogCols: 22, LogInvRate: 2, Queries: 148, Field: FieldSmall},
		{LogRows: 4, LogCols: 18, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 14, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 10, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 6, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 6, LogCols: 0, LogInvRate: 2, Queries: 4, Field: FieldLarge},
	},
	30: {
		{LogRows: 6, LogCols: 24, LogInvRate: 2, Queries: 148, Field: FieldSmall},
		{LogRows: 4, LogCols: 20, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 16, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 12, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 8, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 4, LogInvRate: 3, Queries: 80, Field: FieldLarge},
		{LogRows: 4, LogCols: 0, LogInvRate: 2, Queries: 4, Field: FieldLarge},
	},
}

// CanonicalConfig returns the published interoperability config for
// n in {12, 16, 20, 24, 28, 30}: blake3 hash and transcript over the
// tower basis.
func CanonicalConfig(n int) (*Config, error) {
	shapes, ok := canonicalShapes[n]
	if !ok {
		return nil, fmt.Errorf("%w: no canonical config for n=%d", ErrConfigInvalid, n)
	}
	levels := make([]LevelParams, len(shapes))
	copy(levels, shapes)
	cfg := &Config{
		Version:    ConfigVersion,
		NumVars:    n,
		Levels:     levels,
		Hash:       HashBlake3,
		Transcript: transcript.Blake3,
		Basis:      BasisTower,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
