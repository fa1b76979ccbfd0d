// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package field implements the two binary fields used by the Ligerito
// polynomial commitment scheme: the small field GF(2^32) and the large
// field GF(2^128).
//
// Both fields are levels of the Wiedemann tower
//
//	T_0 = GF(2),  T_{k+1} = T_k[X_k] / (X_k^2 + X_k*X_{k-1} + 1),  X_{-1} = 1,
//
// so an element of T_k is a bit string of length 2^k and addition is XOR.
// The low half of a level-(k+1) element is its constant coordinate over
// T_k, which makes the subfield embedding a plain zero-extension and the
// small-by-large product a per-coordinate small multiplication.
//
// All arithmetic here is scalar reference code; platform carryless
// multiply intrinsics can be slotted in behind the same API and must
// agree bitwise with this implementation.
package field

import (
	"encoding/binary"
	"fmt"
)

// Byte widths of the canonical little-endian serialisations.
const (
	SmallBytes = 4
	LargeBytes = 16
)

// Small is an element of GF(2^32), tower level 5.
type Small uint32

// Large is an element of GF(2^128), tower level 7. Lo holds the low
// 64 bits (the constant coordinate over GF(2^64)).
type Large struct {
	Lo, Hi uint64
}

var (
	SmallZero = Small(0)
	SmallOne  = Small(1)
	LargeZero = Large{}
	LargeOne  = Large{Lo: 1}
)

// Add returns a + b. In characteristic 2 this is XOR.
func (a Small) Add(b Small) Small { return a ^ b }

// Mul returns a * b in GF(2^32).
func (a Small) Mul(b Small) Small {
	return Small(towerMul(uint64(a), uint64(b), 32))
}

// Square returns a * a.
func (a Small) Square() Small { return a.Mul(a) }

// IsZero reports whether a is the additive identity.
func (a Small) IsZero() bool { return a == 0 }

// Inv returns the multiplicative inverse of a, computed as a^(2^32 - 2).
// Inverting zero is a programmer error and panics.
func (a Small) Inv() Small {
	if a == 0 {
		panic("field: inverse of zero")
	}
	// a^(2^31 - 1) by 31 square-and-multiply steps, then one final
	// squaring gives the exponent 2^32 - 2.
	r := SmallOne
	for i := 0; i < 31; i++ {
		r = r.Square().Mul(a)
	}
	return r.Square()
}

// Embed lifts a into GF(2^128) as its constant tower coordinate.
// The embedding is an injective ring homomorphism.
func (a Small) Embed() Large { return Large{Lo: uint64(a)} }

// MulCross returns a * l without promoting a to the large field. The
// large element is a 4-dimensional vector space over GF(2^32), so the
// product acts on each 32-bit coordinate independently. This costs four
// small multiplications instead of one large one.
func (a Small) MulCross(l Large) Large {
	s := uint64(a)
	c0 := towerMul(s, l.Lo&0xFFFFFFFF, 32)
	c1 := towerMul(s, l.Lo>>32, 32)
	c2 := towerMul(s, l.Hi&0xFFFFFFFF, 32)
	c3 := towerMul(s, l.Hi>>32, 32)
	return Large{Lo: c1<<32 | c0, Hi: c3<<32 | c2}
}

// AppendBytes appends the canonical 4-byte little-endian form.
func (a Small) AppendBytes(b []byte) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(a))
}

// SmallFromBytes reads the canonical 4-byte little-endian form.
func SmallFromBytes(b []byte) Small {
	return Small(binary.LittleEndian.Uint32(b))
}

func (a Small) String() string { return fmt.Sprintf("0x%08x", uint32(a)) }

// Add returns a + b.
func (a Large) Add(b Large) Large { return Large{Lo: a.Lo ^ b.Lo, Hi: a.Hi ^ b.Hi} }

// Mul returns a * b in GF(2^128). The two GF(2^64) coordinates are
// combined by Karatsuba; the reduction X^2 = X*X' + 1 folds the high
// product back with one generator multiplication.
func (a Large) Mul(b Large) Large {
	z0 := towerMul(a.Lo, b.Lo, 64)
	z2 := towerMul(a.Hi, b.Hi, 64)
	z1 := towerMul(a.Lo^a.Hi, b.Lo^b.Hi, 64) ^ z0 ^ z2
	return Large{Lo: z0 ^ z2, Hi: z1 ^ towerMulGen(z2, 64)}
}

// Square returns a * a.
func (a Large) Square() Large { return a.Mul(a) }

// IsZero reports whether a is the additive identity.
func (a Large) IsZero() bool { return a.Lo == 0 && a.Hi == 0 }

// Inv returns the multiplicative inverse of a, computed as a^(2^128 - 2).
// Inverting zero is a programmer error and panics.
func (a Large) Inv() Large {
	if a.IsZero() {
		panic("field: inverse of zero")
	}
	r := LargeOne
	for i := 0; i < 127; i++ {
		r = r.Square().Mul(a)
	}
	return r.Square()
}

// AppendBytes appends the canonical 16-byte little-endian form, low
// limb first.
func (a Large) AppendBytes(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, a.Lo)
	return binary.LittleEndian.AppendUint64(b, a.Hi)
}

// LargeFromBytes reads the canonical 16-byte little-endian form.
func LargeFromBytes(b []byte) Large {
	return Large{
		Lo: binary.LittleEndian.Uint64(b),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}
}

func (a Large) String() string { return fmt.Sprintf("0x%016x%016x", a.Hi, a.Lo) }

// BatchInvert inverts every nonzero entry of a using Montgomery's trick:
// one multiplication per nonzero entry to build running products, one
// inversion, two multiplications per nonzero entry to unwind. Zero
// entries are left as zero.
func BatchInvert(a []Large) []Large {
	res := make([]Large, len(a))
	if len(a) == 0 {
		return res
	}
	acc := make([]Large, len(a))
	run := LargeOne
	for i, x := range a {
		acc[i] = run
		if !x.IsZero() {
			run = run.Mul(x)
		}
	}
	inv := run.Inv()
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].IsZero() {
			continue
		}
		res[i] = inv.Mul(acc[i])
		inv = inv.Mul(a[i])
	}
	return res
}

// SmallBasis returns the first n elements of the F2 basis of GF(2^32),
// beta_k = the element with coordinate bit k set. n is at most 32.
func SmallBasis(n int) []Small {
	if n > 32 {
		panic("field: small basis exceeds field dimension")
	}
	basis := make([]Small, n)
	for k := range basis {
		basis[k] = Small(1) << k
	}
	return basis
}

// LargeBasis returns the first n elements of the F2 basis of GF(2^128).
// n is at most 128.
func LargeBasis(n int) []Large {
	if n > 128 {
		panic("field: large basis exceeds field dimension")
	}
	basis := make([]Large, n)
	for k := range basis {
		if k < 64 {
			basis[k] = Large{Lo: 1 << k}
		} else {
			basis[k] = Large{Hi: 1 << (k - 64)}
		}
	}
	return basis
}
