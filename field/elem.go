// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

// Elem is the constraint shared by Small and Large. Generic code over
// Elem (the Reed-Solomon encoder, the matrix commitment) is instantiated
// exactly twice; there is no dynamic dispatch on the arithmetic path.
//
// The zero value of an implementing type is the additive identity.
type Elem[E any] interface {
	comparable
	Add(E) E
	Mul(E) E
	Square() E
	Inv() E
	IsZero() bool
	AppendBytes([]byte) []byte
}

// assertElem only compiles for type arguments that satisfy Elem.
func assertElem[E Elem[E]]() {}

var (
	_ = assertElem[Small]
	_ = assertElem[Large]
)
