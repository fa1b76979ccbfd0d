// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ligerito

import "errors"

// Error kinds, exhaustive. Verification failures are not distinguished
// in the cryptographic sense; the taxonomy exists for diagnostics and
// each kind carries a stable machine-readable code via ErrorCode.
var (
	// ErrShapeMismatch: polynomial length or a matrix dimension does
	// not match the configuration.
	ErrShapeMismatch = errors.New("ligerito: shape mismatch")

	// ErrTranscriptMismatch: config digest or public inputs differ
	// between prover and verifier.
	ErrTranscriptMismatch = errors.New("ligerito: transcript mismatch")

	// ErrBadMerkleProof: a column opening fails against its root.
	ErrBadMerkleProof = errors.New("ligerito: bad merkle proof")

	// ErrSumcheckFailed: a round polynomial breaks the p(0)+p(1)
	// consistency equation.
	ErrSumcheckFailed = errors.New("ligerito: sumcheck failed")

	// ErrLigerConsistency: opened columns are inconsistent with the
	// running claim and the recursion weights.
	ErrLigerConsistency = errors.New("ligerito: liger consistency failed")

	// ErrFinalEvaluationMismatch: the claimed final evaluation does
	// not close the sumcheck claim chain.
	ErrFinalEvaluationMismatch = errors.New("ligerito: final evaluation mismatch")

	// ErrMalformedProof: byte-level parse failure.
	ErrMalformedProof = errors.New("ligerito: malformed proof")

	// ErrConfigInvalid: configuration parameters break an invariant.
	ErrConfigInvalid = errors.New("ligerito: invalid config")
)

// ErrorCode maps an error returned by Prove or Verify to its stable
// machine-readable code, or "UNKNOWN" for foreign errors.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrShapeMismatch):
		return "SHAPE_MISMATCH"
	case errors.Is(err, ErrTranscriptMismatch):
		return "TRANSCRIPT_MISMATCH"
	case errors.Is(err, ErrBadMerkleProof):
		return "BAD_MERKLE_PROOF"
	case errors.Is(err, ErrSumcheckFailed):
		return "SUMCHECK_FAILED"
	case errors.Is(err, ErrLigerConsistency):
		return "LIGER_CONSISTENCY_FAILED"
	case errors.Is(err, ErrFinalEvaluationMismatch):
		return "FINAL_EVALUATION_MISMATCH"
	case errors.Is(err, ErrMalformedProof):
		return "MALFORMED_PROOF"
	case errors.Is(err, ErrConfigInvalid):
		return "CONFIG_INVALID"
	default:
		return "UNKNOWN"
	}
}
