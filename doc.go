// Package ocrsolve turns noisy handwritten, photographed or spoken math into
// an exact answer.
//
// Text flows through four stages: Sanitize repairs OCR and typing artifacts,
// Parse builds a Statement, Lower maps it into the symbolic kernel, and
// Evaluate simplifies an expression or solves an equation. Pipeline chains
// the stages and Format renders the Result.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat) with reduced square roots
//   - Deterministic canonical forms that parse back to themselves
//   - Bounded work: nesting, polynomial degree and folded powers are capped
//   - No panic escapes Evaluate or Pipeline.Process
//   - JSON, LaTeX and tool-call APIs for agent backends
package ocrsolve
