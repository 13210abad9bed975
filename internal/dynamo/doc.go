// Package dynamo holds the pieces every structural analysis shares: the
// error taxonomy and SI unit conversions.
//
// Errors fall in four classes:
//
//   - [ErrDimensionMismatch]: incompatible matrix or vector shapes
//   - [ErrSingularMatrix]: a zero pivot during inversion
//   - [ErrInvalidRequest]: validation failures caught before computation
//   - [ErrIOConflict]: an output path that already exists
//
// Callers match them with errors.Is; wrapped errors keep the context of
// the failing step or component.
package dynamo
