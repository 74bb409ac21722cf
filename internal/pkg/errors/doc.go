// Package errors provides application error types for poolbench.
//
// This package defines:
//   - AppError type with error classification
//   - Error constructors for the benchmark error taxonomy
//   - Error type checking helpers
//
// # Error Types
//
//   - Connection: store unreachable, or pool exhausted beyond the wait policy
//   - DuplicateKey: unique constraint violation on create/update
//   - NotFound: row referenced by id does not exist
//   - Transaction: commit failure after statement execution
//   - Validation: invalid configuration or input
//   - Internal: unexpected error
//
// # Usage
//
// Create errors using constructor functions:
//
//	return apperrors.NotFound("user")
//	return apperrors.Connection("pool exhausted").WithError(err)
//
// Check error types:
//
//	if apperrors.IsNotFound(err) {
//	    // Handle not found
//	}
//
// # Error Wrapping
//
// Errors support wrapping with fmt.Errorf:
//
//	return fmt.Errorf("delete phase failed: %w", apperrors.NotFound("user"))
package errors
