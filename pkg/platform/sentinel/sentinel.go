package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: no row or key matched the lookup
//   - ErrConflict: a row with the same identity already exists
//   - ErrUnavailable: backing service temporarily unreachable
//
// Validation failures belong in pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
