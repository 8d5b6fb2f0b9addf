package catalog

import (
	"fmt"

	"github.com/google/uuid"
)

// PersistenceError is returned by Store implementations when a single
// create/update call fails. It carries enough identity (the product name)
// for the caller to surface the failure in a human-actionable summary.
type PersistenceError struct {
	Op        string // "create" or "update"
	ProductID *uuid.UUID
	Name      string
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.ProductID != nil {
		return fmt.Sprintf("catalog %s %q (%s): %v", e.Op, e.Name, e.ProductID, e.Err)
	}
	return fmt.Sprintf("catalog %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
