package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action says what an import run does with a candidate.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionIgnore Action = "ignore"
)

// Mapping is the decision for a single extracted candidate. Exactly one
// mapping exists per candidate in a session. TargetProductID is set if and
// only if Action is ActionUpdate.
type Mapping struct {
	ExtractedID     uuid.UUID  `json:"extractedId"`
	Action          Action     `json:"action"`
	TargetProductID *uuid.UUID `json:"targetProductId,omitempty"`
	TargetCategory  string     `json:"targetCategory,omitempty"`
	UpdatePrice     bool       `json:"updatePrice"`
	UpdateStock     bool       `json:"updateStock"`
	Confidence      int        `json:"confidence"`
	Manual          bool       `json:"manual"`
}

// SetAction changes the action and keeps the target invariant: leaving
// ActionUpdate clears the target product and the update flags. The mapping is
// marked manual so later bulk operations know to leave it alone.
func (m *Mapping) SetAction(a Action) {
	m.Action = a
	m.Manual = true
	if a != ActionUpdate {
		m.TargetProductID = nil
		m.UpdatePrice = false
		m.UpdateStock = false
	}
}

// SetTarget points the mapping at an existing product, switching the action
// to ActionUpdate.
func (m *Mapping) SetTarget(productID uuid.UUID) {
	m.Action = ActionUpdate
	m.TargetProductID = &productID
	m.Manual = true
}

// InvalidMappingError reports a mapping that cannot be executed as stored.
type InvalidMappingError struct {
	ExtractedID uuid.UUID
	Reason      string
}

func (e *InvalidMappingError) Error() string {
	return fmt.Sprintf("invalid mapping for candidate %s: %s", e.ExtractedID, e.Reason)
}

// CandidateEdit carries user corrections to an extracted candidate's fields.
// Nil fields are untouched.
type CandidateEdit struct {
	Name      *string          `json:"name,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Category  *string          `json:"category,omitempty"`
}

// IsEmpty reports whether the edit changes nothing.
func (e CandidateEdit) IsEmpty() bool {
	return e.Name == nil && e.Quantity == nil && e.UnitPrice == nil && e.Category == nil
}
