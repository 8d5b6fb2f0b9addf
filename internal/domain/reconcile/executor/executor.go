// Package executor applies accepted mapping decisions against the catalog.
// Each record gets exactly one create or update call; a failing record is
// recorded and never aborts the rest of the batch.
package executor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/engine"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/normalizer"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/parser"
)

// Outcome is the per-record result status.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeIgnored Outcome = "ignored"
	OutcomeFailed  Outcome = "failed"
)

// Result records what happened to a single candidate.
type Result struct {
	ExtractedID uuid.UUID     `csv:"-" json:"extractedId"`
	Name        string        `csv:"name" json:"name"`
	Action      engine.Action `csv:"action" json:"action"`
	Outcome     Outcome       `csv:"outcome" json:"outcome"`
	Error       string        `csv:"error" json:"error,omitempty"`
}

// Summary is the user-facing report of an import run.
type Summary struct {
	CreatedCount int      `json:"createdCount"`
	UpdatedCount int      `json:"updatedCount"`
	Failures     []Result `json:"failures"`
	Results      []Result `json:"results"`
}

// Executor runs mappings against a catalog store.
type Executor struct {
	store  catalog.Store
	logger *slog.Logger
}

// New creates an executor.
func New(store catalog.Store, logger *slog.Logger) *Executor {
	return &Executor{store: store, logger: logger}
}

// Run applies every non-ignore mapping, one persistence call per record.
// Failures are collected into the summary instead of propagating; once Run
// has started, already-applied records are not rolled back.
func (e *Executor) Run(ctx context.Context, mappings []engine.Mapping, items []parser.LineItem) Summary {
	byID := make(map[uuid.UUID]parser.LineItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var summary Summary
	for _, m := range mappings {
		item, ok := byID[m.ExtractedID]
		if !ok {
			summary.record(Result{
				ExtractedID: m.ExtractedID,
				Action:      m.Action,
				Outcome:     OutcomeFailed,
				Error:       "no candidate for mapping",
			})
			continue
		}
		summary.record(e.apply(ctx, m, item))
	}

	e.logger.Info("import run finished",
		"created", summary.CreatedCount,
		"updated", summary.UpdatedCount,
		"failed", len(summary.Failures))
	return summary
}

func (e *Executor) apply(ctx context.Context, m engine.Mapping, item parser.LineItem) Result {
	res := Result{ExtractedID: item.ID, Name: item.Name, Action: m.Action}

	switch m.Action {
	case engine.ActionIgnore:
		res.Outcome = OutcomeIgnored

	case engine.ActionCreate:
		product := catalog.NewProduct{
			Name:     item.Name,
			Category: m.TargetCategory,
			Price:    item.UnitPrice,
			Stock:    item.Quantity,
		}
		if product.Category == "" {
			product.Category = normalizer.DefaultCategory
		}
		if _, err := e.store.CreateProduct(ctx, product); err != nil {
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
			e.logger.Warn("create failed", "name", item.Name, "error", err)
		} else {
			res.Outcome = OutcomeCreated
		}

	case engine.ActionUpdate:
		update := catalog.ProductUpdate{}
		if m.UpdatePrice {
			price := item.UnitPrice
			update.Price = &price
		}
		if m.UpdateStock {
			stock := item.Quantity
			update.Stock = &stock
		}
		if err := e.store.UpdateProduct(ctx, *m.TargetProductID, update); err != nil {
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
			e.logger.Warn("update failed", "name", item.Name, "product_id", m.TargetProductID, "error", err)
		} else {
			res.Outcome = OutcomeUpdated
		}

	default:
		res.Outcome = OutcomeFailed
		res.Error = "unknown mapping action"
	}

	return res
}

func (s *Summary) record(r Result) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeCreated:
		s.CreatedCount++
	case OutcomeUpdated:
		s.UpdatedCount++
	case OutcomeFailed:
		s.Failures = append(s.Failures, r)
	}
}
