// Package engine decides, per extracted candidate, whether to create a new
// catalog entry, update an existing one, or ignore it. Decisions are
// suggestions: the user can override every field before anything is
// persisted.
package engine

import (
	"log/slog"
	"math"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/matcher"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/normalizer"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/parser"
)

// Config holds the engine's decision thresholds. Values are product
// decisions surfaced as configuration, matching the extractor's treatment
// of its confidence ladder.
type Config struct {
	ExactConfidence   int     // confidence for exact name matches
	FuzzyThreshold    float64 // minimum similarity for a fuzzy update
	CreateConfidence  int     // confidence for unmatched candidates
	DefaultConfidence int     // confidence when auto-mapping is disabled
}

// DefaultConfig returns the shipped thresholds.
func DefaultConfig() Config {
	return Config{
		ExactConfidence:   95,
		FuzzyThreshold:    0.8,
		CreateConfidence:  70,
		DefaultConfidence: 50,
	}
}

// Engine computes mapping decisions against a catalog snapshot.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an engine.
func New(cfg Config, logger *slog.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// AutoMap produces one decision per candidate:
//
//   - an exact (case/whitespace-insensitive) name match updates that product,
//     price and stock both flagged, at ExactConfidence;
//   - otherwise the best fuzzy match above FuzzyThreshold updates stock only —
//     a fuzzy match is not trusted enough to touch price — at
//     round(similarity*100);
//   - otherwise the candidate becomes a create at CreateConfidence.
func (e *Engine) AutoMap(items []parser.LineItem, snap *catalog.Snapshot) []Mapping {
	mappings := make([]Mapping, 0, len(items))
	for _, item := range items {
		mappings = append(mappings, e.mapOne(item, snap))
	}
	return mappings
}

func (e *Engine) mapOne(item parser.LineItem, snap *catalog.Snapshot) Mapping {
	if exact := matcher.FindExactMatch(item.Name, snap.Products); exact != nil {
		id := exact.ID
		return Mapping{
			ExtractedID:     item.ID,
			Action:          ActionUpdate,
			TargetProductID: &id,
			UpdatePrice:     true,
			UpdateStock:     true,
			Confidence:      e.cfg.ExactConfidence,
		}
	}

	if best := matcher.FindBestMatch(item.Name, snap.Products); best != nil && best.Score > e.cfg.FuzzyThreshold {
		id := best.Product.ID
		e.logger.Debug("fuzzy catalog match",
			"extracted", item.Name,
			"matched", best.Product.Name,
			"score", best.Score)
		return Mapping{
			ExtractedID:     item.ID,
			Action:          ActionUpdate,
			TargetProductID: &id,
			UpdatePrice:     false,
			UpdateStock:     true,
			Confidence:      int(math.Round(best.Score * 100)),
		}
	}

	return Mapping{
		ExtractedID:    item.ID,
		Action:         ActionCreate,
		TargetCategory: categoryOrDefault(item.Category),
		Confidence:     e.cfg.CreateConfidence,
	}
}

// DefaultMappings is used when auto-mapping is disabled: every candidate
// defaults to a create at DefaultConfidence.
func (e *Engine) DefaultMappings(items []parser.LineItem) []Mapping {
	mappings := make([]Mapping, 0, len(items))
	for _, item := range items {
		mappings = append(mappings, Mapping{
			ExtractedID:    item.ID,
			Action:         ActionCreate,
			TargetCategory: categoryOrDefault(item.Category),
			Confidence:     e.cfg.DefaultConfidence,
		})
	}
	return mappings
}

// Validate rejects mappings that cannot be executed: an update without a
// target, or with a target absent from the snapshot the session was mapped
// against. Called when the user finalizes; invalid mappings are reported,
// never silently coerced.
func (e *Engine) Validate(mappings []Mapping, snap *catalog.Snapshot) error {
	for _, m := range mappings {
		if err := m.check(snap); err != nil {
			return err
		}
	}
	return nil
}

func (m Mapping) check(snap *catalog.Snapshot) error {
	switch m.Action {
	case ActionUpdate:
		if m.TargetProductID == nil {
			return &InvalidMappingError{ExtractedID: m.ExtractedID, Reason: "update action requires a target product"}
		}
		if snap.ProductByID(*m.TargetProductID) == nil {
			return &InvalidMappingError{ExtractedID: m.ExtractedID, Reason: "target product not in catalog snapshot"}
		}
	case ActionCreate, ActionIgnore:
		if m.TargetProductID != nil {
			return &InvalidMappingError{ExtractedID: m.ExtractedID, Reason: "only update actions may carry a target product"}
		}
	default:
		return &InvalidMappingError{ExtractedID: m.ExtractedID, Reason: "unknown action"}
	}
	return nil
}

func categoryOrDefault(category string) string {
	if category == "" {
		return normalizer.DefaultCategory
	}
	return category
}
