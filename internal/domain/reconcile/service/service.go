// Package service orchestrates import sessions: document extraction,
// candidate parsing, catalog mapping, user review edits, and the final
// import run.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
	"github.com/FACorreiaa/stockflow/internal/domain/document"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/engine"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/executor"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/matcher"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/normalizer"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/parser"
	"github.com/FACorreiaa/stockflow/pkg/metrics"
	"github.com/FACorreiaa/stockflow/pkg/storage"
)

var (
	ErrSessionNotFound   = errors.New("import session not found")
	ErrCandidateNotFound = errors.New("candidate not found in session")
)

// Notifier delivers the post-import summary out of band. Optional.
type Notifier interface {
	SendImportSummary(ctx context.Context, documentName string, summary executor.Summary) error
}

// Service owns the in-memory import sessions. All session access goes
// through the service; the pipeline for one session never runs two stages
// concurrently.
type Service struct {
	store     catalog.Store
	cache     *catalog.Cache
	extractor *parser.Extractor
	inferrer  *normalizer.CategoryInferrer
	engine    *engine.Engine
	executor  *executor.Executor
	search    *matcher.SearchIndex
	archive   storage.Archive
	notifier  Notifier
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger

	sessions *sessionStore
}

// New creates the service with default pipeline components.
func New(store catalog.Store, cache *catalog.Cache, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		cache:     cache,
		extractor: parser.NewExtractor(parser.DefaultConfig(), logger),
		inferrer:  normalizer.NewCategoryInferrer(),
		engine:    engine.New(engine.DefaultConfig(), logger),
		executor:  executor.New(store, logger),
		metrics:   m,
		tracer:    otel.Tracer("stockflow/reconcile"),
		logger:    logger,
		sessions:  newSessionStore(),
	}
}

// WithNotifier adds summary delivery after import runs.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithArchive keeps a copy of every uploaded document for audit.
func (s *Service) WithArchive(a storage.Archive) *Service {
	s.archive = a
	return s
}

// WithSearchIndex adds full-text candidate prefiltering to Suggestions.
// Without it, suggestions are ranked over the whole snapshot.
func (s *Service) WithSearchIndex(idx *matcher.SearchIndex) *Service {
	s.search = idx
	return s
}

// StartSession extracts candidates from a document and opens a review
// session against the current catalog snapshot. An unreadable document is
// fatal; a document that yields zero candidates is not, it opens an empty
// session the caller can surface as such.
func (s *Service) StartSession(ctx context.Context, documentName string, data []byte, autoMap bool) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "reconcile.StartSession")
	defer span.End()

	text, err := document.ExtractText(documentName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}

	snap, err := s.cache.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	items := s.extractor.Extract(text)
	for i := range items {
		items[i].Name = normalizer.CleanName(items[i].Name)
		if items[i].Category == "" {
			items[i].Category = s.inferrer.Infer(items[i].Name)
		}
	}

	session := &Session{
		ID:             uuid.New(),
		DocumentName:   documentName,
		CreatedAt:      time.Now(),
		AutoMapEnabled: autoMap,
		Items:          items,
		Snapshot:       snap,
	}
	session.Mappings = s.mapAll(session)

	if s.search != nil {
		if err := s.search.Rebuild(snap); err != nil {
			s.logger.Warn("failed to rebuild catalog search index", "error", err)
		}
	}
	if s.archive != nil {
		if _, err := s.archive.Save(ctx, session.ID, documentName, data); err != nil {
			s.logger.Warn("failed to archive source document", "error", err)
		}
	}

	s.sessions.put(session)
	s.metrics.SessionsStarted.Inc()
	s.metrics.ActiveSessions.Set(float64(s.sessions.len()))
	s.metrics.ExtractedItems.Observe(float64(len(items)))
	span.SetAttributes(
		attribute.String("document", documentName),
		attribute.Int("candidates", len(items)),
	)
	s.logger.Info("import session started",
		"session_id", session.ID,
		"document", documentName,
		"candidates", len(items),
		"auto_map", autoMap)

	return session.clone(), nil
}

func (s *Service) mapAll(session *Session) []engine.Mapping {
	if session.AutoMapEnabled {
		return s.engine.AutoMap(session.Items, session.Snapshot)
	}
	return s.engine.DefaultMappings(session.Items)
}

// Session returns a copy of the session state for rendering.
func (s *Service) Session(id uuid.UUID) (*Session, error) {
	var out *Session
	err := s.sessions.with(id, func(session *Session) error {
		out = session.clone()
		return nil
	})
	return out, err
}

// Remap re-runs mapping for the whole session, replacing every mapping
// including manual edits. Toggling autoMap also flips the session's mode.
func (s *Service) Remap(id uuid.UUID, autoMap bool) (*Session, error) {
	var out *Session
	err := s.sessions.with(id, func(session *Session) error {
		session.AutoMapEnabled = autoMap
		session.Mappings = s.mapAll(session)
		out = session.clone()
		return nil
	})
	return out, err
}

// EditCandidate applies user corrections to an extracted item. Edits force
// the item's confidence to 100 and re-infer the category when the name
// changed without an explicit category. The item's mapping is left alone.
func (s *Service) EditCandidate(sessionID, extractedID uuid.UUID, edit engine.CandidateEdit) (*Session, error) {
	var out *Session
	err := s.sessions.with(sessionID, func(session *Session) error {
		item := session.item(extractedID)
		if item == nil {
			return ErrCandidateNotFound
		}
		if edit.IsEmpty() {
			out = session.clone()
			return nil
		}

		if edit.Name != nil {
			item.Name = normalizer.CleanName(*edit.Name)
			if edit.Category == nil {
				item.Category = s.inferrer.Infer(item.Name)
			}
		}
		if edit.Quantity != nil {
			item.Quantity = *edit.Quantity
		}
		if edit.UnitPrice != nil {
			item.UnitPrice = *edit.UnitPrice
		}
		if edit.Category != nil {
			item.Category = *edit.Category
		}
		item.Confidence = 100

		out = session.clone()
		return nil
	})
	return out, err
}

// DeleteCandidate removes an item and its mapping from the session.
func (s *Service) DeleteCandidate(sessionID, extractedID uuid.UUID) (*Session, error) {
	var out *Session
	err := s.sessions.with(sessionID, func(session *Session) error {
		if !session.remove(extractedID) {
			return ErrCandidateNotFound
		}
		out = session.clone()
		return nil
	})
	return out, err
}

// UpdateMapping applies a user override to one mapping. Overrides are
// authoritative until the next full Remap.
func (s *Service) UpdateMapping(sessionID, extractedID uuid.UUID, change MappingChange) (*Session, error) {
	var out *Session
	err := s.sessions.with(sessionID, func(session *Session) error {
		mapping := session.mapping(extractedID)
		if mapping == nil {
			return ErrCandidateNotFound
		}

		if change.Target != nil {
			if session.Snapshot.ProductByID(*change.Target) == nil {
				return &engine.InvalidMappingError{ExtractedID: extractedID, Reason: "target product not in catalog snapshot"}
			}
			mapping.SetTarget(*change.Target)
		}
		if change.Action != nil {
			mapping.SetAction(*change.Action)
		}
		if change.TargetCategory != nil {
			mapping.TargetCategory = *change.TargetCategory
			mapping.Manual = true
		}
		if change.UpdatePrice != nil {
			mapping.UpdatePrice = *change.UpdatePrice
			mapping.Manual = true
		}
		if change.UpdateStock != nil {
			mapping.UpdateStock = *change.UpdateStock
			mapping.Manual = true
		}

		out = session.clone()
		return nil
	})
	return out, err
}

// MappingChange carries user overrides for a mapping. Nil fields are
// untouched. When both Target and Action are set, Target applies first so
// an explicit action can still clear it.
type MappingChange struct {
	Action         *engine.Action `json:"action,omitempty"`
	Target         *uuid.UUID     `json:"targetProductId,omitempty"`
	TargetCategory *string        `json:"targetCategory,omitempty"`
	UpdatePrice    *bool          `json:"updatePrice,omitempty"`
	UpdateStock    *bool          `json:"updateStock,omitempty"`
}

// Suggestions ranks catalog products as manual mapping targets for one
// candidate.
func (s *Service) Suggestions(sessionID, extractedID uuid.UUID, limit int) ([]matcher.Suggestion, error) {
	var name string
	var snap *catalog.Snapshot
	err := s.sessions.with(sessionID, func(session *Session) error {
		item := session.item(extractedID)
		if item == nil {
			return ErrCandidateNotFound
		}
		name = item.Name
		snap = session.Snapshot
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the snapshot is immutable once pinned, so scoring runs outside the lock
	products := snap.Products
	if s.search != nil && len(products) > searchPrefilterMin {
		if ids, err := s.search.TopCandidates(name, limit*searchPrefilterFactor); err == nil && len(ids) > 0 {
			subset := make([]catalog.Product, 0, len(ids))
			for _, id := range ids {
				if p := snap.ProductByID(id); p != nil {
					subset = append(subset, *p)
				}
			}
			products = subset
		}
	}
	return matcher.Suggest(name, products, limit), nil
}

const (
	// below this catalog size a linear scan beats the index round trip
	searchPrefilterMin    = 50
	searchPrefilterFactor = 4
)

// RunImport validates the session's mappings and applies them. The session
// is closed afterwards whether or not individual records failed; partial
// application is reported, not rolled back.
func (s *Service) RunImport(ctx context.Context, sessionID uuid.UUID) (executor.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "reconcile.RunImport")
	defer span.End()

	// validate and snapshot the session under the lock; the executor then
	// works on the copy, so late edits cannot race the run
	var frozen *Session
	if err := s.sessions.with(sessionID, func(session *Session) error {
		if err := s.engine.Validate(session.Mappings, session.Snapshot); err != nil {
			return err
		}
		frozen = session.clone()
		return nil
	}); err != nil {
		return executor.Summary{}, err
	}

	start := time.Now()
	summary := s.executor.Run(ctx, frozen.Mappings, frozen.Items)
	s.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	for _, r := range summary.Results {
		s.metrics.ImportRecords.WithLabelValues(string(r.Outcome)).Inc()
	}
	span.SetAttributes(
		attribute.Int("created", summary.CreatedCount),
		attribute.Int("updated", summary.UpdatedCount),
		attribute.Int("failed", len(summary.Failures)),
	)

	s.sessions.delete(sessionID)
	s.metrics.ActiveSessions.Set(float64(s.sessions.len()))

	if s.notifier != nil {
		if err := s.notifier.SendImportSummary(ctx, frozen.DocumentName, summary); err != nil {
			s.logger.Warn("failed to send import summary", "error", err)
		}
	}
	return summary, nil
}

// Abort discards a session with no catalog side effects.
func (s *Service) Abort(sessionID uuid.UUID) error {
	if !s.sessions.delete(sessionID) {
		return ErrSessionNotFound
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.len()))
	return nil
}
