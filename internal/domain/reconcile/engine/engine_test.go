package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/parser"
)

func testEngine() *Engine {
	return New(DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSnapshot(names ...string) *catalog.Snapshot {
	products := make([]catalog.Product, 0, len(names))
	for _, name := range names {
		products = append(products, catalog.Product{
			ID:    uuid.New(),
			Name:  name,
			Price: decimal.NewFromFloat(9.99),
			Stock: decimal.NewFromInt(10),
		})
	}
	return &catalog.Snapshot{Products: products, LoadedAt: time.Now()}
}

func candidate(name string) parser.LineItem {
	return parser.LineItem{
		ID:        uuid.New(),
		Name:      name,
		Quantity:  decimal.NewFromInt(5),
		UnitPrice: decimal.NewFromFloat(19.99),
	}
}

func TestAutoMapExactMatch(t *testing.T) {
	snap := testSnapshot("Premium Wireless Headphones", "Standing Desk")
	mappings := testEngine().AutoMap([]parser.LineItem{candidate("premium wireless  HEADPHONES")}, snap)

	require.Len(t, mappings, 1)
	m := mappings[0]
	assert.Equal(t, ActionUpdate, m.Action)
	require.NotNil(t, m.TargetProductID)
	assert.Equal(t, snap.Products[0].ID, *m.TargetProductID)
	assert.True(t, m.UpdatePrice)
	assert.True(t, m.UpdateStock)
	assert.Equal(t, 95, m.Confidence)
	assert.False(t, m.Manual)
}

func TestAutoMapFuzzyMatchUpdatesStockOnly(t *testing.T) {
	snap := testSnapshot("USB Cables")
	mappings := testEngine().AutoMap([]parser.LineItem{candidate("USB Cable")}, snap)

	require.Len(t, mappings, 1)
	m := mappings[0]
	assert.Equal(t, ActionUpdate, m.Action)
	require.NotNil(t, m.TargetProductID)
	assert.Equal(t, snap.Products[0].ID, *m.TargetProductID)
	assert.False(t, m.UpdatePrice, "fuzzy matches must not touch price")
	assert.True(t, m.UpdateStock)
	assert.Equal(t, 90, m.Confidence)
}

func TestAutoMapNoMatchCreates(t *testing.T) {
	snap := testSnapshot("USB Cables")
	item := candidate("Ergonomic Office Chair")
	item.Category = "Furniture"
	mappings := testEngine().AutoMap([]parser.LineItem{item}, snap)

	require.Len(t, mappings, 1)
	m := mappings[0]
	assert.Equal(t, ActionCreate, m.Action)
	assert.Nil(t, m.TargetProductID)
	assert.Equal(t, "Furniture", m.TargetCategory)
	assert.Equal(t, 70, m.Confidence)
}

func TestAutoMapEmptyCatalogCreatesEverything(t *testing.T) {
	snap := &catalog.Snapshot{LoadedAt: time.Now()}
	items := []parser.LineItem{candidate("Desk Lamp"), candidate("Monitor Stand")}
	mappings := testEngine().AutoMap(items, snap)

	require.Len(t, mappings, 2)
	for _, m := range mappings {
		assert.Equal(t, ActionCreate, m.Action)
		assert.Equal(t, "General", m.TargetCategory)
	}
}

func TestDefaultMappings(t *testing.T) {
	items := []parser.LineItem{candidate("Desk Lamp")}
	mappings := testEngine().DefaultMappings(items)

	require.Len(t, mappings, 1)
	assert.Equal(t, ActionCreate, mappings[0].Action)
	assert.Equal(t, 50, mappings[0].Confidence)
}

func TestValidate(t *testing.T) {
	snap := testSnapshot("USB Cables")
	known := snap.Products[0].ID
	unknown := uuid.New()

	t.Run("valid set passes", func(t *testing.T) {
		mappings := []Mapping{
			{ExtractedID: uuid.New(), Action: ActionCreate},
			{ExtractedID: uuid.New(), Action: ActionIgnore},
			{ExtractedID: uuid.New(), Action: ActionUpdate, TargetProductID: &known, UpdateStock: true},
		}
		require.NoError(t, testEngine().Validate(mappings, snap))
	})

	t.Run("update without target", func(t *testing.T) {
		err := testEngine().Validate([]Mapping{{ExtractedID: uuid.New(), Action: ActionUpdate}}, snap)
		var invalid *InvalidMappingError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("update target missing from snapshot", func(t *testing.T) {
		err := testEngine().Validate([]Mapping{{ExtractedID: uuid.New(), Action: ActionUpdate, TargetProductID: &unknown}}, snap)
		var invalid *InvalidMappingError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("create with target", func(t *testing.T) {
		err := testEngine().Validate([]Mapping{{ExtractedID: uuid.New(), Action: ActionCreate, TargetProductID: &known}}, snap)
		var invalid *InvalidMappingError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestSetActionClearsTarget(t *testing.T) {
	id := uuid.New()
	m := Mapping{Action: ActionUpdate, TargetProductID: &id, UpdatePrice: true, UpdateStock: true}

	m.SetAction(ActionCreate)

	assert.Equal(t, ActionCreate, m.Action)
	assert.Nil(t, m.TargetProductID)
	assert.False(t, m.UpdatePrice)
	assert.False(t, m.UpdateStock)
	assert.True(t, m.Manual)
}

func TestSetTargetSwitchesToUpdate(t *testing.T) {
	id := uuid.New()
	m := Mapping{Action: ActionCreate, Confidence: 70}

	m.SetTarget(id)

	assert.Equal(t, ActionUpdate, m.Action)
	require.NotNil(t, m.TargetProductID)
	assert.Equal(t, id, *m.TargetProductID)
	assert.True(t, m.Manual)
}
