// Package catalog owns the product catalog records the reconciliation
// pipeline matches against. The pipeline itself only ever sees the Store
// interface and an immutable Snapshot; writes go through explicit
// CreateProduct/UpdateProduct calls.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a single catalog entry.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     decimal.Decimal `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Category is a reference entry used for category assignment.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewProduct holds the fields for a product create.
type NewProduct struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    decimal.Decimal
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Price *decimal.Decimal
	Stock *decimal.Decimal
}

// IsEmpty reports whether the update would change nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Price == nil && u.Stock == nil
}

// Store is the persistence contract consumed by the pipeline.
type Store interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateProduct(ctx context.Context, p NewProduct) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, update ProductUpdate) error
}

// Snapshot is a point-in-time read of the catalog. A reconciliation session
// pins the snapshot it was created with; it is never re-validated before
// import runs.
type Snapshot struct {
	Products   []Product
	Categories []Category
	LoadedAt   time.Time
}

// LoadSnapshot reads products and categories in one pass.
func LoadSnapshot(ctx context.Context, store Store) (*Snapshot, error) {
	products, err := store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Products:   products,
		Categories: categories,
		LoadedAt:   time.Now(),
	}, nil
}

// ProductByID returns the snapshot product with the given id, or nil.
func (s *Snapshot) ProductByID(id uuid.UUID) *Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// HasCategory reports whether name matches a known category,
// case-insensitively.
func (s *Snapshot) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
