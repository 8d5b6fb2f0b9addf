package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the slice of pgxpool.Pool the repository needs. Both
// *pgxpool.Pool and pgxmock satisfy it.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the Postgres-backed Store.
type Repository struct {
	db DBTX
}

// NewRepository creates a catalog repository on the given pool.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// ListProducts returns the full product list, newest first.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, name, category, price, stock, created_at, updated_at
		FROM products
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListCategories returns the category reference list.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name FROM categories ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateProduct inserts a new product and returns its id.
func (r *Repository) CreateProduct(ctx context.Context, p NewProduct) (uuid.UUID, error) {
	query := `
		INSERT INTO products (name, category, price, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, p.Name, p.Category, p.Price, p.Stock).Scan(&id)
	if err != nil {
		return uuid.Nil, &PersistenceError{Op: "create", Name: p.Name, Err: err}
	}
	return id, nil
}

// UpdateProduct applies a partial update to a product. Missing rows are an
// error: a stale snapshot can legitimately reference a product deleted by
// another actor, and the caller must be able to report that per item.
func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, update ProductUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if update.Price != nil {
		args = append(args, *update.Price)
		sets = append(sets, fmt.Sprintf("price = $%d", len(args)))
	}
	if update.Stock != nil {
		args = append(args, *update.Stock)
		sets = append(sets, fmt.Sprintf("stock = $%d", len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return &PersistenceError{Op: "update", ProductID: &id, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &PersistenceError{Op: "update", ProductID: &id, Err: pgx.ErrNoRows}
	}
	return nil
}
