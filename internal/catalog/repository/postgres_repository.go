package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

// PostgresProductRepository implements ProductRepository on plain database/sql.
// Selected with REPOSITORY_TYPE=postgres for deployments that prefer explicit
// SQL over the ORM.
type PostgresProductRepository struct {
	db *sql.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, name, description, price, images, category, size,
	in_stock, sold_out, level, drop_id, blocked, created_at, updated_at`

// Migrate creates the products table if it does not exist.
func (r *PostgresProductRepository) Migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id          VARCHAR(64) PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			price       DOUBLE PRECISION NOT NULL,
			images      JSONB NOT NULL DEFAULT '[]',
			category    TEXT,
			size        TEXT,
			in_stock    BOOLEAN NOT NULL DEFAULT TRUE,
			sold_out    BOOLEAN NOT NULL DEFAULT FALSE,
			level       INTEGER NOT NULL DEFAULT 1,
			drop_id     TEXT NOT NULL,
			blocked     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL,
			deleted_at  TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_products_drop_id ON products (drop_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) Create(product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, images, category, size,
			in_stock, sold_out, level, drop_id, blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.Exec(query,
		product.ID, product.Name, product.Description, product.Price, images,
		product.Category, product.Size, product.InStock, product.SoldOut,
		product.Level, product.DropID, product.Blocked,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) Upsert(product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, images, category, size,
			in_stock, sold_out, level, drop_id, blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			images = EXCLUDED.images,
			category = EXCLUDED.category,
			size = EXCLUDED.size,
			in_stock = EXCLUDED.in_stock,
			sold_out = EXCLUDED.sold_out,
			level = EXCLUDED.level,
			drop_id = EXCLUDED.drop_id,
			blocked = EXCLUDED.blocked,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(query,
		product.ID, product.Name, product.Description, product.Price, images,
		product.Category, product.Size, product.InStock, product.SoldOut,
		product.Level, product.DropID, product.Blocked,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) FindByID(id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	product, err := scanProduct(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func (r *PostgresProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE deleted_at IS NULL ORDER BY drop_id, level, id LIMIT $1 OFFSET $2`
	return r.queryProducts(query, limit, offset)
}

func (r *PostgresProductRepository) FindByDrop(dropID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE drop_id = $1 AND deleted_at IS NULL ORDER BY level, id`
	return r.queryProducts(query, dropID)
}

func (r *PostgresProductRepository) FindByCategory(category string, limit, offset int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE category = $1 AND deleted_at IS NULL ORDER BY drop_id, level, id LIMIT $2 OFFSET $3`
	return r.queryProducts(query, category, limit, offset)
}

func (r *PostgresProductRepository) Update(product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		UPDATE products SET name = $2, description = $3, price = $4, images = $5,
			category = $6, size = $7, in_stock = $8, sold_out = $9, level = $10,
			drop_id = $11, blocked = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query,
		product.ID, product.Name, product.Description, product.Price, images,
		product.Category, product.Size, product.InStock, product.SoldOut,
		product.Level, product.DropID, product.Blocked, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return checkAffected(result)
}

func (r *PostgresProductRepository) SetBlocked(id string, blocked bool) error {
	result, err := r.db.Exec(
		`UPDATE products SET blocked = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, blocked,
	)
	if err != nil {
		return fmt.Errorf("failed to set blocked flag: %w", err)
	}
	return checkAffected(result)
}

func (r *PostgresProductRepository) SetSoldOut(id string) error {
	result, err := r.db.Exec(
		`UPDATE products SET sold_out = TRUE, in_stock = FALSE, updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to set sold out flag: %w", err)
	}
	return checkAffected(result)
}

func (r *PostgresProductRepository) Delete(id string) error {
	_, err := r.db.Exec(`UPDATE products SET deleted_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *PostgresProductRepository) ListDrops() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT drop_id FROM products WHERE deleted_at IS NULL ORDER BY drop_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drops: %w", err)
	}
	defer rows.Close()

	var drops []string
	for rows.Next() {
		var drop string
		if err := rows.Scan(&drop); err != nil {
			return nil, fmt.Errorf("failed to scan drop id: %w", err)
		}
		drops = append(drops, drop)
	}
	return drops, rows.Err()
}

func (r *PostgresProductRepository) queryProducts(query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var images []byte

	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &images,
		&product.Category, &product.Size, &product.InStock, &product.SoldOut,
		&product.Level, &product.DropID, &product.Blocked,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		product.Images = domain.ImageList{}
	}
	return &product, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
