// Package repositories provides product and user storage for the development
// server.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/explooosion/catalog-console/internal/models"
	"go.uber.org/zap"
)

// ErrProductNotFound is returned when the targeted product does not exist
var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the interface that wraps product storage.
type ProductRepository interface {
	// Method List returns all products ordered by id.
	List(ctx context.Context) ([]models.Product, error)
	// Method GetByID retrieves a product by id.
	//
	// If no product with such id exists, ErrProductNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Product, error)
	// Method Create inserts a new product and assigns its id.
	Create(ctx context.Context, product *models.Product) error
	// Method Update replaces the stored product identified by product.ID.
	//
	// If no product with such id exists, ErrProductNotFound is returned.
	Update(ctx context.Context, product *models.Product) error
	// Method Delete removes the product identified by id.
	//
	// If no product with such id exists, ErrProductNotFound is returned.
	Delete(ctx context.Context, id int) error
}

// mysqlProductRepository implements ProductRepository on MySQL
type mysqlProductRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLProductRepository creates a new MySQL-backed product repository
func NewMySQLProductRepository(db *sql.DB, logger *zap.Logger) *mysqlProductRepository {
	return &mysqlProductRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all products ordered by id
func (r *mysqlProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT id, name, price
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product by id
func (r *mysqlProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT id, name, price
		FROM products
		WHERE id = ?
	`

	product := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.Name, &product.Price)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		r.logger.Error("failed to get product", zap.Int("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// Create inserts a new product and assigns its id
func (r *mysqlProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, price)
		VALUES (?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, product.Name, product.Price)
	if err != nil {
		r.logger.Error("failed to create product", zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	product.ID = int(id)
	return nil
}

// Update replaces the stored product identified by product.ID
func (r *mysqlProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = ?, price = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, product.Name, product.Price, product.ID)
	if err != nil {
		r.logger.Error("failed to update product", zap.Int("id", product.ID), zap.Error(err))
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from an update to identical values
		if _, err := r.GetByID(ctx, product.ID); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the product identified by id
func (r *mysqlProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete product", zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
