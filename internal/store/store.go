package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storesync-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// CountRecords returns live per-resource row counts for one store
func (s *Store) CountRecords(ctx context.Context, storeID int64) (models.RecordCounts, error) {
	var counts models.RecordCounts
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE store_id = $1) AS orders,
			(SELECT COUNT(*) FROM products WHERE store_id = $1) AS products,
			(SELECT COUNT(*) FROM customers WHERE store_id = $1) AS customers,
			(SELECT COUNT(*) FROM categories WHERE store_id = $1) AS categories`

	err := s.db.GetContext(ctx, &counts, query, storeID)
	return counts, err
}

// LastSyncTime returns the completion time of the store's most recent
// successful sync, or nil when nothing has synced yet.
func (s *Store) LastSyncTime(ctx context.Context, storeID int64) (*time.Time, error) {
	var last time.Time
	err := s.db.GetContext(ctx, &last,
		"SELECT completed_at FROM sync_logs WHERE store_id = $1 AND status = $2 ORDER BY completed_at DESC LIMIT 1",
		storeID, models.SyncStatusSucceeded)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &last, nil
}

// GetOrder retrieves one synced order by its natural key
func (s *Store) GetOrder(ctx context.Context, storeID, wcOrderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE store_id = $1 AND wc_order_id = $2",
		storeID, wcOrderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", wcOrderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetProduct retrieves one synced product by its natural key
func (s *Store) GetProduct(ctx context.Context, storeID, wcProductID int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE store_id = $1 AND wc_product_id = $2",
		storeID, wcProductID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", wcProductID)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
