package store

import (
	"context"
	"fmt"
	"time"

	"storesync-service/internal/models"
)

// Each Upsert* merges a batch into the resource's tenant-scoped table in a
// single transaction. The per-entity statement is an atomic insert-or-update
// on the (store_id, wc_*_id) natural key, so concurrent webhook and bulk
// writes to the same key both commit and the last one wins. No existence
// pre-query is ever issued.

// UpsertOrders merges a batch of orders for one store
func (s *Store) UpsertOrders(ctx context.Context, storeID int64, orders []models.OrderPayload) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (
			store_id, wc_order_id, status, total, subtotal, tax, shipping,
			discount, currency, wc_customer_id, payment_method, items,
			coupon_codes, date_created, date_modified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (store_id, wc_order_id) DO UPDATE SET
			status = EXCLUDED.status,
			total = EXCLUDED.total,
			subtotal = EXCLUDED.subtotal,
			tax = EXCLUDED.tax,
			shipping = EXCLUDED.shipping,
			discount = EXCLUDED.discount,
			currency = EXCLUDED.currency,
			wc_customer_id = EXCLUDED.wc_customer_id,
			payment_method = EXCLUDED.payment_method,
			items = EXCLUDED.items,
			coupon_codes = EXCLUDED.coupon_codes,
			date_created = EXCLUDED.date_created,
			date_modified = EXCLUDED.date_modified,
			updated_at = NOW()`

	for _, o := range orders {
		dateCreated, err := models.ParseWCTime(o.DateCreated)
		if err != nil {
			return 0, fmt.Errorf("order %d: %w", o.WCOrderID, err)
		}
		var dateModified *time.Time
		if o.DateModified != "" {
			if t, err := models.ParseWCTime(o.DateModified); err == nil {
				dateModified = &t
			}
		}

		_, err = tx.ExecContext(ctx, query,
			storeID, o.WCOrderID, o.Status, derefFloat(o.Total), o.Subtotal,
			o.Tax, o.Shipping, o.Discount, o.Currency, o.WCCustomerID,
			o.PaymentMethod, nullableJSON(o.Items), nullableJSON(o.CouponCodes),
			dateCreated, dateModified)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert order %d: %w", o.WCOrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(orders), nil
}

// UpsertProducts merges a batch of products for one store
func (s *Store) UpsertProducts(ctx context.Context, storeID int64, products []models.ProductPayload) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (
			store_id, wc_product_id, name, sku, price, regular_price,
			sale_price, wc_category_id, stock_quantity, status, type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (store_id, wc_product_id) DO UPDATE SET
			name = EXCLUDED.name,
			sku = EXCLUDED.sku,
			price = EXCLUDED.price,
			regular_price = EXCLUDED.regular_price,
			sale_price = EXCLUDED.sale_price,
			wc_category_id = EXCLUDED.wc_category_id,
			stock_quantity = EXCLUDED.stock_quantity,
			status = EXCLUDED.status,
			type = EXCLUDED.type,
			updated_at = NOW()`

	for _, p := range products {
		_, err = tx.ExecContext(ctx, query,
			storeID, p.WCProductID, p.Name, p.SKU, p.Price, p.RegularPrice,
			p.SalePrice, p.WCCategoryID, p.StockQty, p.Status, p.Type)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert product %d: %w", p.WCProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(products), nil
}

// UpsertCustomers merges a batch of customers for one store. Only the
// producer-supplied email digest is stored, never a raw address.
func (s *Store) UpsertCustomers(ctx context.Context, storeID int64, customers []models.CustomerPayload) (int, error) {
	if len(customers) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO customers (
			store_id, wc_customer_id, display_name, email_hash, total_spent,
			order_count, date_created
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (store_id, wc_customer_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email_hash = EXCLUDED.email_hash,
			total_spent = EXCLUDED.total_spent,
			order_count = EXCLUDED.order_count,
			date_created = EXCLUDED.date_created,
			updated_at = NOW()`

	for _, c := range customers {
		var dateCreated *time.Time
		if c.DateCreated != "" {
			if t, err := models.ParseWCTime(c.DateCreated); err == nil {
				dateCreated = &t
			}
		}

		_, err = tx.ExecContext(ctx, query,
			storeID, c.WCCustomerID, c.DisplayName, c.EmailHash,
			c.TotalSpent, c.OrderCount, dateCreated)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert customer %d: %w", c.WCCustomerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(customers), nil
}

// UpsertCategories merges a batch of categories for one store
func (s *Store) UpsertCategories(ctx context.Context, storeID int64, categories []models.CategoryPayload) (int, error) {
	if len(categories) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO categories (
			store_id, wc_category_id, name, wc_parent_id, product_count
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (store_id, wc_category_id) DO UPDATE SET
			name = EXCLUDED.name,
			wc_parent_id = EXCLUDED.wc_parent_id,
			product_count = EXCLUDED.product_count,
			updated_at = NOW()`

	for _, c := range categories {
		_, err = tx.ExecContext(ctx, query,
			storeID, c.WCCategoryID, c.Name, c.WCParentID, c.ProductCount)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert category %d: %w", c.WCCategoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(categories), nil
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// nullableJSON maps an absent JSON fragment to SQL NULL
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
