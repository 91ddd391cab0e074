package models

import (
	"encoding/json"
	"time"
)

// Resource names accepted by the sync API
const (
	ResourceOrder    = "order"
	ResourceProduct  = "product"
	ResourceCustomer = "customer"
	ResourceCategory = "category"
)

// Webhook actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// Sync attempt statuses
const (
	SyncStatusSucceeded = "succeeded"
	SyncStatusFailed    = "failed"
)

// Plural maps a singular resource name to its plural form used in
// sync_type tags and batch request bodies.
func Plural(resource string) string {
	if resource == ResourceCategory {
		return "categories"
	}
	return resource + "s"
}

// Order is a synced storefront order, keyed by (store_id, wc_order_id)
type Order struct {
	ID            int64           `db:"id" json:"id"`
	StoreID       int64           `db:"store_id" json:"store_id"`
	WCOrderID     int64           `db:"wc_order_id" json:"wc_order_id"`
	Status        string          `db:"status" json:"status"`
	Total         float64         `db:"total" json:"total"`
	Subtotal      float64         `db:"subtotal" json:"subtotal"`
	Tax           float64         `db:"tax" json:"tax"`
	Shipping      float64         `db:"shipping" json:"shipping"`
	Discount      float64         `db:"discount" json:"discount"`
	Currency      string          `db:"currency" json:"currency"`
	WCCustomerID  int64           `db:"wc_customer_id" json:"wc_customer_id"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	Items         json.RawMessage `db:"items" json:"items,omitempty"`
	CouponCodes   json.RawMessage `db:"coupon_codes" json:"coupon_codes,omitempty"`
	DateCreated   time.Time       `db:"date_created" json:"date_created"`
	DateModified  *time.Time      `db:"date_modified" json:"date_modified,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Product is a synced catalog product, keyed by (store_id, wc_product_id)
type Product struct {
	ID           int64     `db:"id" json:"id"`
	StoreID      int64     `db:"store_id" json:"store_id"`
	WCProductID  int64     `db:"wc_product_id" json:"wc_product_id"`
	Name         string    `db:"name" json:"name"`
	SKU          string    `db:"sku" json:"sku"`
	Price        float64   `db:"price" json:"price"`
	RegularPrice float64   `db:"regular_price" json:"regular_price"`
	SalePrice    float64   `db:"sale_price" json:"sale_price"`
	WCCategoryID int64     `db:"wc_category_id" json:"wc_category_id"`
	StockQty     int       `db:"stock_quantity" json:"stock_quantity"`
	Status       string    `db:"status" json:"status"`
	Type         string    `db:"type" json:"type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Customer is a synced storefront customer. Only a one-way email digest is
// ever stored; producers never transmit the raw address.
type Customer struct {
	ID           int64      `db:"id" json:"id"`
	StoreID      int64      `db:"store_id" json:"store_id"`
	WCCustomerID int64      `db:"wc_customer_id" json:"wc_customer_id"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	EmailHash    string     `db:"email_hash" json:"email_hash"`
	TotalSpent   float64    `db:"total_spent" json:"total_spent"`
	OrderCount   int        `db:"order_count" json:"order_count"`
	DateCreated  *time.Time `db:"date_created" json:"date_created,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Category is a synced product category, keyed by (store_id, wc_category_id)
type Category struct {
	ID           int64     `db:"id" json:"id"`
	StoreID      int64     `db:"store_id" json:"store_id"`
	WCCategoryID int64     `db:"wc_category_id" json:"wc_category_id"`
	Name         string    `db:"name" json:"name"`
	WCParentID   int64     `db:"wc_parent_id" json:"wc_parent_id"`
	ProductCount int       `db:"product_count" json:"product_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SyncLog is one row of the sync ledger: a single ingress attempt,
// terminal on first write. A retry creates a new row; it never mutates
// this one except to flip Resolved once a retry of it succeeds.
type SyncLog struct {
	ID            string          `db:"id" json:"id"`
	StoreID       int64           `db:"store_id" json:"store_id"`
	SyncType      string          `db:"sync_type" json:"sync_type"`
	Resource      string          `db:"resource" json:"resource"`
	Status        string          `db:"status" json:"status"`
	UpsertedCount int             `db:"upserted_count" json:"upserted_count"`
	ErrorMessage  string          `db:"error_message" json:"error_message,omitempty"`
	Payload       json.RawMessage `db:"payload" json:"-"`
	RetryCount    int             `db:"retry_count" json:"retry_count"`
	Resolved      bool            `db:"resolved" json:"-"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	CompletedAt   time.Time       `db:"completed_at" json:"completed_at"`
}

// RecordCounts holds live per-resource row counts for one store
type RecordCounts struct {
	Orders     int64 `db:"orders" json:"orders"`
	Products   int64 `db:"products" json:"products"`
	Customers  int64 `db:"customers" json:"customers"`
	Categories int64 `db:"categories" json:"categories"`
}

// SyncStatus is the operator-facing status read model, aggregating the
// ledger with live row counts.
type SyncStatus struct {
	LastSync       *time.Time   `json:"lastSync"`
	TotalOrders    int64        `json:"totalOrders"`
	TotalProducts  int64        `json:"totalProducts"`
	TotalCustomers int64        `json:"totalCustomers"`
	Status         string       `json:"status"`
	RecordCounts   RecordCounts `json:"recordCounts"`
	RecentSyncs    []SyncLog    `json:"recentSyncs"`
}
