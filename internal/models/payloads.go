package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire payloads pushed by the storefront plugin. Field names follow the
// platform's native schema; pointer fields distinguish "absent" from a
// legitimate zero value where the difference matters for validation.

// OrderPayload is one order entity from a webhook or bulk sync
type OrderPayload struct {
	WCOrderID     int64           `json:"wc_order_id"`
	Status        string          `json:"status"`
	Total         *float64        `json:"total"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	Shipping      float64         `json:"shipping"`
	Discount      float64         `json:"discount"`
	Currency      string          `json:"currency"`
	WCCustomerID  int64           `json:"wc_customer_id"`
	PaymentMethod string          `json:"payment_method"`
	Items         json.RawMessage `json:"items,omitempty"`
	CouponCodes   json.RawMessage `json:"coupon_codes,omitempty"`
	DateCreated   string          `json:"date_created"`
	DateModified  string          `json:"date_modified,omitempty"`
}

// ProductPayload is one product entity from a webhook or bulk sync
type ProductPayload struct {
	WCProductID  int64   `json:"wc_product_id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Price        float64 `json:"price"`
	RegularPrice float64 `json:"regular_price"`
	SalePrice    float64 `json:"sale_price"`
	WCCategoryID int64   `json:"wc_category_id"`
	StockQty     int     `json:"stock_quantity"`
	Status       string  `json:"status"`
	Type         string  `json:"type"`
}

// CustomerPayload is one customer entity. The producer hashes the email
// before transmission; the raw address never crosses the wire.
type CustomerPayload struct {
	WCCustomerID int64   `json:"wc_customer_id"`
	DisplayName  string  `json:"display_name"`
	EmailHash    string  `json:"email_hash"`
	TotalSpent   float64 `json:"total_spent"`
	OrderCount   int     `json:"order_count"`
	DateCreated  string  `json:"date_created,omitempty"`
}

// CategoryPayload is one category entity from a webhook or bulk sync
type CategoryPayload struct {
	WCCategoryID int64  `json:"wc_category_id"`
	Name         string `json:"name"`
	WCParentID   int64  `json:"wc_parent_id"`
	ProductCount int    `json:"product_count"`
}

var wcTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseWCTime parses a timestamp in any of the formats the storefront
// platform emits.
func ParseWCTime(s string) (time.Time, error) {
	for _, layout := range wcTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
