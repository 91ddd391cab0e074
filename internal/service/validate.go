package service

import (
	"encoding/json"

	"storesync-service/internal/models"
)

// validResources is the closed set of syncable resource types
var validResources = map[string]bool{
	models.ResourceOrder:    true,
	models.ResourceProduct:  true,
	models.ResourceCustomer: true,
	models.ResourceCategory: true,
}

// validActions is the closed set of webhook actions
var validActions = map[string]bool{
	models.ActionCreated: true,
	models.ActionUpdated: true,
}

// decodeOrders parses and validates a batch of order entities. Validation
// is all-or-nothing: the first bad element fails the whole batch.
func decodeOrders(entities []json.RawMessage) ([]models.OrderPayload, error) {
	orders := make([]models.OrderPayload, 0, len(entities))
	for i, raw := range entities {
		var p models.OrderPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, NewValidationError("orders[%d]: malformed entity: %v", i, err)
		}
		if p.WCOrderID <= 0 {
			return nil, NewValidationError("orders[%d]: wc_order_id is required", i)
		}
		if p.Status == "" {
			return nil, NewValidationError("orders[%d]: status is required", i)
		}
		if p.Total == nil {
			return nil, NewValidationError("orders[%d]: total is required", i)
		}
		if p.DateCreated == "" {
			return nil, NewValidationError("orders[%d]: date_created is required", i)
		}
		if _, err := models.ParseWCTime(p.DateCreated); err != nil {
			return nil, NewValidationError("orders[%d]: invalid date_created: %v", i, err)
		}
		orders = append(orders, p)
	}
	return orders, nil
}

func decodeProducts(entities []json.RawMessage) ([]models.ProductPayload, error) {
	products := make([]models.ProductPayload, 0, len(entities))
	for i, raw := range entities {
		var p models.ProductPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, NewValidationError("products[%d]: malformed entity: %v", i, err)
		}
		if p.WCProductID <= 0 {
			return nil, NewValidationError("products[%d]: wc_product_id is required", i)
		}
		if p.Name == "" {
			return nil, NewValidationError("products[%d]: name is required", i)
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeCustomers(entities []json.RawMessage) ([]models.CustomerPayload, error) {
	customers := make([]models.CustomerPayload, 0, len(entities))
	for i, raw := range entities {
		var p models.CustomerPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, NewValidationError("customers[%d]: malformed entity: %v", i, err)
		}
		if p.WCCustomerID <= 0 {
			return nil, NewValidationError("customers[%d]: wc_customer_id is required", i)
		}
		customers = append(customers, p)
	}
	return customers, nil
}

func decodeCategories(entities []json.RawMessage) ([]models.CategoryPayload, error) {
	categories := make([]models.CategoryPayload, 0, len(entities))
	for i, raw := range entities {
		var p models.CategoryPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, NewValidationError("categories[%d]: malformed entity: %v", i, err)
		}
		if p.WCCategoryID <= 0 {
			return nil, NewValidationError("categories[%d]: wc_category_id is required", i)
		}
		if p.Name == "" {
			return nil, NewValidationError("categories[%d]: name is required", i)
		}
		categories = append(categories, p)
	}
	return categories, nil
}
