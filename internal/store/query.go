package store

import (
	"math/big"

	"github.com/onchain-commerce/hubindexer/internal/metrics"
	"github.com/russross/meddler"
)

// ProductWithVariants pairs a product with its purchasable variations.
type ProductWithVariants struct {
	Product  *Product   `json:"product"`
	Variants []*Variant `json:"variants"`
}

// OrderWithItems pairs an order with its lines and, when one exists,
// its digital delivery record.
type OrderWithItems struct {
	Order    *Order       `json:"order"`
	Items    []*OrderItem `json:"items"`
	Delivery *Delivery    `json:"delivery,omitempty"`
}

// ShopSnapshot is the full derived state of a single shop.
type ShopSnapshot struct {
	Shop        *Shop                  `json:"shop"`
	Products    []*ProductWithVariants `json:"products"`
	Categories  []*Category            `json:"categories"`
	Collections []*Collection          `json:"collections"`
	Orders      []*OrderWithItems      `json:"orders"`
	Discounts   []*Discount            `json:"discounts"`
	Employees   []*Employee            `json:"employees"`
}

// CustomerHistory is everything recorded against a customer address.
type CustomerHistory struct {
	Customer *Customer         `json:"customer"`
	Orders   []*OrderWithItems `json:"orders"`
	Feedback []*Feedback       `json:"feedback"`
}

// ReputationSummary aggregates non-revoked feedback for an agent. All
// values are normalized to the largest decimals seen before summing.
type ReputationSummary struct {
	AgentID      string   `json:"agentId"`
	Count        int64    `json:"count"`
	SummaryValue *big.Int `json:"summaryValue"`
	Decimals     uint8    `json:"decimals"`
}

func (s *Store) queryAll(dst interface{}, query string, args ...interface{}) error {
	if err := meddler.QueryAll(s.db, dst, query, args...); err != nil {
		metrics.DBErrorInc("query")
		return err
	}
	return nil
}

// ListShops returns all shops in creation order.
func (s *Store) ListShops() ([]*Shop, error) {
	var shops []*Shop
	err := s.queryAll(&shops, `SELECT * FROM shops ORDER BY created_at, id`)
	return shops, err
}

// GetShopSnapshot assembles the shop with its nested entities. Returns
// nil when the shop is unknown.
func (s *Store) GetShopSnapshot(shopID string) (*ShopSnapshot, error) {
	shop, err := s.GetShop(shopID)
	if err != nil || shop == nil {
		return nil, err
	}

	snapshot := &ShopSnapshot{Shop: shop}

	var products []*Product
	if err := s.queryAll(&products, `SELECT * FROM products WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, err
	}
	for _, p := range products {
		var variants []*Variant
		if err := s.queryAll(&variants, `SELECT * FROM variants WHERE product_entity_id = ? ORDER BY id`, p.ID); err != nil {
			return nil, err
		}
		snapshot.Products = append(snapshot.Products, &ProductWithVariants{Product: p, Variants: variants})
	}

	if err := s.queryAll(&snapshot.Categories, `SELECT * FROM categories WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, err
	}
	if err := s.queryAll(&snapshot.Collections, `SELECT * FROM collections WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, err
	}

	var orders []*Order
	if err := s.queryAll(&orders, `SELECT * FROM orders WHERE shop_id = ? ORDER BY created_at, id`, shopID); err != nil {
		return nil, err
	}
	snapshot.Orders, err = s.expandOrders(orders)
	if err != nil {
		return nil, err
	}

	if err := s.queryAll(&snapshot.Discounts, `SELECT * FROM discounts WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, err
	}
	if err := s.queryAll(&snapshot.Employees, `SELECT * FROM employees WHERE shop_id = ? ORDER BY id`, shopID); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// GetCustomerHistory returns the order and feedback history recorded
// against a customer. Returns nil when the customer is unknown.
func (s *Store) GetCustomerHistory(customerID string) (*CustomerHistory, error) {
	customer, err := s.GetCustomer(customerID)
	if err != nil || customer == nil {
		return nil, err
	}

	history := &CustomerHistory{Customer: customer}

	var orders []*Order
	if err := s.queryAll(&orders, `SELECT * FROM orders WHERE customer_id = ? ORDER BY created_at, id`, customerID); err != nil {
		return nil, err
	}
	history.Orders, err = s.expandOrders(orders)
	if err != nil {
		return nil, err
	}

	err = s.queryAll(&history.Feedback,
		`SELECT * FROM feedback WHERE client_address = ? ORDER BY created_at, id`,
		customer.Address.Hex())
	if err != nil {
		return nil, err
	}

	return history, nil
}

func (s *Store) expandOrders(orders []*Order) ([]*OrderWithItems, error) {
	out := make([]*OrderWithItems, 0, len(orders))
	for _, o := range orders {
		var items []*OrderItem
		if err := s.queryAll(&items, `SELECT * FROM order_items WHERE order_entity_id = ? ORDER BY line_index`, o.ID); err != nil {
			return nil, err
		}

		var delivery Delivery
		ok, err := s.queryOne(&delivery, `SELECT * FROM deliveries WHERE order_entity_id = ?`, o.ID)
		if err != nil {
			return nil, err
		}

		entry := &OrderWithItems{Order: o, Items: items}
		if ok {
			entry.Delivery = &delivery
		}
		out = append(out, entry)
	}
	return out, nil
}

// SearchProducts returns active products whose name contains the query,
// case-insensitively, across all shops.
func (s *Store) SearchProducts(query string) ([]*Product, error) {
	var products []*Product
	err := s.queryAll(&products,
		`SELECT * FROM products WHERE active = 1 AND name LIKE ? ORDER BY shop_id, id`,
		"%"+query+"%")
	return products, err
}

// GetReputationSummary aggregates non-revoked feedback for an agent,
// optionally filtered by tag (matching either tag slot).
func (s *Store) GetReputationSummary(agentID, tag string) (*ReputationSummary, error) {
	var entries []*Feedback
	var err error
	if tag != "" {
		err = s.queryAll(&entries,
			`SELECT * FROM feedback WHERE agent_id = ? AND revoked = 0 AND (tag1 = ? OR tag2 = ?)`,
			agentID, tag, tag)
	} else {
		err = s.queryAll(&entries,
			`SELECT * FROM feedback WHERE agent_id = ? AND revoked = 0`,
			agentID)
	}
	if err != nil {
		return nil, err
	}

	summary := &ReputationSummary{
		AgentID:      agentID,
		Count:        int64(len(entries)),
		SummaryValue: new(big.Int),
	}
	for _, f := range entries {
		if f.ValueDecimals > summary.Decimals {
			summary.Decimals = f.ValueDecimals
		}
	}
	for _, f := range entries {
		if f.Value == nil {
			continue
		}
		scaled := new(big.Int).Set(f.Value)
		if shift := summary.Decimals - f.ValueDecimals; shift > 0 {
			scaled.Mul(scaled, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(shift)), nil))
		}
		summary.SummaryValue.Add(summary.SummaryValue, scaled)
	}

	return summary, nil
}
