package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/metrics"
	"github.com/russross/meddler"
)

// Store gives handlers and the query layer typed access to the derived
// entities. It is bound to either a *sql.DB or, via WithTx, a *sql.Tx so
// a whole event batch commits atomically with read-your-writes inside
// the transaction.
type Store struct {
	db  meddler.DB
	log *logger.Logger
}

// New creates a store bound to the given database handle.
func New(db meddler.DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log.WithComponent("store")}
}

// WithTx returns a store bound to the given transaction.
func (s *Store) WithTx(tx *sql.Tx) *Store {
	return &Store{db: tx, log: s.log}
}

// queryOne loads a single row into dst. Absence is a normal case and is
// reported as (false, nil), not an error.
func (s *Store) queryOne(dst interface{}, query string, args ...interface{}) (bool, error) {
	err := meddler.QueryRow(s.db, dst, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		metrics.DBErrorInc("query")
		return false, err
	}
	return true, nil
}

// upsert inserts src into table or, when a row with the same id already
// exists, overwrites every other column. Meddler codecs are applied to
// the values, so entity structs round-trip through their column types.
func (s *Store) upsert(table string, src interface{}) error {
	cols, err := meddler.Columns(src, true)
	if err != nil {
		return fmt.Errorf("failed to list columns for %s: %w", table, err)
	}

	vals, err := meddler.Values(src, true)
	if err != nil {
		return fmt.Errorf("failed to collect values for %s: %w", table, err)
	}

	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		if col != "id" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	if _, err := s.db.Exec(query, vals...); err != nil {
		metrics.DBErrorInc("upsert")
		return fmt.Errorf("failed to upsert into %s: %w", table, err)
	}
	return nil
}

// Protocol

func (s *Store) GetProtocol() (*Protocol, error) {
	var p Protocol
	ok, err := s.queryOne(&p, `SELECT * FROM protocol WHERE id = ?`, ProtocolID)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *Store) PutProtocol(p *Protocol) error {
	return s.upsert("protocol", p)
}

// Shops

func (s *Store) GetShop(id string) (*Shop, error) {
	var sh Shop
	ok, err := s.queryOne(&sh, `SELECT * FROM shops WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) PutShop(sh *Shop) error {
	return s.upsert("shops", sh)
}

// Categories

func (s *Store) GetCategory(id string) (*Category, error) {
	var c Category
	ok, err := s.queryOne(&c, `SELECT * FROM categories WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (s *Store) PutCategory(c *Category) error {
	return s.upsert("categories", c)
}

// Collections

func (s *Store) GetCollection(id string) (*Collection, error) {
	var c Collection
	ok, err := s.queryOne(&c, `SELECT * FROM collections WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (s *Store) PutCollection(c *Collection) error {
	return s.upsert("collections", c)
}

// Products

func (s *Store) GetProduct(id string) (*Product, error) {
	var p Product
	ok, err := s.queryOne(&p, `SELECT * FROM products WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *Store) PutProduct(p *Product) error {
	return s.upsert("products", p)
}

// Variants

func (s *Store) GetVariant(id string) (*Variant, error) {
	var v Variant
	ok, err := s.queryOne(&v, `SELECT * FROM variants WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (s *Store) PutVariant(v *Variant) error {
	return s.upsert("variants", v)
}

// Employees

func (s *Store) GetEmployee(id string) (*Employee, error) {
	var e Employee
	ok, err := s.queryOne(&e, `SELECT * FROM employees WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &e, nil
}

func (s *Store) PutEmployee(e *Employee) error {
	return s.upsert("employees", e)
}

// Discounts

func (s *Store) GetDiscount(id string) (*Discount, error) {
	var d Discount
	ok, err := s.queryOne(&d, `SELECT * FROM discounts WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (s *Store) PutDiscount(d *Discount) error {
	return s.upsert("discounts", d)
}

// Customers

func (s *Store) GetCustomer(id string) (*Customer, error) {
	var c Customer
	ok, err := s.queryOne(&c, `SELECT * FROM customers WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (s *Store) PutCustomer(c *Customer) error {
	return s.upsert("customers", c)
}

// Orders

func (s *Store) GetOrder(id string) (*Order, error) {
	var o Order
	ok, err := s.queryOne(&o, `SELECT * FROM orders WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &o, nil
}

func (s *Store) PutOrder(o *Order) error {
	return s.upsert("orders", o)
}

// Order items

func (s *Store) GetOrderItem(id string) (*OrderItem, error) {
	var i OrderItem
	ok, err := s.queryOne(&i, `SELECT * FROM order_items WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &i, nil
}

func (s *Store) PutOrderItem(i *OrderItem) error {
	return s.upsert("order_items", i)
}

// Deliveries

func (s *Store) GetDelivery(id string) (*Delivery, error) {
	var d Delivery
	ok, err := s.queryOne(&d, `SELECT * FROM deliveries WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (s *Store) PutDelivery(d *Delivery) error {
	return s.upsert("deliveries", d)
}

// Feedback

func (s *Store) GetFeedback(id string) (*Feedback, error) {
	var f Feedback
	ok, err := s.queryOne(&f, `SELECT * FROM feedback WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

func (s *Store) PutFeedback(f *Feedback) error {
	return s.upsert("feedback", f)
}

// Agents

func (s *Store) GetAgent(id string) (*Agent, error) {
	var a Agent
	ok, err := s.queryOne(&a, `SELECT * FROM agents WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

func (s *Store) PutAgent(a *Agent) error {
	return s.upsert("agents", a)
}

// Validation requests

func (s *Store) GetValidationRequest(id string) (*ValidationRequest, error) {
	var v ValidationRequest
	ok, err := s.queryOne(&v, `SELECT * FROM validation_requests WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (s *Store) PutValidationRequest(v *ValidationRequest) error {
	return s.upsert("validation_requests", v)
}
