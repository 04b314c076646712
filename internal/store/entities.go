// Package store is the entity store: every record the indexer derives from
// protocol events lives here, keyed by deterministic composite identifiers
// so replaying an event always lands on the same row.
package store

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Protocol is the singleton record describing the hub deployment.
type Protocol struct {
	ID          string         `meddler:"id"`
	HubAddress  common.Address `meddler:"hub_address,address"`
	ProtocolFee *big.Int       `meddler:"protocol_fee,bigint"`
	ShopCount   int64          `meddler:"shop_count"`
}

// Shop is a shop contract spawned by the hub.
type Shop struct {
	ID                  string          `meddler:"id"`
	Address             common.Address  `meddler:"address,address"`
	Owner               common.Address  `meddler:"owner,address"`
	Name                string          `meddler:"name"`
	MetadataURI         string          `meddler:"metadata_uri"`
	PaymentSplitAddress *common.Address `meddler:"payment_split_address,address"`
	AgentID             *string         `meddler:"agent_id"`
	CreatedAt           uint64          `meddler:"created_at"`
}

// Category groups products within a shop. Deactivation is a soft delete.
type Category struct {
	ID          string   `meddler:"id"`
	ShopID      string   `meddler:"shop_id"`
	CategoryID  *big.Int `meddler:"category_id,bigint"`
	Name        string   `meddler:"name"`
	MetadataURI string   `meddler:"metadata_uri"`
	Active      bool     `meddler:"active"`
}

// Collection is a curated product list. ProductIDs is a point-in-time
// snapshot taken at creation, not a live join.
type Collection struct {
	ID           string   `meddler:"id"`
	ShopID       string   `meddler:"shop_id"`
	CollectionID *big.Int `meddler:"collection_id,bigint"`
	Name         string   `meddler:"name"`
	ProductIDs   []string `meddler:"product_ids,json"`
	MetadataURI  string   `meddler:"metadata_uri"`
	Active       bool     `meddler:"active"`
}

// Product is a sellable item scoped to a shop.
type Product struct {
	ID          string   `meddler:"id"`
	ShopID      string   `meddler:"shop_id"`
	ProductID   *big.Int `meddler:"product_id,bigint"`
	Name        string   `meddler:"name"`
	Price       *big.Int `meddler:"price,bigint"`
	Stock       *big.Int `meddler:"stock,bigint"`
	CategoryID  string   `meddler:"category_id"`
	MetadataURI string   `meddler:"metadata_uri"`
	Active      bool     `meddler:"active"`
	CreatedAt   uint64   `meddler:"created_at"`
}

// Variant is a purchasable variation of a product.
type Variant struct {
	ID        string   `meddler:"id"`
	ShopID    string   `meddler:"shop_id"`
	ProductID string   `meddler:"product_entity_id"`
	VariantID *big.Int `meddler:"variant_id,bigint"`
	Name      string   `meddler:"name"`
	Price     *big.Int `meddler:"price,bigint"`
	Stock     *big.Int `meddler:"stock,bigint"`
	Active    bool     `meddler:"active"`
}

// Employee is shop staff membership, not ownership.
type Employee struct {
	ID      string         `meddler:"id"`
	ShopID  string         `meddler:"shop_id"`
	Address common.Address `meddler:"address,address"`
	Role    string         `meddler:"role"`
	Active  bool           `meddler:"active"`
}

// Discount is a redeemable code. UsedCount only ever grows; the emitting
// contract enforces the max, the indexer just records.
type Discount struct {
	ID          string      `meddler:"id"`
	ShopID      string      `meddler:"shop_id"`
	DiscountID  *big.Int    `meddler:"discount_id,bigint"`
	CodeHash    common.Hash `meddler:"code_hash,hash"`
	BasisPoints *big.Int    `meddler:"basis_points,bigint"`
	MaxUses     *big.Int    `meddler:"max_uses,bigint"`
	UsedCount   int64       `meddler:"used_count"`
	ExpiresAt   *big.Int    `meddler:"expires_at,bigint"`
	Active      bool        `meddler:"active"`
}

// Customer is created lazily on first order and acts as the root for
// order and feedback history lookups.
type Customer struct {
	ID      string         `meddler:"id"`
	Address common.Address `meddler:"address,address"`
}

// Order tracks a purchase. Status moves only forward through the order
// state machine.
type Order struct {
	ID                string   `meddler:"id"`
	ShopID            string   `meddler:"shop_id"`
	OrderID           *big.Int `meddler:"order_id,bigint"`
	CustomerID        string   `meddler:"customer_id"`
	TotalAmount       *big.Int `meddler:"total_amount,bigint"`
	ProtocolFeeAmount *big.Int `meddler:"protocol_fee_amount,bigint"`
	EscrowedAmount    *big.Int `meddler:"escrowed_amount,bigint"`
	Status            string   `meddler:"status"`
	CreatedAt         uint64   `meddler:"created_at"`
}

// OrderItem is a line within an order.
type OrderItem struct {
	ID        string   `meddler:"id"`
	OrderID   string   `meddler:"order_entity_id"`
	LineIndex int64    `meddler:"line_index"`
	ProductID string   `meddler:"product_entity_id"`
	VariantID *string  `meddler:"variant_entity_id"`
	Quantity  *big.Int `meddler:"quantity,bigint"`
}

// Delivery records a digital delivery for an order.
type Delivery struct {
	ID        string `meddler:"id"`
	OrderID   string `meddler:"order_entity_id"`
	ShopID    string `meddler:"shop_id"`
	CreatedAt uint64 `meddler:"created_at"`
}

// Feedback is a reputation-registry entry. Revocation flips a flag and
// keeps the row for the audit trail.
type Feedback struct {
	ID            string         `meddler:"id"`
	AgentID       string         `meddler:"agent_id"`
	ClientAddress common.Address `meddler:"client_address,address"`
	FeedbackIndex uint64         `meddler:"feedback_index"`
	Value         *big.Int       `meddler:"value,bigint"`
	ValueDecimals uint8          `meddler:"value_decimals"`
	Tag1          string         `meddler:"tag1"`
	Tag2          string         `meddler:"tag2"`
	Revoked       bool           `meddler:"revoked"`
	CreatedAt     uint64         `meddler:"created_at"`
}

// Agent is an identity-registry entity referenced by shops and feedback.
type Agent struct {
	ID        string         `meddler:"id"`
	AgentID   *big.Int       `meddler:"agent_id,bigint"`
	Owner     common.Address `meddler:"owner,address"`
	AgentURI  string         `meddler:"agent_uri"`
	CreatedAt uint64         `meddler:"created_at"`
}

// ValidationRequest is terminal once a response is recorded.
type ValidationRequest struct {
	ID               string         `meddler:"id"`
	RequestHash      common.Hash    `meddler:"request_hash,hash"`
	AgentID          string         `meddler:"agent_id"`
	ValidatorAddress common.Address `meddler:"validator_address,address"`
	RequestURI       string         `meddler:"request_uri"`
	Response         *int64         `meddler:"response"`
	ResponseTag      *string        `meddler:"response_tag"`
	CreatedAt        uint64         `meddler:"created_at"`
	RespondedAt      *uint64        `meddler:"responded_at"`
}
