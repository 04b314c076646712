package protocol

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Hub events.

type ShopCreated struct {
	Shop        common.Address
	Owner       common.Address
	Name        string
	MetadataURI string
}

type ProtocolFeeUpdated struct {
	NewFee *big.Int
}

// Shop events.

type ProductCreated struct {
	ProductId  *big.Int
	Name       string
	Price      *big.Int
	Stock      *big.Int
	CategoryId *big.Int
}

type ProductUpdated struct {
	ProductId   *big.Int
	Price       *big.Int
	Stock       *big.Int
	MetadataURI string
}

type ProductDeactivated struct {
	ProductId *big.Int
}

type CategoryCreated struct {
	CategoryId *big.Int
	Name       string
}

type CategoryUpdated struct {
	CategoryId  *big.Int
	Name        string
	MetadataURI string
}

type CollectionCreated struct {
	CollectionId *big.Int
	Name         string
	ProductIds   []*big.Int
}

type VariantAdded struct {
	ProductId *big.Int
	VariantId *big.Int
	Name      string
	Price     *big.Int
	Stock     *big.Int
}

type EmployeeAdded struct {
	Employee common.Address
	Role     string
}

type EmployeeRemoved struct {
	Employee common.Address
}

type OrderCreated struct {
	OrderId     *big.Int
	Customer    common.Address
	TotalAmount *big.Int
}

type OrderFulfilled struct {
	OrderId *big.Int
}

type OrderCancelled struct {
	OrderId *big.Int
}

type OrderRefunded struct {
	OrderId *big.Int
}

type DigitalDelivery struct {
	OrderId *big.Int
}

type DiscountCreated struct {
	DiscountId  *big.Int
	Code        [32]byte
	BasisPoints *big.Int
	MaxUses     *big.Int
	ExpiresAt   *big.Int
}

type DiscountUsed struct {
	DiscountId *big.Int
}

type PaymentSplitUpdated struct {
	SplitAddress common.Address
}

// Identity registry events.

type Registered struct {
	AgentId  *big.Int
	Owner    common.Address
	AgentURI string
}

type URIUpdated struct {
	AgentId *big.Int
	NewURI  string
}

// Reputation registry events.

type NewFeedback struct {
	AgentId       *big.Int
	ClientAddress common.Address
	FeedbackIndex uint64
	Value         *big.Int
	ValueDecimals uint8
	Tag1          string
	Tag2          string
}

type FeedbackRevoked struct {
	AgentId       *big.Int
	ClientAddress common.Address
	FeedbackIndex uint64
}

// Validation registry events.

type ValidationRequested struct {
	RequestHash      common.Hash
	AgentId          *big.Int
	ValidatorAddress common.Address
	RequestURI       string
}

type ValidationResponded struct {
	RequestHash common.Hash
	Response    uint8
	Tag         string
}
