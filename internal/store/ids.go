package store

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ProtocolID is the fixed identifier of the singleton protocol record.
const ProtocolID = "protocol"

// Identifiers are derived purely from event data, so replaying an event
// always produces the same key. Addresses are lowercased to keep ids
// stable regardless of checksum casing in the source.

func ShopID(shop common.Address) string {
	return strings.ToLower(shop.Hex())
}

func scopedID(shop common.Address, kind string, n *big.Int) string {
	return fmt.Sprintf("%s-%s-%s", ShopID(shop), kind, n.String())
}

func CategoryID(shop common.Address, categoryID *big.Int) string {
	return scopedID(shop, "category", categoryID)
}

func CollectionID(shop common.Address, collectionID *big.Int) string {
	return scopedID(shop, "collection", collectionID)
}

func ProductID(shop common.Address, productID *big.Int) string {
	return scopedID(shop, "product", productID)
}

func VariantID(shop common.Address, productID, variantID *big.Int) string {
	return fmt.Sprintf("%s-variant-%s-%s", ShopID(shop), productID.String(), variantID.String())
}

func EmployeeID(shop, employee common.Address) string {
	return fmt.Sprintf("%s-employee-%s", ShopID(shop), strings.ToLower(employee.Hex()))
}

func DiscountID(shop common.Address, discountID *big.Int) string {
	return scopedID(shop, "discount", discountID)
}

func CustomerID(customer common.Address) string {
	return strings.ToLower(customer.Hex())
}

func OrderID(shop common.Address, orderID *big.Int) string {
	return scopedID(shop, "order", orderID)
}

func OrderItemID(orderEntityID string, lineIndex int64) string {
	return fmt.Sprintf("%s-item-%d", orderEntityID, lineIndex)
}

func DeliveryID(shop common.Address, orderID *big.Int) string {
	return scopedID(shop, "delivery", orderID)
}

func AgentID(agentID *big.Int) string {
	return agentID.String()
}

func FeedbackID(agentID *big.Int, client common.Address, feedbackIndex uint64) string {
	return fmt.Sprintf("%s-%s-%d", agentID.String(), strings.ToLower(client.Hex()), feedbackIndex)
}

func ValidationID(requestHash common.Hash) string {
	return strings.ToLower(requestHash.Hex())
}
