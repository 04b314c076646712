package dispatch

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/onchain-commerce/hubindexer/internal/orders"
	"github.com/onchain-commerce/hubindexer/internal/protocol"
	"github.com/onchain-commerce/hubindexer/internal/store"
)

// feeDenominator converts the hub's basis-point fee into an amount.
var feeDenominator = big.NewInt(10000)

func (d *Dispatcher) handleShopEvent(b *batch, name string, lg types.Log) error {
	shop := lg.Address

	switch name {
	case "ProductCreated":
		var ev protocol.ProductCreated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleProductCreated(b, shop, &ev)

	case "ProductUpdated":
		var ev protocol.ProductUpdated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleProductUpdated(b, shop, &ev, name, lg)

	case "ProductDeactivated":
		var ev protocol.ProductDeactivated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleProductDeactivated(b, shop, &ev, name, lg)

	case "CategoryCreated":
		var ev protocol.CategoryCreated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleCategoryCreated(b, shop, &ev)

	case "CategoryUpdated":
		var ev protocol.CategoryUpdated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleCategoryUpdated(b, shop, &ev, name, lg)

	case "CollectionCreated":
		var ev protocol.CollectionCreated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleCollectionCreated(b, shop, &ev)

	case "VariantAdded":
		var ev protocol.VariantAdded
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleVariantAdded(b, shop, &ev, name, lg)

	case "EmployeeAdded":
		var ev protocol.EmployeeAdded
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleEmployeeAdded(b, shop, &ev)

	case "EmployeeRemoved":
		var ev protocol.EmployeeRemoved
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleEmployeeRemoved(b, shop, &ev, name, lg)

	case "OrderCreated":
		var ev protocol.OrderCreated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleOrderCreated(b, shop, &ev)

	case "OrderFulfilled":
		var ev protocol.OrderFulfilled
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.advanceOrder(b, shop, ev.OrderId, orders.EventFulfilled, name, lg)

	case "OrderCancelled":
		var ev protocol.OrderCancelled
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.advanceOrder(b, shop, ev.OrderId, orders.EventCancelled, name, lg)

	case "OrderRefunded":
		var ev protocol.OrderRefunded
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.advanceOrder(b, shop, ev.OrderId, orders.EventRefunded, name, lg)

	case "DigitalDelivery":
		var ev protocol.DigitalDelivery
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleDigitalDelivery(b, shop, &ev, name, lg)

	case "DiscountCreated":
		var ev protocol.DiscountCreated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleDiscountCreated(b, shop, &ev)

	case "DiscountUsed":
		var ev protocol.DiscountUsed
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleDiscountUsed(b, shop, &ev, name, lg)

	case "PaymentSplitUpdated":
		var ev protocol.PaymentSplitUpdated
		if err := protocol.Shop.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handlePaymentSplitUpdated(b, shop, &ev, name, lg)
	}

	return nil
}

func (d *Dispatcher) handleProductCreated(b *batch, shop common.Address, ev *protocol.ProductCreated) error {
	id := store.ProductID(shop, ev.ProductId)

	existing, err := b.st.GetProduct(id)
	if err != nil {
		return err
	}

	product := &store.Product{
		ID:         id,
		ShopID:     store.ShopID(shop),
		ProductID:  ev.ProductId,
		Name:       ev.Name,
		Price:      ev.Price,
		Stock:      ev.Stock,
		CategoryID: store.CategoryID(shop, ev.CategoryId),
		Active:     true,
		CreatedAt:  b.blockTime,
	}
	if existing != nil {
		product.MetadataURI = existing.MetadataURI
		product.CreatedAt = existing.CreatedAt
	}
	return b.st.PutProduct(product)
}

func (d *Dispatcher) handleProductUpdated(b *batch, shop common.Address, ev *protocol.ProductUpdated, name string, lg types.Log) error {
	id := store.ProductID(shop, ev.ProductId)

	product, err := b.st.GetProduct(id)
	if err != nil {
		return err
	}
	if product == nil {
		return d.skipOrphan(name, "product", id, lg)
	}

	product.Price = ev.Price
	product.Stock = ev.Stock
	product.MetadataURI = ev.MetadataURI
	return b.st.PutProduct(product)
}

func (d *Dispatcher) handleProductDeactivated(b *batch, shop common.Address, ev *protocol.ProductDeactivated, name string, lg types.Log) error {
	id := store.ProductID(shop, ev.ProductId)

	product, err := b.st.GetProduct(id)
	if err != nil {
		return err
	}
	if product == nil {
		return d.skipOrphan(name, "product", id, lg)
	}

	product.Active = false
	return b.st.PutProduct(product)
}

func (d *Dispatcher) handleCategoryCreated(b *batch, shop common.Address, ev *protocol.CategoryCreated) error {
	id := store.CategoryID(shop, ev.CategoryId)

	existing, err := b.st.GetCategory(id)
	if err != nil {
		return err
	}

	category := &store.Category{
		ID:         id,
		ShopID:     store.ShopID(shop),
		CategoryID: ev.CategoryId,
		Name:       ev.Name,
		Active:     true,
	}
	if existing != nil {
		category.MetadataURI = existing.MetadataURI
	}
	return b.st.PutCategory(category)
}

func (d *Dispatcher) handleCategoryUpdated(b *batch, shop common.Address, ev *protocol.CategoryUpdated, name string, lg types.Log) error {
	id := store.CategoryID(shop, ev.CategoryId)

	category, err := b.st.GetCategory(id)
	if err != nil {
		return err
	}
	if category == nil {
		return d.skipOrphan(name, "category", id, lg)
	}

	category.Name = ev.Name
	category.MetadataURI = ev.MetadataURI
	return b.st.PutCategory(category)
}

func (d *Dispatcher) handleCollectionCreated(b *batch, shop common.Address, ev *protocol.CollectionCreated) error {
	productIDs := make([]string, 0, len(ev.ProductIds))
	for _, pid := range ev.ProductIds {
		productIDs = append(productIDs, store.ProductID(shop, pid))
	}

	return b.st.PutCollection(&store.Collection{
		ID:           store.CollectionID(shop, ev.CollectionId),
		ShopID:       store.ShopID(shop),
		CollectionID: ev.CollectionId,
		Name:         ev.Name,
		ProductIDs:   productIDs,
		Active:       true,
	})
}

func (d *Dispatcher) handleVariantAdded(b *batch, shop common.Address, ev *protocol.VariantAdded, name string, lg types.Log) error {
	productID := store.ProductID(shop, ev.ProductId)

	product, err := b.st.GetProduct(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return d.skipOrphan(name, "product", productID, lg)
	}

	return b.st.PutVariant(&store.Variant{
		ID:        store.VariantID(shop, ev.ProductId, ev.VariantId),
		ShopID:    store.ShopID(shop),
		ProductID: productID,
		VariantID: ev.VariantId,
		Name:      ev.Name,
		Price:     ev.Price,
		Stock:     ev.Stock,
		Active:    true,
	})
}

func (d *Dispatcher) handleEmployeeAdded(b *batch, shop common.Address, ev *protocol.EmployeeAdded) error {
	return b.st.PutEmployee(&store.Employee{
		ID:      store.EmployeeID(shop, ev.Employee),
		ShopID:  store.ShopID(shop),
		Address: ev.Employee,
		Role:    ev.Role,
		Active:  true,
	})
}

func (d *Dispatcher) handleEmployeeRemoved(b *batch, shop common.Address, ev *protocol.EmployeeRemoved, name string, lg types.Log) error {
	id := store.EmployeeID(shop, ev.Employee)

	employee, err := b.st.GetEmployee(id)
	if err != nil {
		return err
	}
	if employee == nil {
		return d.skipOrphan(name, "employee", id, lg)
	}

	employee.Active = false
	return b.st.PutEmployee(employee)
}

func (d *Dispatcher) handleOrderCreated(b *batch, shop common.Address, ev *protocol.OrderCreated) error {
	id := store.OrderID(shop, ev.OrderId)

	// A replay must not reset lifecycle progress made by later events.
	existing, err := b.st.GetOrder(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	customerID := store.CustomerID(ev.Customer)
	customer, err := b.st.GetCustomer(customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		if err := b.st.PutCustomer(&store.Customer{ID: customerID, Address: ev.Customer}); err != nil {
			return err
		}
	}

	// The fee amount is derived from the hub fee in force at ingest.
	feeAmount := new(big.Int)
	p, err := b.st.GetProtocol()
	if err != nil {
		return err
	}
	if p != nil && p.ProtocolFee != nil && ev.TotalAmount != nil {
		feeAmount.Mul(ev.TotalAmount, p.ProtocolFee)
		feeAmount.Div(feeAmount, feeDenominator)
	}

	return b.st.PutOrder(&store.Order{
		ID:                id,
		ShopID:            store.ShopID(shop),
		OrderID:           ev.OrderId,
		CustomerID:        customerID,
		TotalAmount:       ev.TotalAmount,
		ProtocolFeeAmount: feeAmount,
		EscrowedAmount:    ev.TotalAmount,
		Status:            string(orders.StatusPaid),
		CreatedAt:         b.blockTime,
	})
}

func (d *Dispatcher) advanceOrder(b *batch, shop common.Address, orderID *big.Int, event orders.Event, name string, lg types.Log) error {
	id := store.OrderID(shop, orderID)

	order, err := b.st.GetOrder(id)
	if err != nil {
		return err
	}
	if order == nil {
		return d.skipOrphan(name, "order", id, lg)
	}

	next := orders.Transition(orders.Status(order.Status), event)
	if string(next) == order.Status {
		return nil
	}

	order.Status = string(next)
	return b.st.PutOrder(order)
}

func (d *Dispatcher) handleDigitalDelivery(b *batch, shop common.Address, ev *protocol.DigitalDelivery, name string, lg types.Log) error {
	id := store.OrderID(shop, ev.OrderId)

	order, err := b.st.GetOrder(id)
	if err != nil {
		return err
	}
	if order == nil {
		return d.skipOrphan(name, "order", id, lg)
	}

	if err := b.st.PutDelivery(&store.Delivery{
		ID:        store.DeliveryID(shop, ev.OrderId),
		OrderID:   id,
		ShopID:    store.ShopID(shop),
		CreatedAt: b.blockTime,
	}); err != nil {
		return err
	}

	next := orders.Transition(orders.Status(order.Status), orders.EventCompleted)
	if string(next) == order.Status {
		return nil
	}
	order.Status = string(next)
	return b.st.PutOrder(order)
}

func (d *Dispatcher) handleDiscountCreated(b *batch, shop common.Address, ev *protocol.DiscountCreated) error {
	id := store.DiscountID(shop, ev.DiscountId)

	// Create-if-absent: a replay must not reset the usage counter.
	existing, err := b.st.GetDiscount(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	return b.st.PutDiscount(&store.Discount{
		ID:          id,
		ShopID:      store.ShopID(shop),
		DiscountID:  ev.DiscountId,
		CodeHash:    common.BytesToHash(ev.Code[:]),
		BasisPoints: ev.BasisPoints,
		MaxUses:     ev.MaxUses,
		ExpiresAt:   ev.ExpiresAt,
		Active:      true,
	})
}

func (d *Dispatcher) handleDiscountUsed(b *batch, shop common.Address, ev *protocol.DiscountUsed, name string, lg types.Log) error {
	id := store.DiscountID(shop, ev.DiscountId)

	discount, err := b.st.GetDiscount(id)
	if err != nil {
		return err
	}
	if discount == nil {
		return d.skipOrphan(name, "discount", id, lg)
	}

	discount.UsedCount++
	return b.st.PutDiscount(discount)
}

func (d *Dispatcher) handlePaymentSplitUpdated(b *batch, shopAddr common.Address, ev *protocol.PaymentSplitUpdated, name string, lg types.Log) error {
	id := store.ShopID(shopAddr)

	shop, err := b.st.GetShop(id)
	if err != nil {
		return err
	}
	if shop == nil {
		return d.skipOrphan(name, "shop", id, lg)
	}

	split := ev.SplitAddress
	shop.PaymentSplitAddress = &split
	return b.st.PutShop(shop)
}
