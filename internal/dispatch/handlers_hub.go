package dispatch

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/onchain-commerce/hubindexer/internal/protocol"
	"github.com/onchain-commerce/hubindexer/internal/store"
)

func (d *Dispatcher) handleHubEvent(b *batch, name string, lg types.Log) error {
	switch name {
	case "ShopCreated":
		var ev protocol.ShopCreated
		if err := protocol.Hub.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleShopCreated(b, &ev)

	case "ProtocolFeeUpdated":
		var ev protocol.ProtocolFeeUpdated
		if err := protocol.Hub.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}
		return d.handleProtocolFeeUpdated(b, &ev)
	}

	return nil
}

// getOrCreateProtocol loads the singleton protocol record, creating it
// on first touch so both hub events can arrive in either order.
func (d *Dispatcher) getOrCreateProtocol(b *batch) (*store.Protocol, error) {
	p, err := b.st.GetProtocol()
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &store.Protocol{
			ID:          store.ProtocolID,
			HubAddress:  d.addrs.Hub,
			ProtocolFee: new(big.Int),
		}
	}
	return p, nil
}

func (d *Dispatcher) handleShopCreated(b *batch, ev *protocol.ShopCreated) error {
	shopID := store.ShopID(ev.Shop)

	existing, err := b.st.GetShop(shopID)
	if err != nil {
		return err
	}

	shop := &store.Shop{
		ID:          shopID,
		Address:     ev.Shop,
		Owner:       ev.Owner,
		Name:        ev.Name,
		MetadataURI: ev.MetadataURI,
		CreatedAt:   b.blockTime,
	}
	if existing != nil {
		// Replay: keep fields later events may have set.
		shop.PaymentSplitAddress = existing.PaymentSplitAddress
		shop.AgentID = existing.AgentID
		shop.CreatedAt = existing.CreatedAt
	}
	if err := b.st.PutShop(shop); err != nil {
		return err
	}

	if _, err := d.registry.RegisterWatch(b.tx, ev.Shop, b.blockTime); err != nil {
		return err
	}

	// The shop count only moves on first sight of the shop.
	if existing == nil {
		p, err := d.getOrCreateProtocol(b)
		if err != nil {
			return err
		}
		p.ShopCount++
		if err := b.st.PutProtocol(p); err != nil {
			return err
		}
	}

	d.log.Infof("shop %s created by %s, now watching", shopID, ev.Owner.Hex())
	return nil
}

func (d *Dispatcher) handleProtocolFeeUpdated(b *batch, ev *protocol.ProtocolFeeUpdated) error {
	p, err := d.getOrCreateProtocol(b)
	if err != nil {
		return err
	}
	p.ProtocolFee = ev.NewFee
	return b.st.PutProtocol(p)
}
