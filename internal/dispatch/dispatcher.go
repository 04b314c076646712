// Package dispatch routes decoded chain logs to the handler for their
// (contract role, event) pair and applies the resulting state changes
// to the entity store.
package dispatch

import (
	"database/sql"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/metrics"
	"github.com/onchain-commerce/hubindexer/internal/protocol"
	"github.com/onchain-commerce/hubindexer/internal/store"
	"github.com/onchain-commerce/hubindexer/internal/watch"
)

// ContractAddresses are the static protocol contracts. Identity,
// reputation and validation registries are optional deployments and may
// be left as the zero address.
type ContractAddresses struct {
	Hub        common.Address
	Identity   common.Address
	Reputation common.Address
	Validation common.Address
}

// Dispatcher classifies logs by emitting contract and topic and invokes
// the matching handler. Handlers run against a transaction-bound store,
// so a whole batch of events commits or rolls back as one.
type Dispatcher struct {
	log      *logger.Logger
	store    *store.Store
	registry *watch.Registry
	addrs    ContractAddresses
}

// New creates a dispatcher.
func New(log *logger.Logger, st *store.Store, registry *watch.Registry, addrs ContractAddresses) *Dispatcher {
	return &Dispatcher{
		log:      log.WithComponent("dispatcher"),
		store:    st,
		registry: registry,
		addrs:    addrs,
	}
}

// batch bundles what every handler invocation needs: the transaction
// (for watch registration), the tx-bound store and the block timestamp
// of the event being applied.
type batch struct {
	tx        *sql.Tx
	st        *store.Store
	blockTime uint64
}

// Dispatch applies a single log inside the given batch transaction.
// Unknown events are ignored, shop events from unwatched addresses are
// rejected with a warning, and only storage failures return an error.
func (d *Dispatcher) Dispatch(tx *sql.Tx, lg types.Log, blockTime uint64) error {
	if len(lg.Topics) == 0 {
		metrics.EventIgnoredInc()
		return nil
	}

	b := &batch{tx: tx, st: d.store.WithTx(tx), blockTime: blockTime}
	topic := lg.Topics[0]

	switch {
	case lg.Address == d.addrs.Hub:
		return d.dispatchRole(b, protocol.Hub, topic, lg, d.handleHubEvent)
	case d.addrs.Identity != (common.Address{}) && lg.Address == d.addrs.Identity:
		return d.dispatchRole(b, protocol.Identity, topic, lg, d.handleIdentityEvent)
	case d.addrs.Reputation != (common.Address{}) && lg.Address == d.addrs.Reputation:
		return d.dispatchRole(b, protocol.Reputation, topic, lg, d.handleReputationEvent)
	case d.addrs.Validation != (common.Address{}) && lg.Address == d.addrs.Validation:
		return d.dispatchRole(b, protocol.Validation, topic, lg, d.handleValidationEvent)
	}

	name, ok := protocol.Shop.EventName(topic)
	if !ok {
		metrics.EventIgnoredInc()
		return nil
	}

	if !d.registry.IsWatched(lg.Address) {
		d.log.Warnf("rejecting %s from unwatched address %s at block %d",
			name, lg.Address.Hex(), lg.BlockNumber)
		metrics.EventRejectedInc("unwatched_source")
		return nil
	}

	if err := d.handleShopEvent(b, name, lg); err != nil {
		return err
	}
	metrics.EventProcessedInc(string(protocol.RoleShop), name)
	return nil
}

type roleHandler func(b *batch, name string, lg types.Log) error

func (d *Dispatcher) dispatchRole(b *batch, contract protocol.ContractABI, topic common.Hash, lg types.Log, handle roleHandler) error {
	name, ok := contract.EventName(topic)
	if !ok {
		metrics.EventIgnoredInc()
		return nil
	}
	if err := handle(b, name, lg); err != nil {
		return err
	}
	metrics.EventProcessedInc(string(contract.Role()), name)
	return nil
}

// rejectDecode records a log that matched a known topic but whose
// payload could not be decoded. The event is dropped, not fatal.
func (d *Dispatcher) rejectDecode(name string, lg types.Log, err error) error {
	d.log.Warnf("failed to decode %s from %s at block %d: %v",
		name, lg.Address.Hex(), lg.BlockNumber, err)
	metrics.EventRejectedInc("decode_error")
	return nil
}

// skipOrphan records an event that references a parent entity which does
// not exist. The event is skipped rather than creating the parent.
func (d *Dispatcher) skipOrphan(name, parent, key string, lg types.Log) error {
	d.log.Warnf("skipping %s at block %d: %s %s does not exist",
		name, lg.BlockNumber, parent, key)
	metrics.EventRejectedInc("orphan_reference")
	return nil
}
