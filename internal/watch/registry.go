// Package watch maintains the working set of shop contract addresses the
// indexer accepts events from. Shops are spawned dynamically by the hub,
// so the set grows while indexing and is persisted across restarts.
package watch

import (
	"database/sql"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/metrics"
	"github.com/onchain-commerce/hubindexer/internal/store"
)

// Registry tracks watched shop addresses. Registrations made during a
// batch are staged and only become durable when the batch transaction
// commits; Commit and Rollback keep the in-memory view in sync with
// whatever the database actually recorded.
type Registry struct {
	mu      sync.RWMutex
	watched map[common.Address]string
	pending map[common.Address]string
	log     *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		watched: make(map[common.Address]string),
		pending: make(map[common.Address]string),
		log:     log.WithComponent("watch"),
	}
}

// Load populates the registry from the persisted watch list.
func (r *Registry) Load(db *sql.DB) error {
	rows, err := db.Query(`SELECT address, shop_id FROM watched_shops`)
	if err != nil {
		metrics.DBErrorInc("watch_load")
		return err
	}
	defer rows.Close()

	r.mu.Lock()
	defer r.mu.Unlock()

	for rows.Next() {
		var addr, shopID string
		if err := rows.Scan(&addr, &shopID); err != nil {
			return err
		}
		r.watched[common.HexToAddress(addr)] = shopID
	}
	if err := rows.Err(); err != nil {
		return err
	}

	metrics.WatchedShops.Set(float64(len(r.watched)))
	r.log.Infof("loaded %d watched shops", len(r.watched))
	return nil
}

// RegisterWatch adds a shop address to the watch set inside the given
// batch transaction. Registering an already-watched address is a no-op.
// Returns true when the address is newly watched.
func (r *Registry) RegisterWatch(tx *sql.Tx, addr common.Address, addedAt uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.watched[addr]; ok {
		return false, nil
	}
	if _, ok := r.pending[addr]; ok {
		return false, nil
	}

	shopID := store.ShopID(addr)
	_, err := tx.Exec(
		`INSERT INTO watched_shops (address, shop_id, added_at) VALUES (?, ?, ?)
		 ON CONFLICT(address) DO NOTHING`,
		shopID, shopID, addedAt,
	)
	if err != nil {
		metrics.DBErrorInc("watch_register")
		return false, err
	}

	r.pending[addr] = shopID
	return true, nil
}

// IsWatched reports whether events from addr should be accepted. Staged
// registrations count, so a shop created earlier in the same batch is
// already visible to its own follow-up events.
func (r *Registry) IsWatched(addr common.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.watched[addr]; ok {
		return true
	}
	_, ok := r.pending[addr]
	return ok
}

// Commit promotes staged registrations after the batch transaction has
// committed and returns the newly watched addresses.
func (r *Registry) Commit() []common.Address {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := make([]common.Address, 0, len(r.pending))
	for addr, shopID := range r.pending {
		r.watched[addr] = shopID
		added = append(added, addr)
	}
	r.pending = make(map[common.Address]string)

	metrics.WatchedShops.Set(float64(len(r.watched)))
	return added
}

// Rollback discards staged registrations after a failed batch.
func (r *Registry) Rollback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = make(map[common.Address]string)
}

// Pending returns the addresses staged in the current batch.
func (r *Registry) Pending() []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]common.Address, 0, len(r.pending))
	for addr := range r.pending {
		out = append(out, addr)
	}
	return out
}

// Snapshot returns the committed watch set.
func (r *Registry) Snapshot() []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]common.Address, 0, len(r.watched))
	for addr := range r.watched {
		out = append(out, addr)
	}
	return out
}

// Count returns the number of committed watched shops.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.watched)
}
