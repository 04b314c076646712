// Package source drives indexing: it pulls logs from the chain in
// chunks, feeds them through the dispatcher inside one transaction per
// chunk and tracks the stream position so restarts resume exactly where
// the last committed chunk ended.
package source

import (
	"database/sql"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/metrics"
)

// Checkpoint is the last block whose events are fully committed.
type Checkpoint struct {
	Block uint64
	Hash  common.Hash
}

// SyncManager persists the stream position. The checkpoint is written in
// the same transaction as the events of its chunk, so the position can
// never run ahead of (or behind) the projected state.
type SyncManager struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSyncManager creates a sync manager over the given database.
func NewSyncManager(db *sql.DB, log *logger.Logger) *SyncManager {
	return &SyncManager{db: db, log: log.WithComponent("sync")}
}

// Checkpoint returns the committed stream position, or nil when nothing
// has been indexed yet.
func (m *SyncManager) Checkpoint() (*Checkpoint, error) {
	var block uint64
	var hash string

	err := m.db.QueryRow(
		`SELECT last_indexed_block, last_block_hash FROM sync_state WHERE id = 1`,
	).Scan(&block, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBErrorInc("sync_read")
		return nil, err
	}

	return &Checkpoint{Block: block, Hash: common.HexToHash(hash)}, nil
}

// Save records the stream position inside the chunk transaction.
func (m *SyncManager) Save(tx *sql.Tx, block uint64, hash common.Hash) error {
	_, err := tx.Exec(
		`INSERT INTO sync_state (id, last_indexed_block, last_block_hash) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_indexed_block = excluded.last_indexed_block,
		                               last_block_hash = excluded.last_block_hash`,
		block, hash.Hex(),
	)
	if err != nil {
		metrics.DBErrorInc("sync_write")
	}
	return err
}

// Rewind moves the stream position back after a reorg. The projected
// state is left untouched; replaying the affected range is idempotent.
func (m *SyncManager) Rewind(block uint64, hash common.Hash) error {
	m.log.Warnf("rewinding stream position to block %d", block)

	_, err := m.db.Exec(
		`UPDATE sync_state SET last_indexed_block = ?, last_block_hash = ? WHERE id = 1`,
		block, hash.Hex(),
	)
	if err != nil {
		metrics.DBErrorInc("sync_rewind")
	}
	return err
}
