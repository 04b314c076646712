package source

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/onchain-commerce/hubindexer/internal/config"
	"github.com/onchain-commerce/hubindexer/internal/dispatch"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/metrics"
	"github.com/onchain-commerce/hubindexer/internal/rpc"
	"github.com/onchain-commerce/hubindexer/internal/watch"

	"database/sql"
)

// ChainSource pulls protocol logs from the chain in chunks and applies
// each chunk atomically: events, watch registrations and the stream
// checkpoint all commit in one transaction, or none of them do.
type ChainSource struct {
	log        *logger.Logger
	client     rpc.EthClient
	db         *sql.DB
	dispatcher *dispatch.Dispatcher
	registry   *watch.Registry
	sync       *SyncManager
	cfg        config.SourceConfig
	static     []common.Address

	// block timestamp cache, reset per chunk
	blockTimes map[uint64]uint64
}

// NewChainSource creates a chain source over the static protocol
// contracts. Shop addresses are taken from the watch registry at fetch
// time, so the filter grows as shops are discovered.
func NewChainSource(
	log *logger.Logger,
	client rpc.EthClient,
	db *sql.DB,
	dispatcher *dispatch.Dispatcher,
	registry *watch.Registry,
	syncMgr *SyncManager,
	cfg config.SourceConfig,
	addrs dispatch.ContractAddresses,
) *ChainSource {
	static := []common.Address{addrs.Hub}
	for _, a := range []common.Address{addrs.Identity, addrs.Reputation, addrs.Validation} {
		if a != (common.Address{}) {
			static = append(static, a)
		}
	}

	return &ChainSource{
		log:        log.WithComponent("source"),
		client:     client,
		db:         db,
		dispatcher: dispatcher,
		registry:   registry,
		sync:       syncMgr,
		cfg:        cfg,
		static:     static,
	}
}

// Run indexes until the context is cancelled. Storage failures are
// fatal, everything else is retried on the next poll.
func (s *ChainSource) Run(ctx context.Context) error {
	s.log.Infof("starting from block %d with %d watched shops",
		s.cfg.StartBlock, s.registry.Count())

	ticker := time.NewTicker(s.cfg.PollInterval.Duration)
	defer ticker.Stop()

	for {
		if err := s.step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// step processes every chunk between the checkpoint and the current
// target head.
func (s *ChainSource) step(ctx context.Context) error {
	head, err := s.targetHead(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve target head: %w", err)
	}

	from := s.cfg.StartBlock

	cp, err := s.sync.Checkpoint()
	if err != nil {
		return err
	}
	if cp != nil {
		if err := s.checkReorg(ctx, cp); err != nil {
			return err
		}
		cp, err = s.sync.Checkpoint()
		if err != nil {
			return err
		}
		from = cp.Block + 1
	}

	for from <= head {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		to := from + s.cfg.ChunkSize - 1
		if to > head {
			to = head
		}

		if err := s.processChunk(ctx, from, to); err != nil {
			return err
		}
		from = to + 1
	}

	return nil
}

// checkReorg compares the stored checkpoint hash against the chain. On a
// mismatch the position rewinds to the last finalized block not past the
// checkpoint; the affected range is then replayed idempotently. Derived
// state is never deleted.
func (s *ChainSource) checkReorg(ctx context.Context, cp *Checkpoint) error {
	header, err := s.client.GetBlockHeader(ctx, cp.Block)
	if err != nil {
		return fmt.Errorf("failed to fetch checkpoint block %d: %w", cp.Block, err)
	}
	if header.Hash() == cp.Hash {
		return nil
	}

	s.log.Warnf("reorg detected at block %d (stored %s, chain %s)",
		cp.Block, cp.Hash.Hex(), header.Hash().Hex())
	metrics.ReorgsDetected.Inc()

	target := cp.Block - 1
	if fin, err := s.client.GetFinalizedBlockHeader(ctx); err == nil {
		if n := fin.Number.Uint64(); n < target {
			target = n
		}
	}
	if target < s.cfg.StartBlock {
		target = s.cfg.StartBlock
	}

	canonical, err := s.client.GetBlockHeader(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to fetch rewind block %d: %w", target, err)
	}
	return s.sync.Rewind(target, canonical.Hash())
}

// processChunk fetches and applies all protocol logs in [from, to]. A
// ShopCreated inside the chunk widens the address filter, so the same
// range is re-fetched for newly discovered shops until no more turn up;
// this guarantees a shop's own events are never silently missed in the
// chunk that created it.
func (s *ChainSource) processChunk(ctx context.Context, from, to uint64) error {
	start := time.Now()
	s.blockTimes = make(map[uint64]uint64)

	addresses := append(append([]common.Address{}, s.static...), s.registry.Snapshot()...)
	logs, err := s.fetchLogs(ctx, from, to, addresses)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		metrics.DBErrorInc("begin")
		return err
	}

	abort := func(err error) error {
		tx.Rollback()
		s.registry.Rollback()
		return err
	}

	if err := s.applyLogs(ctx, tx, logs); err != nil {
		return abort(err)
	}

	// Fixpoint over shops discovered while applying this chunk.
	backfilled := make(map[common.Address]bool)
	for {
		var fresh []common.Address
		for _, addr := range s.registry.Pending() {
			if !backfilled[addr] {
				backfilled[addr] = true
				fresh = append(fresh, addr)
			}
		}
		if len(fresh) == 0 {
			break
		}

		more, err := s.fetchLogs(ctx, from, to, fresh)
		if err != nil {
			return abort(err)
		}
		if err := s.applyLogs(ctx, tx, more); err != nil {
			return abort(err)
		}
	}

	header, err := s.client.GetBlockHeader(ctx, to)
	if err != nil {
		return abort(fmt.Errorf("failed to fetch chunk head %d: %w", to, err))
	}
	if err := s.sync.Save(tx, to, header.Hash()); err != nil {
		return abort(err)
	}

	if err := tx.Commit(); err != nil {
		s.registry.Rollback()
		metrics.DBErrorInc("commit")
		return err
	}
	s.registry.Commit()

	metrics.LastIndexedBlock.Set(float64(to))
	metrics.BatchProcessingTime(time.Since(start))
	s.log.Debugf("indexed blocks %d-%d: %d logs in %s", from, to, len(logs), time.Since(start))
	return nil
}

func (s *ChainSource) fetchLogs(ctx context.Context, from, to uint64, addresses []common.Address) ([]types.Log, error) {
	logs, err := s.client.GetLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs for blocks %d-%d: %w", from, to, err)
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		if logs[i].TxIndex != logs[j].TxIndex {
			return logs[i].TxIndex < logs[j].TxIndex
		}
		return logs[i].Index < logs[j].Index
	})
	return logs, nil
}

func (s *ChainSource) applyLogs(ctx context.Context, tx *sql.Tx, logs []types.Log) error {
	for _, lg := range logs {
		blockTime, err := s.blockTime(ctx, lg.BlockNumber)
		if err != nil {
			return err
		}
		if err := s.dispatcher.Dispatch(tx, lg, blockTime); err != nil {
			return err
		}
	}
	return nil
}

func (s *ChainSource) blockTime(ctx context.Context, blockNum uint64) (uint64, error) {
	if t, ok := s.blockTimes[blockNum]; ok {
		return t, nil
	}

	header, err := s.client.GetBlockHeader(ctx, blockNum)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch block %d: %w", blockNum, err)
	}
	s.blockTimes[blockNum] = header.Time
	return header.Time, nil
}

// targetHead resolves how far indexing may safely advance.
func (s *ChainSource) targetHead(ctx context.Context) (uint64, error) {
	switch s.cfg.Finality {
	case config.FinalitySafe:
		header, err := s.client.GetSafeBlockHeader(ctx)
		if err != nil {
			return 0, err
		}
		return header.Number.Uint64(), nil

	case config.FinalityLatest:
		header, err := s.client.GetLatestBlockHeader(ctx)
		if err != nil {
			return 0, err
		}
		head := header.Number.Uint64()
		if head < s.cfg.FinalizedLag {
			return 0, nil
		}
		return head - s.cfg.FinalizedLag, nil

	default:
		header, err := s.client.GetFinalizedBlockHeader(ctx)
		if err != nil {
			return 0, err
		}
		return header.Number.Uint64(), nil
	}
}
