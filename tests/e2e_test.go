package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	icommon "github.com/onchain-commerce/hubindexer/internal/common"
	"github.com/onchain-commerce/hubindexer/internal/config"
	"github.com/onchain-commerce/hubindexer/internal/db"
	"github.com/onchain-commerce/hubindexer/internal/dispatch"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/orders"
	"github.com/onchain-commerce/hubindexer/internal/protocol"
	"github.com/onchain-commerce/hubindexer/internal/source"
	"github.com/onchain-commerce/hubindexer/internal/store"
	"github.com/onchain-commerce/hubindexer/internal/store/migrations"
	"github.com/onchain-commerce/hubindexer/internal/watch"
	"github.com/onchain-commerce/hubindexer/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hubAddr        = common.HexToAddress("0x1000000000000000000000000000000000000001")
	identityAddr   = common.HexToAddress("0x1000000000000000000000000000000000000002")
	reputationAddr = common.HexToAddress("0x1000000000000000000000000000000000000003")
	validationAddr = common.HexToAddress("0x1000000000000000000000000000000000000004")
	shopAddr       = common.HexToAddress("0x2000000000000000000000000000000000000001")
	ownerAddr      = common.HexToAddress("0x3000000000000000000000000000000000000001")
	buyerAddr      = common.HexToAddress("0x3000000000000000000000000000000000000002")
	validatorAddr  = common.HexToAddress("0x3000000000000000000000000000000000000003")

	requestHash = common.HexToHash("0xabcabcabcabcabcabcabcabcabcabcabcabcabcabcabcabcabcabcabcabcabc0")
)

// fakeChain serves a scripted chain out of memory.
type fakeChain struct {
	headers   map[uint64]*types.Header
	logs      []types.Log
	finalized uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{headers: make(map[uint64]*types.Header)}
}

func (f *fakeChain) extend(n uint64) {
	for b := uint64(0); b <= n; b++ {
		if _, ok := f.headers[b]; !ok {
			f.headers[b] = &types.Header{
				Number: new(big.Int).SetUint64(b),
				Time:   1700000000 + b,
			}
		}
	}
}

func (f *fakeChain) emit(t *testing.T, contract protocol.ContractABI, name string, from common.Address, block uint64, indexed []common.Hash, data ...interface{}) {
	t.Helper()

	lg, err := contract.Pack(name, indexed, data...)
	require.NoError(t, err)
	lg.Address = from
	lg.BlockNumber = block
	lg.Index = uint(len(f.logs))
	f.logs = append(f.logs, lg)
}

func (f *fakeChain) GetLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	wanted := make(map[common.Address]bool, len(q.Addresses))
	for _, a := range q.Addresses {
		wanted[a] = true
	}

	var out []types.Log
	for _, lg := range f.logs {
		if lg.BlockNumber < q.FromBlock.Uint64() || lg.BlockNumber > q.ToBlock.Uint64() {
			continue
		}
		if len(wanted) > 0 && !wanted[lg.Address] {
			continue
		}
		out = append(out, lg)
	}
	return out, nil
}

func (f *fakeChain) GetBlockHeader(_ context.Context, blockNum uint64) (*types.Header, error) {
	header, ok := f.headers[blockNum]
	if !ok {
		return nil, fmt.Errorf("block %d not found", blockNum)
	}
	return header, nil
}

func (f *fakeChain) GetLatestBlockHeader(ctx context.Context) (*types.Header, error) {
	var max uint64
	for n := range f.headers {
		if n > max {
			max = n
		}
	}
	return f.GetBlockHeader(ctx, max)
}

func (f *fakeChain) GetFinalizedBlockHeader(ctx context.Context) (*types.Header, error) {
	return f.GetBlockHeader(ctx, f.finalized)
}

func (f *fakeChain) GetSafeBlockHeader(ctx context.Context) (*types.Header, error) {
	return f.GetBlockHeader(ctx, f.finalized)
}

func (f *fakeChain) Close() {}

// TestEndToEnd_ShopLifecycle drives a full shop lifecycle through the
// running chain source and reads the derived state back over the HTTP
// handlers, the way a deployment would.
func TestEndToEnd_ShopLifecycle(t *testing.T) {
	// ========================================
	// 1. SCRIPT THE CHAIN
	// ========================================

	chain := newFakeChain()

	chain.emit(t, protocol.Hub, "ShopCreated", hubAddr, 2,
		[]common.Hash{common.BytesToHash(shopAddr.Bytes()), common.BytesToHash(ownerAddr.Bytes())},
		"Acme Supplies", "ipfs://acme")
	chain.emit(t, protocol.Hub, "ProtocolFeeUpdated", hubAddr, 2, nil, big.NewInt(250))

	chain.emit(t, protocol.Shop, "CategoryCreated", shopAddr, 3,
		[]common.Hash{common.BigToHash(big.NewInt(1))}, "Apparel")
	chain.emit(t, protocol.Shop, "ProductCreated", shopAddr, 3,
		[]common.Hash{common.BigToHash(big.NewInt(1))},
		"Mug", big.NewInt(1500), big.NewInt(20), big.NewInt(1))
	chain.emit(t, protocol.Shop, "VariantAdded", shopAddr, 3,
		[]common.Hash{common.BigToHash(big.NewInt(1))},
		big.NewInt(7), "Large", big.NewInt(1800), big.NewInt(5))

	chain.emit(t, protocol.Identity, "Registered", identityAddr, 4,
		[]common.Hash{common.BigToHash(big.NewInt(42)), common.BytesToHash(ownerAddr.Bytes())},
		"ipfs://agent-42")

	chain.emit(t, protocol.Shop, "OrderCreated", shopAddr, 5,
		[]common.Hash{common.BigToHash(big.NewInt(1)), common.BytesToHash(buyerAddr.Bytes())},
		big.NewInt(10000))
	chain.emit(t, protocol.Shop, "OrderFulfilled", shopAddr, 6,
		[]common.Hash{common.BigToHash(big.NewInt(1))})

	chain.emit(t, protocol.Reputation, "NewFeedback", reputationAddr, 6,
		[]common.Hash{common.BigToHash(big.NewInt(42)), common.BytesToHash(buyerAddr.Bytes())},
		uint64(0), big.NewInt(80), uint8(1), "quality", "")

	chain.emit(t, protocol.Validation, "ValidationRequested", validationAddr, 6,
		[]common.Hash{requestHash, common.BigToHash(big.NewInt(42)), common.BytesToHash(validatorAddr.Bytes())},
		"ipfs://request")
	chain.emit(t, protocol.Validation, "ValidationResponded", validationAddr, 7,
		[]common.Hash{requestHash}, uint8(1), "verified")

	chain.emit(t, protocol.Shop, "DigitalDelivery", shopAddr, 7,
		[]common.Hash{common.BigToHash(big.NewInt(1))})

	chain.extend(8)
	chain.finalized = 8

	// ========================================
	// 2. RUN THE INDEXER
	// ========================================

	database, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "e2e.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, migrations.RunMigrations(logger.NewNopLogger(), database))

	log := logger.NewNopLogger()
	entityStore := store.New(database, log)
	registry := watch.NewRegistry(log)
	addrs := dispatch.ContractAddresses{
		Hub:        hubAddr,
		Identity:   identityAddr,
		Reputation: reputationAddr,
		Validation: validationAddr,
	}
	dispatcher := dispatch.New(log, entityStore, registry, addrs)
	syncMgr := source.NewSyncManager(database, log)

	cfg := config.SourceConfig{
		StartBlock:   1,
		ChunkSize:    100,
		Finality:     config.FinalityFinalized,
		PollInterval: icommon.NewDuration(10 * time.Millisecond),
	}
	chainSource := source.NewChainSource(log, chain, database, dispatcher, registry, syncMgr, cfg, addrs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- chainSource.Run(ctx) }()

	require.Eventually(t, func() bool {
		cp, err := syncMgr.Checkpoint()
		return err == nil && cp != nil && cp.Block >= 8
	}, 5*time.Second, 10*time.Millisecond, "indexer never reached the chain head")

	cancel()
	require.NoError(t, <-runErr)

	// ========================================
	// 3. QUERY THE DERIVED STATE
	// ========================================

	handler := api.NewHandler(entityStore, registry, syncMgr, log)

	var health api.HealthResponse
	getJSON(t, handler.Health, "/health", nil, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, uint64(8), health.LastIndexedBlock)
	assert.Equal(t, 1, health.WatchedShops)

	var proto api.ProtocolResponse
	getJSON(t, handler.GetProtocol, "/api/v1/protocol", nil, &proto)
	assert.Equal(t, hubAddr.Hex(), proto.HubAddress)
	assert.Equal(t, "250", proto.ProtocolFee)
	assert.Equal(t, int64(1), proto.ShopCount)

	var snapshot store.ShopSnapshot
	getJSON(t, handler.GetShop, "/api/v1/shops/"+shopAddr.Hex(),
		map[string]string{"address": shopAddr.Hex()}, &snapshot)
	assert.Equal(t, "Acme Supplies", snapshot.Shop.Name)
	assert.Equal(t, uint64(1700000002), snapshot.Shop.CreatedAt)
	require.Len(t, snapshot.Products, 1)
	assert.Equal(t, "Mug", snapshot.Products[0].Product.Name)
	require.Len(t, snapshot.Products[0].Variants, 1)
	assert.Equal(t, "Large", snapshot.Products[0].Variants[0].Name)
	require.Len(t, snapshot.Categories, 1)
	require.Len(t, snapshot.Orders, 1)

	order := snapshot.Orders[0]
	assert.Equal(t, string(orders.StatusCompleted), order.Order.Status)
	assert.Equal(t, "10000", order.Order.TotalAmount.String())
	assert.Equal(t, "250", order.Order.ProtocolFeeAmount.String())
	require.NotNil(t, order.Delivery)

	var history store.CustomerHistory
	getJSON(t, handler.GetCustomer, "/api/v1/customers/"+buyerAddr.Hex(),
		map[string]string{"address": buyerAddr.Hex()}, &history)
	require.Len(t, history.Orders, 1)
	require.Len(t, history.Feedback, 1)
	assert.Equal(t, "quality", history.Feedback[0].Tag1)

	var summary store.ReputationSummary
	getJSON(t, handler.GetAgentReputation, "/api/v1/agents/42/reputation",
		map[string]string{"id": "42"}, &summary)
	assert.Equal(t, int64(1), summary.Count)
	assert.Equal(t, "80", summary.SummaryValue.String())
	assert.Equal(t, uint8(1), summary.Decimals)

	var validation store.ValidationRequest
	getJSON(t, handler.GetValidation, "/api/v1/validations/"+requestHash.Hex(),
		map[string]string{"hash": requestHash.Hex()}, &validation)
	require.NotNil(t, validation.Response)
	assert.Equal(t, int64(1), *validation.Response)
	assert.Equal(t, "verified", *validation.ResponseTag)
}

func getJSON(t *testing.T, handle http.HandlerFunc, target string, pathValues map[string]string, out interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	handle(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
