package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/onchain-commerce/hubindexer/internal/db"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/source"
	"github.com/onchain-commerce/hubindexer/internal/store"
	"github.com/onchain-commerce/hubindexer/internal/store/migrations"
	"github.com/onchain-commerce/hubindexer/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPosition struct {
	cp *source.Checkpoint
}

func (p fixedPosition) Checkpoint() (*source.Checkpoint, error) {
	return p.cp, nil
}

func newTestHandler(t *testing.T) (*Handler, *store.Store) {
	t.Helper()

	database, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, migrations.RunMigrations(logger.NewNopLogger(), database))

	st := store.New(database, logger.NewNopLogger())
	registry := watch.NewRegistry(logger.NewNopLogger())
	position := fixedPosition{cp: &source.Checkpoint{Block: 123}}

	return NewHandler(st, registry, position, logger.NewNopLogger()), st
}

func doRequest(t *testing.T, handler http.HandlerFunc, target string, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range pathValues {
		req.SetPathValue(key, value)
	}

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h.Health, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, uint64(123), resp.LastIndexedBlock)
}

func TestHandler_GetProtocol(t *testing.T) {
	h, st := newTestHandler(t)

	rec := doRequest(t, h.GetProtocol, "/api/v1/protocol", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, st.PutProtocol(&store.Protocol{
		ID:          store.ProtocolID,
		HubAddress:  common.HexToAddress("0x1000000000000000000000000000000000000001"),
		ProtocolFee: big.NewInt(250),
		ShopCount:   2,
	}))

	rec = doRequest(t, h.GetProtocol, "/api/v1/protocol", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProtocolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "250", resp.ProtocolFee)
	assert.Equal(t, int64(2), resp.ShopCount)
}

func TestHandler_GetShop(t *testing.T) {
	h, st := newTestHandler(t)

	rec := doRequest(t, h.GetShop, "/api/v1/shops/nonsense", map[string]string{"address": "nonsense"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	addr := common.HexToAddress("0x2000000000000000000000000000000000000001")
	rec = doRequest(t, h.GetShop, "/api/v1/shops/"+addr.Hex(), map[string]string{"address": addr.Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, st.PutShop(&store.Shop{
		ID:      store.ShopID(addr),
		Address: addr,
		Owner:   common.HexToAddress("0x3000000000000000000000000000000000000001"),
		Name:    "acme", MetadataURI: "ipfs://acme", CreatedAt: 1,
	}))

	// Address lookup is case-insensitive via id normalization.
	rec = doRequest(t, h.GetShop, "/api/v1/shops/"+addr.Hex(), map[string]string{"address": addr.Hex()})
	require.Equal(t, http.StatusOK, rec.Code)

	var snap store.ShopSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "acme", snap.Shop.Name)
}

func TestHandler_SearchProducts(t *testing.T) {
	h, st := newTestHandler(t)

	rec := doRequest(t, h.SearchProducts, "/api/v1/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	shop := common.HexToAddress("0x2000000000000000000000000000000000000001")
	require.NoError(t, st.PutProduct(&store.Product{
		ID: store.ProductID(shop, big.NewInt(1)), ShopID: store.ShopID(shop),
		ProductID: big.NewInt(1), Name: "Coffee Mug", Price: big.NewInt(100),
		Stock: big.NewInt(5), Active: true, CreatedAt: 1,
	}))

	rec = doRequest(t, h.SearchProducts, "/api/v1/products/search?q=mug", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProductSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestHandler_GetAgentReputation(t *testing.T) {
	h, st := newTestHandler(t)

	client := common.HexToAddress("0x4000000000000000000000000000000000000001")
	require.NoError(t, st.PutFeedback(&store.Feedback{
		ID:      store.FeedbackID(big.NewInt(7), client, 0),
		AgentID: "7", ClientAddress: client, FeedbackIndex: 0,
		Value: big.NewInt(80), Tag1: "starred", CreatedAt: 1,
	}))

	rec := doRequest(t, h.GetAgentReputation, "/api/v1/agents/7/reputation?tag=starred",
		map[string]string{"id": "7"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp store.ReputationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Count)
	assert.Equal(t, "80", resp.SummaryValue.String())

	// Unknown agents aggregate to an empty summary, not an error.
	rec = doRequest(t, h.GetAgentReputation, "/api/v1/agents/99/reputation",
		map[string]string{"id": "99"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.Count)
}

func TestHandler_GetCustomerNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	addr := common.HexToAddress("0x5000000000000000000000000000000000000001")
	rec := doRequest(t, h.GetCustomer, "/api/v1/customers/"+addr.Hex(),
		map[string]string{"address": addr.Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
