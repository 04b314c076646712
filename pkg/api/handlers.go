package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/source"
	"github.com/onchain-commerce/hubindexer/internal/store"
	"github.com/onchain-commerce/hubindexer/internal/watch"
)

// Position reports the committed stream position for health reporting.
type Position interface {
	Checkpoint() (*source.Checkpoint, error)
}

// Handler handles HTTP requests for the query API. All reads go through
// the store against committed state only.
type Handler struct {
	store    *store.Store
	registry *watch.Registry
	position Position
	log      *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(st *store.Store, registry *watch.Registry, position Position, log *logger.Logger) *Handler {
	return &Handler{
		store:    st,
		registry: registry,
		position: position,
		log:      log,
	}
}

// Health reports indexing progress.
// @Summary Health check
// @Description Reports the committed stream position and watched shop count
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:       "ok",
		Timestamp:    time.Now().UTC(),
		WatchedShops: h.registry.Count(),
	}

	cp, err := h.position.Checkpoint()
	if err != nil {
		resp.Status = "degraded"
	} else if cp != nil {
		resp.LastIndexedBlock = cp.Block
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetProtocol returns the hub deployment record.
// @Summary Get protocol state
// @Description Hub address, protocol fee in basis points and shop count
// @Tags Protocol
// @Produce json
// @Success 200 {object} ProtocolResponse "Protocol state"
// @Failure 404 {object} ErrorResponse "Nothing indexed yet"
// @Router /protocol [get]
func (h *Handler) GetProtocol(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetProtocol()
	if err != nil {
		h.internalError(w, "failed to load protocol", err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "no protocol state indexed yet")
		return
	}

	fee := "0"
	if p.ProtocolFee != nil {
		fee = p.ProtocolFee.String()
	}
	respondJSON(w, http.StatusOK, ProtocolResponse{
		HubAddress:  p.HubAddress.Hex(),
		ProtocolFee: fee,
		ShopCount:   p.ShopCount,
	})
}

// ListShops returns all indexed shops.
// @Summary List shops
// @Description All shops in creation order
// @Tags Shops
// @Produce json
// @Success 200 {object} ShopListResponse "Shop list"
// @Router /shops [get]
func (h *Handler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.store.ListShops()
	if err != nil {
		h.internalError(w, "failed to list shops", err)
		return
	}
	respondJSON(w, http.StatusOK, ShopListResponse{Shops: shops, Total: len(shops)})
}

// GetShop returns a shop with its nested entities.
// @Summary Get shop snapshot
// @Description Shop with nested products, variants, categories, collections, orders and staff
// @Tags Shops
// @Produce json
// @Param address path string true "Shop contract address"
// @Success 200 {object} store.ShopSnapshot "Shop snapshot"
// @Failure 400 {object} ErrorResponse "Invalid address"
// @Failure 404 {object} ErrorResponse "Shop not found"
// @Router /shops/{address} [get]
func (h *Handler) GetShop(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("address")
	if !common.IsHexAddress(addr) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid shop address %q", addr))
		return
	}

	snap, err := h.store.GetShopSnapshot(store.ShopID(common.HexToAddress(addr)))
	if err != nil {
		h.internalError(w, "failed to load shop", err)
		return
	}
	if snap == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("shop %s not found", addr))
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// GetCustomer returns a customer's order and feedback history.
// @Summary Get customer history
// @Description Orders with items and deliveries plus feedback left by this wallet
// @Tags Customers
// @Produce json
// @Param address path string true "Customer wallet address"
// @Success 200 {object} store.CustomerHistory "Customer history"
// @Failure 400 {object} ErrorResponse "Invalid address"
// @Failure 404 {object} ErrorResponse "Customer not found"
// @Router /customers/{address} [get]
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	addr := r.PathValue("address")
	if !common.IsHexAddress(addr) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid customer address %q", addr))
		return
	}

	history, err := h.store.GetCustomerHistory(store.CustomerID(common.HexToAddress(addr)))
	if err != nil {
		h.internalError(w, "failed to load customer", err)
		return
	}
	if history == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("customer %s not found", addr))
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// SearchProducts searches active products by name.
// @Summary Search products
// @Description Case-insensitive name search over active products across all shops
// @Tags Products
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} ProductSearchResponse "Matching products"
// @Failure 400 {object} ErrorResponse "Missing search term"
// @Router /products/search [get]
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	products, err := h.store.SearchProducts(query)
	if err != nil {
		h.internalError(w, "failed to search products", err)
		return
	}
	respondJSON(w, http.StatusOK, ProductSearchResponse{
		Query:    query,
		Products: products,
		Total:    len(products),
	})
}

// GetAgent returns an identity-registry agent.
// @Summary Get agent
// @Description Agent record from the identity registry
// @Tags Agents
// @Produce json
// @Param id path string true "Agent id"
// @Success 200 {object} store.Agent "Agent record"
// @Failure 404 {object} ErrorResponse "Agent not found"
// @Router /agents/{id} [get]
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	agent, err := h.store.GetAgent(id)
	if err != nil {
		h.internalError(w, "failed to load agent", err)
		return
	}
	if agent == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("agent %s not found", id))
		return
	}
	respondJSON(w, http.StatusOK, agent)
}

// GetAgentReputation returns the aggregate feedback for an agent.
// @Summary Get agent reputation
// @Description Count, aggregate value and decimal scale over non-revoked feedback
// @Tags Agents
// @Produce json
// @Param id path string true "Agent id"
// @Param tag query string false "Only include feedback carrying this tag"
// @Success 200 {object} store.ReputationSummary "Reputation summary"
// @Router /agents/{id}/reputation [get]
func (h *Handler) GetAgentReputation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tag := r.URL.Query().Get("tag")

	summary, err := h.store.GetReputationSummary(id, tag)
	if err != nil {
		h.internalError(w, "failed to aggregate reputation", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetValidation returns a validation request by its hash.
// @Summary Get validation request
// @Description Validation request with its response once recorded
// @Tags Validations
// @Produce json
// @Param hash path string true "Request hash"
// @Success 200 {object} store.ValidationRequest "Validation request"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Router /validations/{hash} [get]
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")

	request, err := h.store.GetValidationRequest(store.ValidationID(common.HexToHash(hash)))
	if err != nil {
		h.internalError(w, "failed to load validation request", err)
		return
	}
	if request == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("validation request %s not found", hash))
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (h *Handler) internalError(w http.ResponseWriter, message string, err error) {
	h.log.Errorf("%s: %v", message, err)
	respondError(w, http.StatusInternalServerError, message)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(encoded); err != nil {
		// Headers already sent, nothing left to do.
		return
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
