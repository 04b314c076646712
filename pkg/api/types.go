package api

import "time"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	LastIndexedBlock uint64    `json:"last_indexed_block"`
	WatchedShops     int       `json:"watched_shops"`
}

// ProtocolResponse describes the hub deployment.
type ProtocolResponse struct {
	HubAddress  string `json:"hub_address"`
	ProtocolFee string `json:"protocol_fee"`
	ShopCount   int64  `json:"shop_count"`
}

// ShopListResponse wraps the shop list.
type ShopListResponse struct {
	Shops interface{} `json:"shops"`
	Total int         `json:"total"`
}

// ProductSearchResponse wraps product search results.
type ProductSearchResponse struct {
	Query    string      `json:"query"`
	Products interface{} `json:"products"`
	Total    int         `json:"total"`
}
