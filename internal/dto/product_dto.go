package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductRequest is the body of POST /v1/productos and PUT /v1/productos/:id.
// Update replaces the whole record, so both use the same shape.
type ProductRequest struct {
	Name        string          `json:"name"        validate:"required,max=120"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Category    string          `json:"category"    validate:"max=60"`
	Description string          `json:"description" validate:"max=500"`
	Barcode     string          `json:"barcode"     validate:"omitempty,max=32"`
	ImageURL    string          `json:"image_url"   validate:"omitempty,url"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// ProductFilter is bound from the query string of GET /v1/productos.
type ProductFilter struct {
	Query string `form:"q"` // name or barcode substring; empty = all
}

// LowStockFilter is bound from the query string of GET /v1/productos/alertas.
type LowStockFilter struct {
	Threshold *int `form:"threshold" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// Stock status values surfaced next to every product.
const (
	StockOK       = "ok"
	StockLow      = "low"
	StockNegative = "negative"
)

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	StockStatus string          `json:"stock_status"` // ok | low | negative
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int               `json:"total"`
}
