package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// FinalizeSaleRequest turns the current cart into a sale.
type FinalizeSaleRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash credit debit pix"`
	Notes         string `json:"notes"          validate:"max=500"`
}

// SaleLineRequest is one line of an edited sale. The product snapshot already
// on the sale is reused; products new to the sale are read from the catalog.
// UnitPrice, when set, overrides the snapshot price.
type SaleLineRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity"   validate:"required,min=1"`
	Discount  decimal.Decimal  `json:"discount"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,min=0"`
}

type EditSaleRequest struct {
	Items         []SaleLineRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash credit debit pix"`
	Discount      *DiscountRequest  `json:"discount"`
	Notes         *string           `json:"notes"          validate:"omitempty,max=500"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/ventas.
type SaleFilter struct {
	Date   string `form:"fecha"`              // YYYY-MM-DD; empty = every day
	Status string `form:"estado,default=all"` // completed | edited | cancelled | active | all
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// StockWarning flags a product whose stock fell below the alert threshold as a
// consequence of a sale.
type StockWarning struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Status    string `json:"status"` // low | negative
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Items         []LineItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	PaymentFee    decimal.Decimal    `json:"payment_fee"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	Discount      *DiscountResponse  `json:"discount,omitempty"`
	RegisterID    string             `json:"register_id,omitempty"`
	Date          string             `json:"date"`
	UpdatedAt     string             `json:"updated_at,omitempty"`
	StockWarnings []StockWarning     `json:"stock_warnings,omitempty"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int            `json:"total"`
}
