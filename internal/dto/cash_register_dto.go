package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenRegisterRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
	Notes          string          `json:"notes"           validate:"max=500"`
}

type CloseRegisterRequest struct {
	ActualClosingBalance decimal.Decimal `json:"actual_closing_balance" validate:"min=0"`
	Notes                string          `json:"notes"                  validate:"max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PaymentSummaryResponse struct {
	Cash             decimal.Decimal `json:"cash"`
	Credit           decimal.Decimal `json:"credit"`
	Debit            decimal.Decimal `json:"debit"`
	Pix              decimal.Decimal `json:"pix"`
	Total            decimal.Decimal `json:"total"`
	TotalDiscounts   decimal.Decimal `json:"total_discounts"`
	TotalPaymentFees decimal.Decimal `json:"total_payment_fees"`
	SalesCount       int             `json:"sales_count"`
}

type RegisterResponse struct {
	ID                   string                 `json:"id"`
	Status               string                 `json:"status"`
	OpeningDate          string                 `json:"opening_date"`
	OpeningBalance       decimal.Decimal        `json:"opening_balance"`
	Notes                string                 `json:"notes,omitempty"`
	SaleCount            int                    `json:"sale_count"`
	Summary              PaymentSummaryResponse `json:"summary"`
	ExpectedBalance      decimal.Decimal        `json:"expected_balance"`
	ClosingDate          *string                `json:"closing_date,omitempty"`
	ClosingBalance       *decimal.Decimal       `json:"closing_balance,omitempty"`
	ActualClosingBalance *decimal.Decimal       `json:"actual_closing_balance,omitempty"`
	CashShortage         *decimal.Decimal       `json:"cash_shortage,omitempty"`
	ShortageClass        string                 `json:"shortage_class,omitempty"` // normal | warning | critical
}

// RegisterReportResponse is a session with the sales it recorded.
type RegisterReportResponse struct {
	Register RegisterResponse `json:"register"`
	Sales    []SaleResponse   `json:"sales"`
}

type RegisterListResponse struct {
	Data  []RegisterResponse `json:"data"`
	Total int                `json:"total"`
}
