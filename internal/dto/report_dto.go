package dto

import "github.com/shopspring/decimal"

// ReportFilter is bound from the query string of GET /v1/reportes/ventas.
type ReportFilter struct {
	Date string `form:"fecha"` // YYYY-MM-DD; empty = all time
}

type TopProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Discount  decimal.Decimal `json:"discount"`
}

type SalesReportResponse struct {
	Date           string                 `json:"date,omitempty"`
	CompletedCount int                    `json:"completed_count"`
	CancelledCount int                    `json:"cancelled_count"`
	Completed      PaymentSummaryResponse `json:"completed"`
	Cancelled      PaymentSummaryResponse `json:"cancelled"`
	GrossRevenue   decimal.Decimal        `json:"gross_revenue"`
	AverageTicket  decimal.Decimal        `json:"average_ticket"`
	ProductCount   int                    `json:"product_count"`
	TotalStock     int                    `json:"total_stock"`
	LowStockCount  int                    `json:"low_stock_count"`
	TopProducts    []TopProduct           `json:"top_products"`
}

type SaleDatesResponse struct {
	Dates []string `json:"dates"`
}
