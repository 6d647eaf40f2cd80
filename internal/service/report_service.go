package service

import (
	"context"
	"sort"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/pricing"
	"github.com/ofabiomaran/Loja/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const topProductsLimit = 5

// ReportService aggregates the ledger for the back-office screens. Reports
// are read-only and computed on demand.
type ReportService interface {
	Sales(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error)
	// Dates lists the distinct UTC days that have sales, newest first.
	Dates(ctx context.Context) (*dto.SaleDatesResponse, error)
}

type reportService struct {
	store             *repository.Store
	lowStockThreshold int
	// concurrent requests for the same day share one aggregation pass
	flight singleflight.Group
}

func NewReportService(store *repository.Store, lowStockThreshold int) ReportService {
	return &reportService{store: store, lowStockThreshold: lowStockThreshold}
}

func (s *reportService) Sales(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error) {
	var f repository.SaleFilter
	if filter.Date != "" {
		day, err := parseDay(filter.Date)
		if err != nil {
			return nil, err
		}
		f.Date = day
	}

	key := "all"
	if filter.Date != "" {
		key = f.Date.Format(dayLayout)
	}
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		return s.buildSales(filter.Date, f), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.SalesReportResponse), nil
	}
}

func (s *reportService) buildSales(date string, f repository.SaleFilter) *dto.SalesReportResponse {
	var (
		sales    []model.Sale
		products []model.Product
	)
	s.store.Read(func(st *repository.State) {
		sales = st.ListSales(f)
		products = make([]model.Product, len(st.Products))
		copy(products, st.Products)
	})

	var active, cancelled []model.Sale
	for _, sale := range sales {
		if sale.Cancelled() {
			cancelled = append(cancelled, sale)
		} else {
			active = append(active, sale)
		}
	}

	completed := Summarize(active)
	var voided model.PaymentSummary
	for _, sale := range cancelled {
		accumulate(&voided, sale)
	}

	resp := &dto.SalesReportResponse{
		Date:           date,
		CompletedCount: len(active),
		CancelledCount: len(cancelled),
		Completed:      summaryToResponse(completed, len(active)),
		Cancelled:      summaryToResponse(voided, len(cancelled)),
		GrossRevenue:   completed.Total.Add(completed.TotalDiscounts),
		AverageTicket:  decimal.Zero,
		ProductCount:   len(products),
		TopProducts:    topProducts(active, topProductsLimit),
	}
	if len(active) > 0 {
		resp.AverageTicket = completed.Total.Div(decimalInt(len(active))).Round(2)
	}
	for _, p := range products {
		resp.TotalStock += p.Stock
		if p.Stock < s.lowStockThreshold {
			resp.LowStockCount++
		}
	}
	return resp
}

// topProducts ranks products by units sold across sales. Ties keep the order
// in which products first appear.
func topProducts(sales []model.Sale, limit int) []dto.TopProduct {
	index := map[string]int{}
	var out []dto.TopProduct
	for _, sale := range sales {
		for _, l := range sale.Items {
			id := l.Product.ID.String()
			i, ok := index[id]
			if !ok {
				i = len(out)
				index[id] = i
				out = append(out, dto.TopProduct{
					ProductID: id,
					Name:      l.Product.Name,
					Revenue:   decimal.Zero,
					Discount:  decimal.Zero,
				})
			}
			discount := pricing.LineDiscount(l)
			out[i].Quantity += l.Quantity
			out[i].Revenue = out[i].Revenue.Add(l.Product.Price.Mul(decimalInt(l.Quantity)).Sub(discount))
			out[i].Discount = out[i].Discount.Add(discount)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []dto.TopProduct{}
	}
	return out
}

func (s *reportService) Dates(_ context.Context) (*dto.SaleDatesResponse, error) {
	seen := map[string]bool{}
	dates := []string{}
	s.store.Read(func(st *repository.State) {
		for _, sale := range st.Sales {
			day := sale.Date.UTC().Format(dayLayout)
			if !seen[day] {
				seen[day] = true
				dates = append(dates, day)
			}
		}
	})
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return &dto.SaleDatesResponse{Dates: dates}, nil
}
