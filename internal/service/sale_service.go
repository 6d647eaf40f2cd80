package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/pricing"
	"github.com/ofabiomaran/Loja/internal/repository"
	"github.com/ofabiomaran/Loja/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SaleService interface {
	Finalize(ctx context.Context, req dto.FinalizeSaleRequest) (*dto.SaleResponse, error)
	Edit(ctx context.Context, id uuid.UUID, req dto.EditSaleRequest) (*dto.SaleResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	store             *repository.Store
	dispatcher        *worker.Dispatcher
	lowStockThreshold int
}

// NewSaleService wires the ledger. dispatcher may be nil, in which case stock
// alerts are only logged.
func NewSaleService(store *repository.Store, dispatcher *worker.Dispatcher, lowStockThreshold int) SaleService {
	return &saleService{store: store, dispatcher: dispatcher, lowStockThreshold: lowStockThreshold}
}

// ── Finalize ──────────────────────────────────────────────────────────────────
// One transaction:
//   1. Require an open register and a non-empty cart
//   2. Price the cart (line discounts, or the per-sale descriptor) + payment fee
//   3. Decrement stock for every line still in the catalog (no floor)
//   4. Append the sale to the ledger and to the open register
//   5. Clear the cart
// Nothing is visible to readers unless all of it succeeds.

func (s *saleService) Finalize(ctx context.Context, req dto.FinalizeSaleRequest) (*dto.SaleResponse, error) {
	method, err := parseMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var (
		sale    model.Sale
		touched []model.Product
	)
	txErr := s.store.RunTx(ctx, func(st *repository.State) error {
		reg := st.CurrentRegister
		if reg == nil {
			return fmt.Errorf("cannot finalize sale: %w", ErrNoOpenSession)
		}
		if len(st.Cart.Items) == 0 {
			return fmt.Errorf("cart is empty: %w", ErrValidation)
		}

		lines := model.CloneLines(st.Cart.Items)
		var discount *model.Discount
		if st.Cart.Discount != nil {
			d := *st.Cart.Discount
			discount = &d
		}
		totals := pricing.WithPayment(pricing.SaleTotals(lines, discount), method, st.PaymentFees)

		regID := reg.ID
		sale = model.Sale{
			ID:            uuid.New(),
			Items:         lines,
			Subtotal:      totals.Subtotal,
			TotalDiscount: totals.TotalDiscount,
			PaymentFee:    totals.PaymentFee,
			Total:         totals.Total,
			Date:          now(),
			PaymentMethod: method,
			Status:        model.SaleCompleted,
			Notes:         req.Notes,
			Discount:      discount,
			RegisterID:    &regID,
		}

		touched = touched[:0]
		for _, l := range lines {
			// Lines whose product left the catalog keep their snapshot only.
			if p, ok := st.AdjustStock(l.Product.ID, -l.Quantity); ok {
				touched = append(touched, p)
			}
		}

		st.AppendSale(sale)
		reg.SaleIDs = append(reg.SaleIDs, sale.ID)
		st.Cart = model.Cart{Items: []model.LineItem{}}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("sale_id", sale.ID.String()).
		Str("method", string(sale.PaymentMethod)).
		Str("total", sale.Total.String()).
		Int("lines", len(sale.Items)).
		Msg("sale finalized")

	resp := saleToResponse(sale)
	resp.StockWarnings = s.stockWarnings(ctx, sale.ID, touched)
	return &resp, nil
}

// stockWarnings reports products left under the alert threshold and hands
// them to the event queue. Queue failures never fail the sale.
func (s *saleService) stockWarnings(ctx context.Context, saleID uuid.UUID, products []model.Product) []dto.StockWarning {
	var out []dto.StockWarning
	for _, p := range products {
		status := stockStatus(p.Stock, s.lowStockThreshold)
		if status == dto.StockOK {
			continue
		}
		out = append(out, dto.StockWarning{
			ProductID: p.ID.String(),
			Name:      p.Name,
			Stock:     p.Stock,
			Status:    status,
		})
		if status == dto.StockNegative {
			log.Warn().Str("product_id", p.ID.String()).Int("stock", p.Stock).Msg("stock went negative")
		}
		if s.dispatcher == nil {
			continue
		}
		err := s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
			ProductID: p.ID.String(),
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: s.lowStockThreshold,
			SaleID:    saleID.String(),
		})
		if err != nil {
			log.Warn().Err(err).Str("product_id", p.ID.String()).Msg("stock alert not enqueued")
		}
	}
	return out
}

// ── Edit ──────────────────────────────────────────────────────────────────────
// Recomputes every total from the new lines with the fee schedule in force
// now. Stock is left as it is.

func (s *saleService) Edit(ctx context.Context, id uuid.UUID, req dto.EditSaleRequest) (*dto.SaleResponse, error) {
	method, err := parseMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	discount, err := parseDiscount(req.Discount)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("a sale needs at least one line: %w", ErrValidation)
	}
	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		if ids[i], err = parseID(item.ProductID, "product_id"); err != nil {
			return nil, err
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0: %w", ErrValidation)
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("unit_price must be >= 0: %w", ErrValidation)
		}
	}

	var edited model.Sale
	txErr := s.store.RunTx(ctx, func(st *repository.State) error {
		sale, ok := st.FindSale(id)
		if !ok {
			return fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		if sale.Cancelled() {
			return fmt.Errorf("sale %s is cancelled: %w", id, ErrInvalidTransition)
		}

		lines := make([]model.LineItem, 0, len(req.Items))
		for i, item := range req.Items {
			snapshot, err := resolveSnapshot(st, sale, ids[i])
			if err != nil {
				return err
			}
			if item.UnitPrice != nil {
				snapshot.Price = *item.UnitPrice
			}
			lines = append(lines, model.LineItem{
				Product:  snapshot,
				Quantity: item.Quantity,
				Discount: item.Discount,
			})
		}
		if discount != nil {
			pricing.DistributeDiscount(lines, discount)
		}
		totals := pricing.WithPayment(pricing.SaleTotals(lines, discount), method, st.PaymentFees)

		ts := now()
		sale.Items = lines
		sale.Subtotal = totals.Subtotal
		sale.TotalDiscount = totals.TotalDiscount
		sale.PaymentFee = totals.PaymentFee
		sale.Total = totals.Total
		sale.PaymentMethod = method
		sale.Discount = discount
		sale.Status = model.SaleEdited
		sale.UpdatedAt = &ts
		if req.Notes != nil {
			sale.Notes = *req.Notes
		}
		edited = sale.Clone()
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("sale_id", edited.ID.String()).
		Str("total", edited.Total.String()).
		Msg("sale edited")
	resp := saleToResponse(edited)
	return &resp, nil
}

// resolveSnapshot prefers the product snapshot already stored on the sale and
// falls back to the catalog for products added by the edit.
func resolveSnapshot(st *repository.State, sale *model.Sale, productID uuid.UUID) (model.Product, error) {
	for _, l := range sale.Items {
		if l.Product.ID == productID {
			return l.Product, nil
		}
	}
	if p, ok := st.FindProduct(productID); ok {
		return *p, nil
	}
	return model.Product{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
}

// ── Cancel ────────────────────────────────────────────────────────────────────
// Flags the sale; the record, its totals and the stock stay as they are.
// Cancelling twice is a no-op.

func (s *saleService) Cancel(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	var cancelled model.Sale
	txErr := s.store.RunTx(ctx, func(st *repository.State) error {
		sale, ok := st.FindSale(id)
		if !ok {
			return fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		if sale.Cancelled() {
			cancelled = sale.Clone()
			return errNoop
		}
		ts := now()
		sale.Status = model.SaleCancelled
		sale.UpdatedAt = &ts
		cancelled = sale.Clone()
		return nil
	})
	if txErr != nil && !errors.Is(txErr, errNoop) {
		return nil, txErr
	}
	if txErr == nil {
		log.Info().Str("sale_id", id.String()).Str("total", cancelled.Total.String()).Msg("sale cancelled")
	}
	resp := saleToResponse(cancelled)
	return &resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) Get(_ context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	var (
		sale model.Sale
		ok   bool
	)
	s.store.Read(func(st *repository.State) {
		var found *model.Sale
		if found, ok = st.FindSale(id); ok {
			sale = found.Clone()
		}
	})
	if !ok {
		return nil, fmt.Errorf("sale %s: %w", id, ErrNotFound)
	}
	resp := saleToResponse(sale)
	return &resp, nil
}

// List returns matching sales, newest first. Status "active" means completed
// or edited; "all" or empty disables the status filter.
func (s *saleService) List(_ context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	f, err := parseSaleFilter(filter)
	if err != nil {
		return nil, err
	}
	var sales []model.Sale
	s.store.Read(func(st *repository.State) {
		sales = st.ListSales(f)
	})
	data := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		data = append(data, saleToResponse(sale))
	}
	return &dto.SaleListResponse{Data: data, Total: len(data)}, nil
}

func parseSaleFilter(filter dto.SaleFilter) (repository.SaleFilter, error) {
	var f repository.SaleFilter
	if filter.Date != "" {
		day, err := parseDay(filter.Date)
		if err != nil {
			return f, err
		}
		f.Date = day
	}
	switch filter.Status {
	case "", "all":
	case "active":
		f.Statuses = []model.SaleStatus{model.SaleCompleted, model.SaleEdited}
	case string(model.SaleCompleted), string(model.SaleEdited), string(model.SaleCancelled):
		f.Statuses = []model.SaleStatus{model.SaleStatus(filter.Status)}
	default:
		return f, fmt.Errorf("unknown status filter %q: %w", filter.Status, ErrValidation)
	}
	return f, nil
}

const dayLayout = "2006-01-02"

func parseDay(raw string) (time.Time, error) {
	day, err := time.Parse(dayLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", raw, ErrValidation)
	}
	return day, nil
}
