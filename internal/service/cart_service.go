package service

import (
	"context"
	"fmt"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/pricing"
	"github.com/ofabiomaran/Loja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService manages the in-progress sale. Every mutation returns the cart
// as it stands afterwards, with its totals.
//
// A per-sale discount set with ApplyDiscount is kept on the cart and
// re-distributed to the lines whenever they change; setting a line discount
// by hand drops it.
type CartService interface {
	Get(ctx context.Context) (*dto.CartResponse, error)
	AddItem(ctx context.Context, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, productID uuid.UUID) (*dto.CartResponse, error)
	SetLineDiscount(ctx context.Context, productID uuid.UUID, percent decimal.Decimal) (*dto.CartResponse, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*dto.CartResponse, error)
	// ApplyDiscount sets the per-sale discount; nil removes it.
	ApplyDiscount(ctx context.Context, req *dto.DiscountRequest) (*dto.CartResponse, error)
	Clear(ctx context.Context) (*dto.CartResponse, error)
}

type cartService struct {
	store             *repository.Store
	lowStockThreshold int
}

func NewCartService(store *repository.Store, lowStockThreshold int) CartService {
	return &cartService{store: store, lowStockThreshold: lowStockThreshold}
}

func (s *cartService) Get(_ context.Context) (*dto.CartResponse, error) {
	return s.snapshot(), nil
}

// AddItem merges into the existing line for the product, leaving its discount
// untouched, or appends a new line with no discount. Stock is not checked.
func (s *cartService) AddItem(ctx context.Context, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	productID, err := parseID(req.ProductID, "product_id")
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be > 0: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *repository.State) error {
		p, ok := st.FindProduct(productID)
		if !ok {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		if i := st.Cart.LineIndex(productID); i >= 0 {
			st.Cart.Items[i].Quantity += req.Quantity
		} else {
			st.Cart.Items = append(st.Cart.Items, model.LineItem{
				Product:  *p,
				Quantity: req.Quantity,
				Discount: decimal.Zero,
			})
		}
		redistribute(&st.Cart)
		return nil
	})
}

func (s *cartService) RemoveItem(ctx context.Context, productID uuid.UUID) (*dto.CartResponse, error) {
	return s.mutate(ctx, func(st *repository.State) error {
		i := st.Cart.LineIndex(productID)
		if i < 0 {
			return errNoop
		}
		st.Cart.Items = append(st.Cart.Items[:i], st.Cart.Items[i+1:]...)
		redistribute(&st.Cart)
		return nil
	})
}

// SetLineDiscount stores percent as given; computations clamp it to [0,100].
func (s *cartService) SetLineDiscount(ctx context.Context, productID uuid.UUID, percent decimal.Decimal) (*dto.CartResponse, error) {
	return s.mutate(ctx, func(st *repository.State) error {
		i := st.Cart.LineIndex(productID)
		if i < 0 {
			return errNoop
		}
		st.Cart.Items[i].Discount = percent
		st.Cart.Discount = nil
		return nil
	})
}

func (s *cartService) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*dto.CartResponse, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be > 0: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *repository.State) error {
		i := st.Cart.LineIndex(productID)
		if i < 0 {
			return errNoop
		}
		st.Cart.Items[i].Quantity = quantity
		redistribute(&st.Cart)
		return nil
	})
}

func (s *cartService) ApplyDiscount(ctx context.Context, req *dto.DiscountRequest) (*dto.CartResponse, error) {
	d, err := parseDiscount(req)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, func(st *repository.State) error {
		if d == nil && st.Cart.Discount == nil {
			return errNoop
		}
		st.Cart.Discount = d
		pricing.DistributeDiscount(st.Cart.Items, d)
		return nil
	})
}

func (s *cartService) Clear(ctx context.Context) (*dto.CartResponse, error) {
	return s.mutate(ctx, func(st *repository.State) error {
		if len(st.Cart.Items) == 0 && st.Cart.Discount == nil {
			return errNoop
		}
		st.Cart = model.Cart{Items: []model.LineItem{}}
		return nil
	})
}

func (s *cartService) mutate(ctx context.Context, fn func(st *repository.State) error) (*dto.CartResponse, error) {
	if err := ignoreNoop(s.store.RunTx(ctx, fn)); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *cartService) snapshot() *dto.CartResponse {
	var resp *dto.CartResponse
	s.store.Read(func(st *repository.State) {
		resp = buildCartResponse(st, s.lowStockThreshold)
	})
	return resp
}

// redistribute keeps line percentages in step with the cart's per-sale
// discount after the lines changed.
func redistribute(c *model.Cart) {
	if c.Discount != nil {
		pricing.DistributeDiscount(c.Items, c.Discount)
	}
}

func buildCartResponse(st *repository.State, threshold int) *dto.CartResponse {
	items := make([]dto.LineItemResponse, 0, len(st.Cart.Items))
	for _, l := range st.Cart.Items {
		item := lineToResponse(l)
		if p, ok := st.FindProduct(l.Product.ID); ok {
			stock := p.Stock
			item.Stock = &stock
			item.StockStatus = stockStatus(stock-l.Quantity, threshold)
		}
		items = append(items, item)
	}

	totals := pricing.SaleTotals(st.Cart.Items, st.Cart.Discount)
	payments := make([]dto.PaymentPreview, 0, len(model.PaymentMethods))
	for _, m := range model.PaymentMethods {
		fee, total := pricing.PaymentTotal(totals.AfterDiscount(), m, st.PaymentFees)
		payments = append(payments, dto.PaymentPreview{Method: string(m), Fee: fee, Total: total})
	}

	var discount *model.Discount
	if st.Cart.Discount != nil {
		d := *st.Cart.Discount
		discount = &d
	}
	return &dto.CartResponse{
		Items:                 items,
		Discount:              discountToResponse(discount),
		Subtotal:              totals.Subtotal,
		TotalDiscount:         totals.TotalDiscount,
		SubtotalAfterDiscount: totals.AfterDiscount(),
		Payments:              payments,
	}
}
