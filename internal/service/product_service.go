package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ProductService defines the business logic contract for the catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	// List returns the catalog in insertion order, narrowed by filter.Query
	// (case- and accent-insensitive name or barcode substring) when set.
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	// LowStock lists products with stock below threshold; nil uses the
	// configured default.
	LowStock(ctx context.Context, threshold *int) (*dto.ProductListResponse, error)
}

type productService struct {
	store             *repository.Store
	lowStockThreshold int
}

func NewProductService(store *repository.Store, lowStockThreshold int) ProductService {
	return &productService{store: store, lowStockThreshold: lowStockThreshold}
}

func (s *productService) Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := productFromRequest(uuid.New(), req)
	if err != nil {
		return nil, err
	}
	if err := s.store.RunTx(ctx, func(st *repository.State) error {
		st.CreateProduct(p)
		return nil
	}); err != nil {
		return nil, err
	}
	resp := productToResponse(p, s.lowStockThreshold)
	return &resp, nil
}

// Update replaces the catalog entry. Cart lines holding the product pick up
// the new snapshot so the next sale is priced from it; sales keep theirs.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := productFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	err = s.store.RunTx(ctx, func(st *repository.State) error {
		if !st.ReplaceProduct(p) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		if i := st.Cart.LineIndex(id); i >= 0 {
			st.Cart.Items[i].Product = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := productToResponse(p, s.lowStockThreshold)
	return &resp, nil
}

// Delete removes the product. Deleting an unknown id is not an error.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return ignoreNoop(s.store.RunTx(ctx, func(st *repository.State) error {
		if !st.DeleteProduct(id) {
			return errNoop
		}
		return nil
	}))
}

func (s *productService) Get(_ context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	var (
		p  model.Product
		ok bool
	)
	s.store.Read(func(st *repository.State) {
		var found *model.Product
		if found, ok = st.FindProduct(id); ok {
			p = *found
		}
	})
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	resp := productToResponse(p, s.lowStockThreshold)
	return &resp, nil
}

func (s *productService) List(_ context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	q := foldSearch(strings.TrimSpace(filter.Query))
	return s.collect(func(p model.Product) bool {
		if q == "" {
			return true
		}
		return strings.Contains(foldSearch(p.Name), q) ||
			(p.Barcode != "" && strings.Contains(foldSearch(p.Barcode), q))
	}), nil
}

// foldSearch lowercases s and strips combining marks, so "Pão" matches "pao".
func foldSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func (s *productService) LowStock(_ context.Context, threshold *int) (*dto.ProductListResponse, error) {
	limit := s.lowStockThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, fmt.Errorf("threshold must be >= 0: %w", ErrValidation)
		}
		limit = *threshold
	}
	return s.collect(func(p model.Product) bool { return p.Stock < limit }), nil
}

func (s *productService) collect(keep func(model.Product) bool) *dto.ProductListResponse {
	out := make([]dto.ProductResponse, 0)
	s.store.Read(func(st *repository.State) {
		for _, p := range st.Products {
			if keep(p) {
				out = append(out, productToResponse(p, s.lowStockThreshold))
			}
		}
	})
	return &dto.ProductListResponse{Data: out, Total: len(out)}
}

func productFromRequest(id uuid.UUID, req dto.ProductRequest) (model.Product, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return model.Product{}, fmt.Errorf("name is required: %w", ErrValidation)
	case req.Price.IsNegative():
		return model.Product{}, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	case req.Stock < 0:
		return model.Product{}, fmt.Errorf("stock must be >= 0: %w", ErrValidation)
	}
	return model.Product{
		ID:          id,
		Name:        name,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Barcode:     strings.TrimSpace(req.Barcode),
		ImageURL:    req.ImageURL,
	}, nil
}
