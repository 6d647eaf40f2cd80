package repository

import (
	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/google/uuid"
)

func (st *State) productIndex(id uuid.UUID) int {
	for i := range st.Products {
		if st.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// FindProduct returns a pointer into the product slice; writes through it are
// part of the current transaction.
func (st *State) FindProduct(id uuid.UUID) (*model.Product, bool) {
	i := st.productIndex(id)
	if i < 0 {
		return nil, false
	}
	return &st.Products[i], true
}

func (st *State) CreateProduct(p model.Product) {
	st.Products = append(st.Products, p)
}

// ReplaceProduct overwrites the product with the same id. Returns false when
// no such product exists.
func (st *State) ReplaceProduct(p model.Product) bool {
	i := st.productIndex(p.ID)
	if i < 0 {
		return false
	}
	st.Products[i] = p
	return true
}

// DeleteProduct removes the product; reports whether anything was removed.
func (st *State) DeleteProduct(id uuid.UUID) bool {
	i := st.productIndex(id)
	if i < 0 {
		return false
	}
	st.Products = append(st.Products[:i], st.Products[i+1:]...)
	return true
}

// AdjustStock adds delta to the product's stock, without any floor.
func (st *State) AdjustStock(id uuid.UUID, delta int) (model.Product, bool) {
	p, ok := st.FindProduct(id)
	if !ok {
		return model.Product{}, false
	}
	p.Stock += delta
	return *p, true
}
