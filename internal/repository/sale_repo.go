package repository

import (
	"sort"
	"time"

	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/google/uuid"
)

// SaleFilter narrows ListSales. A zero Date matches every day; Statuses empty
// matches every status.
type SaleFilter struct {
	Date     time.Time
	Statuses []model.SaleStatus
}

func (st *State) saleIndex(id uuid.UUID) int {
	for i := range st.Sales {
		if st.Sales[i].ID == id {
			return i
		}
	}
	return -1
}

// FindSale returns a pointer into the ledger; writes through it are part of
// the current transaction.
func (st *State) FindSale(id uuid.UUID) (*model.Sale, bool) {
	i := st.saleIndex(id)
	if i < 0 {
		return nil, false
	}
	return &st.Sales[i], true
}

func (st *State) AppendSale(s model.Sale) {
	st.Sales = append(st.Sales, s)
}

// SalesByIDs resolves ids against the ledger, preserving the order of ids.
// Unknown ids are skipped.
func (st *State) SalesByIDs(ids []uuid.UUID) []model.Sale {
	byID := make(map[uuid.UUID]int, len(st.Sales))
	for i := range st.Sales {
		byID[st.Sales[i].ID] = i
	}
	out := make([]model.Sale, 0, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			out = append(out, st.Sales[i].Clone())
		}
	}
	return out
}

// ListSales returns copies of the matching sales, newest first.
func (st *State) ListSales(f SaleFilter) []model.Sale {
	out := make([]model.Sale, 0, len(st.Sales))
	for _, s := range st.Sales {
		if !f.Date.IsZero() && !SameDay(s.Date, f.Date) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, s.Status) {
			continue
		}
		out = append(out, s.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// SameDay compares the UTC calendar day of a and b.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func containsStatus(list []model.SaleStatus, s model.SaleStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
