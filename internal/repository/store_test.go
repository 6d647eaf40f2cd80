package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type failingPersister struct {
	saves int
}

func (p *failingPersister) Load(context.Context) (*State, error) { return NewState(), nil }

func (p *failingPersister) Save(context.Context, *State) error {
	p.saves++
	return errors.New("disk full")
}

func sampleProduct(name string, price string, stock int) model.Product {
	return model.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: "bebidas",
	}
}

func sampleState() *State {
	st := NewState()
	p := sampleProduct("Coca-Cola 2L", "9.90", 12)
	st.CreateProduct(p)

	now := time.Now().UTC().Truncate(time.Microsecond)
	regID := uuid.New()
	sale := model.Sale{
		ID:            uuid.New(),
		Items:         []model.LineItem{{Product: p, Quantity: 2, Discount: decimal.NewFromInt(10)}},
		Subtotal:      decimal.RequireFromString("19.80"),
		TotalDiscount: decimal.RequireFromString("1.98"),
		PaymentFee:    decimal.Zero,
		Total:         decimal.RequireFromString("17.82"),
		Date:          now,
		PaymentMethod: model.PaymentCash,
		Status:        model.SaleCompleted,
		RegisterID:    &regID,
	}
	st.AppendSale(sale)

	expected := decimal.NewFromInt(100)
	actual := decimal.NewFromInt(99)
	shortage := actual.Sub(expected)
	closed := now.Add(-time.Hour)
	st.CashRegisters = append(st.CashRegisters, model.CashRegister{
		ID:                   uuid.New(),
		OpeningDate:          now.Add(-2 * time.Hour),
		OpeningBalance:       decimal.NewFromInt(100),
		SaleIDs:              []uuid.UUID{},
		Status:               model.RegisterClosed,
		ClosingDate:          &closed,
		ClosingBalance:       &expected,
		ActualClosingBalance: &actual,
		CashShortage:         &shortage,
		ShortageClass:        model.ShortageNormal,
	})
	st.OpenRegister(model.CashRegister{
		ID:             regID,
		OpeningDate:    now,
		OpeningBalance: decimal.NewFromInt(50),
		SaleIDs:        []uuid.UUID{sale.ID},
		Status:         model.RegisterOpen,
	})
	st.Cart = model.Cart{
		Items:    []model.LineItem{{Product: p, Quantity: 1, Discount: decimal.Zero}},
		Discount: &model.Discount{Kind: model.DiscountAmount, Value: decimal.NewFromInt(1)},
	}
	return st
}

// ── Store ────────────────────────────────────────────────────────────────────

func TestNewStore_NilPersisterStartsEmpty(t *testing.T) {
	s, err := NewStore(context.Background(), nil)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.Sales)
	assert.Nil(t, snap.CurrentRegister)
	assert.Equal(t, model.DefaultFeeSchedule(), snap.PaymentFees)
}

func TestRunTx_CommitsOnSuccess(t *testing.T) {
	s := NewMemoryStore(nil)
	p := sampleProduct("Pão", "0.75", 100)

	err := s.RunTx(context.Background(), func(st *State) error {
		st.CreateProduct(p)
		return nil
	})
	require.NoError(t, err)

	s.Read(func(st *State) {
		got, ok := st.FindProduct(p.ID)
		require.True(t, ok)
		assert.Equal(t, "Pão", got.Name)
	})
}

func TestRunTx_RollsBackOnCallbackError(t *testing.T) {
	s := NewMemoryStore(sampleState())
	before := s.Snapshot()

	boom := errors.New("boom")
	err := s.RunTx(context.Background(), func(st *State) error {
		st.Products[0].Stock = -50
		st.Sales = nil
		st.CurrentRegister = nil
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.Snapshot())
}

func TestRunTx_RollsBackWhenPersistFails(t *testing.T) {
	fp := &failingPersister{}
	s, err := NewStore(context.Background(), fp)
	require.NoError(t, err)

	err = s.RunTx(context.Background(), func(st *State) error {
		st.CreateProduct(sampleProduct("Leite", "4.50", 3))
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist state")
	assert.Equal(t, 1, fp.saves)
	assert.Empty(t, s.Snapshot().Products)
}

func TestSnapshot_IsIsolated(t *testing.T) {
	s := NewMemoryStore(sampleState())

	snap := s.Snapshot()
	snap.Products[0].Name = "changed"
	snap.Sales[0].Items[0].Quantity = 99
	snap.CurrentRegister.SaleIDs[0] = uuid.Nil
	*snap.CashRegisters[0].CashShortage = decimal.NewFromInt(1000)

	fresh := s.Snapshot()
	assert.Equal(t, "Coca-Cola 2L", fresh.Products[0].Name)
	assert.Equal(t, 2, fresh.Sales[0].Items[0].Quantity)
	assert.NotEqual(t, uuid.Nil, fresh.CurrentRegister.SaleIDs[0])
	assert.True(t, fresh.CashRegisters[0].CashShortage.Equal(decimal.NewFromInt(-1)))
}

// ── State helpers ────────────────────────────────────────────────────────────

func TestProductHelpers(t *testing.T) {
	st := NewState()
	a := sampleProduct("A", "1", 5)
	b := sampleProduct("B", "2", 0)
	st.CreateProduct(a)
	st.CreateProduct(b)

	updated := a
	updated.Price = decimal.NewFromInt(3)
	assert.True(t, st.ReplaceProduct(updated))
	assert.False(t, st.ReplaceProduct(sampleProduct("ghost", "1", 1)))

	after, ok := st.AdjustStock(b.ID, -3)
	require.True(t, ok)
	assert.Equal(t, -3, after.Stock, "stock has no floor")

	_, ok = st.AdjustStock(uuid.New(), 1)
	assert.False(t, ok)

	assert.True(t, st.DeleteProduct(a.ID))
	assert.False(t, st.DeleteProduct(a.ID))
	require.Len(t, st.Products, 1)
	assert.Equal(t, b.ID, st.Products[0].ID)
}

func TestListSales_FilterAndOrder(t *testing.T) {
	st := NewState()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mk := func(at time.Time, status model.SaleStatus) model.Sale {
		return model.Sale{ID: uuid.New(), Date: at, Status: status, PaymentMethod: model.PaymentCash}
	}
	early := mk(day.Add(-2*time.Hour), model.SaleCompleted)
	late := mk(day.Add(3*time.Hour), model.SaleEdited)
	cancelled := mk(day, model.SaleCancelled)
	otherDay := mk(day.AddDate(0, 0, -1), model.SaleCompleted)
	for _, s := range []model.Sale{early, late, cancelled, otherDay} {
		st.AppendSale(s)
	}

	all := st.ListSales(SaleFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, late.ID, all[0].ID)
	assert.Equal(t, otherDay.ID, all[3].ID)

	sameDay := st.ListSales(SaleFilter{Date: day})
	assert.Len(t, sameDay, 3)

	active := st.ListSales(SaleFilter{Date: day, Statuses: []model.SaleStatus{model.SaleCompleted, model.SaleEdited}})
	require.Len(t, active, 2)
	assert.Equal(t, late.ID, active[0].ID)
	assert.Equal(t, early.ID, active[1].ID)
}

func TestSalesByIDs_PreservesOrderAndSkipsUnknown(t *testing.T) {
	st := NewState()
	a := model.Sale{ID: uuid.New()}
	b := model.Sale{ID: uuid.New()}
	st.AppendSale(a)
	st.AppendSale(b)

	got := st.SalesByIDs([]uuid.UUID{b.ID, uuid.New(), a.ID})
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestRegisterHelpers(t *testing.T) {
	st := NewState()
	r := model.CashRegister{ID: uuid.New(), Status: model.RegisterOpen}
	st.OpenRegister(r)

	got, ok := st.FindRegister(r.ID)
	require.True(t, ok)
	assert.Equal(t, model.RegisterOpen, got.Status)

	st.CurrentRegister.Status = model.RegisterClosed
	st.ArchiveRegister()
	assert.Nil(t, st.CurrentRegister)
	require.Len(t, st.CashRegisters, 1)

	got, ok = st.FindRegister(r.ID)
	require.True(t, ok)
	assert.Equal(t, model.RegisterClosed, got.Status)

	_, ok = st.FindRegister(uuid.New())
	assert.False(t, ok)

	st.ArchiveRegister()
	assert.Len(t, st.CashRegisters, 1, "archiving with nothing open is a no-op")
}
