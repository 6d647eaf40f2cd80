package service

import (
	"context"
	"testing"
	"time"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/repository"
	"github.com/ofabiomaran/Loja/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testThreshold = 10

// fixture wires every service over one in-memory store.
type fixture struct {
	store    *repository.Store
	products ProductService
	cart     CartService
	sales    SaleService
	register CashRegisterService
	settings SettingsService
	reports  ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDispatcher(t, nil)
}

func newFixtureWithDispatcher(t *testing.T, d *worker.Dispatcher) *fixture {
	t.Helper()
	store := repository.NewMemoryStore(nil)
	return &fixture{
		store:    store,
		products: NewProductService(store, testThreshold),
		cart:     NewCartService(store, testThreshold),
		sales:    NewSaleService(store, d, testThreshold),
		register: NewCashRegisterService(store, d),
		settings: NewSettingsService(store),
		reports:  NewReportService(store, testThreshold),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// withClock pins the service clock to ts for the duration of the test.
func withClock(t *testing.T, ts time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
}

func (f *fixture) product(t *testing.T, name, price string, stock int) uuid.UUID {
	t.Helper()
	resp, err := f.products.Create(context.Background(), dto.ProductRequest{
		Name:     name,
		Price:    dec(price),
		Stock:    stock,
		Category: "geral",
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func (f *fixture) add(t *testing.T, id uuid.UUID, qty int) *dto.CartResponse {
	t.Helper()
	resp, err := f.cart.AddItem(context.Background(), dto.AddCartItemRequest{ProductID: id.String(), Quantity: qty})
	require.NoError(t, err)
	return resp
}

func (f *fixture) open(t *testing.T, balance string) *dto.RegisterResponse {
	t.Helper()
	resp, err := f.register.Open(context.Background(), dto.OpenRegisterRequest{OpeningBalance: dec(balance)})
	require.NoError(t, err)
	return resp
}

func (f *fixture) finalize(t *testing.T, method string) *dto.SaleResponse {
	t.Helper()
	resp, err := f.sales.Finalize(context.Background(), dto.FinalizeSaleRequest{PaymentMethod: method})
	require.NoError(t, err)
	return resp
}

// sell puts qty units of id in the cart and finalizes with method.
func (f *fixture) sell(t *testing.T, id uuid.UUID, qty int, method string) *dto.SaleResponse {
	t.Helper()
	f.add(t, id, qty)
	return f.finalize(t, method)
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func decFromCents(c int64) decimal.Decimal { return decimal.New(c, -2) }

func decFromInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
