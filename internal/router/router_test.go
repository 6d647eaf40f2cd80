package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ofabiomaran/Loja/internal/config"
	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := &config.Config{Env: "test", StorageDriver: config.StorageFile, LowStockThreshold: 10}
	return &api{t: t, r: New(cfg, Deps{Store: repository.NewMemoryStore(nil)})}
}

func (a *api) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *api) createProduct(name, price string, stock int) dto.ProductResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/productos", map[string]interface{}{
		"name": name, "price": price, "stock": stock, "category": "bebidas",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ProductResponse](a.t, w)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"storage":"file"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSaleFlow(t *testing.T) {
	a := newAPI(t)
	p := a.createProduct("Guaraná", "100", 5)

	w := a.do(http.MethodPost, "/v1/carrito/items", map[string]interface{}{"product_id": p.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// no register open yet
	w = a.do(http.MethodPost, "/v1/ventas", map[string]string{"payment_method": "credit"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/v1/caja/abrir", map[string]interface{}{"opening_balance": "50"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = a.do(http.MethodPost, "/v1/caja/abrir", map[string]interface{}{"opening_balance": "50"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/v1/ventas", map[string]string{"payment_method": "credit"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[dto.SaleResponse](t, w)
	assert.True(t, decimal.RequireFromString("103.5").Equal(sale.Total), sale.Total.String())

	w = a.do(http.MethodGet, "/v1/ventas/"+sale.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPut, "/v1/ventas/"+sale.ID, map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": p.ID, "quantity": 2}},
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[dto.SaleResponse](t, w)
	assert.Equal(t, "edited", edited.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(edited.Total))

	w = a.do(http.MethodGet, "/v1/caja/resumen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[dto.PaymentSummaryResponse](t, w)
	assert.True(t, decimal.NewFromInt(200).Equal(summary.Cash))

	w = a.do(http.MethodDelete, "/v1/ventas/"+sale.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodDelete, "/v1/ventas/"+sale.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodPut, "/v1/ventas/"+sale.ID, map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": p.ID, "quantity": 1}},
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/v1/caja/cerrar", map[string]interface{}{"actual_closing_balance": "50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	closed := decode[dto.RegisterResponse](t, w)
	assert.Equal(t, "normal", closed.ShortageClass)

	w = a.do(http.MethodGet, "/v1/caja/activa", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodGet, "/v1/caja/"+closed.ID+"/reporte", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[dto.RegisterReportResponse](t, w)
	assert.Len(t, report.Sales, 1)

	w = a.do(http.MethodGet, "/v1/caja/historial", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.RegisterListResponse](t, w).Total)

	w = a.do(http.MethodGet, "/v1/ventas?estado=cancelled", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.SaleListResponse](t, w).Total)

	w = a.do(http.MethodGet, "/v1/reportes/fechas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.SaleDatesResponse](t, w).Dates, 1)
}

func TestCartEndpoints(t *testing.T) {
	a := newAPI(t)
	p := a.createProduct("Água", "10", 50)
	item := "/v1/carrito/items/" + p.ID

	a.do(http.MethodPost, "/v1/carrito/items", map[string]interface{}{"product_id": p.ID, "quantity": 2})

	w := a.do(http.MethodPatch, item, map[string]interface{}{"quantity": 5, "discount": "10"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := decode[dto.CartResponse](t, w)
	assert.True(t, decimal.NewFromInt(45).Equal(cart.SubtotalAfterDiscount))

	w = a.do(http.MethodPatch, item, map[string]interface{}{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/v1/carrito/descuento", map[string]interface{}{"kind": "amount", "value": "20"})
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[dto.CartResponse](t, w)
	require.NotNil(t, cart.Discount)
	assert.True(t, decimal.NewFromInt(30).Equal(cart.SubtotalAfterDiscount))

	w = a.do(http.MethodPost, "/v1/carrito/descuento", map[string]interface{}{"kind": "coupon", "value": "20"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodDelete, "/v1/carrito/descuento", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[dto.CartResponse](t, w).Discount)

	w = a.do(http.MethodDelete, item, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.CartResponse](t, w).Items)

	a.do(http.MethodPost, "/v1/carrito/items", map[string]interface{}{"product_id": p.ID, "quantity": 1})
	w = a.do(http.MethodDelete, "/v1/carrito", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.CartResponse](t, w).Items)
}

func TestProductEndpoints(t *testing.T) {
	a := newAPI(t)
	p := a.createProduct("Pão", "0.75", 4)
	a.createProduct("Leite", "5", 40)

	w := a.do(http.MethodGet, "/v1/productos?q=p%C3%A3o", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.ProductListResponse](t, w).Total)

	w = a.do(http.MethodGet, "/v1/productos/alertas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.ProductListResponse](t, w).Total)

	w = a.do(http.MethodGet, "/v1/productos/alertas?threshold=100", nil)
	assert.Equal(t, 2, decode[dto.ProductListResponse](t, w).Total)

	w = a.do(http.MethodPut, "/v1/productos/"+p.ID, map[string]interface{}{"name": "Pão francês", "price": "0.80", "stock": 100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Pão francês", decode[dto.ProductResponse](t, w).Name)

	w = a.do(http.MethodDelete, "/v1/productos/"+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, "/v1/productos/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorMapping(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/v1/productos", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/v1/productos", map[string]interface{}{"name": "", "price": "-1"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]interface{}](t, w)
	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "min", fields["price"])

	w = a.do(http.MethodGet, "/v1/productos/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/ventas/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/v1/ventas?fecha=ontem", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/v1/ventas", map[string]string{"payment_method": "boleto"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/v1/caja/cerrar", map[string]interface{}{"actual_closing_balance": "10"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSettingsAndReports(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/v1/configuracion/tarifas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fees := decode[dto.FeeScheduleDTO](t, w)
	assert.Equal(t, "percentage", fees.Credit.Type)

	fees.Debit.Value = decimal.RequireFromString("1.25")
	w = a.do(http.MethodPut, "/v1/configuracion/tarifas", fees)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	fees.Pix.Type = "tiered"
	w = a.do(http.MethodPut, "/v1/configuracion/tarifas", fees)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodGet, "/v1/reportes/ventas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[dto.SalesReportResponse](t, w)
	assert.Zero(t, report.CompletedCount)
}
