package handler

import (
	"net/http"

	"github.com/ofabiomaran/Loja/internal/apierror"
	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/service"

	"github.com/gin-gonic/gin"
)

type CarritoHandler struct{ svc service.CartService }

func NewCarritoHandler(svc service.CartService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) AgregarItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarItem changes the quantity and/or the discount of one line.
func (h *CarritoHandler) ActualizarItem(c *gin.Context) {
	productID, ok := pathID(c, "producto_id")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Quantity == nil && req.Discount == nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{
			"quantity": "required_without",
			"discount": "required_without",
		}))
		return
	}

	ctx := c.Request.Context()
	var (
		resp *dto.CartResponse
		err  error
	)
	if req.Quantity != nil {
		if resp, err = h.svc.SetQuantity(ctx, productID, *req.Quantity); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Discount != nil {
		if resp, err = h.svc.SetLineDiscount(ctx, productID, *req.Discount); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) QuitarItem(c *gin.Context) {
	productID, ok := pathID(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AplicarDescuento sets the per-sale discount.
func (h *CarritoHandler) AplicarDescuento(c *gin.Context) {
	var req dto.DiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyDiscount(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) QuitarDescuento(c *gin.Context) {
	resp, err := h.svc.ApplyDiscount(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	resp, err := h.svc.Clear(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
