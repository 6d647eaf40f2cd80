package handler

import (
	"net/http"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.SaleService }

func NewVentasHandler(svc service.SaleService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

// Finalizar turns the current cart into a sale on the open register.
func (h *VentasHandler) Finalizar(c *gin.Context) {
	var req dto.FinalizeSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalize(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Editar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EditSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Edit(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular flags the sale as cancelled. Repeating the call is harmless.
func (h *VentasHandler) Anular(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
