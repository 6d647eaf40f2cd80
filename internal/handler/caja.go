package handler

import (
	"net/http"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CashRegisterService }

func NewCajaHandler(svc service.CashRegisterService) *CajaHandler { return &CajaHandler{svc: svc} }

func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar counts the drawer against the expected balance and closes the session.
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Activa(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.CurrentSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Historial(c *gin.Context) {
	resp, err := h.svc.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Reporte(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
