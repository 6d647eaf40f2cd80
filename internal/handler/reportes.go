package handler

import (
	"net/http"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReportService }

func NewReportesHandler(svc service.ReportService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

func (h *ReportesHandler) Ventas(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Sales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Fechas(c *gin.Context) {
	resp, err := h.svc.Dates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
