package handler

import (
	"net/http"

	"github.com/ofabiomaran/Loja/internal/dto"
	"github.com/ofabiomaran/Loja/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracionHandler struct{ svc service.SettingsService }

func NewConfiguracionHandler(svc service.SettingsService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

func (h *ConfiguracionHandler) ObtenerTarifas(c *gin.Context) {
	resp, err := h.svc.GetFees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConfiguracionHandler) ActualizarTarifas(c *gin.Context) {
	var req dto.FeeScheduleDTO
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateFees(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
