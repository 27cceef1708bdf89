package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/cache"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

type OrganizationHandler struct {
	db    *gorm.DB
	cache *cache.Availability
}

func NewOrganizationHandler(db *gorm.DB, c *cache.Availability) *OrganizationHandler {
	return &OrganizationHandler{db: db, cache: c}
}

type UpdateOrganizationRequest struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone" binding:"omitempty,phone"`
	Address         *string `json:"address"`
	Timezone        *string `json:"timezone"`
	LeadTimeMinutes *int    `json:"lead_time_minutes"`
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	org, ok := loadOrganization(h.db, c, middleware.OrganizationID(c))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	org, ok := loadOrganization(h.db, c, middleware.OrganizationID(c))
	if !ok {
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		org.Name = name
	}
	if req.Phone != nil {
		org.Phone = *req.Phone
	}
	if req.Address != nil {
		org.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		org.Timezone = *req.Timezone
	}
	if req.LeadTimeMinutes != nil {
		if *req.LeadTimeMinutes < 0 {
			httperr.BadRequest(c, "invalid_lead_time", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		org.LeadTimeMinutes = *req.LeadTimeMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(org).Error; err != nil {
		httperr.Internal(c, "failed_to_update_organization", "Erro ao salvar as configurações da organização.")
		return
	}

	// timezone changes move every cached day
	if err := h.cache.Invalidate(c.Request.Context(), org.ID); err != nil {
		log := middleware.Logger(c)
		log.Warn().Err(err).Msg("availability cache invalidation failed")
	}

	c.JSON(http.StatusOK, org)
}
