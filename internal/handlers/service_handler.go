package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=255"`
	DurationMin int             `json:"duration_min" binding:"required,min=5,max=480"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" binding:"max=50"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	DurationMin *int             `json:"duration_min" binding:"omitempty,min=5,max=480"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Active      *bool            `json:"active"`
}

// ======================================================
// LIST
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	orgID := middleware.OrganizationID(c)

	q := h.db.WithContext(c.Request.Context()).Where("organization_id = ?", orgID)

	if c.Query("all") != "true" {
		q = q.Where("active = true")
	}
	if category := strings.TrimSpace(strings.ToLower(c.Query("category"))); category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query := strings.TrimSpace(strings.ToLower(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

// ======================================================
// CREATE
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Preço não pode ser negativo.")
		return
	}

	svc := models.Service{
		OrganizationID: middleware.OrganizationID(c),
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		DurationMin:    req.DurationMin,
		Price:          req.Price,
		Category:       strings.ToLower(strings.TrimSpace(req.Category)),
		Active:         true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ?", middleware.OrganizationID(c)).
		First(&svc, id).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Preço não pode ser negativo.")
			return
		}
		svc.Price = *req.Price
	}
	if req.Category != nil {
		svc.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	c.JSON(http.StatusOK, svc)
}
