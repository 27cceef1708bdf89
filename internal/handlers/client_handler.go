package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/validators"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ======================================================
// LIST CLIENTS (STAFF)
// ======================================================

// List searches the organization's clients. ?phone= matches the normalized
// number exactly; ?query= is a loose match on name, phone or email.
func (h *ClientHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ?", middleware.OrganizationID(c))

	if raw := c.Query("phone"); raw != "" {
		phone := validators.NormalizePhone(raw)
		if !validators.IsPhone(phone) {
			httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
			return
		}
		q = q.Where("phone = ?", phone)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Limit(200).
		Find(&clients).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_clients",
		})
		return
	}

	c.JSON(http.StatusOK, clients)
}
