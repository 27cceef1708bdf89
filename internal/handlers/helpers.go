package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// fail maps a use case error onto the response.
func fail(c *gin.Context, err error) {
	httperr.FromError(c, middleware.Logger(c), err)
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// optionalUintQuery reads an optional positive id from the query string.
func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido: "+name+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func loadOrganization(db *gorm.DB, c *gin.Context, orgID uint) (*models.Organization, bool) {
	var org models.Organization
	if err := db.WithContext(c.Request.Context()).First(&org, orgID).Error; err != nil {
		httperr.NotFound(c, "organization_not_found", "Organização não encontrada.")
		return nil, false
	}
	return &org, true
}

func organizationBySlug(db *gorm.DB, c *gin.Context) (*models.Organization, bool) {
	var org models.Organization
	if err := db.WithContext(c.Request.Context()).
		Where("slug = ?", c.Param("slug")).
		First(&org).Error; err != nil {
		httperr.NotFound(c, "organization_not_found", "Organização não encontrada.")
		return nil, false
	}
	return &org, true
}

// parseDateIn reads a YYYY-MM-DD day in the organization's timezone.
func parseDateIn(org *models.Organization, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, timezone.Location(org.Timezone))
}
