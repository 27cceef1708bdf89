package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	create       *ucAppointment.CreateAppointment
	availability *ucAppointment.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	create *ucAppointment.CreateAppointment,
	availability *ucAppointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{db: db, create: create, availability: availability}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName     string `json:"client_name" binding:"required,max=100"`
	ClientPhone    string `json:"client_phone" binding:"required,phone"`
	ClientEmail    string `json:"client_email" binding:"omitempty,email"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required,date"`
	Time           string `json:"time" binding:"required,clock"`
	SlotID         *uint  `json:"slot_id"`
	SlotVersion    *uint  `json:"slot_version"`
	Notes          string `json:"notes" binding:"max=255"`
}

// publicActor has no role: lead time applies and the client is resolved
// from the request body.
func publicActor(c *gin.Context) domain.Actor {
	return domain.Actor{IP: c.ClientIP(), Channel: booking.ChannelPublic}
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	org, ok := organizationBySlug(h.db, c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ? AND active = true", org.ID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organization": org,
		"services":     services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	org, ok := organizationBySlug(h.db, c)
	if !ok {
		return
	}

	availability(c, h.availability, org, true)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	org, ok := organizationBySlug(h.db, c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(
		c.Request.Context(),
		org.ID,
		publicActor(c),
		ucAppointment.CreateAppointmentInput{
			ProfessionalID: req.ProfessionalID,
			ServiceID:      req.ServiceID,
			Client: ucAppointment.ClientInput{
				Name:  req.ClientName,
				Phone: req.ClientPhone,
				Email: req.ClientEmail,
			},
			Date:        req.Date,
			Time:        req.Time,
			SlotID:      req.SlotID,
			SlotVersion: req.SlotVersion,
			Notes:       req.Notes,
		},
	)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
