package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentUseCases groups what the appointment endpoints drive.
type AppointmentUseCases struct {
	Create       *ucAppointment.CreateAppointment
	Confirm      *ucAppointment.ConfirmAppointment
	CheckIn      *ucAppointment.CheckInAppointment
	Start        *ucAppointment.StartAppointment
	Complete     *ucAppointment.CompleteAppointment
	Cancel       *ucAppointment.CancelAppointment
	NoShow       *ucAppointment.MarkNoShow
	Reschedule   *ucAppointment.RescheduleAppointment
	Update       *ucAppointment.UpdateAppointment
	ListByDate   *ucAppointment.ListAppointmentsByDate
	ListByMonth  *ucAppointment.ListAppointmentsByMonth
	Availability *ucAppointment.GetAvailability
	DueReminders *ucAppointment.ListDueReminders
	MarkReminded *ucAppointment.MarkRemindersSent
}

type AppointmentHandler struct {
	db *gorm.DB
	uc AppointmentUseCases
}

func NewAppointmentHandler(db *gorm.DB, uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{db: db, uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type ClientRequest struct {
	ClientID    *uint  `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone" binding:"omitempty,phone"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
}

func (r ClientRequest) input() ucAppointment.ClientInput {
	return ucAppointment.ClientInput{
		ID:    r.ClientID,
		Name:  r.ClientName,
		Phone: r.ClientPhone,
		Email: r.ClientEmail,
	}
}

type CreateAppointmentRequest struct {
	ClientRequest
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required,date"`
	Time           string `json:"time" binding:"required,clock"`
	SlotID         *uint  `json:"slot_id"`
	SlotVersion    *uint  `json:"slot_version"`
	Notes          string `json:"notes" binding:"max=255"`
}

type RescheduleRequest struct {
	Date        string `json:"date" binding:"required,date"`
	Time        string `json:"time" binding:"required,clock"`
	SlotID      *uint  `json:"slot_id"`
	SlotVersion *uint  `json:"slot_version"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

type CompleteRequest struct {
	Paid          *bool  `json:"paid"`
	PaymentMethod string `json:"payment_method"`
}

type UpdateAppointmentRequest struct {
	Notes         *string          `json:"notes"`
	Price         *decimal.Decimal `json:"price"`
	Discount      *decimal.Decimal `json:"discount"`
	Paid          *bool            `json:"paid"`
	PaymentMethod *string          `json:"payment_method"`
	Rating        *int             `json:"rating"`
}

type MarkRemindersRequest struct {
	AppointmentIDs []uint `json:"appointment_ids" binding:"required,min=1,max=500"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.uc.Create.Execute(
		c.Request.Context(),
		middleware.OrganizationID(c),
		middleware.ActorFrom(c),
		ucAppointment.CreateAppointmentInput{
			ProfessionalID: req.ProfessionalID,
			ServiceID:      req.ServiceID,
			Client:         req.ClientRequest.input(),
			Date:           req.Date,
			Time:           req.Time,
			SlotID:         req.SlotID,
			SlotVersion:    req.SlotVersion,
			Notes:          req.Notes,
		},
	)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	orgID := middleware.OrganizationID(c)

	org, ok := loadOrganization(h.db, c, orgID)
	if !ok {
		return
	}

	profID, ok := optionalUintQuery(c, "professional_id")
	if !ok {
		return
	}

	date := timezone.NowIn(org.Timezone)
	if dateStr := c.Query("date"); dateStr != "" {
		d, err := parseDateIn(org, dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		date = d
	}

	list, err := h.uc.ListByDate.Execute(c.Request.Context(), orgID, middleware.ActorFrom(c), profID, date)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_month", "Ano e mês obrigatórios.")
		return
	}

	profID, ok := optionalUintQuery(c, "professional_id")
	if !ok {
		return
	}

	list, err := h.uc.ListByMonth.Execute(
		c.Request.Context(),
		middleware.OrganizationID(c),
		middleware.ActorFrom(c),
		profID,
		year,
		month,
	)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	orgID := middleware.OrganizationID(c)

	org, ok := loadOrganization(h.db, c, orgID)
	if !ok {
		return
	}

	availability(c, h.uc.Availability, org, false)
}

// availability serves both the staff and the public listing. Public callers
// only see starts beyond the lead time.
func availability(c *gin.Context, uc *ucAppointment.GetAvailability, org *models.Organization, public bool) {
	profID, errP := strconv.ParseUint(c.Query("professional_id"), 10, 64)
	svcID, errS := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if errP != nil || errS != nil {
		httperr.BadRequest(c, "missing_params", "Profissional e serviço obrigatórios.")
		return
	}

	dateStr := c.Query("date")
	date, err := parseDateIn(org, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	now := timezone.NowIn(org.Timezone)
	notBefore := now
	if public {
		notBefore = now.Add(org.LeadTime())
	}

	slots, err := uc.Execute(c.Request.Context(), domain.AvailabilityInput{
		OrganizationID: org.ID,
		ProfessionalID: uint(profID),
		ServiceID:      uint(svcID),
		Date:           date,
		NotBefore:      notBefore,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.simple(c, h.uc.Confirm.Execute)
}

func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	h.simple(c, h.uc.CheckIn.Execute)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.simple(c, h.uc.Start.Execute)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.simple(c, h.uc.NoShow.Execute)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CompleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
			return
		}
	}

	ap, err := h.uc.Complete.Execute(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c),
		ucAppointment.CompleteAppointmentInput{
			AppointmentID: id,
			Paid:          req.Paid,
			PaymentMethod: req.PaymentMethod,
		})
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
			return
		}
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c),
		ucAppointment.CancelAppointmentInput{AppointmentID: id, Reason: req.Reason})
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.uc.Reschedule.Execute(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c),
		ucAppointment.RescheduleAppointmentInput{
			AppointmentID: id,
			Date:          req.Date,
			Time:          req.Time,
			SlotID:        req.SlotID,
			SlotVersion:   req.SlotVersion,
		})
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.uc.Update.Execute(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c),
		ucAppointment.UpdateAppointmentInput{
			AppointmentID: id,
			Patch: domain.Patch{
				Notes:         req.Notes,
				Price:         req.Price,
				Discount:      req.Discount,
				Paid:          req.Paid,
				PaymentMethod: req.PaymentMethod,
				Rating:        req.Rating,
			},
		})
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, ap)
}

type simpleTransition func(ctx context.Context, orgID uint, actor domain.Actor, id uint) (*models.Appointment, error)

func (h *AppointmentHandler) simple(c *gin.Context, run simpleTransition) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := run(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// REMINDERS
// ======================================================

func (h *AppointmentHandler) DueReminders(c *gin.Context) {
	hours := 24
	if raw := c.Query("within_hours"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_window", "Janela inválida.")
			return
		}
		hours = v
	}

	due, err := h.uc.DueReminders.Execute(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c), hours)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.List(c, due)
}

func (h *AppointmentHandler) MarkRemindersSent(c *gin.Context) {
	var req MarkRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	marked, err := h.uc.MarkReminded.Execute(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c), req.AppointmentIDs)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"marked":  marked,
		"sent_at": time.Now().UTC(),
	})
}
