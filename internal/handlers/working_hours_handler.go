package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/cache"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache *cache.Availability
}

func NewWorkingHoursHandler(db *gorm.DB, c *cache.Availability) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: c}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time" binding:"omitempty,clock"`
	EndTime    string `json:"end_time" binding:"omitempty,clock"`
	LunchStart string `json:"lunch_start" binding:"omitempty,clock"`
	LunchEnd   string `json:"lunch_end" binding:"omitempty,clock"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,max=7,dive"`
}

type CreateBlockRequest struct {
	Date      string `json:"date" binding:"required,date"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
	Reason    string `json:"reason" binding:"max=255"`
}

// check rejects a day whose clocks do not form a usable window.
func (d WorkingDayConfig) check() error {
	if !d.Active {
		return nil
	}
	start, err := schedule.ParseClock(d.StartTime)
	if err != nil {
		return err
	}
	end, err := schedule.ParseClock(d.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return errors.New("end before start")
	}
	if d.LunchStart == "" && d.LunchEnd == "" {
		return nil
	}
	ls, err := schedule.ParseClock(d.LunchStart)
	if err != nil {
		return err
	}
	le, err := schedule.ParseClock(d.LunchEnd)
	if err != nil {
		return err
	}
	if le <= ls || ls < start || le > end {
		return errors.New("lunch outside the day")
	}
	return nil
}

// professional resolves :id inside the organization and enforces that the
// professional role only manages its own schedule.
func (h *WorkingHoursHandler) professional(c *gin.Context) (*models.Professional, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	actor := middleware.ActorFrom(c)
	if actor.Role == models.RoleProfessional && (actor.ProfessionalID == nil || *actor.ProfessionalID != id) {
		c.JSON(http.StatusForbidden, httperr.HTTPError{Code: "not_your_schedule", Message: "Operação não permitida para este usuário."})
		return nil, false
	}

	var prof models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ?", middleware.OrganizationID(c)).
		First(&prof, id).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return nil, false
	}
	return &prof, true
}

func (h *WorkingHoursHandler) invalidate(c *gin.Context, orgID uint) {
	if err := h.cache.Invalidate(c.Request.Context(), orgID); err != nil {
		log := middleware.Logger(c)
		log.Warn().Err(err).Msg("availability cache invalidation failed")
	}
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	prof, ok := h.professional(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ? AND professional_id = ?", prof.OrganizationID, prof.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_working_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	prof, ok := h.professional(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicated_weekday", "Dia da semana repetido.")
			return
		}
		seen[d.Weekday] = true

		if err := d.check(); err != nil {
			httperr.BadRequest(c, "invalid_working_hours", "Horário de trabalho inválido: "+err.Error())
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			OrganizationID: prof.OrganizationID,
			ProfessionalID: prof.ID,
			Weekday:        d.Weekday,
			Active:         d.Active,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			LunchStart:     d.LunchStart,
			LunchEnd:       d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("organization_id = ? AND professional_id = ?", prof.OrganizationID, prof.ID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_working_hours"})
		return
	}

	h.invalidate(c, prof.OrganizationID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateBlock blocks a stretch of one day for the professional.
func (h *WorkingHoursHandler) CreateBlock(c *gin.Context) {
	prof, ok := h.professional(c)
	if !ok {
		return
	}
	org, ok := loadOrganization(h.db, c, prof.OrganizationID)
	if !ok {
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	day, err := parseDateIn(org, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}
	start, errStart := schedule.At(day, req.StartTime)
	end, errEnd := schedule.At(day, req.EndTime)
	if errStart != nil || errEnd != nil || !end.After(start) {
		httperr.BadRequest(c, "invalid_interval", "Intervalo inválido.")
		return
	}

	block := models.ScheduleBlock{
		OrganizationID: org.ID,
		ProfessionalID: prof.ID,
		StartTime:      start.In(time.UTC),
		EndTime:        end.In(time.UTC),
		Reason:         req.Reason,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&block).Error; err != nil {
		httperr.Internal(c, "failed_to_create_block", "Erro ao bloquear horário.")
		return
	}

	h.invalidate(c, org.ID)
	c.JSON(http.StatusCreated, block)
}
