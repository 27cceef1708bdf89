package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	list *ucAppointment.ListAuditLogs
}

func NewAuditLogsHandler(list *ucAppointment.ListAuditLogs) *AuditLogsHandler {
	return &AuditLogsHandler{list: list}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	appointmentID, ok := optionalUintQuery(c, "appointment_id")
	if !ok {
		return
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	f := domain.AuditFilter{
		Kind:          c.Query("kind"),
		AppointmentID: appointmentID,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			f.From = &from
		}
	}

	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			end := to.Add(24 * time.Hour)
			f.To = &end
		}
	}

	logs, total, err := h.list.Execute(c.Request.Context(), middleware.OrganizationID(c), middleware.ActorFrom(c), f)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
