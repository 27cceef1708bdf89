package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

// AutomationHandler serves the messaging integrations. Cancel and
// reschedule go through the appointment handler under the automation actor.
type AutomationHandler struct {
	autoBook *ucAppointment.AutoBook
}

func NewAutomationHandler(autoBook *ucAppointment.AutoBook) *AutomationHandler {
	return &AutomationHandler{autoBook: autoBook}
}

type AutoBookRequest struct {
	ClientRequest
	ServiceID               uint   `json:"service_id" binding:"required"`
	Date                    string `json:"date" binding:"required,max=20"`
	Shift                   string `json:"shift" binding:"required,max=20"`
	PreferredProfessionalID *uint  `json:"preferred_professional_id"`
	Notes                   string `json:"notes" binding:"max=255"`
}

func (h *AutomationHandler) AutoBook(c *gin.Context) {
	var req AutoBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.autoBook.Execute(
		c.Request.Context(),
		middleware.OrganizationID(c),
		middleware.ActorFrom(c),
		ucAppointment.AutoBookInput{
			ServiceID:               req.ServiceID,
			Date:                    req.Date,
			Shift:                   req.Shift,
			PreferredProfessionalID: req.PreferredProfessionalID,
			Client:                  req.ClientRequest.input(),
			Notes:                   req.Notes,
		},
	)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.Created(c, ap)
}
