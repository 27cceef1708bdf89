package handlers

import (

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

type WalkInHandler struct {
	create  *ucAppointment.CreateWalkIn
	suggest *ucAppointment.SuggestProfessional
}

func NewWalkInHandler(create *ucAppointment.CreateWalkIn, suggest *ucAppointment.SuggestProfessional) *WalkInHandler {
	return &WalkInHandler{create: create, suggest: suggest}
}

type CreateWalkInRequest struct {
	ClientRequest
	ProfessionalID *uint  `json:"professional_id"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Notes          string `json:"notes" binding:"max=255"`
}

func (h *WalkInHandler) Create(c *gin.Context) {
	var req CreateWalkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.create.Execute(
		c.Request.Context(),
		middleware.OrganizationID(c),
		middleware.ActorFrom(c),
		ucAppointment.CreateWalkInInput{
			ProfessionalID: req.ProfessionalID,
			ServiceID:      req.ServiceID,
			Client:         req.ClientRequest.input(),
			Notes:          req.Notes,
		},
	)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.Created(c, res)
}

// Suggestions ranks professionals for a walk-in; ?service_id= narrows to
// those certified for it.
func (h *WalkInHandler) Suggestions(c *gin.Context) {
	svcID, ok := optionalUintQuery(c, "service_id")
	if !ok {
		return
	}

	var serviceID uint
	if svcID != nil {
		serviceID = *svcID
	}

	ranked, err := h.suggest.Execute(c.Request.Context(), middleware.OrganizationID(c), serviceID)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.List(c, ranked)
}
