package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type MarkNoShow struct {
	deps Deps
}

func NewMarkNoShow(deps Deps) *MarkNoShow {
	return &MarkNoShow{deps: deps.withDefaults()}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	return uc.deps.transition(ctx, "no_show", orgID, actor, appointmentID, audit.KindAppointmentNoShow,
		func(ctx context.Context, tx domain.Tx, org *models.Organization, now time.Time, ap *models.Appointment) (map[string]any, error) {
			if err := domain.CanManage(actor, ap); err != nil {
				return nil, err
			}
			if err := domain.MarkNoShow(ap, now); err != nil {
				return nil, err
			}
			return nil, releaseSlot(ctx, tx, ap)
		})
}
