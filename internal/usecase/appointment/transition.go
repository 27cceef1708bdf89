package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type transitionFunc func(
	ctx context.Context,
	tx domain.Tx,
	org *models.Organization,
	now time.Time,
	ap *models.Appointment,
) (map[string]any, error)

// transition loads and locks the appointment, applies act, then saves it
// and writes the audit row, all in one unit of work.
func (d Deps) transition(
	ctx context.Context,
	op string,
	orgID uint,
	actor domain.Actor,
	appointmentID uint,
	kind string,
	act transitionFunc,
) (*models.Appointment, error) {

	var out *models.Appointment

	err := d.mutate(ctx, op, orgID, actor, func(ctx context.Context, tx domain.Tx) error {
		org, now, err := d.orgNow(ctx, tx)
		if err != nil {
			return err
		}

		ap, err := loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}

		from := ap.Status

		meta, err := act(ctx, tx, org, now, ap)
		if err != nil {
			return err
		}

		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}

		if meta == nil {
			meta = map[string]any{}
		}
		meta["from"] = string(from)
		meta["to"] = string(ap.Status)
		d.record(ctx, tx, actor, kind, ap, meta)

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
