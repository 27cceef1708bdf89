package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/service-scheduler/internal/events"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/metrics"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// ConflictSink receives events that must survive a rollback.
type ConflictSink interface {
	Dispatch(ev audit.Event)
}

type noopSink struct{}

func (noopSink) Dispatch(audit.Event) {}

// Deps is shared by every appointment use case.
type Deps struct {
	Store     domain.Store
	Audit     *audit.Recorder
	Conflicts ConflictSink
	Cache     *cache.Availability
	Hook      events.CompletionHook
	Clock     timezone.Clock
	Log       zerolog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Audit == nil {
		d.Audit = audit.NewRecorder(d.Log)
	}
	if d.Conflicts == nil {
		d.Conflicts = noopSink{}
	}
	if d.Cache == nil {
		d.Cache = cache.NewAvailability(nil, 0)
	}
	if d.Hook == nil {
		d.Hook = events.NoopHook{}
	}
	if d.Clock == nil {
		d.Clock = timezone.SystemClock()
	}
	return d
}

// mutate runs fn as one unit of work, then does the bookkeeping that follows
// a commit or a rollback.
func (d Deps) mutate(
	ctx context.Context,
	op string,
	orgID uint,
	actor domain.Actor,
	fn func(ctx context.Context, tx domain.Tx) error,
) error {

	err := d.Store.WithinTx(ctx, orgID, fn)
	if err != nil {
		if httperr.IsStoreConflict(err) {
			err = httperr.Conflict("concurrent_update")
		}

		kind, ok := httperr.KindOf(err)
		outcome := "error"
		if ok {
			outcome = kind.String()
		}
		metrics.RecordOperation(op, outcome)

		if ok && kind == httperr.KindConflict {
			metrics.RecordSlotConflict()
			d.Conflicts.Dispatch(audit.Event{
				OrganizationID: orgID,
				Kind:           audit.KindSlotConflict,
				ActorID:        actor.UserRef(),
				Metadata: map[string]any{
					"operation": op,
					"error":     err.Error(),
				},
			})
		}
		return err
	}

	metrics.RecordOperation(op, "ok")

	if err := d.Cache.Invalidate(ctx, orgID); err != nil {
		d.Log.Warn().Err(err).Uint("organization_id", orgID).Msg("availability cache invalidation failed")
	}
	return nil
}

// read runs fn in a tenant-bound unit of work that writes nothing.
func (d Deps) read(ctx context.Context, orgID uint, fn func(ctx context.Context, tx domain.Tx) error) error {
	return d.Store.WithinTx(ctx, orgID, fn)
}

// ======================================================
// HELPERS (inside a unit of work)
// ======================================================

func (d Deps) orgNow(ctx context.Context, tx domain.Tx) (*models.Organization, time.Time, error) {
	org, err := tx.GetOrganization(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	return org, d.Clock.NowIn(org.Timezone), nil
}

func (d Deps) record(ctx context.Context, tx domain.Tx, actor domain.Actor, kind string, ap *models.Appointment, meta map[string]any) {
	var apID *uint
	if ap != nil {
		id := ap.ID
		apID = &id
	}
	d.Audit.Record(ctx, tx, audit.Event{
		OrganizationID: tx.OrganizationID(),
		Kind:           kind,
		AppointmentID:  apID,
		ActorID:        actor.UserRef(),
		Metadata:       meta,
	})
}

// validate runs the schedule validator; warnings are logged, errors returned.
func (d Deps) validate(ctx context.Context, tx domain.Tx, req schedule.Request) error {
	res, err := schedule.Validate(ctx, tx, req)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		metrics.RecordValidatorWarning(w.Code)
		d.Log.Warn().
			Uint("organization_id", tx.OrganizationID()).
			Uint("professional_id", req.ProfessionalID).
			Time("start", req.Start).
			Str("code", w.Code).
			Msg(w.Message)
	}
	return res.Err()
}

func loadAppointment(ctx context.Context, tx domain.Tx, id uint) (*models.Appointment, error) {
	ap, err := tx.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	return ap, err
}

func loadProfessional(ctx context.Context, tx domain.Tx, id uint) (*models.Professional, error) {
	p, err := tx.GetProfessional(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !p.Active) {
		return nil, httperr.NotFoundErr("professional_not_found")
	}
	return p, err
}

// lockProfessional serializes agenda writes for one professional until the
// unit of work ends.
func lockProfessional(ctx context.Context, tx domain.Tx, id uint) error {
	err := tx.LockProfessional(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.NotFoundErr("professional_not_found")
	}
	return err
}

func loadService(ctx context.Context, tx domain.Tx, id uint) (*models.Service, error) {
	s, err := tx.GetService(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !s.Active) {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	return s, err
}

func requireCertified(ctx context.Context, tx domain.Tx, professionalID, serviceID uint) error {
	ok, err := tx.IsCertified(ctx, professionalID, serviceID)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.Validation("professional_not_certified", "o profissional não realiza este serviço")
	}
	return nil
}

// resolveSlot finds the slot backing start: the requested one, or whatever
// slot the professional has at that instant. nil means unbound.
func resolveSlot(ctx context.Context, tx domain.Tx, professionalID uint, start time.Time, slotID *uint) (*models.Slot, error) {
	if slotID == nil {
		return tx.FindSlotAt(ctx, professionalID, start)
	}

	s, err := tx.GetSlot(ctx, *slotID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("slot_not_found")
	}
	if err != nil {
		return nil, err
	}
	if s.ProfessionalID != professionalID || !s.StartTime.Equal(start) {
		return nil, httperr.Validation("slot_mismatch", "o horário escolhido não corresponde ao slot informado")
	}
	return s, nil
}

func bindSlot(ctx context.Context, tx domain.Tx, s *models.Slot, appointmentID uint, expectedVersion *uint) error {
	if expectedVersion == nil {
		v := s.Version
		expectedVersion = &v
	}
	return slot.NewRegistry(tx).Bind(ctx, s.ID, appointmentID, expectedVersion)
}

func releaseSlot(ctx context.Context, tx domain.Tx, ap *models.Appointment) error {
	if ap.SlotID == nil {
		return nil
	}
	return slot.NewRegistry(tx).Release(ctx, *ap.SlotID)
}

func parseLocal(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date_or_time", "data ou hora inválida")
	}
	return t, nil
}
