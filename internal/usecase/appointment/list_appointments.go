package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/dto"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// scopeFilter narrows a listing to what the actor may see.
func scopeFilter(actor domain.Actor, f *domain.AppointmentFilter) error {
	switch {
	case actor.IsClient():
		if actor.ClientID == nil {
			return httperr.Forbidden("client_profile_missing")
		}
		f.ClientID = actor.ClientID
	case actor.Role == models.RoleProfessional:
		f.ProfessionalID = actor.ProfessionalID
	case !actor.IsStaff() && !actor.IsAutomation():
		return httperr.Forbidden("staff_only")
	}
	return nil
}

type ListAppointmentsByDate struct {
	deps Deps
}

func NewListAppointmentsByDate(deps Deps) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{deps: deps.withDefaults()}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	professionalID *uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	var out []dto.AppointmentListDTO

	err := uc.deps.read(ctx, orgID, func(ctx context.Context, tx domain.Tx) error {
		org, err := tx.GetOrganization(ctx)
		if err != nil {
			return err
		}

		loc := timezone.Location(org.Timezone)

		start := time.Date(
			date.Year(),
			date.Month(),
			date.Day(),
			0, 0, 0, 0,
			loc,
		)

		f := domain.AppointmentFilter{
			ProfessionalID: professionalID,
			From:           start,
			To:             start.AddDate(0, 0, 1),
		}
		if err := scopeFilter(actor, &f); err != nil {
			return err
		}

		appointments, err := tx.ListAppointments(ctx, f)
		if err != nil {
			return err
		}
		out = dto.FromAppointments(appointments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type ListAppointmentsByMonth struct {
	deps Deps
}

func NewListAppointmentsByMonth(deps Deps) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{deps: deps.withDefaults()}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	orgID uint,
	actor domain.Actor,
	professionalID *uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 {
		return nil, httperr.Validation("invalid_month", "mês inválido")
	}

	var out []dto.AppointmentListDTO

	err := uc.deps.read(ctx, orgID, func(ctx context.Context, tx domain.Tx) error {
		org, err := tx.GetOrganization(ctx)
		if err != nil {
			return err
		}

		loc := timezone.Location(org.Timezone)

		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

		f := domain.AppointmentFilter{
			ProfessionalID: professionalID,
			From:           start,
			To:             start.AddDate(0, 1, 0),
		}
		if err := scopeFilter(actor, &f); err != nil {
			return err
		}

		appointments, err := tx.ListAppointments(ctx, f)
		if err != nil {
			return err
		}
		out = dto.FromAppointments(appointments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
