package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/walkin"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// SuggestProfessional ranks who should take a walk-in right now.
type SuggestProfessional struct {
	deps Deps
}

func NewSuggestProfessional(deps Deps) *SuggestProfessional {
	return &SuggestProfessional{deps: deps.withDefaults()}
}

// Execute ranks professionals certified for serviceID, or every active
// professional when serviceID is zero.
func (uc *SuggestProfessional) Execute(
	ctx context.Context,
	orgID uint,
	serviceID uint,
) ([]walkin.Candidate, error) {

	var out []walkin.Candidate

	err := uc.deps.read(ctx, orgID, func(ctx context.Context, tx domain.Tx) error {
		_, now, err := uc.deps.orgNow(ctx, tx)
		if err != nil {
			return err
		}
		out, err = rankProfessionals(ctx, tx, serviceID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func rankProfessionals(ctx context.Context, tx domain.Tx, serviceID uint, now time.Time) ([]walkin.Candidate, error) {
	var (
		profs []models.Professional
		err   error
	)
	if serviceID == 0 {
		profs, err = tx.ListActiveProfessionals(ctx)
	} else {
		profs, err = tx.ListCertifiedProfessionals(ctx, serviceID)
	}
	if err != nil {
		return nil, err
	}

	dayStart := schedule.StartOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	candidates := make([]walkin.Candidate, 0, len(profs))
	for _, p := range profs {
		running, err := tx.FindRunningAppointment(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		count, err := tx.CountAppointments(ctx, p.ID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, walkin.Candidate{
			ProfessionalID:    p.ID,
			Name:              p.Name,
			Busy:              running != nil,
			AppointmentsToday: count,
		})
	}

	return walkin.Rank(candidates), nil
}
