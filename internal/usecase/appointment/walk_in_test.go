package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// seedRunning puts Ana in the middle of a 30 minute cut started at 10:00.
func seedRunning(f *fixture) uint {
	started := at(10, 0)
	return f.store.addAppointment(models.Appointment{
		ProfessionalID: profAna, ClientID: 1, ServiceID: svcCut,
		StartTime: at(10, 0), EndTime: at(10, 30),
		Status: booking.StatusInProgress, ActualStartAt: &started,
	})
}

func walkIn(f *fixture, prof *uint, svc uint, name string) (*WalkInResult, error) {
	return NewCreateWalkIn(f.deps).Execute(context.Background(), testOrg, receptionist, CreateWalkInInput{
		ProfessionalID: prof,
		ServiceID:      svc,
		Client:         ClientInput{Name: name},
	})
}

func TestWalkInQueuesBehindRunningService(t *testing.T) {
	f := newFixture(at(10, 5))
	seedRunning(f)

	res, err := walkIn(f, uintPtr(profAna), svcBeard, "Fábio")
	require.NoError(t, err)

	ap := res.Appointment
	assert.True(t, res.Queued)
	assert.False(t, res.Clamped)
	assert.Equal(t, at(10, 30), ap.StartTime)
	assert.Equal(t, at(10, 50), ap.EndTime)
	assert.Equal(t, booking.StatusConfirmed, ap.Status)
	assert.Equal(t, booking.ChannelWalkIn, ap.Channel)
	assert.True(t, ap.Confirmed)
	assert.Nil(t, ap.ActualStartAt)
	require.NotNil(t, ap.ArrivedAt)
	assert.Equal(t, at(10, 5), *ap.ArrivedAt)

	assert.Equal(t, []string{audit.KindWalkInCreated}, f.store.auditKinds())
}

func TestSecondQueuedWalkInIsRejected(t *testing.T) {
	f := newFixture(at(10, 5))
	seedRunning(f)

	_, err := walkIn(f, uintPtr(profAna), svcBeard, "Fábio")
	require.NoError(t, err)

	_, err = walkIn(f, uintPtr(profAna), svcBeard, "Gabi")
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
}

func TestWalkInIdleProfessionalStartsNow(t *testing.T) {
	f := newFixture(at(14, 12))

	res, err := walkIn(f, uintPtr(profBruno), svcCut, "Fábio")
	require.NoError(t, err)

	ap := res.Appointment
	assert.False(t, res.Queued)
	assert.Equal(t, booking.StatusInProgress, ap.Status)
	assert.Equal(t, at(14, 12), ap.StartTime)
	assert.Equal(t, at(14, 42), ap.EndTime)
	require.NotNil(t, ap.ActualStartAt)
	assert.Equal(t, at(14, 12), *ap.ActualStartAt)
}

func TestWalkInPicksFreeProfessional(t *testing.T) {
	f := newFixture(at(10, 5))
	seedRunning(f)

	res, err := walkIn(f, nil, svcCut, "Fábio")
	require.NoError(t, err)
	assert.Equal(t, profBruno, res.Appointment.ProfessionalID)
	assert.False(t, res.Queued)
}

func TestWalkInQueuesBehindRunningServiceWithoutRecordedStart(t *testing.T) {
	f := newFixture(at(18, 5))
	f.store.addAppointment(models.Appointment{
		ProfessionalID: profAna, ClientID: 1, ServiceID: svcCut,
		StartTime: at(17, 40), EndTime: at(18, 10),
		Status: booking.StatusInProgress,
	})

	res, err := walkIn(f, uintPtr(profAna), svcBeard, "Fábio")
	require.NoError(t, err)

	ap := res.Appointment
	assert.True(t, res.Queued)
	assert.Equal(t, booking.StatusConfirmed, ap.Status)
	assert.Equal(t, at(18, 35), ap.StartTime)
	assert.Equal(t, at(18, 55), ap.EndTime)
	assert.Nil(t, ap.ActualStartAt)
}

func TestWalkInOutsideWorkingHoursWhenIdleIsRejected(t *testing.T) {
	f := newFixture(at(7, 0))

	_, err := walkIn(f, uintPtr(profAna), svcCut, "Fábio")
	assert.True(t, httperr.IsBusiness(err, "professional_not_working"))
	assert.Equal(t, 0, f.store.appointmentCount())
}

func TestWalkInNeedsSomeClientIdentity(t *testing.T) {
	f := newFixture(at(10, 5))

	_, err := walkIn(f, uintPtr(profAna), svcCut, "")
	assert.True(t, httperr.IsBusiness(err, "client_name_required"))
}

func TestClientsCannotRegisterWalkIns(t *testing.T) {
	f := newFixture(at(10, 5))
	client := f.addClient(50, "Davi", "11988887777")

	_, err := NewCreateWalkIn(f.deps).Execute(context.Background(), testOrg, client, CreateWalkInInput{
		ProfessionalID: uintPtr(profAna),
		ServiceID:      svcCut,
	})
	assert.True(t, httperr.IsKind(err, httperr.KindUnauthorized))
}

func TestSuggestProfessionalRanksFreeFirst(t *testing.T) {
	f := newFixture(at(10, 5))
	seedRunning(f)

	ranked, err := NewSuggestProfessional(f.deps).Execute(context.Background(), testOrg, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, profBruno, ranked[0].ProfessionalID)
	assert.False(t, ranked[0].Busy)
	assert.Equal(t, profAna, ranked[1].ProfessionalID)
	assert.True(t, ranked[1].Busy)

	beard, err := NewSuggestProfessional(f.deps).Execute(context.Background(), testOrg, svcBeard)
	require.NoError(t, err)
	require.Len(t, beard, 1)
	assert.Equal(t, profAna, beard[0].ProfessionalID)
}
