package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

func autoBook(f *fixture, in AutoBookInput) (*models.Appointment, error) {
	if in.Client.Phone == "" {
		in.Client = ClientInput{Name: "Helena", Phone: "11933332222"}
	}
	return NewAutoBook(f.deps).Execute(context.Background(), testOrg, domain.AutomationActor(), in)
}

func TestAutoBookWithoutSlotIsUnavailableAndWritesNothing(t *testing.T) {
	f := newFixture(at(7, 0))
	f.store.addSlot(1, profAna, tuesdayAt(9, 0), 30*time.Minute) // morning, out of the window

	_, err := autoBook(f, AutoBookInput{ServiceID: svcCut, Date: "tomorrow", Shift: "afternoon"})
	assert.True(t, httperr.IsKind(err, httperr.KindUnavailable))

	assert.Equal(t, 0, f.store.appointmentCount())
	assert.Empty(t, f.store.auditKinds())
	assert.Empty(t, f.conflicts.kinds())
	assert.Equal(t, slot.StateAvailable, f.store.slot(1).State)
}

func TestAutoBookSkipsSlotsTheValidatorRejects(t *testing.T) {
	f := newFixture(at(7, 0))
	f.store.addSlot(1, profAna, tuesdayAt(14, 0), 30*time.Minute)
	f.store.addSlot(2, profBruno, tuesdayAt(14, 30), 30*time.Minute)
	f.store.st.blocks = append(f.store.st.blocks, models.ScheduleBlock{
		OrganizationID: testOrg,
		ProfessionalID: profAna,
		StartTime:      tuesdayAt(14, 0),
		EndTime:        tuesdayAt(15, 0),
		Reason:         "curso",
	})

	ap, err := autoBook(f, AutoBookInput{ServiceID: svcCut, Date: "amanhã", Shift: "tarde"})
	require.NoError(t, err)

	assert.Equal(t, profBruno, ap.ProfessionalID)
	assert.Equal(t, tuesdayAt(14, 30), ap.StartTime)
	assert.Equal(t, tuesdayAt(15, 0), ap.EndTime)
	assert.Equal(t, booking.StatusPending, ap.Status)
	assert.Equal(t, booking.ChannelAutomation, ap.Channel)
	require.NotNil(t, ap.SlotID)
	assert.Equal(t, uint(2), *ap.SlotID)

	assert.Equal(t, slot.StateOccupied, f.store.slot(2).State)
	assert.Equal(t, slot.StateAvailable, f.store.slot(1).State)
	assert.Equal(t, []string{audit.KindAutoBooked}, f.store.auditKinds())
}

func TestAutoBookPrefersRequestedProfessional(t *testing.T) {
	f := newFixture(at(7, 0))
	f.store.addSlot(1, profBruno, tuesdayAt(14, 0), 30*time.Minute)
	f.store.addSlot(2, profAna, tuesdayAt(16, 0), 30*time.Minute)

	ap, err := autoBook(f, AutoBookInput{
		ServiceID:               svcCut,
		Date:                    "2026-03-03",
		Shift:                   "afternoon",
		PreferredProfessionalID: uintPtr(profAna),
	})
	require.NoError(t, err)
	assert.Equal(t, profAna, ap.ProfessionalID)
	assert.Equal(t, tuesdayAt(16, 0), ap.StartTime)
}

func TestAutoBookOnlyConsidersCertifiedProfessionals(t *testing.T) {
	f := newFixture(at(7, 0))
	f.store.addSlot(1, profBruno, tuesdayAt(14, 0), 30*time.Minute)

	_, err := autoBook(f, AutoBookInput{ServiceID: svcBeard, Date: "tomorrow", Shift: "afternoon"})
	assert.True(t, httperr.IsBusiness(err, "no_slot_available"))
}

func TestAutoBookTodayIgnoresPastSlots(t *testing.T) {
	f := newFixture(at(15, 0))
	f.store.addSlot(1, profAna, at(14, 0), 30*time.Minute)
	f.store.addSlot(2, profAna, at(16, 0), 30*time.Minute)

	ap, err := autoBook(f, AutoBookInput{ServiceID: svcCut, Date: "hoje", Shift: "tarde"})
	require.NoError(t, err)
	assert.Equal(t, at(16, 0), ap.StartTime)
}

func TestAutoBookRejectsUnknownShift(t *testing.T) {
	f := newFixture(at(7, 0))

	_, err := autoBook(f, AutoBookInput{ServiceID: svcCut, Date: "tomorrow", Shift: "madrugada"})
	assert.True(t, httperr.IsBusiness(err, "invalid_shift"))
}

func TestAutoBookSearchesPastTheFirstPageOfCandidates(t *testing.T) {
	f := newFixture(at(7, 0))
	// one rejected slot per minute, more than a single page
	for i := 0; i < 210; i++ {
		f.store.addSlot(uint(100+i), profAna, tuesdayAt(14, 0).Add(time.Duration(i)*time.Minute), 30*time.Minute)
	}
	f.store.addSlot(500, profAna, tuesdayAt(17, 30), 30*time.Minute)
	f.store.st.blocks = append(f.store.st.blocks, models.ScheduleBlock{
		OrganizationID: testOrg,
		ProfessionalID: profAna,
		StartTime:      tuesdayAt(14, 0),
		EndTime:        tuesdayAt(17, 30),
		Reason:         "curso",
	})

	ap, err := autoBook(f, AutoBookInput{
		ServiceID:               svcCut,
		Date:                    "tomorrow",
		Shift:                   "afternoon",
		PreferredProfessionalID: uintPtr(profAna),
	})
	require.NoError(t, err)

	assert.Equal(t, tuesdayAt(17, 30), ap.StartTime)
	require.NotNil(t, ap.SlotID)
	assert.Equal(t, uint(500), *ap.SlotID)
}

func TestAutoBookLocksEveryCandidateInOrder(t *testing.T) {
	f := newFixture(at(7, 0))
	f.store.addSlot(1, profBruno, tuesdayAt(14, 0), 30*time.Minute)

	_, err := autoBook(f, AutoBookInput{ServiceID: svcCut, Date: "tomorrow", Shift: "afternoon"})
	require.NoError(t, err)
	assert.Equal(t, []uint{profAna, profBruno}, f.store.lockedProfessionals())
}
