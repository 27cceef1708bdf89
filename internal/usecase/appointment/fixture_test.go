package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/events"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

const (
	testOrg = uint(1)

	profAna   = uint(1)
	profBruno = uint(2)

	svcCut   = uint(10) // 30 min
	svcBeard = uint(11) // 20 min
)

// 2026-03-02 is a Monday.
func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func tuesdayAt(h, m int) time.Time {
	return at(h, m).AddDate(0, 0, 1)
}

var (
	receptionist = domain.Actor{UserID: 7, Role: models.RoleReceptionist}
	owner        = domain.Actor{UserID: 8, Role: models.RoleOwner}
)

type recordingHook struct {
	mu     sync.Mutex
	events []events.Completed
	err    error
}

func (h *recordingHook) AppointmentCompleted(_ context.Context, ev events.Completed) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return h.err
}

type fixture struct {
	store     *memStore
	conflicts *captureSink
	hook      *recordingHook
	deps      Deps
}

// newFixture seeds a UTC organization with two professionals working
// Monday and Tuesday 08:00-18:00 with lunch at 12:00.
func newFixture(now time.Time) *fixture {
	store := newMemStore(models.Organization{
		ID:              testOrg,
		Name:            "Studio Centro",
		Slug:            "studio-centro",
		Timezone:        "UTC",
		LeadTimeMinutes: 120,
	})

	store.addService(svcCut, "Corte", 30, "50.00")
	store.addService(svcBeard, "Barba", 20, "30.00")
	store.addProfessional(profAna, "Ana", svcCut, svcBeard)
	store.addProfessional(profBruno, "Bruno", svcCut)

	for _, p := range []uint{profAna, profBruno} {
		store.addHours(p, time.Monday, "08:00", "18:00", "12:00", "13:00")
		store.addHours(p, time.Tuesday, "08:00", "18:00", "12:00", "13:00")
	}

	f := &fixture{
		store:     store,
		conflicts: &captureSink{},
		hook:      &recordingHook{},
	}
	f.deps = Deps{
		Store:     store,
		Conflicts: f.conflicts,
		Hook:      f.hook,
		Clock:     timezone.Fixed(now),
		Log:       zerolog.Nop(),
	}
	return f
}

func (f *fixture) addClient(id uint, name, phone string) domain.Actor {
	f.store.st.clients[id] = models.Client{ID: id, OrganizationID: testOrg, Name: name, Phone: phone}
	cid := id
	return domain.Actor{UserID: 100 + id, Role: models.RoleClient, ClientID: &cid}
}

func (f *fixture) book(start time.Time, slotID *uint) (*models.Appointment, error) {
	return NewCreateAppointment(f.deps).Execute(context.Background(), testOrg, receptionist, CreateAppointmentInput{
		ProfessionalID: profAna,
		ServiceID:      svcCut,
		Client:         ClientInput{Name: "Carla", Phone: "11999990000"},
		Date:           start.Format("2006-01-02"),
		Time:           start.Format("15:04"),
		SlotID:         slotID,
	})
}

var errBroker = errors.New("broker down")

func uintPtr(v uint) *uint { return &v }
