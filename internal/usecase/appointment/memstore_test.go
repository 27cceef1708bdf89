package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// memState is one snapshot of the datastore. Units of work run on a clone
// that replaces the committed state only when fn succeeds.
type memState struct {
	org           models.Organization
	professionals map[uint]models.Professional
	services      map[uint]models.Service
	certs         map[[2]uint]bool
	clients       map[uint]models.Client
	appointments  map[uint]models.Appointment
	slots         map[uint]models.Slot
	hours         map[[2]uint]models.WorkingHours
	blocks        []models.ScheduleBlock
	audits        []models.AuditLog
	nextID        uint
}

func (s *memState) clone() *memState {
	c := *s
	c.professionals = cloneMap(s.professionals)
	c.services = cloneMap(s.services)
	c.certs = cloneMap(s.certs)
	c.clients = cloneMap(s.clients)
	c.appointments = cloneMap(s.appointments)
	c.slots = cloneMap(s.slots)
	c.hours = cloneMap(s.hours)
	c.blocks = append([]models.ScheduleBlock(nil), s.blocks...)
	c.audits = append([]models.AuditLog(nil), s.audits...)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memState) id() uint {
	s.nextID++
	return s.nextID
}

// memStore serializes units of work, which is what row locks buy on the
// real store for the cases exercised here.
type memStore struct {
	mu        sync.Mutex
	st        *memState
	failAudit bool

	// locks lists every LockProfessional call, in order
	locks []uint
}

func newMemStore(org models.Organization) *memStore {
	return &memStore{st: &memState{
		org:           org,
		professionals: map[uint]models.Professional{},
		services:      map[uint]models.Service{},
		certs:         map[[2]uint]bool{},
		clients:       map[uint]models.Client{},
		appointments:  map[uint]models.Appointment{},
		slots:         map[uint]models.Slot{},
		hours:         map[[2]uint]models.WorkingHours{},
		nextID:        1000,
	}}
}

func (m *memStore) WithinTx(ctx context.Context, orgID uint, fn func(ctx context.Context, tx domain.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if orgID != m.st.org.ID {
		return domain.ErrNotFound
	}

	work := m.st.clone()
	if err := fn(ctx, &memTx{st: work, failAudit: m.failAudit, locks: &m.locks}); err != nil {
		return err
	}
	m.st = work
	return nil
}

// -------- seeding and inspection (outside any unit of work) --------

func (m *memStore) addProfessional(id uint, name string, serviceIDs ...uint) {
	m.st.professionals[id] = models.Professional{ID: id, OrganizationID: m.st.org.ID, Name: name, Active: true}
	for _, s := range serviceIDs {
		m.st.certs[[2]uint{id, s}] = true
	}
}

func (m *memStore) addService(id uint, name string, minutes int, price string) {
	m.st.services[id] = models.Service{
		ID:             id,
		OrganizationID: m.st.org.ID,
		Name:           name,
		DurationMin:    minutes,
		Price:          decimal.RequireFromString(price),
		Active:         true,
	}
}

func (m *memStore) addHours(professionalID uint, wd time.Weekday, start, end, lunchStart, lunchEnd string) {
	m.st.hours[[2]uint{professionalID, uint(wd)}] = models.WorkingHours{
		OrganizationID: m.st.org.ID,
		ProfessionalID: professionalID,
		Weekday:        int(wd),
		StartTime:      start,
		EndTime:        end,
		LunchStart:     lunchStart,
		LunchEnd:       lunchEnd,
		Active:         true,
	}
}

func (m *memStore) addSlot(id, professionalID uint, start time.Time, d time.Duration) {
	m.st.slots[id] = models.Slot{
		ID:             id,
		OrganizationID: m.st.org.ID,
		ProfessionalID: professionalID,
		StartTime:      start,
		EndTime:        start.Add(d),
		State:          slot.StateAvailable,
	}
}

func (m *memStore) addAppointment(ap models.Appointment) uint {
	ap.ID = m.st.id()
	ap.OrganizationID = m.st.org.ID
	ap.Service = m.st.services[ap.ServiceID]
	m.st.appointments[ap.ID] = ap
	return ap.ID
}

func (m *memStore) appointment(id uint) models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.appointments[id]
}

func (m *memStore) slot(id uint) models.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.slots[id]
}

func (m *memStore) lockedProfessionals() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint(nil), m.locks...)
}

func (m *memStore) appointmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.st.appointments)
}

func (m *memStore) auditKinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.st.audits))
	for _, a := range m.st.audits {
		out = append(out, a.Kind)
	}
	return out
}

// -------- domain.Tx --------

type memTx struct {
	st        *memState
	failAudit bool
	locks     *[]uint
}

var _ domain.Tx = (*memTx)(nil)

func (t *memTx) OrganizationID() uint { return t.st.org.ID }

func (t *memTx) GetOrganization(context.Context) (*models.Organization, error) {
	org := t.st.org
	return &org, nil
}

func (t *memTx) GetProfessional(_ context.Context, id uint) (*models.Professional, error) {
	p, ok := t.st.professionals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (t *memTx) ListActiveProfessionals(context.Context) ([]models.Professional, error) {
	var out []models.Professional
	for _, p := range t.st.professionals {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) LockProfessional(_ context.Context, id uint) error {
	if _, ok := t.st.professionals[id]; !ok {
		return domain.ErrNotFound
	}
	*t.locks = append(*t.locks, id)
	return nil
}

func (t *memTx) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := t.st.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (t *memTx) IsCertified(_ context.Context, professionalID, serviceID uint) (bool, error) {
	return t.st.certs[[2]uint{professionalID, serviceID}], nil
}

func (t *memTx) ListCertifiedProfessionals(ctx context.Context, serviceID uint) ([]models.Professional, error) {
	all, _ := t.ListActiveProfessionals(ctx)
	var out []models.Professional
	for _, p := range all {
		if t.st.certs[[2]uint{p.ID, serviceID}] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (t *memTx) GetClient(_ context.Context, id uint) (*models.Client, error) {
	c, ok := t.st.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (t *memTx) FindClientByPhone(_ context.Context, phone string) (*models.Client, error) {
	for _, c := range t.st.clients {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateClient(_ context.Context, c *models.Client) error {
	c.ID = t.st.id()
	c.OrganizationID = t.st.org.ID
	t.st.clients[c.ID] = *c
	return nil
}

func (t *memTx) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := t.st.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (t *memTx) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = t.st.id()
	ap.OrganizationID = t.st.org.ID
	ap.Service = t.st.services[ap.ServiceID]
	t.st.appointments[ap.ID] = *ap
	return nil
}

func (t *memTx) SaveAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := t.st.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}
	t.st.appointments[ap.ID] = *ap
	return nil
}

func (t *memTx) FindRunningAppointment(_ context.Context, professionalID uint) (*models.Appointment, error) {
	for _, ap := range t.st.appointments {
		if ap.ProfessionalID == professionalID && ap.Status == booking.StatusInProgress && ap.ActualEndAt == nil {
			ap := ap
			return &ap, nil
		}
	}
	return nil, nil
}

func (t *memTx) CountAppointments(_ context.Context, professionalID uint, from, to time.Time) (int, error) {
	n := 0
	for _, ap := range t.st.appointments {
		if ap.ProfessionalID == professionalID && ap.Status.IsActive() &&
			!ap.StartTime.Before(from) && ap.StartTime.Before(to) {
			n++
		}
	}
	return n, nil
}

func (t *memTx) ListAppointments(_ context.Context, f domain.AppointmentFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range t.st.appointments {
		if ap.StartTime.Before(f.From) || !ap.StartTime.Before(f.To) {
			continue
		}
		if f.ProfessionalID != nil && ap.ProfessionalID != *f.ProfessionalID {
			continue
		}
		if f.ClientID != nil && ap.ClientID != *f.ClientID {
			continue
		}
		ap.Client = t.st.clients[ap.ClientID]
		ap.Professional = t.st.professionals[ap.ProfessionalID]
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (t *memTx) ListDueForReminder(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range t.st.appointments {
		if ap.Status == booking.StatusConfirmed && ap.ReminderSentAt == nil &&
			!ap.StartTime.Before(from) && ap.StartTime.Before(to) {
			ap.Client = t.st.clients[ap.ClientID]
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (t *memTx) MarkReminderSent(_ context.Context, ids []uint, at time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		ap, ok := t.st.appointments[id]
		if !ok || ap.ReminderSentAt != nil {
			continue
		}
		at := at
		ap.ReminderSentAt = &at
		t.st.appointments[id] = ap
		n++
	}
	return n, nil
}

// -------- schedule.Source --------

func (t *memTx) WorkingHours(_ context.Context, professionalID uint, wd time.Weekday) (*models.WorkingHours, error) {
	wh, ok := t.st.hours[[2]uint{professionalID, uint(wd)}]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (t *memTx) Blocks(_ context.Context, professionalID uint, from, to time.Time) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range t.st.blocks {
		if b.ProfessionalID == professionalID && b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (t *memTx) ActiveAppointments(_ context.Context, professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range t.st.appointments {
		if ap.ProfessionalID == professionalID && ap.Status.IsActive() &&
			ap.StartTime.Before(to) && ap.EndTime.After(from) {
			out = append(out, ap)
		}
	}
	return out, nil
}

// -------- slot.Store --------

func (t *memTx) GetSlot(_ context.Context, id uint) (*models.Slot, error) {
	s, ok := t.st.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (t *memTx) LoadSlot(_ context.Context, id uint) (slot.Record, error) {
	s, ok := t.st.slots[id]
	if !ok {
		return slot.Record{}, domain.ErrNotFound
	}
	return s.Record(), nil
}

func (t *memTx) CompareAndBind(_ context.Context, id, appointmentID, expectedVersion uint) (bool, error) {
	s, ok := t.st.slots[id]
	if !ok || s.Version != expectedVersion || !s.State.Bindable() {
		return false, nil
	}
	s.State = slot.StateOccupied
	s.HeldUntil = nil
	s.AppointmentID = &appointmentID
	s.Version++
	t.st.slots[id] = s
	return true, nil
}

func (t *memTx) ForceRelease(_ context.Context, id uint) error {
	s, ok := t.st.slots[id]
	if !ok {
		return nil
	}
	s.State = slot.StateAvailable
	s.HeldUntil = nil
	s.AppointmentID = nil
	s.Version++
	t.st.slots[id] = s
	return nil
}

func (t *memTx) FindSlotAt(_ context.Context, professionalID uint, start time.Time) (*models.Slot, error) {
	for _, s := range t.st.slots {
		if s.ProfessionalID == professionalID && s.StartTime.Equal(start) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (t *memTx) ListOpenSlots(_ context.Context, q domain.SlotQuery) ([]models.Slot, error) {
	want := map[uint]bool{}
	for _, id := range q.ProfessionalIDs {
		want[id] = true
	}
	var out []models.Slot
	for _, s := range t.st.slots {
		if s.State != slot.StateAvailable || s.AppointmentID != nil || !want[s.ProfessionalID] {
			continue
		}
		if s.StartTime.Before(q.From) || !s.StartTime.Before(q.To) || s.Duration() < q.MinDuration {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	if q.Offset >= len(out) {
		return nil, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// -------- audit --------

var errAuditDown = errors.New("audit table unavailable")

func (t *memTx) RecordAudit(_ context.Context, row *models.AuditLog) error {
	if t.failAudit {
		return errAuditDown
	}
	row.ID = t.st.id()
	t.st.audits = append(t.st.audits, *row)
	return nil
}

func (t *memTx) ListAuditLogs(_ context.Context, f domain.AuditFilter) ([]models.AuditLog, int64, error) {
	var out []models.AuditLog
	for _, a := range t.st.audits {
		if f.Kind != "" && a.Kind != f.Kind {
			continue
		}
		if f.AppointmentID != nil && (a.AppointmentID == nil || *a.AppointmentID != *f.AppointmentID) {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

// -------- collaborators --------

type captureSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (c *captureSink) Dispatch(ev audit.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureSink) kinds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Kind)
	}
	return out
}
