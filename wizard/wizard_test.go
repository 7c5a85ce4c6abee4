package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahatak/models"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return models.Midnight(testNow).AddDate(0, 0, offset)
}

func fee(v float64) *float64 { return &v }

func testDoctor(id, name string) models.Doctor {
	return models.Doctor{
		ID:         id,
		FullName:   name,
		Specialty:  "cardiology",
		Rating:     4.2,
		IsVerified: true,
	}
}

func slotAt(d time.Time, hhmm string, available bool) models.AvailabilitySlot {
	start, _ := time.Parse("15:04", hhmm)
	dt := time.Date(d.Year(), d.Month(), d.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	return models.AvailabilitySlot{
		Start:     hhmm,
		End:       dt.Add(30 * time.Minute).Format("15:04"),
		Datetime:  dt,
		Available: available,
	}
}

// fakeAPI is an in-memory backend. The availability scan hits it from
// several goroutines, so every method locks.
type fakeAPI struct {
	mu sync.Mutex

	doctors      []models.Doctor
	slots        map[string][]models.AvailabilitySlot // doctorID|date
	slotErrs     map[string]error
	createErr    error
	lastBooking  models.BookingRequest
	availability int
	getDoctor    int
	created      int
}

func newFakeAPI(doctors ...models.Doctor) *fakeAPI {
	return &fakeAPI{
		doctors:  doctors,
		slots:    make(map[string][]models.AvailabilitySlot),
		slotErrs: make(map[string]error),
	}
}

func slotKey(doctorID string, date models.DateKey) string {
	return doctorID + "|" + string(date)
}

func (f *fakeAPI) setSlots(doctorID string, d time.Time, slots ...models.AvailabilitySlot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[slotKey(doctorID, models.NewDateKey(d))] = slots
}

func (f *fakeAPI) failDay(doctorID string, d time.Time, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slotErrs[slotKey(doctorID, models.NewDateKey(d))] = err
}

func (f *fakeAPI) ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if specialty == "" {
		return f.doctors, nil
	}
	var out []models.Doctor
	for _, d := range f.doctors {
		if d.Specialty == specialty {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getDoctor++
	for _, d := range f.doctors {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, fmt.Errorf("doctor %s not found", id)
}

func (f *fakeAPI) GetAvailability(ctx context.Context, doctorID string, date models.DateKey) ([]models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availability++
	if err := f.slotErrs[slotKey(doctorID, date)]; err != nil {
		return nil, err
	}
	return f.slots[slotKey(doctorID, date)], nil
}

func (f *fakeAPI) CreateAppointment(ctx context.Context, req models.BookingRequest) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastBooking = req
	f.created++
	return &models.Appointment{
		ID:              "appt-1",
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		Type:            req.AppointmentType,
		Status:          models.StatusScheduled,
	}, nil
}

func (f *fakeAPI) availabilityCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.availability
}

func newTestWizard(t *testing.T, api API, opts ...Option) *Wizard {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return testNow }),
		WithScanWindow(5),
	}, opts...)
	w, err := New(api, nil, opts...)
	require.NoError(t, err)
	return w
}

func TestNewRequiresAPI(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}

func TestAdvanceWithoutProviderIsRejected(t *testing.T) {
	w := newTestWizard(t, newFakeAPI())

	err := w.Advance(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "provider", verr.Field)
	assert.Equal(t, StepSelectProvider, w.Step())
}

func TestSelectProviderRequiresLoadedList(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	w := newTestWizard(t, api)

	err := w.SelectProvider(context.Background(), "d1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "doctor_id", verr.Field)
}

func TestSelectProviderPrefetchesAvailability(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	api.setSlots("d1", day(1), slotAt(day(1), "09:00", true))
	api.setSlots("d1", day(3), slotAt(day(3), "09:00", false))
	w := newTestWizard(t, api)

	_, err := w.LoadProviders(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(context.Background(), "d1"))

	// One probe per day of the scan window.
	assert.Equal(t, 5, api.availabilityCalls())

	var marked int
	for _, row := range w.Calendar().Grid() {
		for _, cell := range row {
			if cell.Available {
				marked++
				assert.Equal(t, models.NewDateKey(day(1)), cell.Key,
					"only the day with a free slot is marked")
			}
		}
	}
	assert.Equal(t, 1, marked)
}

func TestSelectProviderSameIDIsNoOp(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	w := newTestWizard(t, api)

	_, err := w.LoadProviders(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(context.Background(), "d1"))
	scans := api.availabilityCalls()

	require.NoError(t, w.SelectProvider(context.Background(), "d1"))
	assert.Equal(t, scans, api.availabilityCalls(), "re-selecting the current doctor must not rescan")
}

func TestScanSurvivesPartialFailures(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	api.failDay("d1", day(0), errors.New("boom"))
	api.failDay("d1", day(2), errors.New("boom"))
	api.setSlots("d1", day(4), slotAt(day(4), "10:00", true))
	w := newTestWizard(t, api)

	_, err := w.LoadProviders(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(context.Background(), "d1"))

	var marked []models.DateKey
	for _, row := range w.Calendar().Grid() {
		for _, cell := range row {
			if cell.Available {
				marked = append(marked, cell.Key)
			}
		}
	}
	assert.Equal(t, []models.DateKey{models.NewDateKey(day(4))}, marked)
}

func TestLoadTimeSlotsDropsStaleResponse(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	slotB := slotAt(day(2), "11:00", true)
	api.setSlots("d1", day(1), slotAt(day(1), "09:00", true))
	api.setSlots("d1", day(2), slotB)
	w := newTestWizard(t, api)

	_, err := w.LoadProviders(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(context.Background(), "d1"))

	_, err = w.SelectDate(context.Background(), day(2))
	require.NoError(t, err)

	// A late response for day 1 arrives while day 2 is selected: it is
	// dropped and the current selection's slots come back instead.
	got, err := w.LoadTimeSlots(context.Background(), day(1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, slotB.Datetime, got[0].Datetime)
	assert.Equal(t, slotB.Datetime, w.Slots()[0].Datetime)
}

func TestSelectDateOutsideWindow(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	w := newTestWizard(t, api)
	_, err := w.LoadProviders(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(context.Background(), "d1"))

	_, err = w.SelectDate(context.Background(), day(-1))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestSelectSlotRejectsBookedSlot(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	free := slotAt(day(1), "09:00", true)
	taken := slotAt(day(1), "09:30", false)
	api.setSlots("d1", day(1), free, taken)
	w := newTestWizard(t, api)

	_, err := w.LoadProviders(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(context.Background(), "d1"))
	_, err = w.SelectDate(context.Background(), day(1))
	require.NoError(t, err)

	err = w.SelectSlot(taken.Datetime)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slot", verr.Field)

	require.NoError(t, w.SelectSlot(free.Datetime))
	require.NotNil(t, w.Draft().Slot)
	assert.Equal(t, free.Datetime, w.Draft().Slot.Datetime)
}

func TestChangingDateClearsMismatchedSlot(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	s1 := slotAt(day(1), "09:00", true)
	api.setSlots("d1", day(1), s1)
	api.setSlots("d1", day(2), slotAt(day(2), "09:00", true))
	w := newTestWizard(t, api)

	_, err := w.LoadProviders(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(context.Background(), "d1"))
	_, err = w.SelectDate(context.Background(), day(1))
	require.NoError(t, err)
	require.NoError(t, w.SelectSlot(s1.Datetime))

	_, err = w.SelectDate(context.Background(), day(2))
	require.NoError(t, err)
	assert.Nil(t, w.Draft().Slot, "a slot from another day must not survive the date change")
}

func TestFullBookingRoundTrip(t *testing.T) {
	doctor := testDoctor("d1", "Dr. Amal")
	doctor.ConsultationFee = fee(150)
	api := newFakeAPI(doctor)
	slot := slotAt(day(0), "14:00", true)
	api.setSlots("d1", day(0), slot)

	var events []Event
	w := newTestWizard(t, api, WithNotifier(func(e Event) { events = append(events, e) }))
	ctx := context.Background()

	_, err := w.LoadProviders(ctx, "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(ctx, "d1"))

	// Step 1 -> 2 defaults the calendar to today and loads its slots.
	require.NoError(t, w.Advance(ctx))
	assert.Equal(t, StepSelectDateTime, w.Step())
	assert.Equal(t, models.NewDateKey(day(0)), w.Calendar().SelectedKey())
	require.Len(t, w.Slots(), 1)

	require.NoError(t, w.SelectSlot(slot.Datetime))
	require.NoError(t, w.SetConsultationType(models.ConsultationVideo))
	w.SetReason("persistent headaches")

	before := api.getDoctor
	require.NoError(t, w.Advance(ctx))
	assert.Equal(t, StepConfirm, w.Step())
	assert.Equal(t, before+1, api.getDoctor, "entering confirm re-fetches the doctor")

	w.SetTermsAccepted(true)
	appt, err := w.Confirm(ctx)
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, StepSubmitted, w.Step())

	assert.Equal(t, models.BookingRequest{
		DoctorID:        "d1",
		AppointmentDate: slot.Datetime,
		AppointmentType: models.ConsultationVideo,
		ReasonForVisit:  "persistent headaches",
	}, api.lastBooking)

	require.NotEmpty(t, events)
	assert.Equal(t, "success", events[len(events)-1].Level)

	// Terminal: no further advancing, no double submit.
	require.Error(t, w.Advance(ctx))
	_, err = w.Confirm(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, api.created)
}

func TestConfirmRequiresAcceptedTerms(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	slot := slotAt(day(0), "09:00", true)
	api.setSlots("d1", day(0), slot)
	w := newTestWizard(t, api)
	ctx := context.Background()

	_, err := w.LoadProviders(ctx, "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(ctx, "d1"))
	require.NoError(t, w.Advance(ctx))
	require.NoError(t, w.SelectSlot(slot.Datetime))
	require.NoError(t, w.Advance(ctx))

	_, err = w.Confirm(ctx)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "terms", verr.Field)
	assert.Equal(t, StepConfirm, w.Step())
	assert.Equal(t, 0, api.created)
}

func TestConfirmFailureKeepsDraft(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	slot := slotAt(day(0), "09:00", true)
	api.setSlots("d1", day(0), slot)
	w := newTestWizard(t, api)
	ctx := context.Background()

	_, err := w.LoadProviders(ctx, "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(ctx, "d1"))
	require.NoError(t, w.Advance(ctx))
	require.NoError(t, w.SelectSlot(slot.Datetime))
	require.NoError(t, w.Advance(ctx))
	w.SetTermsAccepted(true)

	api.createErr = errors.New("this time slot is already booked")
	_, err = w.Confirm(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "this time slot is already booked")

	// Everything stays put for a retry.
	assert.Equal(t, StepConfirm, w.Step())
	draft := w.Draft()
	require.NotNil(t, draft.Slot)
	assert.Equal(t, slot.Datetime, draft.Slot.Datetime)
	assert.True(t, draft.TermsAccepted)

	api.createErr = nil
	_, err = w.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, w.Step())
}

func TestRetreatWalksBackAndStopsAtEdges(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	slot := slotAt(day(0), "09:00", true)
	api.setSlots("d1", day(0), slot)
	w := newTestWizard(t, api)
	ctx := context.Background()

	w.Retreat()
	assert.Equal(t, StepSelectProvider, w.Step())

	_, err := w.LoadProviders(ctx, "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(ctx, "d1"))
	require.NoError(t, w.Advance(ctx))
	require.NoError(t, w.SelectSlot(slot.Datetime))
	require.NoError(t, w.Advance(ctx))

	w.Retreat()
	assert.Equal(t, StepSelectDateTime, w.Step())
	w.Retreat()
	assert.Equal(t, StepSelectProvider, w.Step())
}

func TestAdvanceWithoutSlotIsRejected(t *testing.T) {
	api := newFakeAPI(testDoctor("d1", "Dr. Amal"))
	w := newTestWizard(t, api)
	ctx := context.Background()

	_, err := w.LoadProviders(ctx, "")
	require.NoError(t, err)
	require.NoError(t, w.SelectProvider(ctx, "d1"))
	require.NoError(t, w.Advance(ctx))

	err = w.Advance(ctx)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slot", verr.Field)
	assert.Equal(t, StepSelectDateTime, w.Step())
}
