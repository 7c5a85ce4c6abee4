// Package wizard drives the appointment booking flow: a fixed three-step
// state machine (choose doctor, choose date and time, confirm) holding an
// in-progress draft, with per-step gating and staleness discipline for the
// network calls it orchestrates. It owns an embedded availability calendar
// and keeps the draft's slot consistent with the calendar's selected date.
package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sahatak/calendar"
	"sahatak/models"
)

// Step identifies one state of the booking flow.
type Step int

const (
	StepSelectProvider Step = iota + 1
	StepSelectDateTime
	StepConfirm
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepSelectProvider:
		return "select_provider"
	case StepSelectDateTime:
		return "select_datetime"
	case StepConfirm:
		return "confirm"
	case StepSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// API is the backend surface the wizard consumes. client.Client satisfies
// it; tests inject fakes.
type API interface {
	ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	GetAvailability(ctx context.Context, doctorID string, date models.DateKey) ([]models.AvailabilitySlot, error)
	CreateAppointment(ctx context.Context, req models.BookingRequest) (*models.Appointment, error)
}

// Draft is the in-progress reservation. It lives only inside the wizard
// and is never sent to the backend before the final confirmation.
type Draft struct {
	Doctor           *models.Doctor
	Slot             *models.AvailabilitySlot
	ConsultationType models.ConsultationType
	ReasonForVisit   string
	TermsAccepted    bool
}

// ValidationError is a recoverable, user-facing input problem: advancing
// without a selection, confirming without accepting the terms, and so on.
// It never alters wizard state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Event is a host-facing notification (a dismissible banner, typically).
type Event struct {
	Level   string // "error" or "success"
	Message string
}

// Wizard is the booking flow engine. All state is guarded by one mutex:
// the Go rendition of the single UI thread the flow assumes. Network
// calls are issued outside the lock, and their results are discarded when
// the selection they were issued for is no longer current.
type Wizard struct {
	mu sync.Mutex

	api     API
	cal     *calendar.Calendar
	logger  *zap.Logger
	notify  func(Event)
	limiter *rate.Limiter
	now     func() time.Time

	window      int // days covered by the availability scan
	concurrency int // parallel day probes

	step      Step
	draft     Draft
	doctors   []models.Doctor
	slots     []models.AvailabilitySlot
	slotsDate models.DateKey
	scanGen   uint64
}

// Option customizes a Wizard at construction time.
type Option func(*Wizard)

// WithLogger sets the logger; defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

// WithNotifier registers the host callback for banner notifications.
func WithNotifier(fn func(Event)) Option {
	return func(w *Wizard) { w.notify = fn }
}

// WithScanWindow overrides the length of the availability scan window.
func WithScanWindow(days int) Option {
	return func(w *Wizard) { w.window = days }
}

// WithProbeConcurrency bounds the parallel day probes of the scan.
func WithProbeConcurrency(n int) Option {
	return func(w *Wizard) { w.concurrency = n }
}

// WithProbeRate paces the availability day probes.
func WithProbeRate(l *rate.Limiter) Option {
	return func(w *Wizard) { w.limiter = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// New builds a wizard in the provider-selection step. The embedded
// calendar is bounded to [today, today+window); calendarOpts are passed
// through to it (locale, typically).
func New(api API, calendarOpts []calendar.Option, opts ...Option) (*Wizard, error) {
	if api == nil {
		return nil, fmt.Errorf("wizard: api must not be nil")
	}
	w := &Wizard{
		api:         api,
		logger:      zap.NewNop(),
		limiter:     rate.NewLimiter(rate.Inf, 1),
		now:         time.Now,
		window:      30,
		concurrency: 4,
		step:        StepSelectProvider,
	}
	for _, opt := range opts {
		opt(w)
	}

	today := models.Midnight(w.now())
	calOpts := append([]calendar.Option{calendar.WithClock(w.now)}, calendarOpts...)
	cal, err := calendar.New(today, today.AddDate(0, 0, w.window-1), w.dateSelected, calOpts...)
	if err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}
	w.cal = cal
	return w, nil
}

// dateSelected runs synchronously inside calendar.SelectDate. Every such
// call happens with w.mu held, so this must not lock. A date change
// invalidates a slot picked for a different day.
func (w *Wizard) dateSelected(date time.Time) {
	if w.draft.Slot != nil && models.NewDateKey(w.draft.Slot.Datetime) != models.NewDateKey(date) {
		w.draft.Slot = nil
	}
}

func (w *Wizard) emit(level, message string) {
	if w.notify != nil {
		w.notify(Event{Level: level, Message: message})
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a snapshot of the in-progress reservation.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Calendar exposes the embedded calendar for rendering. Mutations must go
// through the wizard so draft and calendar stay in sync.
func (w *Wizard) Calendar() *calendar.Calendar {
	return w.cal
}

// Providers returns the most recently loaded doctor list.
func (w *Wizard) Providers() []models.Doctor {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.Doctor, len(w.doctors))
	copy(out, w.doctors)
	return out
}

// Slots returns the slots for the currently selected date.
func (w *Wizard) Slots() []models.AvailabilitySlot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.AvailabilitySlot, len(w.slots))
	copy(out, w.slots)
	return out
}

// LoadProviders fetches the doctor list, optionally filtered by specialty.
// On failure the previously loaded list is kept.
func (w *Wizard) LoadProviders(ctx context.Context, specialty string) ([]models.Doctor, error) {
	doctors, err := w.api.ListDoctors(ctx, specialty)
	if err != nil {
		return nil, fmt.Errorf("load providers: %w", err)
	}
	w.mu.Lock()
	w.doctors = doctors
	out := make([]models.Doctor, len(doctors))
	copy(out, doctors)
	w.mu.Unlock()
	return out, nil
}

// SelectProvider picks a doctor from the loaded list. Re-selecting the
// current doctor is a no-op. A real change clears the slot and the
// advisory availability, then refreshes both best-effort: a network
// failure here is not blocking, the user can still pick a date and retry.
func (w *Wizard) SelectProvider(ctx context.Context, id string) error {
	w.mu.Lock()
	if w.draft.Doctor != nil && w.draft.Doctor.ID == id {
		w.mu.Unlock()
		return nil
	}
	var picked *models.Doctor
	for i := range w.doctors {
		if w.doctors[i].ID == id {
			d := w.doctors[i]
			picked = &d
			break
		}
	}
	if picked == nil {
		w.mu.Unlock()
		return &ValidationError{Field: "doctor_id", Message: "doctor is not in the loaded list"}
	}
	w.draft.Doctor = picked
	w.draft.Slot = nil
	w.slots = nil
	w.slotsDate = ""
	w.cal.SetAvailableDates(nil)
	w.scanGen++
	gen := w.scanGen
	doctor := *picked
	selected := w.cal.SelectedKey()
	w.mu.Unlock()

	if err := w.scanAvailability(ctx, doctor, gen); err != nil {
		w.logger.Debug("availability prefetch failed", zap.String("doctorId", doctor.ID), zap.Error(err))
	}
	if selected != "" {
		if date, err := selected.Time(); err == nil {
			if _, err := w.LoadTimeSlots(ctx, date); err != nil {
				w.logger.Debug("slot prefetch failed", zap.String("doctorId", doctor.ID), zap.Error(err))
			}
		}
	}
	return nil
}

// SelectDate selects a day on the calendar and loads its slots.
func (w *Wizard) SelectDate(ctx context.Context, date time.Time) ([]models.AvailabilitySlot, error) {
	w.mu.Lock()
	ok := w.cal.SelectDate(date)
	w.mu.Unlock()
	if !ok {
		return nil, &ValidationError{Field: "date", Message: "date is outside the booking window"}
	}
	return w.LoadTimeSlots(ctx, date)
}

// LoadTimeSlots fetches the slot list for the selected doctor on the given
// day. The request is tagged with its date: if the selection has moved on
// by the time the response lands, the response is dropped silently and the
// slots of the current selection are returned instead. Safe to call
// repeatedly and concurrently as the user flips through dates.
func (w *Wizard) LoadTimeSlots(ctx context.Context, date time.Time) ([]models.AvailabilitySlot, error) {
	key := models.NewDateKey(date)

	w.mu.Lock()
	if w.draft.Doctor == nil {
		w.mu.Unlock()
		return nil, &ValidationError{Field: "provider", Message: "select a doctor first"}
	}
	doctorID := w.draft.Doctor.ID
	w.mu.Unlock()

	slots, err := w.api.GetAvailability(ctx, doctorID, key)
	if err != nil {
		return nil, fmt.Errorf("load time slots for %s: %w", key, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	stale := w.cal.SelectedKey() != key ||
		w.draft.Doctor == nil || w.draft.Doctor.ID != doctorID
	if !stale {
		w.slots = slots
		w.slotsDate = key
	}
	out := make([]models.AvailabilitySlot, len(w.slots))
	copy(out, w.slots)
	return out, nil
}

// SelectSlot picks a slot by its start instant. No auto-advance.
func (w *Wizard) SelectSlot(start time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.slots {
		if w.slots[i].Datetime.Equal(start) {
			if !w.slots[i].Available {
				return &ValidationError{Field: "slot", Message: "this time slot is already booked"}
			}
			s := w.slots[i]
			w.draft.Slot = &s
			return nil
		}
	}
	return &ValidationError{Field: "slot", Message: "time slot not found for the selected date"}
}

// SetConsultationType sets how the consultation will be held.
func (w *Wizard) SetConsultationType(t models.ConsultationType) error {
	if !t.Valid() {
		return &ValidationError{Field: "appointment_type", Message: "unsupported consultation type"}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.ConsultationType = t
	return nil
}

// SetReason records the optional free-text reason for the visit.
func (w *Wizard) SetReason(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.ReasonForVisit = reason
}

// SetTermsAccepted records the terms checkbox.
func (w *Wizard) SetTermsAccepted(accepted bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.TermsAccepted = accepted
}

// Advance moves one step forward when the current step's requirements are
// met; otherwise it returns a ValidationError and the step is unchanged.
// Entering the date step triggers a slot load for the selected date
// (defaulting to today, clamped into the window); entering the confirm
// step re-fetches the doctor so the summary never shows stale list data.
// Failures of those triggered loads are surfaced as notifications, not
// errors: the transition itself has already happened.
func (w *Wizard) Advance(ctx context.Context) error {
	w.mu.Lock()
	switch w.step {
	case StepSelectProvider:
		if w.draft.Doctor == nil {
			w.mu.Unlock()
			return &ValidationError{Field: "provider", Message: "select a doctor to continue"}
		}
		w.step = StepSelectDateTime
		if _, ok := w.cal.SelectedDate(); !ok {
			w.cal.SelectDate(models.Midnight(w.now()))
		}
		date, _ := w.cal.SelectedDate()
		w.mu.Unlock()

		if _, err := w.LoadTimeSlots(ctx, date); err != nil {
			w.emit("error", "could not load available times, please retry")
			w.logger.Warn("slot load on step entry failed", zap.Error(err))
		}
		return nil

	case StepSelectDateTime:
		if w.draft.Slot == nil {
			w.mu.Unlock()
			return &ValidationError{Field: "slot", Message: "select a time slot to continue"}
		}
		w.step = StepConfirm
		doctorID := w.draft.Doctor.ID
		w.mu.Unlock()

		w.refreshSummary(ctx, doctorID)
		return nil

	case StepConfirm:
		w.mu.Unlock()
		return &ValidationError{Message: "confirm the booking to continue"}

	default:
		w.mu.Unlock()
		return &ValidationError{Message: "booking already submitted"}
	}
}

// refreshSummary re-fetches the doctor backing the confirmation summary.
// On failure the stale-but-valid copy from the list is kept.
func (w *Wizard) refreshSummary(ctx context.Context, doctorID string) {
	doctor, err := w.api.GetDoctor(ctx, doctorID)
	if err != nil {
		w.emit("error", "could not refresh doctor details")
		w.logger.Warn("summary refresh failed", zap.String("doctorId", doctorID), zap.Error(err))
		return
	}
	w.mu.Lock()
	if w.draft.Doctor != nil && w.draft.Doctor.ID == doctorID {
		w.draft.Doctor = doctor
	}
	w.mu.Unlock()
}

// Retreat moves one step back, unconditionally. A no-op on the first step
// and after submission.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepSelectDateTime:
		w.step = StepSelectProvider
	case StepConfirm:
		w.step = StepSelectDateTime
	}
}

// Confirm submits the booking. It requires the confirm step and accepted
// terms. On failure the draft and the step are left untouched so the user
// can retry without re-entering anything; the server's message travels up
// verbatim inside the returned error.
func (w *Wizard) Confirm(ctx context.Context) (*models.Appointment, error) {
	w.mu.Lock()
	if w.step != StepConfirm {
		w.mu.Unlock()
		return nil, &ValidationError{Message: "booking is not ready to confirm"}
	}
	if !w.draft.TermsAccepted {
		w.mu.Unlock()
		return nil, &ValidationError{Field: "terms", Message: "you must accept the terms to book"}
	}
	if w.draft.Doctor == nil || w.draft.Slot == nil {
		w.mu.Unlock()
		return nil, &ValidationError{Message: "booking draft is incomplete"}
	}
	consultationType := w.draft.ConsultationType
	if consultationType == "" {
		consultationType = models.ConsultationVideo
	}
	req := models.BookingRequest{
		DoctorID:        w.draft.Doctor.ID,
		AppointmentDate: w.draft.Slot.Datetime,
		AppointmentType: consultationType,
		ReasonForVisit:  w.draft.ReasonForVisit,
	}
	w.mu.Unlock()

	appt, err := w.api.CreateAppointment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	w.mu.Lock()
	w.step = StepSubmitted
	w.mu.Unlock()
	w.emit("success", "appointment booked successfully")
	return appt, nil
}
