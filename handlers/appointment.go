package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appointmentRepo "sahatak/database/repository/appointment"
	doctorRepo "sahatak/database/repository/doctor"
	"sahatak/middleware"
	"sahatak/models"
	"sahatak/services/notification"
	"sahatak/services/scheduling"
	"sahatak/utils"
)

// cancellationCutoff is how close to the start an appointment may still
// be cancelled or rescheduled.
const cancellationCutoff = time.Hour

// AppointmentHandler exposes booking creation and management.
type AppointmentHandler struct {
	Appointments appointmentRepo.AppointmentRepository
	Doctors      doctorRepo.DoctorRepository
	Engine       scheduling.Engine
	Notifier     notification.NotificationService
	Now          func() time.Time
}

// NewAppointmentHandler creates an AppointmentHandler.
func NewAppointmentHandler(
	appointments appointmentRepo.AppointmentRepository,
	doctors doctorRepo.DoctorRepository,
	engine scheduling.Engine,
	notifier notification.NotificationService,
) *AppointmentHandler {
	return &AppointmentHandler{
		Appointments: appointments,
		Doctors:      doctors,
		Engine:       engine,
		Notifier:     notifier,
		Now:          time.Now,
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// Create books a new appointment. The consultation fee is copied from the
// doctor's profile at booking time; a taken slot is a 409.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if !req.AppointmentType.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "appointment_type must be video, audio or chat", "")
		return
	}

	doctor, err := h.Doctors.GetByID(req.DoctorID)
	if err != nil || !doctor.IsVerified {
		utils.JSONError(c, http.StatusBadRequest, "doctor not found or not available", "")
		return
	}

	when := req.AppointmentDate.UTC()
	if !when.After(h.Now().UTC()) {
		utils.JSONError(c, http.StatusBadRequest, "appointment must be scheduled in the future", "")
		return
	}

	existing, err := h.Appointments.FindActiveAt(doctor.ID, when)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create appointment", err.Error())
		return
	}
	if existing != nil {
		utils.JSONError(c, http.StatusConflict, "this time slot is already booked", "")
		return
	}

	now := h.Now().UTC()
	appt := models.Appointment{
		ID:              uuid.New().String(),
		PatientID:       callerID(c),
		DoctorID:        doctor.ID,
		DoctorName:      doctor.FullName,
		AppointmentDate: when,
		Type:            req.AppointmentType,
		Status:          models.StatusScheduled,
		ReasonForVisit:  req.ReasonForVisit,
		ConsultationFee: doctor.ConsultationFee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.Appointments.Create(&appt); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create appointment", err.Error())
		return
	}

	h.Engine.Invalidate(c.Request.Context(), doctor.ID, models.NewDateKey(when))
	h.notifyCreated(appt)

	utils.GetLogger().Info("appointment created",
		zap.String("appointmentId", appt.ID),
		zap.String("doctorId", doctor.ID),
		zap.String("patientId", appt.PatientID))
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

// List returns the caller's appointments, newest first.
func (h *AppointmentHandler) List(c *gin.Context) {
	appts, err := h.Appointments.ListByPatient(callerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// Get returns one appointment, owner only.
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.Appointments.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "appointment not found", "")
		return
	}
	if appt.PatientID != callerID(c) {
		utils.JSONError(c, http.StatusForbidden, "access denied", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// Cancel marks an appointment cancelled. Cancellation closes one hour
// before the scheduled start.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	appt, err := h.Appointments.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "appointment not found", "")
		return
	}
	if appt.PatientID != callerID(c) {
		utils.JSONError(c, http.StatusForbidden, "access denied", "")
		return
	}
	if appt.Status == models.StatusCompleted || appt.Status == models.StatusCancelled {
		utils.JSONError(c, http.StatusBadRequest, "cannot cancel an appointment that is already "+string(appt.Status), "")
		return
	}
	if !appt.AppointmentDate.After(h.Now().UTC().Add(cancellationCutoff)) {
		utils.JSONError(c, http.StatusBadRequest, "cannot cancel appointments less than 1 hour before scheduled time", "")
		return
	}

	var req models.CancelRequest
	_ = c.ShouldBindJSON(&req)

	appt.Status = models.StatusCancelled
	if req.CancellationReason != "" {
		appt.Notes = req.CancellationReason
	}
	appt.UpdatedAt = h.Now().UTC()
	if err := h.Appointments.Update(appt); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel appointment", err.Error())
		return
	}

	h.Engine.Invalidate(c.Request.Context(), appt.DoctorID, models.NewDateKey(appt.AppointmentDate))
	h.notifyCancelled(*appt)
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// Reschedule moves an appointment to a new future slot, with the same
// conflict rules as Create. The status resets to scheduled.
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	appt, err := h.Appointments.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "appointment not found", "")
		return
	}
	if appt.PatientID != callerID(c) {
		utils.JSONError(c, http.StatusForbidden, "access denied", "")
		return
	}
	switch appt.Status {
	case models.StatusCompleted, models.StatusCancelled, models.StatusInProgress:
		utils.JSONError(c, http.StatusBadRequest, "cannot reschedule an appointment that is "+string(appt.Status), "")
		return
	}

	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	when := req.NewAppointmentDate.UTC()
	if !when.After(h.Now().UTC()) {
		utils.JSONError(c, http.StatusBadRequest, "new appointment must be scheduled in the future", "")
		return
	}

	existing, err := h.Appointments.FindActiveAt(appt.DoctorID, when)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to reschedule appointment", err.Error())
		return
	}
	if existing != nil && existing.ID != appt.ID {
		utils.JSONError(c, http.StatusConflict, "the new time slot is already booked", "")
		return
	}

	oldDate := appt.AppointmentDate
	appt.AppointmentDate = when
	appt.Status = models.StatusScheduled
	if req.RescheduleReason != "" {
		appt.Notes = req.RescheduleReason
	}
	appt.UpdatedAt = h.Now().UTC()
	if err := h.Appointments.Update(appt); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to reschedule appointment", err.Error())
		return
	}

	h.Engine.Invalidate(c.Request.Context(), appt.DoctorID, models.NewDateKey(oldDate))
	h.Engine.Invalidate(c.Request.Context(), appt.DoctorID, models.NewDateKey(when))
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) notifyCreated(appt models.Appointment) {
	if h.Notifier == nil {
		return
	}
	go h.Notifier.NotifyAppointmentCreated(context.Background(), &appt)
}

func (h *AppointmentHandler) notifyCancelled(appt models.Appointment) {
	if h.Notifier == nil {
		return
	}
	go h.Notifier.NotifyAppointmentCancelled(context.Background(), &appt)
}
