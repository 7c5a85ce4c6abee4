package appointmentRepo

import (
	"time"

	"sahatak/models"
)

// AppointmentRepository defines data access for appointments.
type AppointmentRepository interface {
	// Create inserts a new appointment.
	Create(appt *models.Appointment) error
	// GetByID retrieves an appointment by id.
	GetByID(id string) (*models.Appointment, error)
	// ListByPatient returns a patient's appointments, newest first.
	ListByPatient(patientID string) ([]models.Appointment, error)
	// FindActiveAt returns the active appointment occupying the given
	// start instant for a doctor, or nil when the slot is free.
	FindActiveAt(doctorID string, at time.Time) (*models.Appointment, error)
	// ListActiveBetween returns a doctor's active appointments within
	// [from, to).
	ListActiveBetween(doctorID string, from, to time.Time) ([]models.Appointment, error)
	// Update replaces an existing appointment.
	Update(appt *models.Appointment) error
}
