package models

import "time"

// ConsultationType is how the consultation is held.
type ConsultationType string

const (
	ConsultationVideo ConsultationType = "video"
	ConsultationAudio ConsultationType = "audio"
	ConsultationChat  ConsultationType = "chat"
)

// Valid reports whether t is one of the supported consultation types.
func (t ConsultationType) Valid() bool {
	switch t {
	case ConsultationVideo, ConsultationAudio, ConsultationChat:
		return true
	}
	return false
}

// AppointmentStatus tracks an appointment through its lifecycle.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// ActiveStatuses are the statuses that occupy a time slot.
func ActiveStatuses() []AppointmentStatus {
	return []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusInProgress}
}

// Appointment is a confirmed (or past) booking between a patient and a doctor.
type Appointment struct {
	ID              string            `bson:"id" json:"id"`
	PatientID       string            `bson:"patientId" json:"patient_id"`
	DoctorID        string            `bson:"doctorId" json:"doctor_id"`
	DoctorName      string            `bson:"doctorName,omitempty" json:"doctor_name,omitempty"`
	AppointmentDate time.Time         `bson:"appointmentDate" json:"appointment_date"`
	Type            ConsultationType  `bson:"type" json:"appointment_type"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	ReasonForVisit  string            `bson:"reasonForVisit,omitempty" json:"reason_for_visit,omitempty"`
	// ConsultationFee is copied from the doctor at booking time; nil means free.
	ConsultationFee *float64  `bson:"consultationFee,omitempty" json:"consultation_fee"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updated_at"`
}

// BookingRequest is the payload for creating an appointment.
type BookingRequest struct {
	DoctorID        string           `json:"doctor_id" binding:"required"`
	AppointmentDate time.Time        `json:"appointment_date" binding:"required"`
	AppointmentType ConsultationType `json:"appointment_type" binding:"required"`
	ReasonForVisit  string           `json:"reason_for_visit,omitempty"`
}

// RescheduleRequest moves an existing appointment to a new start time.
type RescheduleRequest struct {
	NewAppointmentDate time.Time `json:"new_appointment_date" binding:"required"`
	RescheduleReason   string    `json:"reschedule_reason,omitempty"`
}

// CancelRequest optionally records why the patient cancelled.
type CancelRequest struct {
	CancellationReason string `json:"cancellation_reason,omitempty"`
}
