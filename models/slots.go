package models

import "time"

// AvailabilitySlot is one bookable 30-minute window of a doctor's day.
// Start and End are display times ("10:00"); Datetime is the exact start
// instant used when creating the appointment.
type AvailabilitySlot struct {
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Datetime  time.Time `json:"datetime"`
	Available bool      `json:"available"`
}

// DayAvailability is the availability endpoint's payload for one doctor/day.
type DayAvailability struct {
	Date       DateKey            `json:"date"`
	DoctorID   string             `json:"doctor_id"`
	DoctorName string             `json:"doctor_name,omitempty"`
	Slots      []AvailabilitySlot `json:"available_slots"`
}
