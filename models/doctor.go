package models

import "time"

// DayHours is a doctor's working window on one weekday, as "HH:MM" strings.
type DayHours struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// WeeklyHours maps lowercase weekday names ("monday", ...) to working hours.
// A missing day means the doctor does not consult on that day.
type WeeklyHours map[string]DayHours

// DefaultWeeklyHours is used when a doctor has not configured a schedule.
// Friday and Saturday are the weekend, so they are absent.
func DefaultWeeklyHours() WeeklyHours {
	day := DayHours{Start: "09:00", End: "17:00"}
	return WeeklyHours{
		"sunday":    day,
		"monday":    day,
		"tuesday":   day,
		"wednesday": day,
		"thursday":  day,
	}
}

// Doctor is a bookable medical professional.
type Doctor struct {
	ID                string      `bson:"id" json:"id"`
	UserID            string      `bson:"userId" json:"user_id,omitempty"`
	FullName          string      `bson:"fullName" json:"full_name"`
	Specialty         string      `bson:"specialty" json:"specialty"`
	YearsOfExperience int         `bson:"yearsOfExperience" json:"years_of_experience"`
	// ConsultationFee is nil for volunteer doctors; nil means free, not unknown.
	ConsultationFee *float64    `bson:"consultationFee,omitempty" json:"consultation_fee"`
	Rating          float64     `bson:"rating" json:"rating"`
	TotalReviews    int         `bson:"totalReviews" json:"total_reviews"`
	Bio             string      `bson:"bio,omitempty" json:"bio,omitempty"`
	IsVerified      bool        `bson:"isVerified" json:"is_verified"`
	AvailableHours  WeeklyHours `bson:"availableHours,omitempty" json:"available_hours,omitempty"`
	CreatedAt       time.Time   `bson:"createdAt" json:"created_at"`
}

// IsFree reports whether consultations with this doctor carry no fee.
func (d *Doctor) IsFree() bool {
	return d.ConsultationFee == nil || *d.ConsultationFee == 0
}
