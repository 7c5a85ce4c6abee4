package doctorRepo

import "sahatak/models"

// DoctorRepository defines data access for doctor profiles.
type DoctorRepository interface {
	// GetByID retrieves a doctor by id.
	GetByID(id string) (*models.Doctor, error)
	// ListVerified returns verified doctors, optionally filtered by
	// specialty, ordered by rating then experience (both descending).
	ListVerified(specialty string) ([]models.Doctor, error)
	// Specialties returns the distinct specialty codes of verified doctors.
	Specialties() ([]string, error)
	// Create inserts a new doctor profile.
	Create(doctor *models.Doctor) error
	// Update replaces an existing doctor profile.
	Update(doctor *models.Doctor) error
}
