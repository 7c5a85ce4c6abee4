package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	doctorRepo "sahatak/database/repository/doctor"
	"sahatak/utils"
)

// DoctorHandler exposes the doctor directory.
type DoctorHandler struct {
	Doctors doctorRepo.DoctorRepository
}

// NewDoctorHandler creates a DoctorHandler.
func NewDoctorHandler(doctors doctorRepo.DoctorRepository) *DoctorHandler {
	return &DoctorHandler{Doctors: doctors}
}

// ListDoctors returns verified doctors, optionally filtered by specialty,
// ordered by rating then experience.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.Doctors.ListVerified(c.Query("specialty"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load doctors", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// GetDoctor returns one doctor's full profile.
func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	doctor, err := h.Doctors.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "doctor not found", "")
		return
	}
	if !doctor.IsVerified {
		utils.JSONError(c, http.StatusNotFound, "doctor not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": doctor})
}

// ListSpecialties returns the distinct specialty codes.
func (h *DoctorHandler) ListSpecialties(c *gin.Context) {
	specialties, err := h.Doctors.Specialties()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load specialties", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"specialties": specialties})
}
