package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sahatak/config"
	doctorRepo "sahatak/database/repository/doctor"
	"sahatak/models"
	"sahatak/services/scheduling"
	"sahatak/utils"
)

// AvailabilityHandler exposes the per-day slot grid.
type AvailabilityHandler struct {
	Doctors doctorRepo.DoctorRepository
	Engine  scheduling.Engine
	Now     func() time.Time
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(doctors doctorRepo.DoctorRepository, engine scheduling.Engine) *AvailabilityHandler {
	return &AvailabilityHandler{Doctors: doctors, Engine: engine, Now: time.Now}
}

// GetDoctorAvailability returns the 30-minute slot grid for one doctor on
// one day. The date defaults to today; past dates and dates beyond the
// configured booking window are rejected.
func (h *AvailabilityHandler) GetDoctorAvailability(c *gin.Context) {
	doctor, err := h.Doctors.GetByID(c.Param("id"))
	if err != nil || !doctor.IsVerified {
		utils.JSONError(c, http.StatusNotFound, "doctor not found", "")
		return
	}

	today := models.NewDateKey(h.Now().UTC())
	date := today
	if raw := c.Query("date"); raw != "" {
		date = models.DateKey(raw)
		if !date.Valid() {
			utils.JSONError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", "")
			return
		}
	}
	if string(date) < string(today) {
		utils.JSONError(c, http.StatusBadRequest, "cannot book appointments in the past", "")
		return
	}
	if window := config.AppConfig.BookingWindowDays; window > 0 {
		limit := models.NewDateKey(h.Now().UTC().AddDate(0, 0, window-1))
		if string(date) > string(limit) {
			utils.JSONError(c, http.StatusBadRequest,
				fmt.Sprintf("cannot book appointments more than %d days ahead", window), "")
			return
		}
	}

	slots, err := h.Engine.DayAvailability(c.Request.Context(), doctor, date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.DayAvailability{
		Date:       date,
		DoctorID:   doctor.ID,
		DoctorName: doctor.FullName,
		Slots:      slots,
	})
}
