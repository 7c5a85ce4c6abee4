// Package scheduling computes the bookable slot grid for a doctor's day:
// 30-minute windows between the doctor's working hours for that weekday,
// with slots occupied by an active appointment marked unavailable.
package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	appointmentRepo "sahatak/database/repository/appointment"
	"sahatak/models"
	"sahatak/utils"
)

// SlotDuration is the fixed consultation slot length.
const SlotDuration = 30 * time.Minute

// Engine produces per-day availability grids.
type Engine interface {
	DayAvailability(ctx context.Context, doctor *models.Doctor, date models.DateKey) ([]models.AvailabilitySlot, error)
	Invalidate(ctx context.Context, doctorID string, date models.DateKey)
}

// DefaultEngine is the production implementation. Cache may be nil, in
// which case every call recomputes from the appointment store.
type DefaultEngine struct {
	Appointments appointmentRepo.AppointmentRepository
	Cache        *redis.Client
	CacheTTL     time.Duration
}

func cacheKey(doctorID string, date models.DateKey) string {
	return fmt.Sprintf("availability:%s:%s", doctorID, date)
}

// DayAvailability returns the slot grid for the doctor on the given day.
// A day outside the doctor's working days yields an empty grid, not an
// error. Cache failures degrade to recomputation.
func (e *DefaultEngine) DayAvailability(ctx context.Context, doctor *models.Doctor, date models.DateKey) ([]models.AvailabilitySlot, error) {
	logger := utils.GetLogger()

	if e.Cache != nil {
		if raw, err := e.Cache.Get(ctx, cacheKey(doctor.ID, date)).Result(); err == nil {
			var slots []models.AvailabilitySlot
			if err := json.Unmarshal([]byte(raw), &slots); err == nil {
				return slots, nil
			}
		}
	}

	day, err := date.Time()
	if err != nil {
		return nil, err
	}

	hours := doctor.AvailableHours
	if len(hours) == 0 {
		hours = models.DefaultWeeklyHours()
	}
	dayName := strings.ToLower(day.Weekday().String())
	window, works := hours[dayName]
	if !works {
		return []models.AvailabilitySlot{}, nil
	}

	start, err := combine(day, window.Start)
	if err != nil {
		return nil, fmt.Errorf("doctor %s has malformed hours for %s: %w", doctor.ID, dayName, err)
	}
	end, err := combine(day, window.End)
	if err != nil {
		return nil, fmt.Errorf("doctor %s has malformed hours for %s: %w", doctor.ID, dayName, err)
	}

	booked, err := e.bookedTimes(doctor.ID, day)
	if err != nil {
		return nil, err
	}

	var slots []models.AvailabilitySlot
	for cur := start; cur.Add(SlotDuration).Before(end) || cur.Add(SlotDuration).Equal(end); cur = cur.Add(SlotDuration) {
		label := cur.Format("15:04")
		slots = append(slots, models.AvailabilitySlot{
			Start:     label,
			End:       cur.Add(SlotDuration).Format("15:04"),
			Datetime:  cur,
			Available: !booked[label],
		})
	}

	if e.Cache != nil {
		if raw, err := json.Marshal(slots); err == nil {
			if err := e.Cache.Set(ctx, cacheKey(doctor.ID, date), raw, e.CacheTTL).Err(); err != nil {
				logger.Warn("availability cache write failed",
					zap.String("doctorId", doctor.ID), zap.Error(err))
			}
		}
	}
	return slots, nil
}

// bookedTimes collects the "HH:MM" start times occupied by active
// appointments on the given day.
func (e *DefaultEngine) bookedTimes(doctorID string, day time.Time) (map[string]bool, error) {
	appts, err := e.Appointments.ListActiveBetween(doctorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s: %w", doctorID, err)
	}
	booked := make(map[string]bool, len(appts))
	for _, a := range appts {
		booked[a.AppointmentDate.UTC().Format("15:04")] = true
	}
	return booked, nil
}

// Invalidate drops the cached grid for a doctor/day, called after any
// write that changes occupancy.
func (e *DefaultEngine) Invalidate(ctx context.Context, doctorID string, date models.DateKey) {
	if e.Cache == nil {
		return
	}
	if err := e.Cache.Del(ctx, cacheKey(doctorID, date)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed",
			zap.String("doctorId", doctorID), zap.Error(err))
	}
}

// combine attaches an "HH:MM" wall time to a calendar day in UTC.
func combine(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
