package wizard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"sahatak/models"
)

// RefreshAvailability re-runs the advisory availability scan for the
// currently selected doctor and pushes the result into the calendar.
func (w *Wizard) RefreshAvailability(ctx context.Context) error {
	w.mu.Lock()
	if w.draft.Doctor == nil {
		w.mu.Unlock()
		return &ValidationError{Field: "provider", Message: "select a doctor first"}
	}
	doctor := *w.draft.Doctor
	gen := w.scanGen
	w.mu.Unlock()
	return w.scanAvailability(ctx, doctor, gen)
}

// scanAvailability probes the booking window day by day, marking a day
// available when at least one of its slots is free. Probes run on a small
// bounded pool and are paced by the wizard's limiter. Individual day
// failures are skipped, never aborting the scan. The result is applied
// only if the doctor selection has not changed underneath it.
func (w *Wizard) scanAvailability(ctx context.Context, doctor models.Doctor, gen uint64) error {
	today := models.Midnight(w.now())
	found := make([]bool, w.window)

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup
	for i := 0; i < w.window; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			key := models.NewDateKey(today.AddDate(0, 0, offset))
			slots, err := w.api.GetAvailability(ctx, doctor.ID, key)
			if err != nil {
				w.logger.Debug("day probe failed",
					zap.String("doctorId", doctor.ID),
					zap.String("date", key.String()),
					zap.Error(err))
				return
			}
			for _, s := range slots {
				if s.Available {
					found[offset] = true
					break
				}
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	var available []models.DateKey
	for i, ok := range found {
		if ok {
			available = append(available, models.NewDateKey(today.AddDate(0, 0, i)))
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scanGen != gen || w.draft.Doctor == nil || w.draft.Doctor.ID != doctor.ID {
		// A newer selection owns the calendar now; drop this result.
		return nil
	}
	w.cal.SetAvailableDates(available)
	return nil
}
