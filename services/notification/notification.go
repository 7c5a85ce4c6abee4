// Package notification sends best-effort FCM pushes for appointment
// lifecycle events. Failures are logged and swallowed: a missed push must
// never fail the booking it announces.
package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	userRepo "sahatak/database/repository/user"
	"sahatak/models"
	"sahatak/utils"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	NotifyAppointmentCreated(ctx context.Context, appt *models.Appointment)
	NotifyAppointmentCancelled(ctx context.Context, appt *models.Appointment)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

// NotifyAppointmentCreated pushes a confirmation to the patient.
func (s *DefaultNotificationService) NotifyAppointmentCreated(ctx context.Context, appt *models.Appointment) {
	body := fmt.Sprintf("Your %s consultation on %s is booked.",
		appt.Type, appt.AppointmentDate.Format("Jan 2 at 15:04"))
	s.push(ctx, appt.PatientID, "Appointment booked", body, map[string]string{
		"type":          "appointment_created",
		"appointmentId": appt.ID,
	})
}

// NotifyAppointmentCancelled pushes a cancellation notice to the patient.
func (s *DefaultNotificationService) NotifyAppointmentCancelled(ctx context.Context, appt *models.Appointment) {
	body := fmt.Sprintf("Your appointment on %s was cancelled.",
		appt.AppointmentDate.Format("Jan 2 at 15:04"))
	s.push(ctx, appt.PatientID, "Appointment cancelled", body, map[string]string{
		"type":          "appointment_cancelled",
		"appointmentId": appt.ID,
	})
}

func (s *DefaultNotificationService) push(ctx context.Context, userID, title, body string, data map[string]string) {
	logger := utils.GetLogger()
	if utils.FCMClient == nil {
		return
	}

	u, err := s.Users.GetByID(userID)
	if err != nil {
		logger.Warn("push skipped: user lookup failed", zap.String("userId", userID), zap.Error(err))
		return
	}
	if u.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		logger.Warn("push send failed", zap.String("userId", userID), zap.Error(err))
	}
}
