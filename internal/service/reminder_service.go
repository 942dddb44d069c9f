package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/notification"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// Appointments starting in [now+reminderLead-reminderWindow, now+reminderLead) get a reminder.
const (
	reminderLead   = 24 * time.Hour
	reminderWindow = time.Hour
)

type ReminderService interface {
	// Start schedules the job in the background. Stop must be called on shutdown.
	Start() error
	Stop()
	// SendDueReminders runs one pass and returns the number of reminders sent.
	SendDueReminders(ctx context.Context) (int, error)
}

type reminderService struct {
	tx              repository.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	notifier        notification.Notifier
	interval        time.Duration
	scheduler       *gocron.Scheduler
	now             func() time.Time
}

func NewReminderService(
	tx repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	notifier notification.Notifier,
	interval time.Duration,
) ReminderService {
	return &reminderService{
		tx:              tx,
		log:             log,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		interval:        interval,
		now:             time.Now,
	}
}

func (s *reminderService) Start() error {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()

		sent, err := s.SendDueReminders(ctx)
		if err != nil {
			s.log.Errorf("Appointment reminder run failed: %+v", err)
			return
		}
		if sent > 0 {
			s.log.Infof("Sent %d appointment reminder(s)", sent)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}

	scheduler.StartAsync()
	s.scheduler = scheduler
	s.log.Infof("Appointment reminder job started, every %s", s.interval)
	return nil
}

func (s *reminderService) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
		s.log.Info("Appointment reminder job stopped")
	}
}

func (s *reminderService) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now().UTC()
	to := now.Add(reminderLead)
	from := to.Add(-reminderWindow)

	appointments, err := s.appointmentRepo.FindDueForReminder(ctx, s.tx.DB(ctx), from, to)
	if err != nil {
		s.log.Warnf("Failed to find appointments due for reminder: %+v", err)
		return 0, err
	}

	sent := 0
	for _, a := range appointments {
		token := a.Patient.User.DeviceToken()
		if token != "" {
			msg := notification.Message{
				Token: token,
				Title: "Appointment reminder",
				Body: fmt.Sprintf("You have an appointment with Dr. %s on %s",
					a.Doctor.User.FullName(), a.Date.UTC().Format("Mon 02 Jan 15:04 MST")),
				Data: map[string]string{
					"type":           "appointment_reminder",
					"appointment_id": a.ID.String(),
				},
			}
			if err := s.notifier.Send(ctx, msg); err != nil {
				// Left unmarked so the next run retries.
				s.log.Warnf("Failed to send reminder for appointment %s: %+v", a.ID, err)
				continue
			}
			sent++
		}

		if err := s.appointmentRepo.MarkReminderSent(ctx, s.tx.DB(ctx), a.ID, now); err != nil {
			s.log.Warnf("Failed to mark reminder sent for appointment %s: %+v", a.ID, err)
		}
	}

	return sent, nil
}
