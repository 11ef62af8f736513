package workers

import (
	"context"
	"fmt"
	"time"

	"tutorlink_backend/internal/logger"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/repositories"
	"tutorlink_backend/internal/services"
)

// ReminderWorker periodically sweeps confirmed sessions starting soon and
// notifies both participants once per session. ReminderSentAt on the session
// row is the dedup marker, so restarts never double-send.
type ReminderWorker struct {
	sessionRepo     repositories.SessionRepository
	notificationSvc services.NotificationService
	interval        time.Duration
	lookahead       time.Duration
}

func NewReminderWorker(
	sessionRepo repositories.SessionRepository,
	notificationSvc services.NotificationService,
	interval, lookahead time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		sessionRepo:     sessionRepo,
		notificationSvc: notificationSvc,
		interval:        interval,
		lookahead:       lookahead,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ReminderWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("reminder worker started",
		"interval", w.interval.String(), "lookahead", w.lookahead.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *ReminderWorker) sweep() {
	now := time.Now()
	sessions, err := w.sessionRepo.FindConfirmedStartingWithin(now, now.Add(w.lookahead))
	if err != nil {
		logger.Error("reminder sweep failed", "error", err)
		return
	}

	for i := range sessions {
		w.remind(&sessions[i])
	}
}

func (w *ReminderWorker) remind(session *models.Session) {
	when := describeStart(session)

	for _, userID := range []string{session.StudentID, session.TutorID} {
		if err := w.notificationSvc.NotifySessionReminder(userID, session.ID, session.Subject, when); err != nil {
			logger.Warn("reminder notification failed",
				"session_id", session.ID, "user_id", userID, "error", err)
			return
		}
	}

	if err := w.sessionRepo.MarkReminderSent(session.ID, time.Now()); err != nil {
		logger.Warn("failed to mark reminder sent", "session_id", session.ID, "error", err)
	}
}

func describeStart(session *models.Session) string {
	day := session.Date.Format("Jan 2")
	if session.StartTime != "" {
		return fmt.Sprintf("on %s at %s", day, session.StartTime)
	}
	return "on " + day
}
