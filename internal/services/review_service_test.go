package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type reviewFixture struct {
	users         *fakeUserRepo
	profiles      *fakeProfileRepo
	sessions      *fakeSessionRepo
	reviews       *fakeReviewRepo
	notifications *fakeNotificationRepo
	svc           ReviewService

	student *models.User
	tutor   *models.User
	profile *models.TutorProfile
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	users := newFakeUserRepo()
	profiles := newFakeProfileRepo(users)
	sessions := newFakeSessionRepo()
	reviews := newFakeReviewRepo(profiles)
	notifications := newFakeNotificationRepo()
	notificationSvc := newTestNotificationService(t, notifications, users)

	f := &reviewFixture{
		users:         users,
		profiles:      profiles,
		sessions:      sessions,
		reviews:       reviews,
		notifications: notifications,
		svc:           NewReviewService(reviews, sessions, profiles, notificationSvc),
	}

	f.student = users.addUser(models.UserRoleStudent, nil)
	f.tutor = users.addUser(models.UserRoleTutor, nil)
	f.profile = &models.TutorProfile{
		UserID:     f.tutor.ID,
		HourlyRate: 1000,
	}
	require.NoError(t, profiles.Create(f.profile))

	return f
}

func (f *reviewFixture) addSession(t *testing.T, status models.SessionStatus) *models.Session {
	t.Helper()
	session := &models.Session{
		StudentID: f.student.ID,
		TutorID:   f.tutor.ID,
		Subject:   "Calculus",
		Date:      time.Now().Add(-24 * time.Hour),
		Duration:  60,
		Status:    status,
	}
	require.NoError(t, f.sessions.Create(session))
	return session
}

func TestSubmitReview_UpdatesAggregateAtomically(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	session := f.addSession(t, models.SessionStatusCompleted)

	review, err := f.svc.SubmitReview(f.student.ID, &dto.CreateReviewRequest{
		SessionID: session.ID,
		Rating:    5,
		Comment:   "Clear explanations",
	})
	require.NoError(t, err)
	assert.Equal(t, f.tutor.ID, review.TutorID)

	rating, err := f.svc.GetTutorRating(f.tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, rating.Rating)
	assert.Equal(t, 1, rating.ReviewCount)
}

func TestSubmitReview_AverageRoundedToOneDecimal(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)

	ratings := []int{5, 4, 4} // avg 4.333...

	for _, r := range ratings {
		student := f.users.addUser(models.UserRoleStudent, nil)
		session := &models.Session{
			StudentID: student.ID,
			TutorID:   f.tutor.ID,
			Subject:   "Calculus",
			Date:      time.Now(),
			Duration:  60,
			Status:    models.SessionStatusCompleted,
		}
		require.NoError(t, f.sessions.Create(session))

		_, err := f.svc.SubmitReview(student.ID, &dto.CreateReviewRequest{
			SessionID: session.ID,
			Rating:    r,
		})
		require.NoError(t, err)
	}

	rating, err := f.svc.GetTutorRating(f.tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rating.Rating)
	assert.Equal(t, 3, rating.ReviewCount)
}

func TestSubmitReview_RequiresCompletedSession(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)

	for _, status := range []models.SessionStatus{
		models.SessionStatusPending,
		models.SessionStatusConfirmed,
		models.SessionStatusCancelled,
	} {
		session := f.addSession(t, status)
		_, err := f.svc.SubmitReview(f.student.ID, &dto.CreateReviewRequest{
			SessionID: session.ID,
			Rating:    5,
		})
		assertCode(t, err, apperrors.CodeInvalidStatus)
	}
}

func TestSubmitReview_OnlySessionStudent(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	session := f.addSession(t, models.SessionStatusCompleted)
	otherStudent := f.users.addUser(models.UserRoleStudent, nil)

	_, err := f.svc.SubmitReview(otherStudent.ID, &dto.CreateReviewRequest{
		SessionID: session.ID,
		Rating:    5,
	})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestSubmitReview_DuplicateLeavesAggregateUntouched(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	session := f.addSession(t, models.SessionStatusCompleted)

	_, err := f.svc.SubmitReview(f.student.ID, &dto.CreateReviewRequest{
		SessionID: session.ID,
		Rating:    5,
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitReview(f.student.ID, &dto.CreateReviewRequest{
		SessionID: session.ID,
		Rating:    1,
	})
	assertCode(t, err, apperrors.CodeConflict)

	rating, err := f.svc.GetTutorRating(f.tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, rating.Rating)
	assert.Equal(t, 1, rating.ReviewCount)
}

func TestSubmitReview_UnknownSession(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)

	_, err := f.svc.SubmitReview(f.student.ID, &dto.CreateReviewRequest{
		SessionID: "missing",
		Rating:    5,
	})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestSubmitReview_NotifiesTutor(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	session := f.addSession(t, models.SessionStatusCompleted)

	before := f.notifications.countForUser(f.tutor.ID)
	_, err := f.svc.SubmitReview(f.student.ID, &dto.CreateReviewRequest{
		SessionID: session.ID,
		Rating:    4,
	})
	require.NoError(t, err)

	assert.Equal(t, before+1, f.notifications.countForUser(f.tutor.ID))
}

func TestGetTutorReviews_Pagination(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	session := f.addSession(t, models.SessionStatusCompleted)

	_, err := f.svc.SubmitReview(f.student.ID, &dto.CreateReviewRequest{
		SessionID: session.ID,
		Rating:    5,
	})
	require.NoError(t, err)

	list, err := f.svc.GetTutorReviews(f.tutor.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Len(t, list.Reviews, 1)
	assert.Equal(t, 1, list.TotalPages)
}
