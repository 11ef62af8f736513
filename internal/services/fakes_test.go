package services

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tutorlink_backend/internal/models"
	chatmodels "tutorlink_backend/internal/models/chat"
	"tutorlink_backend/internal/pkg/email"
	"tutorlink_backend/internal/repositories"
	chatrepo "tutorlink_backend/internal/repositories/chat"
)

// newTestNotificationService builds a real notification service on fakes,
// with email disabled.
func newTestNotificationService(t *testing.T, notifications *fakeNotificationRepo, users *fakeUserRepo) NotificationService {
	t.Helper()
	provider, err := email.NewSMTPProvider(email.Config{Enabled: false})
	require.NoError(t, err)
	return NewNotificationService(notifications, users, provider)
}

// In-memory repository fakes. Services only see the repository interfaces, so
// the whole service layer is testable without a database.

var idCounter int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&idCounter, 1))
}

// ---------------- users ----------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) addUser(role models.UserRole, mutate func(*models.User)) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &models.User{Role: role}
	user.ID = nextID("user")
	user.CreatedAt = time.Now()
	user.Username = user.ID
	user.Email = user.ID + "@example.com"
	user.FullName = "User " + user.ID
	if mutate != nil {
		mutate(user)
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = nextID("user")
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateFields(userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	delete(fields, "password_hash")
	for key, value := range fields {
		switch key {
		case "full_name":
			user.FullName = value.(string)
		case "bio":
			user.Bio = value.(string)
		case "university":
			user.University = value.(string)
		case "program":
			user.Program = value.(string)
		case "semester":
			user.Semester = value.(int)
		case "availability":
			user.Availability = value.(string)
		case "budget":
			budget := value.(float64)
			user.Budget = &budget
		case "profile_image":
			user.ProfileImage = value.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) FindStudents() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, user := range r.users {
		if user.Role == models.UserRoleStudent {
			users = append(users, *user)
		}
	}
	return users, nil
}

// ---------------- tutor profiles ----------------

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.TutorProfile
	users    *fakeUserRepo
}

func newFakeProfileRepo(users *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[string]*models.TutorProfile),
		users:    users,
	}
}

func (r *fakeProfileRepo) Create(profile *models.TutorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.UserID == profile.UserID {
			return repositories.ErrTutorProfileAlreadyExists
		}
	}
	if profile.ID == "" {
		profile.ID = nextID("profile")
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) withUser(profile *models.TutorProfile) *models.TutorProfile {
	copied := *profile
	if r.users != nil {
		if user, err := r.users.FindByID(profile.UserID); err == nil {
			copied.User = user
		}
	}
	return &copied
}

func (r *fakeProfileRepo) FindByID(id string) (*models.TutorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile, ok := r.profiles[id]; ok {
		return r.withUser(profile), nil
	}
	return nil, repositories.ErrTutorProfileNotFound
}

func (r *fakeProfileRepo) FindByUserID(userID string) (*models.TutorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.UserID == userID {
			return r.withUser(profile), nil
		}
	}
	return nil, repositories.ErrTutorProfileNotFound
}

func (r *fakeProfileRepo) Update(profile *models.TutorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return repositories.ErrTutorProfileNotFound
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) UpdateFields(profileID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[profileID]
	if !ok {
		return repositories.ErrTutorProfileNotFound
	}
	delete(fields, "rating")
	delete(fields, "review_count")
	for key, value := range fields {
		switch key {
		case "hourly_rate":
			profile.HourlyRate = value.(float64)
		case "experience":
			profile.Experience = value.(string)
		case "availability":
			profile.Availability = value.(string)
		case "is_available_now":
			profile.IsAvailableNow = value.(bool)
		}
	}
	return nil
}

func (r *fakeProfileRepo) FindAll() ([]models.TutorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var profiles []models.TutorProfile
	for _, profile := range r.profiles {
		profiles = append(profiles, *r.withUser(profile))
	}
	return profiles, nil
}

// ---------------- sessions ----------------

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == "" {
		session.ID = nextID("session")
	}
	session.CreatedAt = time.Now()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByID(id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, repositories.ErrSessionNotFound
}

func (r *fakeSessionRepo) FindByStudent(studentID string, limit, offset int) ([]models.Session, int64, error) {
	return r.findByField(func(s *models.Session) bool { return s.StudentID == studentID })
}

func (r *fakeSessionRepo) FindByTutor(tutorID string, limit, offset int) ([]models.Session, int64, error) {
	return r.findByField(func(s *models.Session) bool { return s.TutorID == tutorID })
}

func (r *fakeSessionRepo) findByField(match func(*models.Session) bool) ([]models.Session, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []models.Session
	for _, session := range r.sessions {
		if match(session) {
			sessions = append(sessions, *session)
		}
	}
	return sessions, int64(len(sessions)), nil
}

func (r *fakeSessionRepo) UpdateStatusIfCurrent(sessionID string, expected, next models.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	if session.Status != expected {
		return repositories.ErrStaleStatus
	}
	session.Status = next
	session.UpdatedAt = time.Now()
	return nil
}

func (r *fakeSessionRepo) UpdatePaymentStatus(sessionID string, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	session.PaymentStatus = status
	return nil
}

func (r *fakeSessionRepo) FindConfirmedStartingWithin(from, to time.Time) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []models.Session
	for _, session := range r.sessions {
		if session.Status == models.SessionStatusConfirmed &&
			session.ReminderSentAt == nil &&
			!session.Date.Before(from) && !session.Date.After(to) {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

func (r *fakeSessionRepo) MarkReminderSent(sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[sessionID]; ok {
		session.ReminderSentAt = &at
	}
	return nil
}

// ---------------- reviews ----------------

type fakeReviewRepo struct {
	mu       sync.Mutex
	reviews  map[string]*models.Review
	profiles *fakeProfileRepo
}

func newFakeReviewRepo(profiles *fakeProfileRepo) *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:  make(map[string]*models.Review),
		profiles: profiles,
	}
}

// CreateAndRecalc mirrors the transactional behavior of the real
// implementation: duplicate check, insert, then rating and count written
// together from a full re-scan.
func (r *fakeReviewRepo) CreateAndRecalc(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles.mu.Lock()
	defer r.profiles.mu.Unlock()

	var profile *models.TutorProfile
	for _, p := range r.profiles.profiles {
		if p.UserID == review.TutorID {
			profile = p
			break
		}
	}
	if profile == nil {
		return repositories.ErrTutorProfileNotFound
	}

	for _, existing := range r.reviews {
		if existing.SessionID == review.SessionID && existing.StudentID == review.StudentID {
			return repositories.ErrReviewAlreadyExists
		}
	}

	if review.ID == "" {
		review.ID = nextID("review")
	}
	review.CreatedAt = time.Now()
	copied := *review
	r.reviews[review.ID] = &copied

	var sum, count float64
	for _, rv := range r.reviews {
		if rv.TutorID == review.TutorID {
			sum += float64(rv.Rating)
			count++
		}
	}
	profile.Rating = math.Round(sum/count*10) / 10
	profile.ReviewCount = int(count)
	return nil
}

func (r *fakeReviewRepo) FindByID(id string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review, ok := r.reviews[id]; ok {
		copied := *review
		return &copied, nil
	}
	return nil, repositories.ErrReviewNotFound
}

func (r *fakeReviewRepo) FindBySessionAndStudent(sessionID, studentID string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.SessionID == sessionID && review.StudentID == studentID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, repositories.ErrReviewNotFound
}

func (r *fakeReviewRepo) FindByTutorWithPagination(tutorID string, page, pageSize int) ([]models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reviews []models.Review
	for _, review := range r.reviews {
		if review.TutorID == tutorID {
			reviews = append(reviews, *review)
		}
	}
	return reviews, int64(len(reviews)), nil
}

// ---------------- notifications ----------------

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == "" {
		notification.ID = nextID("notification")
	}
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) FindByUser(userID string, limit, offset int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) countForUser(userID string) int {
	notifications, _, _ := r.FindByUser(userID, 0, 0)
	return len(notifications)
}

// ---------------- payment methods ----------------

type fakePaymentMethodRepo struct {
	mu      sync.Mutex
	methods map[string]*models.PaymentMethod
}

func newFakePaymentMethodRepo() *fakePaymentMethodRepo {
	return &fakePaymentMethodRepo{methods: make(map[string]*models.PaymentMethod)}
}

func (r *fakePaymentMethodRepo) Create(method *models.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if method.IsDefault {
		for _, existing := range r.methods {
			if existing.UserID == method.UserID {
				existing.IsDefault = false
			}
		}
	}
	if method.ID == "" {
		method.ID = nextID("method")
	}
	method.CreatedAt = time.Now()
	copied := *method
	r.methods[method.ID] = &copied
	return nil
}

func (r *fakePaymentMethodRepo) FindByID(id string) (*models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if method, ok := r.methods[id]; ok {
		copied := *method
		return &copied, nil
	}
	return nil, repositories.ErrPaymentMethodNotFound
}

func (r *fakePaymentMethodRepo) FindByUser(userID string) ([]models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var methods []models.PaymentMethod
	for _, method := range r.methods {
		if method.UserID == userID {
			methods = append(methods, *method)
		}
	}
	return methods, nil
}

func (r *fakePaymentMethodRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[id]; !ok {
		return repositories.ErrPaymentMethodNotFound
	}
	delete(r.methods, id)
	return nil
}

func (r *fakePaymentMethodRepo) SetDefault(userID, methodID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.methods[methodID]
	if !ok || target.UserID != userID {
		return repositories.ErrPaymentMethodNotFound
	}
	for _, method := range r.methods {
		if method.UserID == userID {
			method.IsDefault = method.ID == methodID
		}
	}
	return nil
}

// ---------------- chat ----------------

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*chatmodels.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*chatmodels.Conversation)}
}

func (r *fakeConversationRepo) Create(conversation *chatmodels.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conversation.ID == "" {
		conversation.ID = nextID("conversation")
	}
	conversation.CreatedAt = time.Now()
	copied := *conversation
	r.conversations[conversation.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) FindByID(id string) (*chatmodels.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conversation, ok := r.conversations[id]; ok {
		copied := *conversation
		return &copied, nil
	}
	return nil, chatrepo.ErrConversationNotFound
}

func (r *fakeConversationRepo) FindByParticipants(userA, userB string) (*chatmodels.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if (c.ParticipantOneID == userA && c.ParticipantTwoID == userB) ||
			(c.ParticipantOneID == userB && c.ParticipantTwoID == userA) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, chatrepo.ErrConversationNotFound
}

func (r *fakeConversationRepo) FindByUser(userID string) ([]chatmodels.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var conversations []chatmodels.Conversation
	for _, c := range r.conversations {
		if c.ParticipantOneID == userID || c.ParticipantTwoID == userID {
			conversations = append(conversations, *c)
		}
	}
	return conversations, nil
}

func (r *fakeConversationRepo) TouchLastMessageAt(conversationID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[conversationID]
	if !ok {
		return chatrepo.ErrConversationNotFound
	}
	conversation.LastMessageAt = at
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*chatmodels.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(message *chatmodels.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = nextID("message")
	}
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) FindByConversation(conversationID string, limit, offset int) ([]chatmodels.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []chatmodels.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			messages = append(messages, *m)
		}
	}
	return messages, nil
}

func (r *fakeMessageRepo) MarkReadForReader(conversationID, readerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.ReceiverID == readerID &&
			m.Status != string(models.MessageStatusRead) {
			m.Status = string(models.MessageStatusRead)
			updated++
		}
	}
	return updated, nil
}

func (r *fakeMessageRepo) CountUnreadForReader(conversationID, readerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.ReceiverID == readerID &&
			m.Status != string(models.MessageStatusRead) {
			count++
		}
	}
	return count, nil
}

// ---------------- websocket pusher ----------------

type fakePusher struct {
	mu       sync.Mutex
	payloads map[string][][]byte
}

func newFakePusher() *fakePusher {
	return &fakePusher{payloads: make(map[string][][]byte)}
}

func (p *fakePusher) SendToUser(userID string, payload []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads[userID] = append(p.payloads[userID], payload)
	return true
}
