package repositories

import (
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorlink_backend/internal/models"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this session")
)

type ReviewRepository interface {
	// CreateAndRecalc inserts the review and recomputes the tutor profile's
	// rating and review count in the same transaction. The tutor profile row
	// is locked for the duration so concurrent submissions for the same
	// tutor serialize instead of racing the read-modify-write.
	CreateAndRecalc(review *models.Review) error

	FindByID(id string) (*models.Review, error)
	FindBySessionAndStudent(sessionID, studentID string) (*models.Review, error)
	FindByTutorWithPagination(tutorID string, page, pageSize int) ([]models.Review, int64, error)
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) CreateAndRecalc(review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var profile models.TutorProfile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&profile, "user_id = ?", review.TutorID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTutorProfileNotFound
			}
			return err
		}

		// Duplicate check inside the transaction; the composite unique index
		// on (session_id, student_id) backs it up.
		var existing models.Review
		err = tx.Where("session_id = ? AND student_id = ?", review.SessionID, review.StudentID).
			First(&existing).Error
		if err == nil {
			return ErrReviewAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			return err
		}

		// Full re-scan recompute, the simple and auditable form. Rating and
		// count are written together so they can never drift apart.
		var agg struct {
			Avg   float64
			Count int64
		}
		err = tx.Model(&models.Review{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("tutor_id = ?", review.TutorID).
			Scan(&agg).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.TutorProfile{}).
			Where("id = ?", profile.ID).
			Updates(map[string]interface{}{
				"rating":       math.Round(agg.Avg*10) / 10,
				"review_count": agg.Count,
			}).Error
	})
}

func (r *ReviewRepositoryImpl) FindByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindBySessionAndStudent(sessionID, studentID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("session_id = ? AND student_id = ?", sessionID, studentID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByTutorWithPagination(tutorID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.Model(&models.Review{}).Where("tutor_id = ?", tutorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&reviews).Error
	return reviews, total, err
}
