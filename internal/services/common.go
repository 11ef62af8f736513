package services

import (
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/services/dto"
)

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	resp := &dto.UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		FullName:     user.FullName,
		Bio:          user.Bio,
		University:   user.University,
		Program:      user.Program,
		Semester:     user.Semester,
		Subjects:     user.Subjects,
		Availability: user.Availability,
		Budget:       user.Budget,
		ProfileImage: user.ProfileImage,
		JoinedAt:     user.CreatedAt,
	}
	if user.TutorProfile != nil {
		resp.TutorProfile = buildTutorProfileResponse(user.TutorProfile, false)
	}
	return resp
}

// buildTutorProfileResponse optionally embeds the owning user (withUser is
// false when the profile is already nested inside a UserResponse).
func buildTutorProfileResponse(profile *models.TutorProfile, withUser bool) *dto.TutorProfileResponse {
	if profile == nil {
		return nil
	}
	resp := &dto.TutorProfileResponse{
		ID:             profile.ID,
		UserID:         profile.UserID,
		Subjects:       profile.Subjects,
		HourlyRate:     profile.HourlyRate,
		Experience:     profile.Experience,
		Availability:   profile.Availability,
		IsAvailableNow: profile.IsAvailableNow,
		Rating:         profile.Rating,
		ReviewCount:    profile.ReviewCount,
	}
	if withUser && profile.User != nil {
		user := *profile.User
		user.TutorProfile = nil
		resp.User = buildUserResponse(&user)
	}
	return resp
}

func buildSessionResponse(session *models.Session) *dto.SessionResponse {
	if session == nil {
		return nil
	}
	resp := &dto.SessionResponse{
		ID:            session.ID,
		StudentID:     session.StudentID,
		TutorID:       session.TutorID,
		Subject:       session.Subject,
		SessionType:   session.SessionType,
		Date:          session.Date,
		StartTime:     session.StartTime,
		Duration:      session.Duration,
		TotalAmount:   session.TotalAmount,
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		Description:   session.Description,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
	if session.Student != nil {
		resp.StudentName = session.Student.FullName
	}
	if session.Tutor != nil {
		resp.TutorName = session.Tutor.FullName
	}
	return resp
}
