package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
)

// Common request/response structures

// CreateEnrollmentRequest defines the payload for the enrollment
// creation endpoint.
type CreateEnrollmentRequest struct {
	LessonID uuid.UUID `json:"lesson_id" validate:"required"`
	RiderID  uuid.UUID `json:"rider_id"  validate:"required"`
	HorseID  uuid.UUID `json:"horse_id"  validate:"required"`
}

// EnrollmentResponse represents a committed enrollment.
type EnrollmentResponse struct {
	ID        uuid.UUID `json:"id"`
	LessonID  uuid.UUID `json:"lesson_id"`
	RiderID   uuid.UUID `json:"rider_id"`
	HorseID   uuid.UUID `json:"horse_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LessonResponse represents a lesson in listing responses.
type LessonResponse struct {
	ID           uuid.UUID  `json:"id"`
	Level        string     `json:"level"`
	Day          string     `json:"day"`
	Start        string     `json:"start"`
	End          string     `json:"end"`
	InstructorID *uuid.UUID `json:"instructor_id,omitempty"`
}

// HorseResponse represents a horse in listing responses.
type HorseResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Breed        string    `json:"breed,omitempty"`
	Age          int       `json:"age"`
	Available    bool      `json:"available"`
	WorkSessions int       `json:"work_sessions"`
}

// InstructorResponse represents an instructor in listing responses.
type InstructorResponse struct {
	ID          uuid.UUID `json:"id"`
	LastName    string    `json:"last_name"`
	FirstName   string    `json:"first_name"`
	Specialty   string    `json:"specialty,omitempty"`
	DisplayName string    `json:"display_name"`
}

// RiderResponse represents a rider in listing responses.
type RiderResponse struct {
	ID        uuid.UUID `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Age       int       `json:"age"`
}

func enrollmentToResponse(e *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        e.ID,
		LessonID:  e.LessonID,
		RiderID:   e.RiderID,
		HorseID:   e.HorseID,
		CreatedAt: e.CreatedAt,
	}
}

func lessonToResponse(l *domain.Lesson) LessonResponse {
	return LessonResponse{
		ID:           l.ID,
		Level:        l.Level.String(),
		Day:          l.Day.String(),
		Start:        l.Start.String(),
		End:          l.End.String(),
		InstructorID: l.InstructorID,
	}
}

func lessonsToResponse(lessons []*domain.Lesson) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, lessonToResponse(l))
	}
	return out
}

func horsesToResponse(horses []*domain.Horse) []HorseResponse {
	out := make([]HorseResponse, 0, len(horses))
	for _, h := range horses {
		out = append(out, HorseResponse{
			ID:           h.ID,
			Name:         h.Name,
			Breed:        h.Breed,
			Age:          h.Age,
			Available:    h.Available,
			WorkSessions: h.WorkSessions,
		})
	}
	return out
}

func instructorsToResponse(instructors []*domain.Instructor) []InstructorResponse {
	out := make([]InstructorResponse, 0, len(instructors))
	for _, i := range instructors {
		out = append(out, InstructorResponse{
			ID:          i.ID,
			LastName:    i.LastName,
			FirstName:   i.FirstName,
			Specialty:   i.Specialty,
			DisplayName: i.DisplayName(),
		})
	}
	return out
}

func ridersToResponse(riders []*domain.Rider) []RiderResponse {
	out := make([]RiderResponse, 0, len(riders))
	for _, r := range riders {
		out = append(out, RiderResponse{
			ID:        r.ID,
			LastName:  r.LastName,
			FirstName: r.FirstName,
			Age:       r.Age,
		})
	}
	return out
}
