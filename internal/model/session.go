package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is one scheduled tutoring booking between a teacher and a student.
// Sessions are never deleted: cancellation and finalization are terminal
// statuses, not removals.
type Session struct {
	ID          uuid.UUID `json:"id"`
	TeacherID   int64     `json:"teacher_id"`
	StudentID   int64     `json:"student_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Content     string    `json:"content"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"` // set at finalization only
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Display data resolved from the directory (not stored on the session row)
	TeacherName      string `json:"teacher_name,omitempty"`
	TeacherSpecialty string `json:"teacher_specialty,omitempty"`
	StudentName      string `json:"student_name,omitempty"`
	StudentWhatsApp  string `json:"student_whatsapp,omitempty"`
}

// Day returns the calendar day of the session start, midnight in the
// instant's own location. All day arithmetic in the scheduler goes through
// Day/DayOf so the timezone policy stays in one place.
func (s *Session) Day() time.Time {
	return DayOf(s.ScheduledAt)
}

// DayOf truncates t to midnight, preserving its location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
