package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/config"
	"github.com/aulaflow/scheduler/internal/model"
)

// teacherHistoryLimit caps the history half of the teacher day view. The
// admin frontend shows exactly the ten most recent past lessons.
const teacherHistoryLimit = 10

// SessionStore is the durable session storage the engine runs against.
// InsertGuarded must perform the daily-capacity count and the insert as one
// atomic unit, so concurrent creates cannot both pass the count.
type SessionStore interface {
	InsertGuarded(ctx context.Context, sess *model.Session, maxPerDay int) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Update(ctx context.Context, sess *model.Session) error
	List(ctx context.Context, status *model.Status) ([]*model.Session, error)
	CountByTeacherAndDay(ctx context.Context, teacherID int64, day time.Time, status model.Status) (int, error)
	ScheduledOn(ctx context.Context, teacherID int64, day time.Time) ([]*model.Session, error)
	HistoryBefore(ctx context.Context, teacherID int64, day time.Time, limit int) ([]*model.Session, error)
}

// TeacherDirectory resolves teacher identities.
type TeacherDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
}

// StudentDirectory resolves student identities.
type StudentDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.Student, error)
}

// Service validates and executes session lifecycle transitions:
// create, reschedule, cancel, finalize. It never caches session state
// between calls; every operation re-reads before mutating.
type Service struct {
	sessions SessionStore
	teachers TeacherDirectory
	students StudentDirectory
	maxDaily int
	minLead  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	sessions SessionStore,
	teachers TeacherDirectory,
	students StudentDirectory,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		teachers: teachers,
		students: students,
		maxDaily: cfg.MaxDailySessions,
		minLead:  cfg.MinLeadTime,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateInput struct {
	TeacherID   int64
	StudentID   int64
	ScheduledAt time.Time
	Content     string
}

// Patch carries the reschedule fields; nil means "keep the current value".
type Patch struct {
	TeacherID   *int64
	StudentID   *int64
	ScheduledAt *time.Time
	Content     *string
}

// TeacherDay is the dual view a teacher works from: today's scheduled
// lessons in start-time order, and the most recent past lessons.
type TeacherDay struct {
	Today   []*model.Session `json:"today"`
	History []*model.Session `json:"history"`
}

// Create books a new session. The teacher and student must exist, the start
// must be more than the minimum lead time away, and the teacher must be
// below the daily cap on the session's calendar day.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Session, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, &Error{Kind: KindValidation, Msg: "content is required"}
	}

	teacher, err := s.teachers.GetByID(ctx, in.TeacherID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Msg: "teacher not found"}
		}
		return nil, unavailable("load teacher", err)
	}

	student, err := s.students.GetByID(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Msg: "student not found"}
		}
		return nil, unavailable("load student", err)
	}

	if err := s.checkLeadTime(in.ScheduledAt); err != nil {
		return nil, err
	}

	sess := &model.Session{
		ID:          uuid.New(),
		TeacherID:   in.TeacherID,
		StudentID:   in.StudentID,
		ScheduledAt: in.ScheduledAt,
		Content:     in.Content,
		Status:      model.StatusScheduled,
	}

	if err := s.sessions.InsertGuarded(ctx, sess, s.maxDaily); err != nil {
		if errors.Is(err, model.ErrDailyCapReached) {
			return nil, &Error{
				Kind: KindCapacity,
				Msg:  fmt.Sprintf("teacher already has %d sessions scheduled for this day", s.maxDaily),
			}
		}
		return nil, unavailable("insert session", err)
	}

	sess.TeacherName = teacher.Name
	sess.TeacherSpecialty = teacher.Specialty
	sess.StudentName = student.Name
	sess.StudentWhatsApp = student.WhatsApp

	s.logger.Info("session scheduled",
		zap.String("session_id", sess.ID.String()),
		zap.Int64("teacher_id", sess.TeacherID),
		zap.Int64("student_id", sess.StudentID),
		zap.Time("scheduled_at", sess.ScheduledAt),
	)

	return sess, nil
}

// Reschedule applies the patch to a scheduled session. A new start time is
// held to the same lead-time rule as Create, evaluated against now. The
// daily cap is deliberately not re-checked when a session moves days.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, patch Patch) (*model.Session, error) {
	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status.Terminal() {
		return nil, terminalState("reschedule", sess.Status)
	}

	if patch.ScheduledAt != nil {
		if err := s.checkLeadTime(*patch.ScheduledAt); err != nil {
			return nil, err
		}
		sess.ScheduledAt = *patch.ScheduledAt
	}

	if patch.TeacherID != nil && *patch.TeacherID != sess.TeacherID {
		if _, err := s.teachers.GetByID(ctx, *patch.TeacherID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, &Error{Kind: KindNotFound, Msg: "teacher not found"}
			}
			return nil, unavailable("load teacher", err)
		}
		sess.TeacherID = *patch.TeacherID
	}

	if patch.StudentID != nil && *patch.StudentID != sess.StudentID {
		if _, err := s.students.GetByID(ctx, *patch.StudentID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, &Error{Kind: KindNotFound, Msg: "student not found"}
			}
			return nil, unavailable("load student", err)
		}
		sess.StudentID = *patch.StudentID
	}

	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return nil, &Error{Kind: KindValidation, Msg: "content is required"}
		}
		sess.Content = *patch.Content
	}

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, unavailable("update session", err)
	}

	s.logger.Info("session rescheduled", zap.String("session_id", id.String()))

	return s.get(ctx, id)
}

// Cancel marks a scheduled session cancelled. Cancelled and finalized
// sessions are both rejected, with distinct messages: a finalized lesson is
// a business-rule error, a repeated cancel is a no-op attempt.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sess.Status {
	case model.StatusFinalized:
		return nil, &Error{Kind: KindTerminalState, Msg: "cannot cancel a finalized session"}
	case model.StatusCancelled:
		return nil, &Error{Kind: KindTerminalState, Msg: "session is already cancelled"}
	}

	sess.Status = model.StatusCancelled
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, unavailable("update session", err)
	}

	s.logger.Info("session cancelled", zap.String("session_id", id.String()))

	return s.get(ctx, id)
}

// Finalize closes a scheduled session with the teacher's notes.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID, notes string) (*model.Session, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, &Error{Kind: KindValidation, Msg: "notes are required to finalize a session"}
	}

	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status.Terminal() {
		return nil, terminalState("finalize", sess.Status)
	}

	sess.Status = model.StatusFinalized
	sess.Notes = notes
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, unavailable("update session", err)
	}

	s.logger.Info("session finalized", zap.String("session_id", id.String()))

	return s.get(ctx, id)
}

// Get returns a single session with display data resolved.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	return s.get(ctx, id)
}

// List returns all sessions, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *model.Status) ([]*model.Session, error) {
	out, err := s.sessions.List(ctx, status)
	if err != nil {
		return nil, unavailable("list sessions", err)
	}
	return out, nil
}

// Day returns the teacher's dual view for the given reference date:
// scheduled sessions on that day ascending by start time, and up to ten
// sessions that are either dated before it or already finalized,
// descending by date.
func (s *Service) Day(ctx context.Context, teacherID int64, ref time.Time) (*TeacherDay, error) {
	if _, err := s.teachers.GetByID(ctx, teacherID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Msg: "teacher not found"}
		}
		return nil, unavailable("load teacher", err)
	}

	day := model.DayOf(ref)

	today, err := s.sessions.ScheduledOn(ctx, teacherID, day)
	if err != nil {
		return nil, unavailable("list today sessions", err)
	}
	history, err := s.sessions.HistoryBefore(ctx, teacherID, day, teacherHistoryLimit)
	if err != nil {
		return nil, unavailable("list session history", err)
	}

	if today == nil {
		today = []*model.Session{}
	}
	if history == nil {
		history = []*model.Session{}
	}

	return &TeacherDay{Today: today, History: history}, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Msg: "session not found"}
		}
		return nil, unavailable("load session", err)
	}
	return sess, nil
}

// checkLeadTime enforces the strict minimum-notice rule: a start exactly at
// the boundary is rejected ("more than", not "at least").
func (s *Service) checkLeadTime(at time.Time) error {
	if at.Sub(s.now()) > s.minLead {
		return nil
	}
	return &Error{
		Kind: KindLeadTime,
		Msg:  fmt.Sprintf("sessions must be booked more than %s in advance", s.minLead),
	}
}

func terminalState(op string, status model.Status) error {
	return &Error{
		Kind: KindTerminalState,
		Msg:  fmt.Sprintf("cannot %s a %s session", op, status),
	}
}

func unavailable(op string, err error) error {
	return &Error{Kind: KindUnavailable, Msg: "session store unavailable", Err: fmt.Errorf("%s: %w", op, err)}
}
