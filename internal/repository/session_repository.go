package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aulaflow/scheduler/internal/model"
)

// SessionRepository persists sessions in Postgres. Every read joins the
// directory tables so callers get display data in one round trip.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `
	s.id, s.teacher_id, s.student_id, s.scheduled_at, s.content, s.status,
	s.notes, s.created_at, s.updated_at,
	t.name, t.specialty, st.name, st.whatsapp
`

const sessionJoin = `
	FROM sessions s
	JOIN teachers t ON t.id = s.teacher_id
	JOIN students st ON st.id = s.student_id
`

func scanSession(row pgx.Row) (*model.Session, error) {
	var sess model.Session
	err := row.Scan(
		&sess.ID,
		&sess.TeacherID,
		&sess.StudentID,
		&sess.ScheduledAt,
		&sess.Content,
		&sess.Status,
		&sess.Notes,
		&sess.CreatedAt,
		&sess.UpdatedAt,
		&sess.TeacherName,
		&sess.TeacherSpecialty,
		&sess.StudentName,
		&sess.StudentWhatsApp,
	)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func collectSessions(rows pgx.Rows) ([]*model.Session, error) {
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// InsertGuarded inserts the session only if the teacher is below maxPerDay
// scheduled sessions on the session's calendar day. Count and insert run in
// one transaction serialized by an advisory lock on (teacher, day), so two
// concurrent creates cannot both pass the count.
func (r *SessionRepository) InsertGuarded(ctx context.Context, sess *model.Session, maxPerDay int) error {
	day := sess.Day()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockKey := fmt.Sprintf("sessions:%d:%s", sess.TeacherID, day.Format("2006-01-02"))
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return fmt.Errorf("acquire day lock: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM sessions
		WHERE teacher_id = $1 AND scheduled_on = $2 AND status = $3
	`, sess.TeacherID, day, model.StatusScheduled).Scan(&count)
	if err != nil {
		return fmt.Errorf("count sessions for day: %w", err)
	}

	if count >= maxPerDay {
		return model.ErrDailyCapReached
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO sessions (id, teacher_id, student_id, scheduled_at, scheduled_on, content, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`,
		sess.ID,
		sess.TeacherID,
		sess.StudentID,
		sess.ScheduledAt,
		day,
		sess.Content,
		sess.Status,
		sess.Notes,
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+sessionJoin+` WHERE s.id = $1`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}
	return sess, nil
}

func (r *SessionRepository) Update(ctx context.Context, sess *model.Session) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET teacher_id = $1,
		    student_id = $2,
		    scheduled_at = $3,
		    scheduled_on = $4,
		    content = $5,
		    status = $6,
		    notes = $7,
		    updated_at = now()
		WHERE id = $8
	`,
		sess.TeacherID,
		sess.StudentID,
		sess.ScheduledAt,
		sess.Day(),
		sess.Content,
		sess.Status,
		sess.Notes,
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// List returns all sessions, newest day first and within a day ascending by
// start time, optionally filtered by status.
func (r *SessionRepository) List(ctx context.Context, status *model.Status) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + sessionJoin
	args := []any{}
	if status != nil {
		query += ` WHERE s.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY s.scheduled_on DESC, s.scheduled_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return collectSessions(rows)
}

func (r *SessionRepository) CountByTeacherAndDay(ctx context.Context, teacherID int64, day time.Time, status model.Status) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM sessions
		WHERE teacher_id = $1 AND scheduled_on = $2 AND status = $3
	`, teacherID, model.DayOf(day), status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// ScheduledOn returns the teacher's scheduled sessions on the given day,
// ascending by start time.
func (r *SessionRepository) ScheduledOn(ctx context.Context, teacherID int64, day time.Time) ([]*model.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+sessionJoin+`
		WHERE s.teacher_id = $1 AND s.scheduled_on = $2 AND s.status = $3
		ORDER BY s.scheduled_at ASC
	`, teacherID, day, model.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("list sessions for day: %w", err)
	}
	return collectSessions(rows)
}

// HistoryBefore returns the teacher's past work: sessions dated before day
// or already finalized, most recent first, capped at limit.
func (r *SessionRepository) HistoryBefore(ctx context.Context, teacherID int64, day time.Time, limit int) ([]*model.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+sessionJoin+`
		WHERE s.teacher_id = $1 AND (s.scheduled_on < $2 OR s.status = $3)
		ORDER BY s.scheduled_on DESC, s.scheduled_at DESC
		LIMIT $4
	`, teacherID, day, model.StatusFinalized, limit)
	if err != nil {
		return nil, fmt.Errorf("list session history: %w", err)
	}
	return collectSessions(rows)
}
