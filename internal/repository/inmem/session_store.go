package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aulaflow/scheduler/internal/model"
)

type SessionStore struct {
	db *DB
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) InsertGuarded(ctx context.Context, sess *model.Session, maxPerDay int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	day := sess.Day()
	count := 0
	for _, existing := range s.db.sessions {
		if existing.TeacherID == sess.TeacherID &&
			existing.Status == model.StatusScheduled &&
			existing.Day().Equal(day) {
			count++
		}
	}
	if count >= maxPerDay {
		return model.ErrDailyCapReached
	}

	now := time.Now()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	s.db.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	sess, ok := s.db.sessions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := cloneSession(sess)
	s.db.resolveDisplay(out)
	return out, nil
}

func (s *SessionStore) Update(ctx context.Context, sess *model.Session) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.sessions[sess.ID]; !ok {
		return model.ErrNotFound
	}
	stored := cloneSession(sess)
	stored.UpdatedAt = time.Now()
	s.db.sessions[sess.ID] = stored
	return nil
}

func (s *SessionStore) List(ctx context.Context, status *model.Status) ([]*model.Session, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*model.Session
	for _, sess := range s.db.sessions {
		if status != nil && sess.Status != *status {
			continue
		}
		c := cloneSession(sess)
		s.db.resolveDisplay(c)
		out = append(out, c)
	}
	// newest day first, within a day ascending by start time
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Day(), out[j].Day()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (s *SessionStore) CountByTeacherAndDay(ctx context.Context, teacherID int64, day time.Time, status model.Status) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	day = model.DayOf(day)
	count := 0
	for _, sess := range s.db.sessions {
		if sess.TeacherID == teacherID && sess.Status == status && sess.Day().Equal(day) {
			count++
		}
	}
	return count, nil
}

func (s *SessionStore) ScheduledOn(ctx context.Context, teacherID int64, day time.Time) ([]*model.Session, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	day = model.DayOf(day)
	var out []*model.Session
	for _, sess := range s.db.sessions {
		if sess.TeacherID == teacherID && sess.Status == model.StatusScheduled && sess.Day().Equal(day) {
			c := cloneSession(sess)
			s.db.resolveDisplay(c)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (s *SessionStore) HistoryBefore(ctx context.Context, teacherID int64, day time.Time, limit int) ([]*model.Session, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	day = model.DayOf(day)
	var out []*model.Session
	for _, sess := range s.db.sessions {
		if sess.TeacherID != teacherID {
			continue
		}
		if sess.Day().Before(day) || sess.Status == model.StatusFinalized {
			c := cloneSession(sess)
			s.db.resolveDisplay(c)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
