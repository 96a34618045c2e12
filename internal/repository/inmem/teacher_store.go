package inmem

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aulaflow/scheduler/internal/model"
)

type TeacherStore struct {
	db *DB
}

func NewTeacherStore(db *DB) *TeacherStore {
	return &TeacherStore{db: db}
}

func (s *TeacherStore) List(ctx context.Context, onlyActive bool) ([]*model.Teacher, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*model.Teacher
	for _, t := range s.db.teachers {
		if onlyActive && !t.Active {
			continue
		}
		out = append(out, cloneTeacher(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *TeacherStore) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.teachers[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneTeacher(t), nil
}

func (s *TeacherStore) Create(ctx context.Context, t *model.Teacher) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextTeacherID++
	t.ID = s.db.nextTeacherID
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.db.teachers[t.ID] = cloneTeacher(t)
	return nil
}

func (s *TeacherStore) Update(ctx context.Context, t *model.Teacher) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.teachers[t.ID]; !ok {
		return model.ErrNotFound
	}
	stored := cloneTeacher(t)
	stored.UpdatedAt = time.Now()
	s.db.teachers[t.ID] = stored
	return nil
}

func (s *TeacherStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.teachers[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.db.teachers, id)
	return nil
}

func (s *TeacherStore) Search(ctx context.Context, term string) ([]*model.Teacher, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	term = strings.ToLower(term)
	var out []*model.Teacher
	for _, t := range s.db.teachers {
		if strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.CPF), term) ||
			strings.Contains(strings.ToLower(t.Specialty), term) {
			out = append(out, cloneTeacher(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *TeacherStore) CPFExists(ctx context.Context, cpf string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, t := range s.db.teachers {
		if t.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}
