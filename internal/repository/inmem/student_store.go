package inmem

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aulaflow/scheduler/internal/model"
)

type StudentStore struct {
	db *DB
}

func NewStudentStore(db *DB) *StudentStore {
	return &StudentStore{db: db}
}

func (s *StudentStore) List(ctx context.Context) ([]*model.Student, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*model.Student
	for _, st := range s.db.students {
		out = append(out, cloneStudent(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *StudentStore) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	st, ok := s.db.students[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneStudent(st), nil
}

func (s *StudentStore) Create(ctx context.Context, st *model.Student) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextStudentID++
	st.ID = s.db.nextStudentID
	now := time.Now()
	st.CreatedAt = now
	st.UpdatedAt = now
	s.db.students[st.ID] = cloneStudent(st)
	return nil
}

func (s *StudentStore) Update(ctx context.Context, st *model.Student) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.students[st.ID]; !ok {
		return model.ErrNotFound
	}
	stored := cloneStudent(st)
	stored.UpdatedAt = time.Now()
	s.db.students[st.ID] = stored
	return nil
}

func (s *StudentStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.students[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.db.students, id)
	return nil
}

func (s *StudentStore) Search(ctx context.Context, term string) ([]*model.Student, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	term = strings.ToLower(term)
	var out []*model.Student
	for _, st := range s.db.students {
		if strings.Contains(strings.ToLower(st.Name), term) ||
			strings.Contains(strings.ToLower(st.CPF), term) {
			out = append(out, cloneStudent(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *StudentStore) CPFExists(ctx context.Context, cpf string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, st := range s.db.students {
		if st.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}
