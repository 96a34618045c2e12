// Package directory manages the school's teacher and student records and
// resolves identities for the booking engine.
package directory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/model"
)

// TeacherStore is the durable storage behind the teacher directory.
type TeacherStore interface {
	List(ctx context.Context, onlyActive bool) ([]*model.Teacher, error)
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	Create(ctx context.Context, t *model.Teacher) error
	Update(ctx context.Context, t *model.Teacher) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]*model.Teacher, error)
	CPFExists(ctx context.Context, cpf string) (bool, error)
}

type TeacherInput struct {
	CPF       string
	Name      string
	BirthDate *time.Time
	Specialty string
	Active    *bool
}

type TeacherService struct {
	store  TeacherStore
	logger *zap.Logger
}

func NewTeacherService(store TeacherStore, logger *zap.Logger) *TeacherService {
	return &TeacherService{store: store, logger: logger}
}

func (s *TeacherService) List(ctx context.Context) ([]*model.Teacher, error) {
	return s.store.List(ctx, false)
}

// ListActive returns only teachers currently accepting sessions.
func (s *TeacherService) ListActive(ctx context.Context) ([]*model.Teacher, error) {
	return s.store.List(ctx, true)
}

func (s *TeacherService) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	return s.store.GetByID(ctx, id)
}

// Search matches name, CPF or specialty, case-insensitively.
func (s *TeacherService) Search(ctx context.Context, term string) ([]*model.Teacher, error) {
	return s.store.Search(ctx, term)
}

func (s *TeacherService) Create(ctx context.Context, in TeacherInput) (*model.Teacher, error) {
	exists, err := s.store.CPFExists(ctx, in.CPF)
	if err != nil {
		return nil, fmt.Errorf("check teacher cpf: %w", err)
	}
	if exists {
		return nil, model.ErrCPFExists
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	t := &model.Teacher{
		CPF:       in.CPF,
		Name:      in.Name,
		BirthDate: in.BirthDate,
		Specialty: in.Specialty,
		Active:    active,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}

	s.logger.Info("teacher created", zap.Int64("teacher_id", t.ID), zap.String("name", t.Name))

	return t, nil
}

// Update replaces the teacher's mutable fields. CPF is fixed at creation.
func (s *TeacherService) Update(ctx context.Context, id int64, in TeacherInput) (*model.Teacher, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Name = in.Name
	t.BirthDate = in.BirthDate
	t.Specialty = in.Specialty
	if in.Active != nil {
		t.Active = *in.Active
	}

	if err := s.store.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update teacher: %w", err)
	}

	s.logger.Info("teacher updated", zap.Int64("teacher_id", t.ID))

	return t, nil
}

func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("teacher deleted", zap.Int64("teacher_id", id))
	return nil
}
