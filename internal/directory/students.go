package directory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/model"
)

// StudentStore is the durable storage behind the student directory.
type StudentStore interface {
	List(ctx context.Context) ([]*model.Student, error)
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	Create(ctx context.Context, st *model.Student) error
	Update(ctx context.Context, st *model.Student) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]*model.Student, error)
	CPFExists(ctx context.Context, cpf string) (bool, error)
}

type StudentInput struct {
	CPF       string
	Name      string
	BirthDate *time.Time
	CEP       string
	Street    string
	Number    string
	District  string
	City      string
	State     string
	Phone     string
	WhatsApp  string
	Email     string
}

type StudentService struct {
	store  StudentStore
	logger *zap.Logger
}

func NewStudentService(store StudentStore, logger *zap.Logger) *StudentService {
	return &StudentService{store: store, logger: logger}
}

func (s *StudentService) List(ctx context.Context) ([]*model.Student, error) {
	return s.store.List(ctx)
}

func (s *StudentService) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	return s.store.GetByID(ctx, id)
}

// Search matches name or CPF, case-insensitively.
func (s *StudentService) Search(ctx context.Context, term string) ([]*model.Student, error) {
	return s.store.Search(ctx, term)
}

func (s *StudentService) Create(ctx context.Context, in StudentInput) (*model.Student, error) {
	exists, err := s.store.CPFExists(ctx, in.CPF)
	if err != nil {
		return nil, fmt.Errorf("check student cpf: %w", err)
	}
	if exists {
		return nil, model.ErrCPFExists
	}

	st := &model.Student{
		CPF:       in.CPF,
		Name:      in.Name,
		BirthDate: in.BirthDate,
		CEP:       in.CEP,
		Street:    in.Street,
		Number:    in.Number,
		District:  in.District,
		City:      in.City,
		State:     in.State,
		Phone:     in.Phone,
		WhatsApp:  in.WhatsApp,
		Email:     in.Email,
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info("student created", zap.Int64("student_id", st.ID), zap.String("name", st.Name))

	return st, nil
}

// Update replaces the student's mutable fields. CPF is fixed at creation.
func (s *StudentService) Update(ctx context.Context, id int64, in StudentInput) (*model.Student, error) {
	st, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	st.Name = in.Name
	st.BirthDate = in.BirthDate
	st.CEP = in.CEP
	st.Street = in.Street
	st.Number = in.Number
	st.District = in.District
	st.City = in.City
	st.State = in.State
	st.Phone = in.Phone
	st.WhatsApp = in.WhatsApp
	st.Email = in.Email

	if err := s.store.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}

	s.logger.Info("student updated", zap.Int64("student_id", st.ID))

	return st, nil
}

func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}
