package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aulaflow/scheduler/internal/model"
)

type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

const teacherColumns = `id, cpf, name, birth_date, specialty, active, created_at, updated_at`

func scanTeacher(row pgx.Row) (*model.Teacher, error) {
	var t model.Teacher
	err := row.Scan(
		&t.ID,
		&t.CPF,
		&t.Name,
		&t.BirthDate,
		&t.Specialty,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeacherRepository) List(ctx context.Context, onlyActive bool) ([]*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return collectTeachers(rows)
}

func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)

	t, err := scanTeacher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}
	return t, nil
}

func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO teachers (cpf, name, birth_date, specialty, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, t.CPF, t.Name, t.BirthDate, t.Specialty, t.Active).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE teachers
		SET name = $1, birth_date = $2, specialty = $3, active = $4, updated_at = now()
		WHERE id = $5
	`, t.Name, t.BirthDate, t.Specialty, t.Active, t.ID)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *TeacherRepository) Search(ctx context.Context, term string) ([]*model.Teacher, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+teacherColumns+`
		FROM teachers
		WHERE name ILIKE $1 OR cpf ILIKE $1 OR specialty ILIKE $1
		ORDER BY name ASC
	`, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("search teachers: %w", err)
	}
	return collectTeachers(rows)
}

func (r *TeacherRepository) CPFExists(ctx context.Context, cpf string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE cpf = $1)`, cpf).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check teacher cpf: %w", err)
	}
	return exists, nil
}

func collectTeachers(rows pgx.Rows) ([]*model.Teacher, error) {
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}
