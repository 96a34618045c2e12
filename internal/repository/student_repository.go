package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aulaflow/scheduler/internal/model"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, cpf, name, birth_date, cep, street, number, district, city, state, phone, whatsapp, email, created_at, updated_at`

func scanStudent(row pgx.Row) (*model.Student, error) {
	var st model.Student
	err := row.Scan(
		&st.ID,
		&st.CPF,
		&st.Name,
		&st.BirthDate,
		&st.CEP,
		&st.Street,
		&st.Number,
		&st.District,
		&st.City,
		&st.State,
		&st.Phone,
		&st.WhatsApp,
		&st.Email,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]*model.Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return collectStudents(rows)
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)

	st, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}
	return st, nil
}

func (r *StudentRepository) Create(ctx context.Context, st *model.Student) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO students (cpf, name, birth_date, cep, street, number, district, city, state, phone, whatsapp, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`,
		st.CPF, st.Name, st.BirthDate,
		st.CEP, st.Street, st.Number, st.District, st.City, st.State,
		st.Phone, st.WhatsApp, st.Email,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, st *model.Student) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE students
		SET name = $1, birth_date = $2, cep = $3, street = $4, number = $5,
		    district = $6, city = $7, state = $8, phone = $9, whatsapp = $10,
		    email = $11, updated_at = now()
		WHERE id = $12
	`,
		st.Name, st.BirthDate,
		st.CEP, st.Street, st.Number, st.District, st.City, st.State,
		st.Phone, st.WhatsApp, st.Email, st.ID,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *StudentRepository) Search(ctx context.Context, term string) ([]*model.Student, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE name ILIKE $1 OR cpf ILIKE $1
		ORDER BY name ASC
	`, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return collectStudents(rows)
}

func (r *StudentRepository) CPFExists(ctx context.Context, cpf string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE cpf = $1)`, cpf).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check student cpf: %w", err)
	}
	return exists, nil
}

func collectStudents(rows pgx.Rows) ([]*model.Student, error) {
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, st)
	}
	return students, rows.Err()
}
