package model

import "time"

type Teacher struct {
	ID        int64      `json:"id"`
	CPF       string     `json:"cpf"`
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Specialty string     `json:"specialty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
