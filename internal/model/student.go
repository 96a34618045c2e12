package model

import "time"

type Student struct {
	ID        int64      `json:"id"`
	CPF       string     `json:"cpf"`
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`

	// Address (CEP lookup happens client-side, we only store the result)
	CEP      string `json:"cep,omitempty"`
	Street   string `json:"street,omitempty"`
	Number   string `json:"number,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`

	Phone    string `json:"phone,omitempty"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
