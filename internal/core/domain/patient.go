package domain

import "github.com/google/uuid"

type Patient struct {
	ID       uuid.UUID `json:"id"`
	IDNumber string    `json:"idNumber"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
}
