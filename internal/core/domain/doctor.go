package domain

import "github.com/google/uuid"

// LineUserID - идентификатор пользователя LINE из встроенного webview.
// Передается явно в каждую операцию, которая ходит в API клиники, никаких глобалов.
type LineUserID string

type Doctor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
}
