package model

import "time"

// Profile представляет изолированную "книгу" пользователя: свои категории,
// бюджеты и расходы. Идентификатор назначается удалённым хранилищем.
type Profile struct {
	ID        string
	Name      string
	Currency  string
	CreatedAt time.Time
}
