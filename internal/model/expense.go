package model

import "time"

// Expense — один расход профиля. Месяц, к которому он относится,
// всегда выводится только из поля Date.
type Expense struct {
	ID         string
	Name       string
	Amount     float64
	CategoryID string // пусто после ON DELETE SET NULL на стороне хранилища
	Date       string // календарный день в формате YYYY-MM-DD
	CreatedAt  time.Time
}

// MonthKeyFromDate выводит ключ месяца (YYYY-MM) из даты расхода.
func MonthKeyFromDate(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthKey возвращает ключ месячной корзины, которой принадлежит расход.
func (e Expense) MonthKey() string {
	return MonthKeyFromDate(e.Date)
}
