package repository

import (
	"context"

	"github.com/ivanoskov/fintrack/internal/model"
)

// ExpenseInput — поля расхода, передаваемые хранилищу при создании и
// обновлении. Идентификатор и created_at назначает сервер.
type ExpenseInput struct {
	Name       string
	Amount     float64
	CategoryID string // пусто — расход без категории (NULL в хранилище)
	Date       string // YYYY-MM-DD
}

type Store interface {
	// Профили
	GetProfiles(ctx context.Context) ([]model.Profile, error)
	GetProfile(ctx context.Context, profileID string) (*model.Profile, error)
	CreateProfile(ctx context.Context, ownerUserID, name, currency string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profileID, name, currency string) error
	DeleteProfile(ctx context.Context, profileID string) error

	// Категории
	GetCategories(ctx context.Context, profileID string) ([]model.Category, error)
	CreateCategory(ctx context.Context, profileID string, category model.Category) (*model.Category, error)
	CreateCategories(ctx context.Context, profileID string, categories []model.Category) ([]model.Category, error)
	DeleteCategory(ctx context.Context, categoryID, profileID string) error
	DeleteCategories(ctx context.Context, profileID string) error
	// ReassignExpenses переводит все расходы категории fromID на категорию toID.
	ReassignExpenses(ctx context.Context, profileID, fromID, toID string) error

	// Месячная статистика (бюджет/доход)
	GetMonthlyStats(ctx context.Context, profileID string) ([]model.MonthlyStat, error)
	UpsertMonthlyStat(ctx context.Context, profileID string, stat model.MonthlyStat) error
	CreateMonthlyStats(ctx context.Context, profileID string, stats []model.MonthlyStat) error
	DeleteMonthlyStats(ctx context.Context, profileID string) error

	// Расходы
	GetExpenses(ctx context.Context, profileID string) ([]model.Expense, error)
	CreateExpense(ctx context.Context, profileID string, input ExpenseInput) (*model.Expense, error)
	CreateExpenses(ctx context.Context, profileID string, inputs []ExpenseInput) error
	// UpdateExpense возвращает (nil, nil), если строка не найдена или
	// принадлежит другому профилю — это не ошибка.
	UpdateExpense(ctx context.Context, expenseID, profileID string, input ExpenseInput) (*model.Expense, error)
	DeleteExpense(ctx context.Context, expenseID, profileID string) error
	DeleteExpenses(ctx context.Context, profileID string) error
}
