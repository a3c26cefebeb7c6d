package ledger

import (
	"context"
	"strings"

	"github.com/ivanoskov/fintrack/internal/model"
	"github.com/ivanoskov/fintrack/internal/repository"
)

// ExpenseInput — поля расхода, приходящие от слоя представления.
type ExpenseInput struct {
	Name       string
	Amount     float64
	CategoryID string
	Date       string // пусто — сегодняшний день
}

// ExpenseChange — результат добавления или изменения расхода. MonthKey
// сообщает, в какую корзину расход попал: вызывающая сторона предупреждает
// пользователя, если это не просматриваемый месяц.
type ExpenseChange struct {
	Expense  model.Expense
	MonthKey string
}

func (l *Ledger) validateExpenseInput(input *ExpenseInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return validationf("expense name is required")
	}
	if input.Amount <= 0 {
		return validationf("expense amount must be positive")
	}
	if input.Date == "" {
		input.Date = l.now().Format("2006-01-02")
	}
	return nil
}

// AddExpense создаёт расход на сервере и добавляет его в начало корзины
// месяца, выведенного из даты (корзина создаётся при необходимости).
func (l *Ledger) AddExpense(ctx context.Context, input ExpenseInput) (*ExpenseChange, error) {
	if err := l.requireActiveProfile(); err != nil {
		return nil, err
	}
	if err := l.validateExpenseInput(&input); err != nil {
		return nil, err
	}

	created, err := l.store.CreateExpense(ctx, l.activeProfileID, repository.ExpenseInput{
		Name:       input.Name,
		Amount:     input.Amount,
		CategoryID: input.CategoryID,
		Date:       input.Date,
	})
	if err != nil {
		return nil, err
	}

	key := created.MonthKey()
	bucket := l.ensureMonth(key)
	bucket.Expenses = append([]model.Expense{*created}, bucket.Expenses...)
	return &ExpenseChange{Expense: *created, MonthKey: key}, nil
}

// UpdateExpense правит расход на сервере. Возвращает (nil, nil), если строки
// уже нет или она принадлежит другому профилю — это восстановимое "не
// найдено", а не ошибка. При смене даты расход переезжает между корзинами.
func (l *Ledger) UpdateExpense(ctx context.Context, id string, input ExpenseInput) (*ExpenseChange, error) {
	if err := l.requireActiveProfile(); err != nil {
		return nil, err
	}
	if err := l.validateExpenseInput(&input); err != nil {
		return nil, err
	}

	updated, err := l.store.UpdateExpense(ctx, id, l.activeProfileID, repository.ExpenseInput{
		Name:       input.Name,
		Amount:     input.Amount,
		CategoryID: input.CategoryID,
		Date:       input.Date,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	// Ищем по всем корзинам: дата могла смениться на другой месяц.
	l.removeFromBuckets(id)
	key := updated.MonthKey()
	bucket := l.ensureMonth(key)
	bucket.Expenses = append([]model.Expense{*updated}, bucket.Expenses...)
	return &ExpenseChange{Expense: *updated, MonthKey: key}, nil
}

// RemoveExpense удаляет расход на сервере и из корзины, где бы он ни лежал.
func (l *Ledger) RemoveExpense(ctx context.Context, id string) error {
	if err := l.requireActiveProfile(); err != nil {
		return err
	}
	if err := l.store.DeleteExpense(ctx, id, l.activeProfileID); err != nil {
		return err
	}
	l.removeFromBuckets(id)
	return nil
}

func (l *Ledger) removeFromBuckets(id string) {
	for _, bucket := range l.months {
		kept := bucket.Expenses[:0]
		for _, expense := range bucket.Expenses {
			if expense.ID != id {
				kept = append(kept, expense)
			}
		}
		bucket.Expenses = kept
	}
}

// Expenses возвращает копию списка расходов просматриваемого месяца.
// Только зеркало, без обращений к хранилищу.
func (l *Ledger) Expenses() []model.Expense {
	bucket := l.ensureMonth(l.currentMonth)
	expenses := make([]model.Expense, len(bucket.Expenses))
	copy(expenses, bucket.Expenses)
	return expenses
}

// ExpenseByID ищет расход сначала в просматриваемом месяце, затем по всем
// корзинам. Возвращает nil, если расход не найден.
func (l *Ledger) ExpenseByID(id string) *model.Expense {
	for _, expense := range l.ensureMonth(l.currentMonth).Expenses {
		if expense.ID == id {
			found := expense
			return &found
		}
	}
	for _, bucket := range l.months {
		for _, expense := range bucket.Expenses {
			if expense.ID == id {
				found := expense
				return &found
			}
		}
	}
	return nil
}
