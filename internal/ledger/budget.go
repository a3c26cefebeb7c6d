package ledger

import (
	"context"
	"math"

	"github.com/ivanoskov/fintrack/internal/model"
)

// SetBudget сохраняет бюджет просматриваемого месяца. Отрицательные
// значения прижимаются к нулю.
func (l *Ledger) SetBudget(ctx context.Context, amount float64) error {
	if err := l.requireActiveProfile(); err != nil {
		return err
	}

	bucket := l.ensureMonth(l.currentMonth)
	budget := math.Max(0, amount)

	err := l.store.UpsertMonthlyStat(ctx, l.activeProfileID, model.MonthlyStat{
		MonthKey: l.currentMonth,
		Budget:   budget,
		Income:   bucket.Income,
	})
	if err != nil {
		return err
	}
	bucket.Budget = budget
	return nil
}

func (l *Ledger) Budget() float64 {
	return l.ensureMonth(l.currentMonth).Budget
}

// SetIncome сохраняет доход просматриваемого месяца. Отрицательные
// значения прижимаются к нулю.
func (l *Ledger) SetIncome(ctx context.Context, amount float64) error {
	if err := l.requireActiveProfile(); err != nil {
		return err
	}

	bucket := l.ensureMonth(l.currentMonth)
	income := math.Max(0, amount)

	err := l.store.UpsertMonthlyStat(ctx, l.activeProfileID, model.MonthlyStat{
		MonthKey: l.currentMonth,
		Budget:   bucket.Budget,
		Income:   income,
	})
	if err != nil {
		return err
	}
	bucket.Income = income
	return nil
}

func (l *Ledger) Income() float64 {
	return l.ensureMonth(l.currentMonth).Income
}
