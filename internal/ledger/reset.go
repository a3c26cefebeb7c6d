package ledger

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// ResetAll стирает все данные активного профиля: расходы, затем строки
// бюджета/дохода, затем категории — в порядке зависимостей, каждым
// отдельным вызовом. При любом сбое зеркало перечитывается с сервера
// (частичное состояние — уже истина), и возвращается одна агрегированная
// ошибка с именами всех провалившихся шагов. При полном успехе профиль
// пересеивается стартовыми категориями и тоже перечитывается: зеркало
// не остаётся устаревшим ни на одном из двух путей.
func (l *Ledger) ResetAll(ctx context.Context) error {
	if err := l.requireActiveProfile(); err != nil {
		return err
	}

	var failures []string
	if err := l.store.DeleteExpenses(ctx, l.activeProfileID); err != nil {
		failures = append(failures, fmt.Sprintf("expenses: %v", err))
	}
	if err := l.store.DeleteMonthlyStats(ctx, l.activeProfileID); err != nil {
		failures = append(failures, fmt.Sprintf("monthly_stats: %v", err))
	}
	if err := l.store.DeleteCategories(ctx, l.activeProfileID); err != nil {
		failures = append(failures, fmt.Sprintf("categories: %v", err))
	}

	if len(failures) > 0 {
		log.Printf("Сброс профиля %s не завершён, перечитываем состояние: %s",
			l.activeProfileID, strings.Join(failures, "; "))
		if err := l.loadActiveProfileState(ctx, l.activeProfileID); err != nil {
			failures = append(failures, fmt.Sprintf("reload: %v", err))
		}
		return fmt.Errorf("partial reset failure: %s", strings.Join(failures, "; "))
	}

	if err := l.seedDefaultCategories(ctx, l.activeProfileID); err != nil {
		return err
	}
	return l.loadActiveProfileState(ctx, l.activeProfileID)
}
