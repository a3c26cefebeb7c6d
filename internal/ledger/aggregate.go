package ledger

import (
	"github.com/ivanoskov/fintrack/internal/model"
)

// Агрегации считаются только по зеркалу и не обращаются к хранилищу.

// CategorySpending — категория с суммой её расходов за месяц.
type CategorySpending struct {
	model.Category
	Total float64
}

// TrendPoint — точка помесячного тренда.
type TrendPoint struct {
	Key    string
	Label  string
	Spent  float64
	Budget float64
	Income float64
}

// TotalSpent возвращает сумму расходов просматриваемого месяца.
func (l *Ledger) TotalSpent() float64 {
	total := 0.0
	for _, expense := range l.ensureMonth(l.currentMonth).Expenses {
		total += expense.Amount
	}
	return total
}

// SpendingByCategory суммирует расходы месяца по категориям. Расходы с
// отсутствующей или неизвестной категорией попадают в "Other"; категории
// с нулевой суммой опускаются. Порядок следует порядку списка категорий.
func (l *Ledger) SpendingByCategory() []CategorySpending {
	totals := make(map[string]float64, len(l.categories))
	for _, category := range l.categories {
		totals[category.ID] = 0
	}

	other := l.otherCategory()
	for _, expense := range l.ensureMonth(l.currentMonth).Expenses {
		if _, known := totals[expense.CategoryID]; expense.CategoryID != "" && known {
			totals[expense.CategoryID] += expense.Amount
		} else if other != nil {
			totals[other.ID] += expense.Amount
		}
	}

	result := make([]CategorySpending, 0, len(l.categories))
	for _, category := range l.categories {
		if total := totals[category.ID]; total > 0 {
			result = append(result, CategorySpending{Category: category, Total: total})
		}
	}
	return result
}

// MonthlyTrend возвращает count месяцев, заканчивая просматриваемым,
// от старых к новым. Месяцы без корзины дают нули; корзины при этом
// не материализуются.
func (l *Ledger) MonthlyTrend(count int) []TrendPoint {
	base, err := monthTime(l.currentMonth)
	if err != nil {
		base = l.now()
	}

	trend := make([]TrendPoint, 0, count)
	for i := count - 1; i >= 0; i-- {
		t := base.AddDate(0, -i, 0)
		key := CurrentMonthKey(t)
		point := TrendPoint{Key: key, Label: t.Format("Jan 06")}

		if bucket, ok := l.months[key]; ok {
			for _, expense := range bucket.Expenses {
				point.Spent += expense.Amount
			}
			point.Budget = bucket.Budget
			point.Income = bucket.Income
		}
		trend = append(trend, point)
	}
	return trend
}
