package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ExportDocument — структурированный снимок состояния профиля. Служит и
// резервной копией для пользователя, и внутренним снимком перед импортом.
type ExportDocument struct {
	Profile      ExportProfile          `json:"profile"`
	CurrentMonth string                 `json:"currentMonth"`
	Categories   []ExportCategory       `json:"categories"`
	MonthlyData  map[string]ExportMonth `json:"monthlyData"`
}

type ExportProfile struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type ExportCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SystemKey string `json:"systemKey,omitempty"`
}

type ExportMonth struct {
	Budget   float64         `json:"budget"`
	Income   float64         `json:"income"`
	Expenses []ExportExpense `json:"expenses"`
}

type ExportExpense struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Amount     float64   `json:"amount"`
	CategoryID string    `json:"categoryId,omitempty"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
}

// exportDocument собирает снимок текущего зеркала. Чистая функция состояния:
// хранилище не трогается.
func (l *Ledger) exportDocument() ExportDocument {
	doc := ExportDocument{
		Profile: ExportProfile{
			Name:     l.profile.Name,
			Currency: l.profile.Currency,
		},
		CurrentMonth: l.currentMonth,
		Categories:   make([]ExportCategory, 0, len(l.categories)),
		MonthlyData:  make(map[string]ExportMonth, len(l.months)),
	}

	for _, category := range l.categories {
		doc.Categories = append(doc.Categories, ExportCategory{
			ID:        category.ID,
			Name:      category.Name,
			Color:     category.Color,
			SystemKey: category.SystemKey,
		})
	}

	for key, bucket := range l.months {
		month := ExportMonth{
			Budget:   bucket.Budget,
			Income:   bucket.Income,
			Expenses: make([]ExportExpense, 0, len(bucket.Expenses)),
		}
		for _, expense := range bucket.Expenses {
			month.Expenses = append(month.Expenses, ExportExpense{
				ID:         expense.ID,
				Name:       expense.Name,
				Amount:     expense.Amount,
				CategoryID: expense.CategoryID,
				Date:       expense.Date,
				CreatedAt:  expense.CreatedAt,
			})
		}
		doc.MonthlyData[key] = month
	}
	return doc
}

// ExportData сериализует снимок профиля в JSON.
func (l *Ledger) ExportData() ([]byte, error) {
	data, err := json.MarshalIndent(l.exportDocument(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return data, nil
}

// ExportCSV выгружает расходы просматриваемого месяца. Возвращает пустую
// строку, когда выгружать нечего.
func (l *Ledger) ExportCSV() string {
	expenses := l.Expenses()
	if len(expenses) == 0 {
		return ""
	}

	currency := l.Currency()
	var b strings.Builder
	b.WriteString("Description,Category,Date,Amount\n")

	lines := make([]string, 0, len(expenses))
	for _, expense := range expenses {
		categoryName := "Other"
		if category := l.CategoryByID(expense.CategoryID); category != nil {
			categoryName = category.Name
		}
		lines = append(lines, strings.Join([]string{
			csvCell(expense.Name),
			csvCell(categoryName),
			csvCell(expense.Date),
			csvCell(fmt.Sprintf("%s%.2f", currency, expense.Amount)),
		}, ","))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// csvCell заключает значение в двойные кавычки, удваивая внутренние,
// и нейтрализует инъекцию формул: ячейка, начинающаяся с = + - @,
// табуляции или CR, получает ведущий апостроф, и табличный редактор
// трактует её как текст.
func csvCell(value string) string {
	safe := strings.ReplaceAll(value, `"`, `""`)
	if safe != "" && strings.ContainsAny(safe[:1], "=+-@\t\r") {
		safe = "'" + safe
	}
	return `"` + safe + `"`
}

// SortedMonthKeys — вспомогательный обход месяцев снимка в стабильном порядке.
func (d ExportDocument) SortedMonthKeys() []string {
	keys := make([]string, 0, len(d.MonthlyData))
	for key := range d.MonthlyData {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
