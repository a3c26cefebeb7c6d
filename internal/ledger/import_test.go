package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestImportRejectsMalformedJSON(t *testing.T) {
	l, store, _ := newTestLedger(t)

	err := l.ImportData(context.Background(), []byte("{not json"))
	if !IsValidation(err) {
		t.Fatalf("err = %v, ожидалась ошибка валидации", err)
	}
	// Отклонение происходит до каких-либо удалений.
	if got := store.callCount("DeleteExpenses"); got != 0 {
		t.Errorf("DeleteExpenses вызван %d раз при отклонённом документе", got)
	}
}

func TestImportRejectsMissingSections(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	cases := []struct {
		name string
		raw  string
	}{
		{"нет monthlyData", `{"categories":[{"id":"a","name":"Food"}]}`},
		{"нет categories", `{"monthlyData":{"2024-03":{"budget":0,"income":0,"expenses":[]}}}`},
		{"пустой объект", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := l.ImportData(ctx, []byte(tc.raw)); !IsValidation(err) {
				t.Errorf("err = %v, ожидалась ошибка валидации", err)
			}
		})
	}
	if got := store.callCount("DeleteExpenses") + store.callCount("DeleteCategories"); got != 0 {
		t.Errorf("выполнено %d удалений при структурно некорректных документах", got)
	}
}

func TestImportRemapsAndClamps(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	raw := `{
		"profile": {"name": "Imported", "currency": "€"},
		"currentMonth": "2024-02",
		"categories": [
			{"id": "c1", "name": "Food", "color": "#111111"},
			{"id": "c2", "name": "food", "color": "#222222"},
			{"id": "", "name": "   "}
		],
		"monthlyData": {
			"2024-02": {
				"budget": -100,
				"income": 500,
				"expenses": [
					{"name": "", "amount": -5, "categoryId": "ghost", "date": ""}
				]
			}
		}
	}`
	if err := l.ImportData(ctx, []byte(raw)); err != nil {
		t.Fatalf("ImportData: %v", err)
	}

	// Дубликаты схлопнуты без учёта регистра, пустые имена отброшены,
	// Other добавлена принудительно.
	names := make(map[string]bool)
	for _, category := range l.Categories() {
		names[category.Name] = true
	}
	if len(names) != 2 || !names["Food"] || !names["Other"] {
		t.Errorf("категории = %v, ожидались Food и Other", names)
	}
	if l.otherCategory() == nil {
		t.Fatal("принудительная Other не получила системный ключ")
	}

	if l.CurrentMonth() != "2024-02" {
		t.Errorf("текущий месяц = %q, ожидался из документа", l.CurrentMonth())
	}
	if l.Budget() != 0 {
		t.Errorf("Budget = %v, отрицательный бюджет не прижат к нулю", l.Budget())
	}
	if l.Income() != 500 {
		t.Errorf("Income = %v, ожидалось 500", l.Income())
	}

	expenses := l.Expenses()
	if len(expenses) != 1 {
		t.Fatalf("расходов = %d, ожидался один", len(expenses))
	}
	got := expenses[0]
	if got.Name != "Expense" {
		t.Errorf("имя = %q, ожидалась заглушка Expense", got.Name)
	}
	if got.Amount != 0.01 {
		t.Errorf("сумма = %v, ожидался минимум 0.01", got.Amount)
	}
	if got.Date != "2024-02-01" {
		t.Errorf("дата = %q, ожидалось первое число месяца", got.Date)
	}
	if got.CategoryID != l.otherCategory().ID {
		t.Errorf("категория = %q, битая ссылка должна вести на Other", got.CategoryID)
	}

	if l.Profile().Name != "Imported" || l.Currency() != "€" {
		t.Errorf("профиль = %q/%q, не обновлён из документа", l.Profile().Name, l.Currency())
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.AddCategory(ctx, "Books", "#445566"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	food := categoryByName(t, l, "Food")
	if _, err := l.AddExpense(ctx, ExpenseInput{Name: "Coffee", Amount: 4.5, CategoryID: food.ID, Date: "2024-03-05"}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if _, err := l.AddExpense(ctx, ExpenseInput{Name: "Gift", Amount: 30, Date: "2024-01-15"}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := l.SetBudget(ctx, 300); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	raw, err := l.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	before := l.exportDocument()

	if err := l.ImportData(ctx, raw); err != nil {
		t.Fatalf("ImportData: %v", err)
	}
	after := l.exportDocument()

	beforeNames := make(map[string]bool)
	for _, category := range before.Categories {
		beforeNames[category.Name] = true
	}
	afterNames := make(map[string]bool)
	for _, category := range after.Categories {
		afterNames[category.Name] = true
	}
	if len(beforeNames) != len(afterNames) {
		t.Errorf("категорий стало %d вместо %d", len(afterNames), len(beforeNames))
	}
	for name := range beforeNames {
		if !afterNames[name] {
			t.Errorf("категория %q потеряна при обороте", name)
		}
	}

	for _, key := range before.SortedMonthKeys() {
		source := before.MonthlyData[key]
		target, ok := after.MonthlyData[key]
		if !ok {
			t.Errorf("месяц %s потерян при обороте", key)
			continue
		}
		if target.Budget != source.Budget || target.Income != source.Income {
			t.Errorf("месяц %s: (%v, %v) вместо (%v, %v)",
				key, target.Budget, target.Income, source.Budget, source.Income)
		}
		if len(target.Expenses) != len(source.Expenses) {
			t.Errorf("месяц %s: расходов %d вместо %d", key, len(target.Expenses), len(source.Expenses))
		}
	}

	if l.CurrentMonth() != "2024-03" {
		t.Errorf("текущий месяц = %q, ожидался сохранённый в документе", l.CurrentMonth())
	}
	// Привязка к категориям пережила смену идентификаторов.
	spending := l.SpendingByCategory()
	foundFood := false
	for _, entry := range spending {
		if entry.Name == "Food" && entry.Total == 4.5 {
			foundFood = true
		}
	}
	if !foundFood {
		t.Errorf("SpendingByCategory = %+v, расход Food не пережил оборот", spending)
	}
}

func TestImportFailureRestoresCategories(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	raw := `{
		"categories": [{"id": "t1", "name": "Tools", "color": "#333333"}],
		"monthlyData": {"2024-03": {"budget": 10, "income": 0, "expenses": []}}
	}`
	store.failures["CreateMonthlyStats"] = errors.New("запись отклонена")

	err := l.ImportData(ctx, []byte(raw))
	if err == nil {
		t.Fatal("ожидалась ошибка импорта")
	}
	if !strings.Contains(err.Error(), "previous data was restored") {
		t.Errorf("err = %v, ожидалось упоминание восстановления", err)
	}
	if IsValidation(err) {
		t.Error("сбой сервера не должен классифицироваться как ошибка валидации")
	}

	// Приближённое восстановление: категории из снимка снова в зеркале.
	names := make(map[string]bool)
	for _, category := range l.Categories() {
		names[category.Name] = true
	}
	for _, category := range defaultCategories {
		if !names[category.Name] {
			t.Errorf("категория %q не восстановлена из снимка", category.Name)
		}
	}
}
