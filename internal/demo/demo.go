// Package demo наполняет активный профиль правдоподобными данными за
// несколько месяцев. Набор собирается в виде документа экспорта и
// прогоняется через обычный импорт гроссбуха.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/ivanoskov/fintrack/internal/ledger"
)

type template struct {
	name     string
	min, max float64
}

var categories = []ledger.ExportCategory{
	{ID: "demo-cat-housing", Name: "Housing", Color: "#c8a96e"},
	{ID: "demo-cat-food", Name: "Food", Color: "#5cbb8a"},
	{ID: "demo-cat-transport", Name: "Transport", Color: "#5c9abb"},
	{ID: "demo-cat-entertainment", Name: "Entertainment", Color: "#bb5caa"},
	{ID: "demo-cat-health", Name: "Health", Color: "#e05c5c"},
	{ID: "demo-cat-utilities", Name: "Utilities", Color: "#e09a5c"},
	{ID: "demo-cat-shopping", Name: "Shopping", Color: "#7a6ec8"},
	{ID: "demo-cat-other", Name: "Other", Color: "#6e8899"},
}

var templates = map[string][]template{
	"demo-cat-housing": {
		{"Monthly Rent", 1200, 1200},
		{"Home Insurance", 80, 120},
		{"Maintenance Fee", 50, 90},
	},
	"demo-cat-food": {
		{"Grocery Store", 40, 120},
		{"Coffee Shop", 4, 8},
		{"Lunch - Restaurant", 12, 25},
		{"Dinner Out", 30, 65},
		{"Supermarket", 60, 140},
	},
	"demo-cat-transport": {
		{"Bus Pass", 45, 60},
		{"Uber Ride", 10, 30},
		{"Gas Station", 35, 65},
	},
	"demo-cat-entertainment": {
		{"Netflix Subscription", 15, 15},
		{"Movie Tickets", 20, 35},
		{"Book Purchase", 10, 25},
	},
	"demo-cat-health": {
		{"Gym Membership", 30, 50},
		{"Pharmacy", 15, 45},
	},
	"demo-cat-utilities": {
		{"Electric Bill", 60, 130},
		{"Internet Service", 50, 70},
		{"Phone Plan", 35, 55},
	},
	"demo-cat-shopping": {
		{"Clothing Store", 30, 90},
		{"Amazon Order", 15, 80},
	},
	"demo-cat-other": {
		{"Haircut", 15, 35},
		{"Gift for Friend", 20, 60},
	},
}

// Seed замещает данные активного профиля демонстрационным набором за
// monthCount месяцев, заканчивая текущим.
func Seed(ctx context.Context, l *ledger.Ledger, monthCount int) error {
	if monthCount <= 0 {
		monthCount = 6
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	doc := ledger.ExportDocument{
		Profile:      ledger.ExportProfile{Name: "Demo User", Currency: "$"},
		CurrentMonth: ledger.CurrentMonthKey(now),
		Categories:   categories,
		MonthlyData:  make(map[string]ledger.ExportMonth, monthCount),
	}

	catIDs := make([]string, 0, len(templates))
	for id := range templates {
		catIDs = append(catIDs, id)
	}

	for i := monthCount - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		key := ledger.CurrentMonthKey(monthStart)
		daysInMonth := monthStart.AddDate(0, 1, -1).Day()

		count := 15 + rng.Intn(16)
		expenses := make([]ledger.ExportExpense, 0, count)
		totalSpent := 0.0
		for n := 0; n < count; n++ {
			catID := catIDs[rng.Intn(len(catIDs))]
			tpl := templates[catID][rng.Intn(len(templates[catID]))]
			amount := tpl.min + rng.Float64()*(tpl.max-tpl.min)
			amount = float64(int(amount*100)) / 100
			day := 1 + rng.Intn(daysInMonth)
			expenses = append(expenses, ledger.ExportExpense{
				Name:       tpl.name,
				Amount:     amount,
				CategoryID: catID,
				Date:       fmt.Sprintf("%s-%02d", key, day),
			})
			totalSpent += amount
		}

		// Доход чуть выше трат, бюджет между тратами и доходом.
		income := float64(int(totalSpent*(1.15+rng.Float64()*0.25)/50)) * 50
		budget := float64(int(totalSpent*(1.05+rng.Float64()*0.15)/50)) * 50
		doc.MonthlyData[key] = ledger.ExportMonth{
			Budget:   budget,
			Income:   income,
			Expenses: expenses,
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to build demo dataset: %w", err)
	}
	return l.ImportData(ctx, raw)
}
