package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/fintrack/internal/model"
)

type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

// NewSupabaseClient создает клиент Supabase по URL и ключу проекта.
func NewSupabaseClient(url, key string) (*supabase.Client, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, nil
}

// Сырые строки таблиц. Это граница нормализации: недоверенный JSON
// хранилища превращается в типизированные записи model с проверкой формы.

type profileRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type categoryRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SystemKey string `json:"system_key"`
}

type statRow struct {
	MonthKey string  `json:"month_key"`
	Budget   float64 `json:"budget"`
	Income   float64 `json:"income"`
}

type expenseRow struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Amount     float64   `json:"amount"`
	CategoryID string    `json:"category_id"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func normalizeProfile(row profileRow) (model.Profile, error) {
	if row.ID == "" {
		return model.Profile{}, fmt.Errorf("profile row has no id")
	}
	currency := row.Currency
	if currency == "" {
		currency = "$"
	}
	return model.Profile{
		ID:        row.ID,
		Name:      row.Name,
		Currency:  currency,
		CreatedAt: row.CreatedAt,
	}, nil
}

func normalizeCategory(row categoryRow) (model.Category, error) {
	if row.ID == "" || row.Name == "" {
		return model.Category{}, fmt.Errorf("category row has no id or name")
	}
	return model.Category{
		ID:        row.ID,
		Name:      row.Name,
		Color:     row.Color,
		SystemKey: row.SystemKey,
	}, nil
}

func normalizeStat(row statRow) (model.MonthlyStat, error) {
	if len(row.MonthKey) != 7 {
		return model.MonthlyStat{}, fmt.Errorf("monthly_stats row has bad month_key %q", row.MonthKey)
	}
	return model.MonthlyStat{
		MonthKey: row.MonthKey,
		Budget:   row.Budget,
		Income:   row.Income,
	}, nil
}

func normalizeExpense(row expenseRow) (model.Expense, error) {
	if row.ID == "" {
		return model.Expense{}, fmt.Errorf("expense row has no id")
	}
	if len(row.Date) < 7 {
		return model.Expense{}, fmt.Errorf("expense row %s has bad date %q", row.ID, row.Date)
	}
	createdAt := row.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return model.Expense{
		ID:         row.ID,
		Name:       row.Name,
		Amount:     row.Amount,
		CategoryID: row.CategoryID,
		Date:       row.Date,
		CreatedAt:  createdAt,
	}, nil
}

// Профили

func (r *SupabaseRepository) GetProfiles(ctx context.Context) ([]model.Profile, error) {
	data, _, err := r.client.From("profiles").
		Select("id,name,currency,created_at", "", false).
		Order("created_at.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	profiles := make([]model.Profile, 0, len(rows))
	for _, row := range rows {
		profile, err := normalizeProfile(row)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (r *SupabaseRepository) GetProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	data, _, err := r.client.From("profiles").
		Select("id,name,currency,created_at", "", false).
		Eq("id", profileID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	profile, err := normalizeProfile(rows[0])
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *SupabaseRepository) CreateProfile(ctx context.Context, ownerUserID, name, currency string) (*model.Profile, error) {
	payload := map[string]interface{}{
		"owner_user_id": ownerUserID,
		"name":          name,
		"currency":      currency,
	}
	data, _, err := r.client.From("profiles").Insert(payload, false, "", "", "").Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse created profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into profiles returned no rows")
	}
	profile, err := normalizeProfile(rows[0])
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *SupabaseRepository) UpdateProfile(ctx context.Context, profileID, name, currency string) error {
	payload := map[string]interface{}{
		"name":     name,
		"currency": currency,
	}
	_, _, err := r.client.From("profiles").
		Update(payload, "", "").
		Eq("id", profileID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) DeleteProfile(ctx context.Context, profileID string) error {
	_, _, err := r.client.From("profiles").
		Delete("", "").
		Eq("id", profileID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// Категории

func (r *SupabaseRepository) GetCategories(ctx context.Context, profileID string) ([]model.Category, error) {
	data, _, err := r.client.From("categories").
		Select("id,name,color,system_key", "", false).
		Eq("profile_id", profileID).
		Order("name.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		category, err := normalizeCategory(row)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func categoryPayload(profileID string, category model.Category) map[string]interface{} {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"name":       category.Name,
		"color":      category.Color,
	}
	if category.SystemKey != "" {
		payload["system_key"] = category.SystemKey
	}
	return payload
}

func (r *SupabaseRepository) CreateCategory(ctx context.Context, profileID string, category model.Category) (*model.Category, error) {
	created, err := r.CreateCategories(ctx, profileID, []model.Category{category})
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("insert into categories returned no rows")
	}
	return &created[0], nil
}

// CreateCategories вставляет категории одним запросом и возвращает их
// в порядке вставки — вызывающая сторона полагается на этот порядок
// при построении карты старых и новых идентификаторов.
func (r *SupabaseRepository) CreateCategories(ctx context.Context, profileID string, categories []model.Category) ([]model.Category, error) {
	payload := make([]map[string]interface{}, 0, len(categories))
	for _, category := range categories {
		payload = append(payload, categoryPayload(profileID, category))
	}

	data, _, err := r.client.From("categories").Insert(payload, false, "", "", "").Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create categories: %w", err)
	}

	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse created categories: %w", err)
	}

	created := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		category, err := normalizeCategory(row)
		if err != nil {
			return nil, err
		}
		created = append(created, category)
	}
	return created, nil
}

func (r *SupabaseRepository) DeleteCategory(ctx context.Context, categoryID, profileID string) error {
	_, _, err := r.client.From("categories").
		Delete("", "").
		Eq("id", categoryID).
		Eq("profile_id", profileID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) DeleteCategories(ctx context.Context, profileID string) error {
	_, _, err := r.client.From("categories").
		Delete("", "").
		Eq("profile_id", profileID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) ReassignExpenses(ctx context.Context, profileID, fromID, toID string) error {
	payload := map[string]interface{}{"category_id": toID}
	_, _, err := r.client.From("expenses").
		Update(payload, "", "").
		Eq("profile_id", profileID).
		Eq("category_id", fromID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to reassign expenses: %w", err)
	}
	return nil
}

// Месячная статистика

func (r *SupabaseRepository) GetMonthlyStats(ctx context.Context, profileID string) ([]model.MonthlyStat, error) {
	data, _, err := r.client.From("monthly_stats").
		Select("month_key,budget,income", "", false).
		Eq("profile_id", profileID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly stats: %w", err)
	}

	var rows []statRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse monthly stats: %w", err)
	}

	stats := make([]model.MonthlyStat, 0, len(rows))
	for _, row := range rows {
		stat, err := normalizeStat(row)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func statPayload(profileID string, stat model.MonthlyStat) map[string]interface{} {
	return map[string]interface{}{
		"profile_id": profileID,
		"month_key":  stat.MonthKey,
		"budget":     stat.Budget,
		"income":     stat.Income,
	}
}

func (r *SupabaseRepository) UpsertMonthlyStat(ctx context.Context, profileID string, stat model.MonthlyStat) error {
	_, _, err := r.client.From("monthly_stats").
		Insert(statPayload(profileID, stat), true, "profile_id,month_key", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert monthly stat: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) CreateMonthlyStats(ctx context.Context, profileID string, stats []model.MonthlyStat) error {
	if len(stats) == 0 {
		return nil
	}
	payload := make([]map[string]interface{}, 0, len(stats))
	for _, stat := range stats {
		payload = append(payload, statPayload(profileID, stat))
	}
	_, _, err := r.client.From("monthly_stats").Insert(payload, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create monthly stats: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) DeleteMonthlyStats(ctx context.Context, profileID string) error {
	_, _, err := r.client.From("monthly_stats").
		Delete("", "").
		Eq("profile_id", profileID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete monthly stats: %w", err)
	}
	return nil
}

// Расходы

func (r *SupabaseRepository) GetExpenses(ctx context.Context, profileID string) ([]model.Expense, error) {
	data, _, err := r.client.From("expenses").
		Select("id,name,amount,category_id,date,created_at", "", false).
		Eq("profile_id", profileID).
		Order("date.desc", nil).
		Order("created_at.desc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	var rows []expenseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse expenses: %w", err)
	}

	expenses := make([]model.Expense, 0, len(rows))
	for _, row := range rows {
		expense, err := normalizeExpense(row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func expensePayload(profileID string, input ExpenseInput) map[string]interface{} {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"name":       input.Name,
		"amount":     input.Amount,
		"date":       input.Date,
	}
	if input.CategoryID != "" {
		payload["category_id"] = input.CategoryID
	}
	return payload
}

func (r *SupabaseRepository) CreateExpense(ctx context.Context, profileID string, input ExpenseInput) (*model.Expense, error) {
	data, _, err := r.client.From("expenses").
		Insert(expensePayload(profileID, input), false, "", "", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	var rows []expenseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse created expense: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into expenses returned no rows")
	}
	expense, err := normalizeExpense(rows[0])
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *SupabaseRepository) CreateExpenses(ctx context.Context, profileID string, inputs []ExpenseInput) error {
	if len(inputs) == 0 {
		return nil
	}
	payload := make([]map[string]interface{}, 0, len(inputs))
	for _, input := range inputs {
		payload = append(payload, expensePayload(profileID, input))
	}
	_, _, err := r.client.From("expenses").Insert(payload, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create expenses: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) UpdateExpense(ctx context.Context, expenseID, profileID string, input ExpenseInput) (*model.Expense, error) {
	payload := map[string]interface{}{
		"name":   input.Name,
		"amount": input.Amount,
		"date":   input.Date,
	}
	if input.CategoryID != "" {
		payload["category_id"] = input.CategoryID
	} else {
		payload["category_id"] = nil
	}

	data, _, err := r.client.From("expenses").
		Update(payload, "", "").
		Eq("id", expenseID).
		Eq("profile_id", profileID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	var rows []expenseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse updated expense: %w", err)
	}
	// Пустой ответ — строка не найдена либо принадлежит другому профилю.
	if len(rows) == 0 {
		return nil, nil
	}
	expense, err := normalizeExpense(rows[0])
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *SupabaseRepository) DeleteExpense(ctx context.Context, expenseID, profileID string) error {
	_, _, err := r.client.From("expenses").
		Delete("", "").
		Eq("id", expenseID).
		Eq("profile_id", profileID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) DeleteExpenses(ctx context.Context, profileID string) error {
	_, _, err := r.client.From("expenses").
		Delete("", "").
		Eq("profile_id", profileID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete expenses: %w", err)
	}
	return nil
}
