package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ivanoskov/fintrack/internal/auth"
	"github.com/ivanoskov/fintrack/internal/model"
	"github.com/ivanoskov/fintrack/internal/repository"
)

// fakeStore — хранилище в памяти, имитирующее удалённый CRUD-сервер:
// назначает идентификаторы, ведёт журнал вызовов и умеет проваливать
// отдельные операции по имени.
type fakeStore struct {
	profiles   []model.Profile
	categories map[string][]model.Category
	stats      map[string]map[string]model.MonthlyStat
	expenses   map[string][]model.Expense

	failures map[string]error
	calls    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: make(map[string][]model.Category),
		stats:      make(map[string]map[string]model.MonthlyStat),
		expenses:   make(map[string][]model.Expense),
		failures:   make(map[string]error),
	}
}

func (f *fakeStore) op(name string) error {
	f.calls = append(f.calls, name)
	return f.failures[name]
}

func (f *fakeStore) callCount(name string) int {
	count := 0
	for _, call := range f.calls {
		if call == name {
			count++
		}
	}
	return count
}

func (f *fakeStore) GetProfiles(ctx context.Context) ([]model.Profile, error) {
	if err := f.op("GetProfiles"); err != nil {
		return nil, err
	}
	profiles := make([]model.Profile, len(f.profiles))
	copy(profiles, f.profiles)
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (f *fakeStore) GetProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	if err := f.op("GetProfile"); err != nil {
		return nil, err
	}
	for _, profile := range f.profiles {
		if profile.ID == profileID {
			found := profile
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateProfile(ctx context.Context, ownerUserID, name, currency string) (*model.Profile, error) {
	if err := f.op("CreateProfile"); err != nil {
		return nil, err
	}
	profile := model.Profile{
		ID:        uuid.New().String(),
		Name:      name,
		Currency:  currency,
		CreatedAt: time.Now(),
	}
	f.profiles = append(f.profiles, profile)
	return &profile, nil
}

func (f *fakeStore) UpdateProfile(ctx context.Context, profileID, name, currency string) error {
	if err := f.op("UpdateProfile"); err != nil {
		return err
	}
	for i := range f.profiles {
		if f.profiles[i].ID == profileID {
			f.profiles[i].Name = name
			f.profiles[i].Currency = currency
		}
	}
	return nil
}

func (f *fakeStore) DeleteProfile(ctx context.Context, profileID string) error {
	if err := f.op("DeleteProfile"); err != nil {
		return err
	}
	kept := f.profiles[:0]
	for _, profile := range f.profiles {
		if profile.ID != profileID {
			kept = append(kept, profile)
		}
	}
	f.profiles = kept
	delete(f.categories, profileID)
	delete(f.stats, profileID)
	delete(f.expenses, profileID)
	return nil
}

func (f *fakeStore) GetCategories(ctx context.Context, profileID string) ([]model.Category, error) {
	if err := f.op("GetCategories"); err != nil {
		return nil, err
	}
	categories := make([]model.Category, len(f.categories[profileID]))
	copy(categories, f.categories[profileID])
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, profileID string, category model.Category) (*model.Category, error) {
	created, err := f.CreateCategories(ctx, profileID, []model.Category{category})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

func (f *fakeStore) CreateCategories(ctx context.Context, profileID string, categories []model.Category) ([]model.Category, error) {
	if err := f.op("CreateCategories"); err != nil {
		return nil, err
	}
	created := make([]model.Category, 0, len(categories))
	for _, category := range categories {
		category.ID = uuid.New().String()
		f.categories[profileID] = append(f.categories[profileID], category)
		created = append(created, category)
	}
	return created, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, categoryID, profileID string) error {
	if err := f.op("DeleteCategory"); err != nil {
		return err
	}
	kept := f.categories[profileID][:0]
	for _, category := range f.categories[profileID] {
		if category.ID != categoryID {
			kept = append(kept, category)
		}
	}
	f.categories[profileID] = kept
	return nil
}

func (f *fakeStore) DeleteCategories(ctx context.Context, profileID string) error {
	if err := f.op("DeleteCategories"); err != nil {
		return err
	}
	delete(f.categories, profileID)
	return nil
}

func (f *fakeStore) ReassignExpenses(ctx context.Context, profileID, fromID, toID string) error {
	if err := f.op("ReassignExpenses"); err != nil {
		return err
	}
	for i := range f.expenses[profileID] {
		if f.expenses[profileID][i].CategoryID == fromID {
			f.expenses[profileID][i].CategoryID = toID
		}
	}
	return nil
}

func (f *fakeStore) GetMonthlyStats(ctx context.Context, profileID string) ([]model.MonthlyStat, error) {
	if err := f.op("GetMonthlyStats"); err != nil {
		return nil, err
	}
	stats := make([]model.MonthlyStat, 0, len(f.stats[profileID]))
	for _, stat := range f.stats[profileID] {
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].MonthKey < stats[j].MonthKey
	})
	return stats, nil
}

func (f *fakeStore) UpsertMonthlyStat(ctx context.Context, profileID string, stat model.MonthlyStat) error {
	if err := f.op("UpsertMonthlyStat"); err != nil {
		return err
	}
	if f.stats[profileID] == nil {
		f.stats[profileID] = make(map[string]model.MonthlyStat)
	}
	f.stats[profileID][stat.MonthKey] = stat
	return nil
}

func (f *fakeStore) CreateMonthlyStats(ctx context.Context, profileID string, stats []model.MonthlyStat) error {
	if err := f.op("CreateMonthlyStats"); err != nil {
		return err
	}
	for _, stat := range stats {
		if err := f.UpsertMonthlyStat(ctx, profileID, stat); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) DeleteMonthlyStats(ctx context.Context, profileID string) error {
	if err := f.op("DeleteMonthlyStats"); err != nil {
		return err
	}
	delete(f.stats, profileID)
	return nil
}

func (f *fakeStore) GetExpenses(ctx context.Context, profileID string) ([]model.Expense, error) {
	if err := f.op("GetExpenses"); err != nil {
		return nil, err
	}
	expenses := make([]model.Expense, len(f.expenses[profileID]))
	copy(expenses, f.expenses[profileID])
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (f *fakeStore) CreateExpense(ctx context.Context, profileID string, input repository.ExpenseInput) (*model.Expense, error) {
	if err := f.op("CreateExpense"); err != nil {
		return nil, err
	}
	expense := model.Expense{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Amount:     input.Amount,
		CategoryID: input.CategoryID,
		Date:       input.Date,
		CreatedAt:  time.Now(),
	}
	f.expenses[profileID] = append(f.expenses[profileID], expense)
	return &expense, nil
}

func (f *fakeStore) CreateExpenses(ctx context.Context, profileID string, inputs []repository.ExpenseInput) error {
	if err := f.op("CreateExpenses"); err != nil {
		return err
	}
	for _, input := range inputs {
		f.expenses[profileID] = append(f.expenses[profileID], model.Expense{
			ID:         uuid.New().String(),
			Name:       input.Name,
			Amount:     input.Amount,
			CategoryID: input.CategoryID,
			Date:       input.Date,
			CreatedAt:  time.Now(),
		})
	}
	return nil
}

func (f *fakeStore) UpdateExpense(ctx context.Context, expenseID, profileID string, input repository.ExpenseInput) (*model.Expense, error) {
	if err := f.op("UpdateExpense"); err != nil {
		return nil, err
	}
	for i := range f.expenses[profileID] {
		if f.expenses[profileID][i].ID == expenseID {
			f.expenses[profileID][i].Name = input.Name
			f.expenses[profileID][i].Amount = input.Amount
			f.expenses[profileID][i].CategoryID = input.CategoryID
			f.expenses[profileID][i].Date = input.Date
			found := f.expenses[profileID][i]
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteExpense(ctx context.Context, expenseID, profileID string) error {
	if err := f.op("DeleteExpense"); err != nil {
		return err
	}
	kept := f.expenses[profileID][:0]
	for _, expense := range f.expenses[profileID] {
		if expense.ID != expenseID {
			kept = append(kept, expense)
		}
	}
	f.expenses[profileID] = kept
	return nil
}

func (f *fakeStore) DeleteExpenses(ctx context.Context, profileID string) error {
	if err := f.op("DeleteExpenses"); err != nil {
		return err
	}
	delete(f.expenses, profileID)
	return nil
}

type fakeAuth struct {
	session *auth.Session
}

func (f *fakeAuth) GetSession(ctx context.Context) (*auth.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	f.session = &auth.Session{User: auth.User{ID: "user-1", Email: email}}
	return f.session, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) error {
	return nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.session = nil
	return nil
}

func (f *fakeAuth) ResetPassword(ctx context.Context, email string) error {
	return nil
}

type fakePrefs struct {
	values map[string]string
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: make(map[string]string)}
}

func (f *fakePrefs) Get(key string) string {
	return f.values[key]
}

func (f *fakePrefs) Set(key, value string) error {
	f.values[key] = value
	return nil
}
