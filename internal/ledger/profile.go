package ledger

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/fintrack/internal/model"
)

// defaultCategories — стартовый набор категорий профиля. Категория "Other"
// обязана присутствовать всегда: она служит целью переназначения расходов.
var defaultCategories = []model.Category{
	{Name: "Housing", Color: "#c8a96e", SystemKey: "housing"},
	{Name: "Food", Color: "#5cbb8a", SystemKey: "food"},
	{Name: "Transport", Color: "#5c9abb", SystemKey: "transport"},
	{Name: "Entertainment", Color: "#bb5caa", SystemKey: "entertainment"},
	{Name: "Health", Color: "#e05c5c", SystemKey: "health"},
	{Name: "Utilities", Color: "#e09a5c", SystemKey: "utilities"},
	{Name: "Shopping", Color: "#7a6ec8", SystemKey: "shopping"},
	{Name: "Other", Color: "#6e8899", SystemKey: model.SystemKeyOther},
}

// Init выполняет начальную загрузку сессии: запрашивает её у коллаборатора
// аутентификации и, если пользователь вошёл, поднимает его профили.
func (l *Ledger) Init(ctx context.Context) error {
	session, err := l.auth.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	l.resetState()
	if session == nil {
		l.user = nil
		return nil
	}
	l.user = &session.User
	return l.bootstrapProfiles(ctx)
}

// bootstrapProfiles загружает список профилей пользователя, создавая профиль
// по умолчанию при первом входе, и активирует запомненный либо первый.
func (l *Ledger) bootstrapProfiles(ctx context.Context) error {
	if err := l.reloadProfiles(ctx); err != nil {
		return err
	}

	if len(l.profiles) == 0 {
		created, err := l.CreateProfile(ctx, "My Profile", "$")
		if err != nil {
			return err
		}
		if err := l.reloadProfiles(ctx); err != nil {
			return err
		}
		return l.loadActiveProfileState(ctx, created.ID)
	}

	target := l.profiles[0].ID
	if saved := l.prefs.Get(activeProfilePrefKey(l.user.ID)); saved != "" {
		for _, profile := range l.profiles {
			if profile.ID == saved {
				target = saved
				break
			}
		}
	}
	return l.loadActiveProfileState(ctx, target)
}

func (l *Ledger) reloadProfiles(ctx context.Context) error {
	if err := l.requireAuth(); err != nil {
		return err
	}
	profiles, err := l.store.GetProfiles(ctx)
	if err != nil {
		return err
	}
	l.profiles = profiles
	return nil
}

// loadActiveProfileState полностью перечитывает состояние профиля с сервера.
// Четыре чтения независимы и выполняются параллельно; зеркало мутируется
// только после того, как все четыре завершились успешно.
func (l *Ledger) loadActiveProfileState(ctx context.Context, profileID string) error {
	if err := l.requireAuth(); err != nil {
		return err
	}

	known := false
	for _, profile := range l.profiles {
		if profile.ID == profileID {
			known = true
			break
		}
	}
	if !known {
		return ErrProfileNotFound
	}

	var (
		profile    *model.Profile
		categories []model.Category
		stats      []model.MonthlyStat
		expenses   []model.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = l.store.GetProfile(gctx, profileID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = l.store.GetCategories(gctx, profileID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = l.store.GetMonthlyStats(gctx, profileID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = l.store.GetExpenses(gctx, profileID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load profile state: %w", err)
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	l.activeProfileID = profileID
	_ = l.prefs.Set(activeProfilePrefKey(l.user.ID), profileID)
	l.profile = *profile

	// Профиль никогда не остаётся без категорий: пустой набор пересеивается.
	if len(categories) == 0 {
		if err := l.seedDefaultCategories(ctx, profileID); err != nil {
			return err
		}
		seeded, err := l.store.GetCategories(ctx, profileID)
		if err != nil {
			return err
		}
		categories = seeded
	}
	l.categories = categories

	l.months = make(map[string]*model.MonthBucket)
	for _, stat := range stats {
		l.months[stat.MonthKey] = &model.MonthBucket{
			Budget: stat.Budget,
			Income: stat.Income,
		}
	}
	for _, expense := range expenses {
		bucket := l.ensureMonth(expense.MonthKey())
		bucket.Expenses = append(bucket.Expenses, expense)
	}

	saved := l.prefs.Get(currentMonthPrefKey(profileID))
	if saved == "" {
		saved = CurrentMonthKey(l.now())
	}
	l.setCurrentMonth(saved)
	return nil
}

// seedDefaultCategories вставляет стартовые категории, если у профиля их нет.
// Повторный вызов безопасен: при непустом наборе ничего не делает.
func (l *Ledger) seedDefaultCategories(ctx context.Context, profileID string) error {
	existing, err := l.store.GetCategories(ctx, profileID)
	if err != nil {
		return fmt.Errorf("failed to check existing categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	if _, err := l.store.CreateCategories(ctx, profileID, defaultCategories); err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}
	return nil
}

// Profile возвращает копию активного профиля.
func (l *Ledger) Profile() model.Profile {
	return l.profile
}

func (l *Ledger) Currency() string {
	if l.profile.Currency == "" {
		return "$"
	}
	return l.profile.Currency
}

func (l *Ledger) ListProfiles() []model.Profile {
	profiles := make([]model.Profile, len(l.profiles))
	copy(profiles, l.profiles)
	return profiles
}

func (l *Ledger) CreateProfile(ctx context.Context, name, currency string) (*model.Profile, error) {
	if err := l.requireAuth(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Profile %d", len(l.profiles)+1)
	}
	if currency == "" {
		currency = "$"
	}

	created, err := l.store.CreateProfile(ctx, l.user.ID, name, currency)
	if err != nil {
		return nil, err
	}
	l.profiles = append(l.profiles, *created)
	return created, nil
}

// SwitchProfile делает профиль активным и полностью загружает его состояние.
func (l *Ledger) SwitchProfile(ctx context.Context, profileID string) error {
	if err := l.requireAuth(); err != nil {
		return err
	}
	return l.loadActiveProfileState(ctx, profileID)
}

// SetProfile переименовывает активный профиль и/или меняет его валюту.
// Изменение отражается и в активной записи, и в списке профилей.
func (l *Ledger) SetProfile(ctx context.Context, name, currency string) error {
	if err := l.requireActiveProfile(); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled Profile"
	}
	if currency == "" {
		currency = "$"
	}

	if err := l.store.UpdateProfile(ctx, l.activeProfileID, name, currency); err != nil {
		return err
	}

	l.profile.Name = name
	l.profile.Currency = currency
	for i := range l.profiles {
		if l.profiles[i].ID == l.activeProfileID {
			l.profiles[i].Name = name
			l.profiles[i].Currency = currency
		}
	}
	return nil
}

// DeleteProfile удаляет профиль. Последний профиль удалить нельзя.
// При удалении активного профиля активируется первый из оставшихся.
func (l *Ledger) DeleteProfile(ctx context.Context, profileID string) error {
	if err := l.requireAuth(); err != nil {
		return err
	}
	if len(l.profiles) <= 1 {
		return ErrLastProfile
	}

	if err := l.store.DeleteProfile(ctx, profileID); err != nil {
		return err
	}

	deletingActive := l.activeProfileID == profileID
	remaining := l.profiles[:0]
	for _, profile := range l.profiles {
		if profile.ID != profileID {
			remaining = append(remaining, profile)
		}
	}
	l.profiles = remaining

	if !deletingActive {
		return nil
	}
	if len(l.profiles) > 0 {
		return l.loadActiveProfileState(ctx, l.profiles[0].ID)
	}
	// Достижимо лишь транзиентно: удаление последнего профиля запрещено выше.
	l.resetState()
	return nil
}

// Фасад аутентификации: гроссбух сам перечитывает состояние при входе
// и выходе, чтобы зеркало никогда не пережило чужую сессию.

func (l *Ledger) SignIn(ctx context.Context, email, password string) error {
	session, err := l.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	l.resetState()
	if session == nil {
		l.user = nil
		return nil
	}
	l.user = &session.User
	return l.bootstrapProfiles(ctx)
}

func (l *Ledger) SignUp(ctx context.Context, email, password string) error {
	return l.auth.SignUp(ctx, email, password)
}

func (l *Ledger) SignOut(ctx context.Context) error {
	if err := l.auth.SignOut(ctx); err != nil {
		return err
	}
	l.user = nil
	l.resetState()
	return nil
}

func (l *Ledger) ResetPassword(ctx context.Context, email string) error {
	return l.auth.ResetPassword(ctx, email)
}
