package ledger

import (
	"sort"
	"time"
)

// CurrentMonthKey возвращает ключ месяца (YYYY-MM) для момента времени.
func CurrentMonthKey(t time.Time) string {
	return t.Format("2006-01")
}

func monthTime(key string) (time.Time, error) {
	return time.Parse("2006-01", key)
}

func activeProfilePrefKey(userID string) string {
	return "fintrack_active_profile_id:" + userID
}

func currentMonthPrefKey(profileID string) string {
	return "fintrack_current_month:" + profileID
}

func (l *Ledger) CurrentMonth() string {
	return l.currentMonth
}

func (l *Ledger) SetCurrentMonth(key string) {
	l.setCurrentMonth(key)
}

// setCurrentMonth назначает просматриваемый месяц, гарантирует его корзину
// и запоминает выбор в локальном хранилище настроек профиля.
func (l *Ledger) setCurrentMonth(key string) {
	l.currentMonth = key
	l.ensureMonth(key)
	if l.activeProfileID != "" && l.prefs != nil {
		_ = l.prefs.Set(currentMonthPrefKey(l.activeProfileID), key)
	}
}

// NavigateMonth сдвигает просматриваемый месяц на delta месяцев
// и возвращает новый ключ.
func (l *Ledger) NavigateMonth(delta int) string {
	t, err := monthTime(l.currentMonth)
	if err != nil {
		t = l.now()
	}
	key := CurrentMonthKey(t.AddDate(0, delta, 0))
	l.setCurrentMonth(key)
	return key
}

// MonthLabel возвращает человекочитаемую подпись месяца ("March 2024").
// Пустой ключ означает текущий просматриваемый месяц.
func (l *Ledger) MonthLabel(key string) string {
	if key == "" {
		key = l.currentMonth
	}
	t, err := monthTime(key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}

// MonthsWithData возвращает отсортированные ключи материализованных корзин.
func (l *Ledger) MonthsWithData() []string {
	keys := make([]string, 0, len(l.months))
	for key := range l.months {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
