package model

// MonthBucket — состояние одного календарного месяца профиля. Живёт только
// в памяти, пока профиль загружен; бюджет и доход сохраняются удалённо
// строкой monthly_stats, расходы — отдельными строками expenses.
type MonthBucket struct {
	Budget   float64
	Income   float64
	Expenses []Expense
}

// MonthlyStat — строка бюджета/дохода месяца из удалённого хранилища,
// уникальная по паре (profile_id, month_key).
type MonthlyStat struct {
	MonthKey string
	Budget   float64
	Income   float64
}
