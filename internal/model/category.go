package model

// SystemKeyOther помечает обязательную категорию "Other" — её нельзя удалить,
// и именно в неё переназначаются расходы удаляемых категорий.
const SystemKeyOther = "other"

type Category struct {
	ID        string
	Name      string
	Color     string
	SystemKey string // пусто для пользовательских категорий
}

// IsOther сообщает, является ли категория системной категорией "Other".
func (c Category) IsOther() bool {
	return c.SystemKey == SystemKeyOther
}
