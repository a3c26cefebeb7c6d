package ledger

import (
	"context"
	"strings"

	"github.com/ivanoskov/fintrack/internal/model"
)

const defaultCategoryColor = "#6e8899"

func (l *Ledger) Categories() []model.Category {
	categories := make([]model.Category, len(l.categories))
	copy(categories, l.categories)
	return categories
}

func (l *Ledger) CategoryByID(id string) *model.Category {
	for _, category := range l.categories {
		if category.ID == id {
			found := category
			return &found
		}
	}
	return nil
}

func (l *Ledger) otherCategory() *model.Category {
	for _, category := range l.categories {
		if category.IsOther() {
			found := category
			return &found
		}
	}
	return nil
}

// AddCategory создает пользовательскую категорию. Пустое имя и дубликат
// (без учета регистра) отклоняются ошибкой валидации до обращения к серверу.
func (l *Ledger) AddCategory(ctx context.Context, name, color string) (*model.Category, error) {
	if err := l.requireActiveProfile(); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, validationf("category name is required")
	}
	for _, category := range l.categories {
		if strings.EqualFold(category.Name, trimmed) {
			return nil, validationf("category %q already exists", trimmed)
		}
	}
	if color == "" {
		color = defaultCategoryColor
	}

	created, err := l.store.CreateCategory(ctx, l.activeProfileID, model.Category{
		Name:  trimmed,
		Color: color,
	})
	if err != nil {
		return nil, err
	}
	l.categories = append(l.categories, *created)
	return created, nil
}

// RemoveCategory удаляет категорию. Системную "Other" удалить нельзя
// (возвращается false без ошибки). Расходы категории сначала переназначаются
// на "Other" на сервере и только потом категория удаляется: если два вызова
// наблюдаются порознь, осиротевших ссылок не возникает.
func (l *Ledger) RemoveCategory(ctx context.Context, id string) (bool, error) {
	if err := l.requireActiveProfile(); err != nil {
		return false, err
	}

	category := l.CategoryByID(id)
	if category == nil {
		return false, nil
	}
	if category.IsOther() {
		return false, nil
	}

	other := l.otherCategory()
	if other == nil {
		// Нарушение инварианта данных, а не ошибка пользователя.
		return false, ErrOtherCategoryMissing
	}

	if err := l.store.ReassignExpenses(ctx, l.activeProfileID, id, other.ID); err != nil {
		return false, err
	}
	if err := l.store.DeleteCategory(ctx, id, l.activeProfileID); err != nil {
		return false, err
	}

	kept := l.categories[:0]
	for _, item := range l.categories {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	l.categories = kept

	// Отражаем переназначение во всех корзинах, не только в активной.
	for _, bucket := range l.months {
		for i := range bucket.Expenses {
			if bucket.Expenses[i].CategoryID == id {
				bucket.Expenses[i].CategoryID = other.ID
			}
		}
	}
	return true, nil
}
