package prefs

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Preference — одна строка локального хранилища "ключ-значение".
// Семантика last-write-wins, без разрешения конфликтов.
type Preference struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Store — локальное постоянное хранилище настроек (аналог localStorage):
// активный профиль пользователя, просматриваемый месяц, refresh-токен сессии.
type Store struct {
	db *gorm.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}
	if err := db.AutoMigrate(&Preference{}); err != nil {
		return nil, fmt.Errorf("failed to migrate preferences schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Get возвращает значение ключа либо пустую строку, если ключ не записан.
func (s *Store) Get(key string) string {
	var pref Preference
	if err := s.db.First(&pref, "key = ?", key).Error; err != nil {
		return ""
	}
	return pref.Value
}

func (s *Store) Set(key, value string) error {
	pref := Preference{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&pref).Error; err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}
