package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	SupabaseURL string
	SupabaseKey string
	DataDir     string // каталог локальных данных (настройки, токен сессии)
	Email       string // необязательные учётные данные для CLI
	Password    string
}

func LoadConfig() (*Config, error) {
	// .env не обязателен: переменные могут прийти из окружения.
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),
		DataDir:     os.Getenv("FINTRACK_DATA_DIR"),
		Email:       os.Getenv("FINTRACK_EMAIL"),
		Password:    os.Getenv("FINTRACK_PASSWORD"),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}

	var missing []string
	if cfg.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if cfg.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// PrefsPath возвращает путь к файлу локального хранилища настроек.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.DataDir, "fintrack.db")
}
