package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
)

// Load читает конфигурацию из окружения.
// Если задан SHARD_CONFIG_FILE, сначала читается YAML-файл, затем
// переменные окружения перекрывают его значения.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv(constants.EnvConfigFile); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				fmt.Sprintf("не удалось прочитать файл конфигурации %s", path), err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать переменные окружения", err)
	}
	return &cfg, nil
}

// Usage возвращает описание переменных окружения.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
