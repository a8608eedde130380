package vimmaster

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/vimmasterbot/vimmaster/vimmaster/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	Web      WebConfig         `toml:"web"`
	Telegram TelegramConfig    `toml:"telegram"`
	DB       database.DBConfig `toml:"db"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Port           string `toml:"port"`
	AllowedOrigins string `toml:"allowed_origins"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
}
