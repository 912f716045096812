// Package config はゲームの設定を環境変数から読み込む
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config はゲームとドライバの設定
type Config struct {
	Size            int     `env:"TILT2048_SIZE" envDefault:"4"`
	MaxPiece        int     `env:"TILT2048_MAX_PIECE" envDefault:"2048"`
	FourProbability float64 `env:"TILT2048_FOUR_PROBABILITY" envDefault:"0.1"`
	Seed            int64   `env:"TILT2048_SEED"`

	DBPath     string `env:"TILT2048_DB_PATH" envDefault:"tilt2048.db"`
	MoveLogDir string `env:"TILT2048_MOVE_LOG_DIR" envDefault:"movelogs"`

	LogLevel  string `env:"TILT2048_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"TILT2048_LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"TILT2048_LOG_FILE" envDefault:"tilt2048.log"`
}

// Load は .env（存在すれば）と環境変数から設定を読み込む
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse は環境変数から設定を読み込む
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate は設定値を検証する
func (c Config) Validate() error {
	if c.Size < 2 {
		return fmt.Errorf("size must be at least 2, got %d", c.Size)
	}
	if c.MaxPiece < 4 || c.MaxPiece&(c.MaxPiece-1) != 0 {
		return fmt.Errorf("max piece must be a power of two of at least 4, got %d", c.MaxPiece)
	}
	if c.FourProbability < 0 || c.FourProbability > 1 {
		return fmt.Errorf("four probability must be within [0,1], got %v", c.FourProbability)
	}
	return nil
}
