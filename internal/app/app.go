// Package app はコマンドに共通の設定・ロガー・保存先の組み立てを行う
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nnaakkaaii/tilt2048/internal/config"
	"github.com/nnaakkaaii/tilt2048/internal/domain"
	"github.com/nnaakkaaii/tilt2048/internal/logging"
	"github.com/nnaakkaaii/tilt2048/internal/movelog"
	"github.com/nnaakkaaii/tilt2048/internal/spawn"
	"github.com/nnaakkaaii/tilt2048/internal/storage/sqlite"
	"github.com/nnaakkaaii/tilt2048/internal/usecase"
)

// Flags は全コマンド共通のフラグ。指定されたものだけが環境変数の値を上書きする
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "size", Usage: "board size"},
		&cli.IntFlag{Name: "max-piece", Usage: "tile value that wins the game"},
		&cli.Int64Flag{Name: "seed", Usage: "random seed (0 = time based)"},
		&cli.StringFlag{Name: "db", Usage: "sqlite database path"},
		&cli.StringFlag{Name: "move-log-dir", Usage: "directory for parquet move logs (empty = disabled)"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.StringFlag{Name: "log-file", Usage: "log file path (- = stderr)"},
	}
}

// LoadConfig は環境変数から設定を読み込み、フラグで上書きして検証する
func LoadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.IsSet("size") {
		cfg.Size = cmd.Int("size")
	}
	if cmd.IsSet("max-piece") {
		cfg.MaxPiece = cmd.Int("max-piece")
	}
	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Int64("seed")
	}
	if cmd.IsSet("db") {
		cfg.DBPath = cmd.String("db")
	}
	if cmd.IsSet("move-log-dir") {
		cfg.MoveLogDir = cmd.String("move-log-dir")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Runtime はコマンドの実行に必要な依存をまとめる
type Runtime struct {
	Config config.Config
	Logger *slog.Logger
	Store  *sqlite.Store

	logFile *os.File
}

// Open はロガーと保存先を開く
// TUIが端末を使うため、ログは既定でファイルに書く
func Open(cfg config.Config) (*Runtime, error) {
	r := &Runtime{Config: cfg}

	out := os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "-" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		r.logFile = f
		out = f
	}
	logger, err := logging.New(out, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Logger = logger

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Store = store
	return r, nil
}

// Close は開いたリソースを閉じる
func (r *Runtime) Close() error {
	var errs []error
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	if r.logFile != nil {
		errs = append(errs, r.logFile.Close())
	}
	return errors.Join(errs...)
}

// NewSession は保存済みの最高スコアを引き継いだ新しい Session を返す
// ゲームの開始（Start / Resume）は呼び出し側で行う
func (r *Runtime) NewSession(ctx context.Context) (*usecase.Session, error) {
	best, err := r.Store.MaxScore(ctx, r.Config.Size)
	if err != nil {
		return nil, err
	}
	game, err := domain.NewGame(r.Config.Size,
		domain.WithMaxPiece(r.Config.MaxPiece),
		domain.WithMaxScore(best),
	)
	if err != nil {
		return nil, err
	}

	seed := r.Config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.Logger.Debug("session configured", "size", r.Config.Size, "seed", seed, "max_score", best)

	opts := []usecase.SessionOption{
		usecase.WithLogger(r.Logger),
		usecase.WithResultStore(r.Store),
		usecase.WithGameSaver(r.Store),
	}
	if r.Config.MoveLogDir != "" {
		opts = append(opts, usecase.WithRecorder(movelog.NewRecorder(r.Config.MoveLogDir)))
	}
	policy := spawn.New(rand.New(rand.NewSource(seed)), r.Config.FourProbability)
	return usecase.NewSession(game, policy, opts...), nil
}
