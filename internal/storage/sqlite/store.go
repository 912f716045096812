// Package sqlite はゲーム結果と中断したゲームをSQLiteに保存する
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
	"github.com/nnaakkaaii/tilt2048/internal/storage"
	"github.com/nnaakkaaii/tilt2048/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const migrationTable = "schema_migrations"

// Store はゲーム結果と中断したゲームをSQLiteに保存する
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open はSQLiteのストアを開き、埋め込みのマイグレーションを適用する
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close はSQLiteのハンドルを閉じる
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// applyMigrations は埋め込みの各マイグレーションを高々1回だけ実行する
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var applied int
		if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM `+migrationTable+` WHERE name = ?`, file).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`, file, toMillis(time.Now())); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// SaveResult は終了したゲームを1件追加する
func (s *Store) SaveResult(ctx context.Context, result storage.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(result.GameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if len(result.Cells) != result.Size*result.Size {
		return fmt.Errorf("cells length %d does not match size %d", len(result.Cells), result.Size)
	}
	finishedAt := result.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO results (
		   game_id,
		   size,
		   score,
		   max_tile,
		   moves,
		   won,
		   cells,
		   finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		gameID,
		result.Size,
		result.Score,
		result.MaxTile,
		result.Moves,
		boolToInt(result.Won),
		result.Cells,
		toMillis(finishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// MaxScore は盤面サイズごとの最高スコアを返す。記録がなければ 0
func (s *Store) MaxScore(ctx context.Context, size int) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var best sql.NullInt64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT MAX(score) FROM results WHERE size = ?`, size).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("query max score: %w", err)
	}
	return int(best.Int64), nil
}

// TopResults はスコアの高い順に最大 limit 件の結果を返す
func (s *Store) TopResults(ctx context.Context, limit int) ([]storage.Result, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT game_id, size, score, max_tile, moves, won, cells, finished_at
		 FROM results
		 ORDER BY score DESC, finished_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []storage.Result
	for rows.Next() {
		var (
			r          storage.Result
			won        int
			finishedAt int64
		)
		if err := rows.Scan(&r.GameID, &r.Size, &r.Score, &r.MaxTile, &r.Moves, &won, &r.Cells, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Won = won != 0
		r.FinishedAt = fromMillis(finishedAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// SaveGame は中断したゲームを保存する。以前の保存は上書きする
func (s *Store) SaveGame(ctx context.Context, saved storage.SavedGame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	snap := saved.Snapshot
	if len(snap.Cells) != snap.Size*snap.Size {
		return fmt.Errorf("cells length %d does not match size %d", len(snap.Cells), snap.Size)
	}
	savedAt := saved.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO saved_game (
		   slot, game_id, size, cells, score, max_score, game_over, moves, saved_at
		 ) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.GameID,
		snap.Size,
		snap.Cells,
		snap.Score,
		snap.MaxScore,
		boolToInt(snap.GameOver),
		saved.Moves,
		toMillis(savedAt),
	)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// LoadGame は保存されたゲームを返す。なければ storage.ErrNotFound
func (s *Store) LoadGame(ctx context.Context) (storage.SavedGame, error) {
	if s == nil || s.sqlDB == nil {
		return storage.SavedGame{}, fmt.Errorf("storage is not configured")
	}
	var (
		saved    storage.SavedGame
		snap     domain.Snapshot
		gameOver int
		savedAt  int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, size, cells, score, max_score, game_over, moves, saved_at
		 FROM saved_game WHERE slot = 1`,
	).Scan(&saved.GameID, &snap.Size, &snap.Cells, &snap.Score, &snap.MaxScore, &gameOver, &saved.Moves, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SavedGame{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SavedGame{}, fmt.Errorf("load game: %w", err)
	}
	snap.GameOver = gameOver != 0
	saved.Snapshot = snap
	saved.SavedAt = fromMillis(savedAt)
	return saved, nil
}

// DeleteSavedGame は保存されたゲームが gameID のものであれば削除する
// 別のゲームが保存されていれば何もしない
func (s *Store) DeleteSavedGame(ctx context.Context, gameID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saved_game WHERE slot = 1 AND game_id = ?`, gameID); err != nil {
		return fmt.Errorf("delete saved game: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
