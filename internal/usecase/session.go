package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
	"github.com/nnaakkaaii/tilt2048/internal/logging"
	"github.com/nnaakkaaii/tilt2048/internal/movelog"
	"github.com/nnaakkaaii/tilt2048/internal/storage"
)

// Spawner は新しいタイルを配置する規則
type Spawner interface {
	Spawn(g *domain.Game) (*domain.Tile, error)
	Start(g *domain.Game) error
}

// MoveRecorder は1手ごとの記録を受け取る
type MoveRecorder interface {
	Record(row movelog.Row)
	Flush(gameID string) (string, error)
}

// ResultStore は終了したゲームを保存する
type ResultStore interface {
	SaveResult(ctx context.Context, result storage.Result) error
}

// GameSaver は中断したゲームを保存・復元する
type GameSaver interface {
	SaveGame(ctx context.Context, saved storage.SavedGame) error
	LoadGame(ctx context.Context) (storage.SavedGame, error)
	DeleteSavedGame(ctx context.Context, gameID string) error
}

// Outcome は1回の Tilt の結果
type Outcome struct {
	Changed     bool
	ScoreGained int
	Spawned     *domain.Tile
	GameOver    bool
}

// Session は1つのGameに対するドライバ
// 傾ける → 変化があればタイルを出現させる → 終了判定、の順に進める
type Session struct {
	id       string
	game     *domain.Game
	spawner  Spawner
	recorder MoveRecorder
	results  ResultStore
	saver    GameSaver
	logger   *slog.Logger
	moves    int
	finished bool
}

// SessionOption はSessionの生成オプション
type SessionOption func(*Session)

// WithRecorder は1手ごとの記録先を設定する
func WithRecorder(r MoveRecorder) SessionOption {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithResultStore は結果の保存先を設定する
func WithResultStore(r ResultStore) SessionOption {
	return func(s *Session) {
		s.results = r
	}
}

// WithGameSaver は中断したゲームの保存先を設定する
func WithGameSaver(g GameSaver) SessionOption {
	return func(s *Session) {
		s.saver = g
	}
}

// WithLogger はロガーを設定する
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession はSessionを生成する。ゲームの開始は Start で行う
func NewSession(game *domain.Game, spawner Spawner, opts ...SessionOption) *Session {
	s := &Session{
		id:      uuid.NewString(),
		game:    game,
		spawner: spawner,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID はゲームのIDを返す
func (s *Session) ID() string {
	return s.id
}

// Game は現在のゲームを返す
func (s *Session) Game() *domain.Game {
	return s.game
}

// Moves は盤面が変化した手の数を返す
func (s *Session) Moves() int {
	return s.moves
}

// Start は新しいゲームを開始する
func (s *Session) Start() error {
	if err := s.spawner.Start(s.game); err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	s.id = uuid.NewString()
	s.moves = 0
	s.finished = false
	s.logger.Info("game started", "game_id", s.id, "size", s.game.Size(), "max_score", s.game.MaxScore())
	return nil
}

// Tilt は盤面を傾け、変化があればタイルを出現させる
// ゲームが終了していれば何もしない
func (s *Session) Tilt(side domain.Side) (Outcome, error) {
	if s.game.GameOver() {
		return Outcome{GameOver: true}, nil
	}

	before := s.game.Score()
	out := Outcome{Changed: s.game.Tilt(side)}
	out.ScoreGained = s.game.Score() - before

	if out.Changed {
		s.moves++
		tile, err := s.spawner.Spawn(s.game)
		if err != nil {
			return out, fmt.Errorf("spawn after %s: %w", side, err)
		}
		out.Spawned = tile
	}
	out.GameOver = s.game.GameOver()

	s.record(side, out)
	s.logger.Debug("tilt",
		"game_id", s.id,
		"side", side.String(),
		"changed", out.Changed,
		"score_gained", out.ScoreGained,
		"score", s.game.Score(),
		"game_over", out.GameOver,
	)
	return out, nil
}

func (s *Session) record(side domain.Side, out Outcome) {
	if s.recorder == nil {
		return
	}
	snap := s.game.Snapshot()
	cells := make([]int32, 0, len(snap.Cells))
	for _, row := range snap.Values() {
		for _, v := range row {
			cells = append(cells, int32(v))
		}
	}
	row := movelog.Row{
		GameID:      s.id,
		Move:        int32(s.moves),
		Side:        side.String(),
		Changed:     out.Changed,
		ScoreGained: int32(out.ScoreGained),
		Score:       int32(snap.Score),
		Size:        int32(snap.Size),
		Cells:       cells,
		SpawnCol:    -1,
		SpawnRow:    -1,
		GameOver:    out.GameOver,
	}
	if out.Spawned != nil {
		row.SpawnCol = int32(out.Spawned.Col())
		row.SpawnRow = int32(out.Spawned.Row())
		row.SpawnValue = int32(out.Spawned.Value())
	}
	s.recorder.Record(row)
}

// Finish はゲームの結果を保存し、記録を書き出す
// 同じゲームに対して2回目以降の呼び出しは何もしない
func (s *Session) Finish(ctx context.Context) error {
	if s.finished {
		return nil
	}
	s.finished = true

	snap := s.game.Snapshot()
	var errs []error
	if s.results != nil && s.moves > 0 {
		err := s.results.SaveResult(ctx, storage.Result{
			GameID:     s.id,
			Size:       snap.Size,
			Score:      snap.Score,
			MaxTile:    snap.MaxTile(),
			Moves:      s.moves,
			Won:        snap.MaxTile() >= s.game.MaxPiece(),
			Cells:      snap.Cells,
			FinishedAt: time.Now(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("save result: %w", err))
		}
	}
	// 保存枠に別のゲームがあれば残す
	if s.saver != nil {
		if err := s.saver.DeleteSavedGame(ctx, s.id); err != nil {
			errs = append(errs, fmt.Errorf("delete saved game: %w", err))
		}
	}
	if err := s.flush(); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("game finished",
		"game_id", s.id,
		"score", snap.Score,
		"max_score", s.game.MaxScore(),
		"max_tile", snap.MaxTile(),
		"moves", s.moves,
	)
	return errors.Join(errs...)
}

func (s *Session) flush() error {
	if s.recorder == nil {
		return nil
	}
	path, err := s.recorder.Flush(s.id)
	if err != nil {
		return fmt.Errorf("flush move log: %w", err)
	}
	if path != "" {
		s.logger.Info("move log written", "game_id", s.id, "path", path)
	}
	return nil
}

// Save は中断したゲームを保存し、それまでの記録を書き出す
func (s *Session) Save(ctx context.Context) error {
	var errs []error
	if s.saver != nil {
		err := s.saver.SaveGame(ctx, storage.SavedGame{
			GameID:   s.id,
			Snapshot: s.game.Snapshot(),
			Moves:    s.moves,
			SavedAt:  time.Now(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("save game: %w", err))
		} else {
			s.logger.Info("game saved", "game_id", s.id, "moves", s.moves)
		}
	}
	if err := s.flush(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Resume は保存されたゲームを復元する。保存がなければ storage.ErrNotFound を返す
func (s *Session) Resume(ctx context.Context) error {
	if s.saver == nil {
		return storage.ErrNotFound
	}
	saved, err := s.saver.LoadGame(ctx)
	if err != nil {
		return fmt.Errorf("load saved game: %w", err)
	}
	game, err := domain.RestoreGame(saved.Snapshot,
		domain.WithMaxPiece(s.game.MaxPiece()),
		domain.WithMaxScore(s.game.MaxScore()),
	)
	if err != nil {
		return fmt.Errorf("restore saved game: %w", err)
	}
	s.game = game
	s.id = saved.GameID
	s.moves = saved.Moves
	s.finished = false
	s.logger.Info("game resumed", "game_id", s.id, "moves", s.moves, "score", game.Score())
	return nil
}
