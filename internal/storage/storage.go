// Package storage はゲーム結果と中断したゲームの永続化に使う型を定義する
package storage

import (
	"errors"
	"time"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
)

// ErrNotFound は該当するレコードがないことを表す
var ErrNotFound = errors.New("record not found")

// Result は終了したゲームの記録
type Result struct {
	GameID     string
	Size       int
	Score      int
	MaxTile    int
	Moves      int
	Won        bool
	Cells      []uint8
	FinishedAt time.Time
}

// SavedGame は中断したゲームの状態
type SavedGame struct {
	GameID   string
	Snapshot domain.Snapshot
	Moves    int
	SavedAt  time.Time
}
