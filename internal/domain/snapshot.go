package domain

import (
	"fmt"
	"math/bits"
)

// Snapshot はゲームの状態をコンパクトに表現する
// 各タイルは2の何乗かの指数で表現（0=空, 1=2, 2=4, 3=8, ..., 11=2048）
// Cells は北側の行から順に、各行は西から東へ並ぶ
type Snapshot struct {
	Size     int
	Cells    []uint8
	Score    int
	MaxScore int
	GameOver bool
}

// Snapshot は現在の状態のSnapshotを返す
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Size:     g.board.Size(),
		Cells:    make([]uint8, 0, g.board.Size()*g.board.Size()),
		Score:    g.score,
		MaxScore: g.maxScore,
		GameOver: g.gameOver,
	}
	for _, t := range g.board.All() {
		if t == nil {
			s.Cells = append(s.Cells, 0)
			continue
		}
		// 2の何乗かを計算（2→1, 4→2, 8→3, ...）
		s.Cells = append(s.Cells, uint8(bits.TrailingZeros(uint(t.value))))
	}
	return s
}

// Values は盤面の値を北側の行から順に返す
func (s Snapshot) Values() [][]int {
	values := make([][]int, s.Size)
	for r := range values {
		values[r] = make([]int, s.Size)
		for c := range values[r] {
			if exp := s.Cells[r*s.Size+c]; exp > 0 {
				values[r][c] = 1 << exp // 2^exp
			}
		}
	}
	return values
}

// MaxTile は最大のタイルの値を返す
func (s Snapshot) MaxTile() int {
	var m uint8
	for _, exp := range s.Cells {
		m = max(m, exp)
	}
	if m == 0 {
		return 0
	}
	return 1 << m
}

// RestoreGame はSnapshotからゲームを復元する
func RestoreGame(s Snapshot, opts ...Option) (*Game, error) {
	if s.Size < 1 || len(s.Cells) != s.Size*s.Size {
		return nil, fmt.Errorf("restore snapshot with %d cells for size %d: %w", len(s.Cells), s.Size, ErrInvalidSize)
	}
	return NewGameFromValues(s.Values(), s.Score, s.MaxScore, s.GameOver, opts...)
}
