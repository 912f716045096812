package domain

import (
	"fmt"
	"strings"
)

// MaxPiece は勝利となるタイルの値のデフォルト
const MaxPiece = 2048

// Game は2048ゲームの状態（盤面・スコア・最高スコア・終了判定）を管理する
// 1つのGameを複数のgoroutineから同時に操作してはならない
type Game struct {
	board    *Board
	score    int
	maxScore int
	gameOver bool
	maxPiece int
}

// Option はGameの生成オプション
type Option func(*Game)

// WithMaxPiece は勝利となるタイルの値を設定する
func WithMaxPiece(v int) Option {
	return func(g *Game) {
		g.maxPiece = v
	}
}

// WithMaxScore は過去のゲームから引き継ぐ最高スコアを設定する
func WithMaxScore(v int) Option {
	return func(g *Game) {
		g.maxScore = v
	}
}

// NewGame は size x size の空の盤面で新しいゲームを生成する
func NewGame(size int, opts ...Option) (*Game, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return newGame(b, opts), nil
}

// NewGameFromValues は盤面の値とスコアを指定してゲームを生成する
// values の形式は NewBoardFromValues と同じ
func NewGameFromValues(values [][]int, score, maxScore int, gameOver bool, opts ...Option) (*Game, error) {
	b, err := NewBoardFromValues(values)
	if err != nil {
		return nil, err
	}
	g := newGame(b, opts)
	g.score = score
	g.maxScore = max(g.maxScore, maxScore)
	g.gameOver = gameOver
	return g, nil
}

func newGame(b *Board, opts []Option) *Game {
	g := &Game{board: b, maxPiece: MaxPiece}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tile は (col,row) のタイルを返す。空マスなら nil
func (g *Game) Tile(col, row int) (*Tile, error) {
	return g.board.Tile(col, row)
}

// Size は盤面の一辺の長さを返す
func (g *Game) Size() int {
	return g.board.Size()
}

// Score は現在のスコアを返す
func (g *Game) Score() int {
	return g.score
}

// MaxScore はこれまでの最高スコアを返す（終了したゲームに GameOver を問い合わせた時に更新される）
func (g *Game) MaxScore() int {
	return g.maxScore
}

// MaxPiece は勝利となるタイルの値を返す
func (g *Game) MaxPiece() int {
	return g.maxPiece
}

// GameOver はゲームが終了しているかどうかを返す
// 終了していれば、この問い合わせの時点で最高スコアを更新する
func (g *Game) GameOver() bool {
	g.checkGameOver()
	if g.gameOver {
		g.maxScore = max(g.score, g.maxScore)
	}
	return g.gameOver
}

// EmptyCells は空のセルの座標一覧を返す
func (g *Game) EmptyCells() []Pos {
	return g.board.EmptyCells()
}

// Values は盤面の値を北側の行から順に返す
func (g *Game) Values() [][]int {
	return g.board.Values()
}

// MaxTile は盤面上の最大のタイルの値を返す
func (g *Game) MaxTile() int {
	m := 0
	for _, t := range g.board.All() {
		if t != nil && t.value > m {
			m = t.value
		}
	}
	return m
}

// Clear は盤面を空にし、スコアをリセットする。最高スコアは保持する
func (g *Game) Clear() {
	g.score = 0
	g.gameOver = false
	g.board.Clear()
}

// AddTile はタイルを盤面に追加する。そのマスは空でなければならない
func (g *Game) AddTile(t *Tile) error {
	if err := g.board.AddTile(t); err != nil {
		return err
	}
	g.checkGameOver()
	return nil
}

// Tilt は盤面を side の方向に傾ける。盤面が変化した場合は true を返す
//
// 同じ値のタイルが移動方向に隣接していればマージされ、その値がスコアに加算される。
// マージで生じたタイルは同じ Tilt で再びマージされない。
// 同じ値が3つ並んだ場合は、移動方向の先頭2つがマージされる。
func (g *Game) Tilt(side Side) bool {
	changed := false
	size := g.board.Size()

	// 全方向を「上に詰める」処理に帰着させる
	g.board.SetViewingPerspective(side)
	defer g.board.SetViewingPerspective(North)

	for col := 0; col < size; col++ {
		if g.tiltColumn(col) {
			changed = true
		}
	}

	g.checkGameOver()
	return changed
}

// tiltColumn は1列を上方向に詰めてマージする
// index はまだ確定していない最も上の行を指す
func (g *Game) tiltColumn(col int) bool {
	changed := false
	size := g.board.Size()
	index := size - 1
	for row := size - 2; row >= 0; row-- {
		next := g.board.at(col, row)
		if next == nil {
			continue
		}
		top := g.board.at(col, index)
		switch {
		case top == nil:
			// マージではないので index はそのまま。次のタイルがまだマージできる
			g.board.move(col, index, next)
			changed = true
		case top.value == next.value:
			if g.board.move(col, index, next) {
				g.score += 2 * next.value
			}
			changed = true
			index--
		default:
			index--
			// 間に空きがあれば、マージできなくても詰める
			if index > row {
				g.board.move(col, index, next)
				changed = true
			}
		}
	}
	return changed
}

func (g *Game) checkGameOver() {
	g.gameOver = IsGameOver(g.board, g.maxPiece)
}

// Clone はGameのコピーを返す
func (g *Game) Clone() *Game {
	c := *g
	c.board = g.board.Clone()
	return &c
}

// Equal は盤面・スコア・最高スコア・終了判定が全て等しいかどうかを返す
func (g *Game) Equal(other *Game) bool {
	if other == nil {
		return false
	}
	return g.score == other.score &&
		g.maxScore == other.maxScore &&
		g.gameOver == other.gameOver &&
		g.board.Equal(other.board)
}

// String は盤面とスコアを表示する
func (g *Game) String() string {
	var sb strings.Builder
	sb.WriteString(g.board.String())
	state := "not over"
	if g.gameOver {
		state = "over"
	}
	fmt.Fprintf(&sb, "Score: %d (max: %d) (game is %s)\n", g.score, g.maxScore, state)
	return sb.String()
}
