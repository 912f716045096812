package domain

import "fmt"

// Tile は盤面上の1枚のタイルを表す（immutable）
// 座標は盤面基準で、(0,0) が左下、row が増えると北（上）に進む
type Tile struct {
	value int
	col   int
	row   int
}

// NewTile は値と位置を指定してTileを生成する
func NewTile(value, col, row int) *Tile {
	return &Tile{value: value, col: col, row: row}
}

// Value はタイルの値を返す
func (t *Tile) Value() int {
	return t.value
}

// Col はタイルの列を返す
func (t *Tile) Col() int {
	return t.col
}

// Row はタイルの行を返す
func (t *Tile) Row() int {
	return t.row
}

// movedTo は同じ値で位置だけ異なる新しいTileを返す
func (t *Tile) movedTo(col, row int) *Tile {
	return &Tile{value: t.value, col: col, row: row}
}

// mergedWith は2倍の値を持つ新しいTileを (col,row) に生成する
func (t *Tile) mergedWith(col, row int) *Tile {
	return &Tile{value: t.value * 2, col: col, row: row}
}

func (t *Tile) String() string {
	return fmt.Sprintf("%d@(%d,%d)", t.value, t.col, t.row)
}

func validValue(v int) bool {
	return v > 0 && v&(v-1) == 0
}
