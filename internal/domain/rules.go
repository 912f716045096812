package domain

// EmptySpaceExists は空きマスが1つでもあるかどうかを返す
func EmptySpaceExists(b *Board) bool {
	for _, t := range b.All() {
		if t == nil {
			return true
		}
	}
	return false
}

// MaxTileExists は maxPiece の値を持つタイルがあるかどうかを返す
func MaxTileExists(b *Board, maxPiece int) bool {
	for _, t := range b.All() {
		if t != nil && t.value == maxPiece {
			return true
		}
	}
	return false
}

// AtLeastOneMoveExists は有効な手が残っているかどうかを返す
// 空きマスがあるか、上下左右に同じ値のタイルが隣接していれば手がある
func AtLeastOneMoveExists(b *Board) bool {
	if EmptySpaceExists(b) {
		return true
	}
	for p, t := range b.All() {
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			c, r := p.Col+d[0], p.Row+d[1]
			if !b.inBounds(c, r) {
				continue
			}
			if n := b.cells[c][r]; n != nil && n.value == t.value {
				return true
			}
		}
	}
	return false
}

// IsGameOver は勝利タイルがあるか、手が残っていない場合に true を返す
func IsGameOver(b *Board, maxPiece int) bool {
	return MaxTileExists(b, maxPiece) || !AtLeastOneMoveExists(b)
}
