package domain

import (
	"fmt"
	"strings"
)

// Side は傾ける方向（盤面の辺）を表す
type Side int

const (
	North Side = iota
	East
	South
	West
)

// Sides は全方向を時計回りに並べたもの
var Sides = []Side{North, East, South, West}

func (s Side) String() string {
	switch s {
	case North:
		return "Up"
	case East:
		return "Right"
	case South:
		return "Down"
	case West:
		return "Left"
	default:
		return "Unknown"
	}
}

// ParseSide は入力文字列をSideに変換する
func ParseSide(input string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "up", "north", "n", "w", "k":
		return North, nil
	case "right", "east", "e", "d", "l":
		return East, nil
	case "down", "south", "s", "j":
		return South, nil
	case "left", "west", "a", "h":
		return West, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", input)
	}
}

// toPhysical は視点 s における論理座標を実際の盤面座標に変換する
// 論理座標では常に s の方向が「上」になる
func (s Side) toPhysical(col, row, size int) (int, int) {
	last := size - 1
	switch s {
	case East:
		return row, last - col
	case South:
		return last - col, last - row
	case West:
		return last - row, col
	default:
		return col, row
	}
}

// toLogical は toPhysical の逆変換
func (s Side) toLogical(col, row, size int) (int, int) {
	last := size - 1
	switch s {
	case East:
		return last - row, col
	case South:
		return last - col, last - row
	case West:
		return row, last - col
	default:
		return col, row
	}
}
