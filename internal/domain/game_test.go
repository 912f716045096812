package domain

import (
	"errors"
	"strings"
	"testing"
)

func mustGame(t *testing.T, values [][]int, score int) *Game {
	t.Helper()
	g, err := NewGameFromValues(values, score, 0, false)
	if err != nil {
		t.Fatalf("NewGameFromValues: %v", err)
	}
	return g
}

// tiltLine は4x4盤面の最上段に line を置いて左に傾けた結果を返す
func tiltLine(t *testing.T, line [4]int) ([4]int, int, bool) {
	t.Helper()
	g := mustGame(t, [][]int{
		line[:],
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)
	changed := g.Tilt(West)
	var result [4]int
	copy(result[:], g.Values()[0])
	return result, g.Score(), changed
}

func TestTiltLine(t *testing.T) {
	tests := []struct {
		name     string
		input    [4]int
		expected [4]int
		score    int
		changed  bool
	}{
		{
			name:     "empty line",
			input:    [4]int{0, 0, 0, 0},
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "no merge needed",
			input:    [4]int{2, 4, 8, 16},
			expected: [4]int{2, 4, 8, 16},
		},
		{
			name:     "simple merge",
			input:    [4]int{2, 2, 0, 0},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "merge with gap",
			input:    [4]int{2, 0, 2, 0},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "two merges",
			input:    [4]int{2, 2, 4, 4},
			expected: [4]int{4, 8, 0, 0},
			score:    12,
			changed:  true,
		},
		{
			name:     "chain does not cascade",
			input:    [4]int{2, 2, 2, 2},
			expected: [4]int{4, 4, 0, 0},
			score:    8,
			changed:  true,
		},
		{
			name:     "three same values",
			input:    [4]int{2, 2, 2, 0},
			expected: [4]int{4, 2, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "merged tile does not merge again",
			input:    [4]int{2, 0, 2, 4},
			expected: [4]int{4, 4, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "different values compact across gap",
			input:    [4]int{4, 0, 0, 2},
			expected: [4]int{4, 2, 0, 0},
			changed:  true,
		},
		{
			name:     "shift left",
			input:    [4]int{0, 0, 0, 2},
			expected: [4]int{2, 0, 0, 0},
			changed:  true,
		},
		{
			name:     "merge behind blocked pair",
			input:    [4]int{4, 2, 0, 2},
			expected: [4]int{4, 4, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "compact then merge",
			input:    [4]int{0, 4, 8, 8},
			expected: [4]int{4, 16, 0, 0},
			score:    16,
			changed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score, changed := tiltLine(t, tt.input)
			if result != tt.expected {
				t.Errorf("tilt(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("tilt(%v) score = %d, want %d", tt.input, score, tt.score)
			}
			if changed != tt.changed {
				t.Errorf("tilt(%v) changed = %v, want %v", tt.input, changed, tt.changed)
			}
		})
	}
}

func TestTiltUpConcreteScenario(t *testing.T) {
	// 下から上へ [空, 2, 空, 2] の列
	g := mustGame(t, [][]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	if !g.Tilt(North) {
		t.Fatal("expected tilt to change the board")
	}
	want := [][]int{
		{4, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	if !equalValues(g.Values(), want) {
		t.Errorf("got\n%v\nwant\n%v", g, want)
	}
	if g.Score() != 4 {
		t.Errorf("expected score 4, got %d", g.Score())
	}
}

func TestTiltAllSides(t *testing.T) {
	start := [][]int{
		{2, 0, 0, 2},
		{2, 0, 0, 0},
		{2, 4, 0, 0},
		{0, 4, 8, 8},
	}

	tests := []struct {
		side  Side
		want  [][]int
		score int
	}{
		{
			side: North,
			want: [][]int{
				{4, 8, 8, 2},
				{2, 0, 0, 8},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 12,
		},
		{
			side: South,
			want: [][]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{2, 0, 0, 2},
				{4, 8, 8, 8},
			},
			score: 12,
		},
		{
			side: West,
			want: [][]int{
				{4, 0, 0, 0},
				{2, 0, 0, 0},
				{2, 4, 0, 0},
				{4, 16, 0, 0},
			},
			score: 20,
		},
		{
			side: East,
			want: [][]int{
				{0, 0, 0, 4},
				{0, 0, 0, 2},
				{0, 0, 2, 4},
				{0, 0, 4, 16},
			},
			score: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			g := mustGame(t, start, 0)
			if !g.Tilt(tt.side) {
				t.Fatal("expected tilt to change the board")
			}
			if !equalValues(g.Values(), tt.want) {
				t.Errorf("got\n%vwant %v", g, tt.want)
			}
			if g.Score() != tt.score {
				t.Errorf("score = %d, want %d", g.Score(), tt.score)
			}
		})
	}
}

func TestTiltTripleTieBreak(t *testing.T) {
	// 移動方向の先頭2つがマージされ、最後尾は残る
	cases := map[Side][][]int{
		North: {
			{4, 0, 0, 0},
			{2, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
		South: {
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{2, 0, 0, 0},
			{4, 0, 0, 0},
		},
	}
	for side, want := range cases {
		g := mustGame(t, [][]int{
			{0, 0, 0, 0},
			{2, 0, 0, 0},
			{2, 0, 0, 0},
			{2, 0, 0, 0},
		}, 0)
		g.Tilt(side)
		if !equalValues(g.Values(), want) {
			t.Errorf("%s: got\n%v", side, g)
		}
		if g.Score() != 4 {
			t.Errorf("%s: score = %d, want 4", side, g.Score())
		}
	}
}

func TestTiltNoChangeIsIdempotent(t *testing.T) {
	values := [][]int{
		{2, 4, 8, 16},
		{4, 8, 16, 32},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	g := mustGame(t, values, 10)
	before := g.Clone()

	if g.Tilt(North) {
		t.Error("expected no change")
	}
	if !g.Equal(before) {
		t.Errorf("board changed on a no-op tilt:\n%v", g)
	}
	if g.Score() != 10 {
		t.Errorf("score changed on a no-op tilt: %d", g.Score())
	}
}

func TestTiltRestoresPerspective(t *testing.T) {
	for _, side := range Sides {
		g := mustGame(t, [][]int{
			{0, 0, 0, 0},
			{0, 2, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}, 0)
		g.Tilt(side)
		if p := g.board.Perspective(); p != North {
			t.Errorf("after tilt %s perspective = %s, want Up", side, p)
		}
	}
}

func TestScoreAdditivity(t *testing.T) {
	g := mustGame(t, [][]int{
		{2, 2, 4, 4},
		{8, 8, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	g.Tilt(West) // 4 + 8 + 16
	if g.Score() != 28 {
		t.Fatalf("score after first tilt = %d, want 28", g.Score())
	}
	// {4, 8}, {16} -> 上に詰めても値が違うのでマージなし
	g.Tilt(North)
	if g.Score() != 28 {
		t.Errorf("plain slide changed score to %d", g.Score())
	}
	g.Tilt(South)
	g.Tilt(East)
	if g.Score() != 28 {
		t.Errorf("score = %d, want 28", g.Score())
	}
}

func TestGameAddTile(t *testing.T) {
	g, err := NewGame(4)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := g.AddTile(NewTile(2, 0, 0)); err != nil {
		t.Fatalf("AddTile: %v", err)
	}
	if err := g.AddTile(NewTile(4, 0, 0)); !errors.Is(err, ErrOccupiedCell) {
		t.Errorf("AddTile error = %v, want ErrOccupiedCell", err)
	}
	tile, err := g.Tile(0, 0)
	if err != nil || tile == nil || tile.Value() != 2 {
		t.Errorf("Tile(0,0) = %v, %v", tile, err)
	}
}

func TestGameAddTileWinningValueEndsGame(t *testing.T) {
	g, _ := NewGame(4, WithMaxPiece(64))
	if err := g.AddTile(NewTile(64, 2, 2)); err != nil {
		t.Fatalf("AddTile: %v", err)
	}
	if !g.GameOver() {
		t.Error("expected game over when the winning tile is placed")
	}
}

func TestGameOverUpdatesMaxScore(t *testing.T) {
	g, err := NewGameFromValues([][]int{
		{2, 4},
		{4, 2},
	}, 100, 50, false)
	if err != nil {
		t.Fatalf("NewGameFromValues: %v", err)
	}

	if !g.GameOver() {
		t.Fatal("expected game over")
	}
	if g.MaxScore() != 100 {
		t.Errorf("max score = %d, want 100", g.MaxScore())
	}

	g.Clear()
	if g.Score() != 0 || g.GameOver() {
		t.Errorf("clear should reset score and game over, got score=%d over=%v", g.Score(), g.GameOver())
	}
	if g.MaxScore() != 100 {
		t.Errorf("clear must keep max score, got %d", g.MaxScore())
	}

	// 低いスコアで終わっても最高スコアは下がらない
	low, _ := NewGameFromValues([][]int{{2, 4}, {4, 2}}, 10, 100, false)
	low.GameOver()
	if low.MaxScore() != 100 {
		t.Errorf("max score decreased to %d", low.MaxScore())
	}
}

func TestGameMaxScoreNotUpdatedBeforeEnd(t *testing.T) {
	g := mustGame(t, [][]int{
		{2, 2},
		{0, 0},
	}, 0)
	g.Tilt(West)
	if g.Score() != 4 {
		t.Fatalf("score = %d, want 4", g.Score())
	}
	if g.GameOver() {
		t.Fatal("game should not be over")
	}
	if g.MaxScore() != 0 {
		t.Errorf("max score updated before the game ended: %d", g.MaxScore())
	}
}

func TestGameMaxScoreUpdatedOnQuery(t *testing.T) {
	g := mustGame(t, [][]int{
		{1024, 1024},
		{0, 0},
	}, 0)
	g.Tilt(West)
	if g.Score() != 2048 {
		t.Fatalf("score = %d, want 2048", g.Score())
	}
	// 終了判定を問い合わせるまでは更新しない
	if g.MaxScore() != 0 {
		t.Errorf("max score = %d before GameOver(), want 0", g.MaxScore())
	}
	if !g.GameOver() {
		t.Fatal("expected game over after reaching 2048")
	}
	if g.MaxScore() != 2048 {
		t.Errorf("max score = %d after GameOver(), want 2048", g.MaxScore())
	}
}

func TestGameWithMaxScoreOption(t *testing.T) {
	g, _ := NewGame(4, WithMaxScore(300))
	if g.MaxScore() != 300 {
		t.Errorf("max score = %d, want 300", g.MaxScore())
	}
}

func TestGameEqual(t *testing.T) {
	values := [][]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	a := mustGame(t, values, 8)
	b := mustGame(t, values, 8)
	c := mustGame(t, values, 12)
	d := mustGame(t, [][]int{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 8)

	if !a.Equal(b) {
		t.Error("expected a and b to be equal")
	}
	if a.Equal(c) {
		t.Error("games with different scores should differ")
	}
	if a.Equal(d) {
		t.Error("games with different boards should differ")
	}
	if a.Equal(nil) {
		t.Error("game should not equal nil")
	}
}

func TestGameString(t *testing.T) {
	g := mustGame(t, [][]int{
		{2, 0},
		{0, 2048},
	}, 20)
	g.GameOver()
	str := g.String()
	if !strings.Contains(str, "2048") || !strings.Contains(str, "Score: 20") || !strings.Contains(str, "game is over") {
		t.Errorf("unexpected rendering:\n%s", str)
	}
}
