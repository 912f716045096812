package usecase

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
)

// Analysis は1方向に傾けた場合の結果
type Analysis struct {
	Side        domain.Side
	Changed     bool
	ScoreGained int
	Values      [][]int
}

// Analyze は各方向に傾けた結果を返す。元のゲームは変更しない
func Analyze(game *domain.Game) []Analysis {
	results := make([]Analysis, 0, len(domain.Sides))
	for _, side := range domain.Sides {
		clone := game.Clone()
		before := clone.Score()
		changed := clone.Tilt(side)
		results = append(results, Analysis{
			Side:        side,
			Changed:     changed,
			ScoreGained: clone.Score() - before,
			Values:      clone.Values(),
		})
	}
	return results
}

// ReadBoard は空白区切りの N*N 個の数値（0=空、北側の行から）を読み込む
// "quit" または入力の終わりで nil を返す
func ReadBoard(scanner *bufio.Scanner, maxPiece int) (*domain.Game, error) {
	if !scanner.Scan() {
		return nil, scanner.Err()
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "quit" || line == "q" {
		return nil, nil
	}

	fields := strings.Fields(line)
	size := int(math.Sqrt(float64(len(fields))))
	if size < 1 || size*size != len(fields) {
		return nil, fmt.Errorf("expected a square number of values, got %d", len(fields))
	}

	values := make([][]int, size)
	for r := range values {
		values[r] = make([]int, size)
		for c := range values[r] {
			v, err := strconv.Atoi(fields[r*size+c])
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", fields[r*size+c])
			}
			values[r][c] = v
		}
	}
	return domain.NewGameFromValues(values, 0, 0, false, domain.WithMaxPiece(maxPiece))
}

// PrintAnalysis は Analyze の結果を表示する
func PrintAnalysis(w io.Writer, game *domain.Game) {
	fmt.Fprintln(w, "\nCurrent board:")
	fmt.Fprint(w, game)
	if game.GameOver() {
		fmt.Fprintln(w, "Game Over!")
		return
	}

	fmt.Fprintln(w, "\nTilt outcomes:")
	for _, a := range Analyze(game) {
		if !a.Changed {
			fmt.Fprintf(w, "  %-5s: no change\n", a.Side)
			continue
		}
		fmt.Fprintf(w, "  %-5s: +%d\n", a.Side, a.ScoreGained)
	}
}
