package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
)

// ReplayConfig は決められた手順でのプレイの設定
type ReplayConfig struct {
	Moves   []domain.Side
	Limit   int
	Delay   time.Duration
	Verbose bool
}

// DefaultReplayConfig はデフォルトの設定を返す
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Moves:   []domain.Side{domain.North, domain.East, domain.South, domain.West},
		Limit:   1000,
		Delay:   0,
		Verbose: false,
	}
}

// ReplayResult は Replay の結果
type ReplayResult struct {
	Score   int
	Moves   int
	MaxTile int
}

// ParseMoves は "up,left,down" のような手順を解析する
func ParseMoves(input string) ([]domain.Side, error) {
	var sides []domain.Side
	for _, field := range strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		side, err := domain.ParseSide(field)
		if err != nil {
			return nil, err
		}
		sides = append(sides, side)
	}
	if len(sides) == 0 {
		return nil, fmt.Errorf("no moves in %q", input)
	}
	return sides, nil
}

// Replay は config.Moves を繰り返し適用してゲームを進める
// ゲーム終了・Limit 回の試行・どの手でも盤面が変わらない、のいずれかで止まる
func Replay(ctx context.Context, w io.Writer, session *Session, config ReplayConfig) (ReplayResult, error) {
	if len(config.Moves) == 0 {
		return ReplayResult{}, fmt.Errorf("replay needs at least one move")
	}
	if err := session.Start(); err != nil {
		return ReplayResult{}, err
	}

	if config.Verbose {
		fmt.Fprintln(w, "=== 2048 Replay ===")
		fmt.Fprintf(w, "Moves: %s\n\n", sidesString(config.Moves))
	}

	stuck := 0
	for attempt := 0; config.Limit <= 0 || attempt < config.Limit; attempt++ {
		if err := ctx.Err(); err != nil {
			return ReplayResult{}, err
		}
		game := session.Game()
		if game.GameOver() || stuck >= len(config.Moves) {
			break
		}

		side := config.Moves[attempt%len(config.Moves)]
		if config.Verbose {
			fmt.Fprint(w, game)
			fmt.Fprintf(w, "Moves: %d\n", session.Moves())
			fmt.Fprintf(w, "Move: %s\n\n", side)
		}

		out, err := session.Tilt(side)
		if err != nil {
			return ReplayResult{}, err
		}
		if out.Changed {
			stuck = 0
		} else {
			stuck++
		}

		if config.Delay > 0 {
			time.Sleep(config.Delay)
		}
	}

	game := session.Game()
	game.GameOver()

	// 最終結果は常に表示
	fmt.Fprint(w, game)
	fmt.Fprintln(w, "=== Replay Finished ===")
	fmt.Fprintf(w, "Final Score: %d\n", game.Score())
	fmt.Fprintf(w, "Total Moves: %d\n", session.Moves())
	fmt.Fprintf(w, "Max Tile: %d\n", game.MaxTile())

	result := ReplayResult{Score: game.Score(), Moves: session.Moves(), MaxTile: game.MaxTile()}
	return result, session.Finish(ctx)
}

func sidesString(sides []domain.Side) string {
	names := make([]string, len(sides))
	for i, s := range sides {
		names[i] = s.String()
	}
	return strings.Join(names, ",")
}
