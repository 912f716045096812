package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
)

// PlayGame はCLIで2048ゲームを実行する
// 入力が終わるか q が入力されると、ゲームを保存して終了する
func PlayGame(ctx context.Context, r io.Reader, w io.Writer, session *Session) error {
	reader := bufio.NewReader(r)

	fmt.Fprintln(w, "=== 2048 ===")
	fmt.Fprintln(w, "Controls: w=Up, s=Down, a=Left, d=Right, q=Quit")
	fmt.Fprintln(w)

	for {
		game := session.Game()
		fmt.Fprint(w, game)

		if game.GameOver() {
			fmt.Fprintln(w, "Game Over!")
			return session.Finish(ctx)
		}

		fmt.Fprint(w, "Move: ")
		input, err := reader.ReadString('\n')
		if err != nil && strings.TrimSpace(input) == "" {
			return session.Save(ctx)
		}

		input = strings.TrimSpace(strings.ToLower(input))
		if input == "q" {
			fmt.Fprintln(w, "Quit.")
			return session.Save(ctx)
		}

		side, perr := domain.ParseSide(input)
		if perr != nil {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d or q to quit.")
			continue
		}

		out, terr := session.Tilt(side)
		if terr != nil {
			return terr
		}
		if !out.Changed {
			fmt.Fprintln(w, "Cannot move in that direction.")
		}
		fmt.Fprintln(w)
	}
}
