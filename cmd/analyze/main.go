package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
	"github.com/nnaakkaaii/tilt2048/internal/usecase"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "show how a board changes for each tilt direction",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-piece", Value: domain.MaxPiece, Usage: "tile value that wins the game"},
		},
		Action: analyze,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyze(_ context.Context, cmd *cli.Command) error {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("=== 2048 Interactive Analyzer ===")
	fmt.Println("Enter board state as N*N numbers (0 for empty, top row first), or 'quit' to exit")
	fmt.Println("Example: 0 0 0 0 0 0 0 0 0 0 0 0 0 0 2 2")
	fmt.Println()

	for {
		fmt.Println("Enter board:")
		game, err := usecase.ReadBoard(scanner, cmd.Int("max-piece"))
		if err != nil {
			if scanErr := scanner.Err(); scanErr != nil {
				return scanErr
			}
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if game == nil {
			return scanner.Err()
		}

		for {
			usecase.PrintAnalysis(os.Stdout, game)
			if game.GameOver() {
				break
			}

			fmt.Print("\nApply a move (w/a/s/d), or empty line for a new board: ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			side, err := domain.ParseSide(scanner.Text())
			if err != nil {
				break
			}
			game.Tilt(side)
		}
	}
}
