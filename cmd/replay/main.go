package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/nnaakkaaii/tilt2048/internal/app"
	"github.com/nnaakkaaii/tilt2048/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults := usecase.DefaultReplayConfig()
	cmd := &cli.Command{
		Name:  "replay",
		Usage: "play a game by repeating a fixed sequence of moves",
		Flags: append(app.Flags(),
			&cli.StringFlag{Name: "moves", Value: "up,right,down,left", Usage: "comma separated moves (up/down/left/right or w/a/s/d)"},
			&cli.IntFlag{Name: "limit", Value: defaults.Limit, Usage: "maximum number of attempted moves (0 = no limit)"},
			&cli.DurationFlag{Name: "delay", Value: defaults.Delay, Usage: "delay between moves"},
			&cli.BoolFlag{Name: "quiet", Usage: "only print the final result"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			moves, err := usecase.ParseMoves(cmd.String("moves"))
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(cmd)
			if err != nil {
				return err
			}
			rt, err := app.Open(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			session, err := rt.NewSession(ctx)
			if err != nil {
				return err
			}

			config := usecase.ReplayConfig{
				Moves:   moves,
				Limit:   cmd.Int("limit"),
				Delay:   cmd.Duration("delay"),
				Verbose: !cmd.Bool("quiet"),
			}
			_, err = usecase.Replay(ctx, os.Stdout, session, config)
			return err
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
