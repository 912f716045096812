package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/nnaakkaaii/tilt2048/internal/app"
	"github.com/nnaakkaaii/tilt2048/internal/storage"
	"github.com/nnaakkaaii/tilt2048/internal/tui"
	"github.com/nnaakkaaii/tilt2048/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "play",
		Usage: "play 2048 in the terminal",
		Flags: append(app.Flags(),
			&cli.BoolFlag{Name: "plain", Usage: "line based input instead of the full screen UI"},
			&cli.BoolFlag{Name: "resume", Usage: "continue the saved game if there is one"},
		),
		Action: play,
		Commands: []*cli.Command{
			{
				Name:  "scores",
				Usage: "show the best results",
				Flags: append(app.Flags(),
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "number of results"},
				),
				Action: scores,
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func play(ctx context.Context, cmd *cli.Command) error {
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

	resumed := false
	if cmd.Bool("resume") {
		err := session.Resume(ctx)
		switch {
		case err == nil:
			resumed = true
		case errors.Is(err, storage.ErrNotFound):
			rt.Logger.Info("no saved game, starting a new one")
		default:
			return err
		}
	}
	if !resumed {
		if err := session.Start(); err != nil {
			return err
		}
	}

	if cmd.Bool("plain") {
		return usecase.PlayGame(ctx, os.Stdin, os.Stdout, session)
	}
	return tui.Run(ctx, session)
}

func scores(ctx context.Context, cmd *cli.Command) error {
	cfg, err := app.LoadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := app.Open(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	results, err := rt.Store.TopResults(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}
	best, err := rt.Store.MaxScore(ctx, cfg.Size)
	if err != nil {
		return err
	}
	return printScores(os.Stdout, results, cfg.Size, best)
}

func printScores(w io.Writer, results []storage.Result, size, best int) error {
	fmt.Fprintf(w, "Best score (%dx%d): %d\n\n", size, size, best)
	if len(results) == 0 {
		fmt.Fprintln(w, "No games played yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tMAX TILE\tMOVES\tSIZE\tWON\tFINISHED")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%dx%d\t%v\t%s\n",
			i+1, r.Score, r.MaxTile, r.Moves, r.Size, r.Size, r.Won, r.FinishedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
