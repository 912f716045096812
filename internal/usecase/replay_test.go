package usecase

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
	"github.com/nnaakkaaii/tilt2048/internal/spawn"
)

func TestParseMoves(t *testing.T) {
	tests := []struct {
		input   string
		want    []domain.Side
		wantErr bool
	}{
		{"up,left down", []domain.Side{domain.North, domain.West, domain.South}, false},
		{"w a s d", []domain.Side{domain.North, domain.West, domain.South, domain.East}, false},
		{"right", []domain.Side{domain.East}, false},
		{"", nil, true},
		{"up,sideways", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseMoves(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMoves(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseMoves(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseMoves(%q)[%d] = %s, want %s", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestReplay(t *testing.T) {
	g, err := domain.NewGame(4)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	store := &memStore{}
	rec := &memRecorder{}
	s := NewSession(g, spawn.New(rand.New(rand.NewSource(42)), spawn.DefaultFourProbability),
		WithResultStore(store), WithRecorder(rec))

	config := DefaultReplayConfig()
	config.Limit = 200
	config.Verbose = true

	var out bytes.Buffer
	result, err := Replay(context.Background(), &out, s, config)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if result.Moves == 0 || result.Moves > config.Limit {
		t.Errorf("Moves = %d, want within (0, %d]", result.Moves, config.Limit)
	}
	if result.Score != s.Game().Score() || result.MaxTile != s.Game().MaxTile() {
		t.Errorf("result %+v does not match the final game", result)
	}
	if !strings.Contains(out.String(), "=== Replay Finished ===") {
		t.Errorf("missing summary in output:\n%s", out.String())
	}
	if len(store.results) != 1 || store.results[0].Score != result.Score {
		t.Errorf("results = %+v, want the replayed game", store.results)
	}
	if len(rec.flushed) != 1 {
		t.Errorf("move log flushed %d times, want 1", len(rec.flushed))
	}
}

// cornerStart は右下に1枚だけ置き、以降は何も出現させない
type cornerStart struct{}

func (cornerStart) Spawn(*domain.Game) (*domain.Tile, error) { return nil, nil }

func (cornerStart) Start(g *domain.Game) error {
	g.Clear()
	return g.AddTile(domain.NewTile(2, g.Size()-1, 0))
}

func TestReplayStopsWhenStuck(t *testing.T) {
	g, _ := domain.NewGame(4)
	s := NewSession(g, cornerStart{})

	config := DefaultReplayConfig()
	config.Moves = []domain.Side{domain.West, domain.South}

	result, err := Replay(context.Background(), &bytes.Buffer{}, s, config)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if result.Moves != 1 {
		t.Errorf("Moves = %d, want 1", result.Moves)
	}
	if tile, _ := s.Game().Tile(0, 0); tile == nil || tile.Value() != 2 {
		t.Errorf("tile should rest in the bottom-left corner, got %v", tile)
	}
}

func TestReplayErrors(t *testing.T) {
	g, _ := domain.NewGame(4)
	s := NewSession(g, cornerStart{})

	config := DefaultReplayConfig()
	config.Moves = nil
	if _, err := Replay(context.Background(), &bytes.Buffer{}, s, config); err == nil {
		t.Error("expected error for empty moves")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Replay(ctx, &bytes.Buffer{}, s, DefaultReplayConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("Replay error = %v, want context.Canceled", err)
	}
}
