// Package spawn は傾けた後に新しいタイルを置く規則を提供する
package spawn

import (
	"errors"
	"math/rand"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
)

// DefaultFourProbability は4が出現する確率のデフォルト
const DefaultFourProbability = 0.1

// ErrBoardFull は空きマスがないことを表す
var ErrBoardFull = errors.New("no empty cell to spawn a tile")

// Policy は空きマスにランダムにタイルを配置する
type Policy struct {
	rng             *rand.Rand
	fourProbability float64
}

// New はPolicyを生成する
func New(rng *rand.Rand, fourProbability float64) *Policy {
	return &Policy{rng: rng, fourProbability: fourProbability}
}

// Spawn は空きマスを1つ選び、2または4のタイルを配置する
func (p *Policy) Spawn(g *domain.Game) (*domain.Tile, error) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return nil, ErrBoardFull
	}

	pos := empty[p.rng.Intn(len(empty))]
	value := 2
	if p.rng.Float64() < p.fourProbability {
		value = 4
	}
	tile := domain.NewTile(value, pos.Col, pos.Row)
	if err := g.AddTile(tile); err != nil {
		return nil, err
	}
	return tile, nil
}

// Start は盤面を空にし、初期配置として2つのタイルを配置する
func (p *Policy) Start(g *domain.Game) error {
	g.Clear()
	for i := 0; i < 2; i++ {
		if _, err := p.Spawn(g); err != nil {
			return err
		}
	}
	return nil
}
