// Package tui はbubbleteaでゲームを操作する端末UIを提供する
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nnaakkaaii/tilt2048/internal/domain"
	"github.com/nnaakkaaii/tilt2048/internal/usecase"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9f6f2")).Background(lipgloss.Color("#8f7a66")).Padding(0, 1)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#bbada0"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f65e3b"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cellStyle   = lipgloss.NewStyle().Width(7).Height(1).Align(lipgloss.Center).Bold(true)
)

// 値ごとの背景色。これより大きい値は最後の色を使う
var tileColors = []string{
	"#cdc1b4", // 空
	"#eee4da", // 2
	"#ede0c8", // 4
	"#f2b179", // 8
	"#f59563", // 16
	"#f67c5f", // 32
	"#f65e3b", // 64
	"#edcf72", // 128
	"#edcc61", // 256
	"#edc850", // 512
	"#edc53f", // 1024
	"#edc22e", // 2048
	"#3c3a32",
}

func tileStyle(value int) lipgloss.Style {
	exp := 0
	for v := value; v > 1; v >>= 1 {
		exp++
	}
	exp = min(exp, len(tileColors)-1)

	fg := "#f9f6f2"
	if value <= 4 {
		fg = "#776e65"
	}
	return cellStyle.Background(lipgloss.Color(tileColors[exp])).Foreground(lipgloss.Color(fg))
}

// Model はbubbleteaのモデル。Session を通してゲームを進める
type Model struct {
	ctx      context.Context
	session  *usecase.Session
	status   string
	quitting bool
	err      error
}

// New はModelを生成する。session は開始済みでなければならない
func New(ctx context.Context, session *usecase.Session) Model {
	return Model{ctx: ctx, session: session}
}

// Err は終了時の保存に失敗した場合のエラーを返す
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		if m.session.Game().GameOver() {
			m.err = m.session.Finish(m.ctx)
		} else {
			m.err = m.session.Save(m.ctx)
		}
		return m, tea.Quit
	case "r":
		if err := m.session.Finish(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if err := m.session.Start(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.status = "New game."
		return m, nil
	}

	side, err := domain.ParseSide(key.String())
	if err != nil {
		return m, nil
	}
	out, err := m.session.Tilt(side)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}

	switch {
	case out.GameOver:
		m.status = "Game Over! Press r to play again."
		if err := m.session.Finish(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case !out.Changed:
		m.status = "Cannot move in that direction."
	case out.ScoreGained > 0:
		m.status = "+" + strconv.Itoa(out.ScoreGained)
	default:
		m.status = ""
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	game := m.session.Game()

	rows := make([]string, 0, game.Size())
	for _, line := range game.Values() {
		cells := make([]string, 0, len(line))
		for _, v := range line {
			label := ""
			if v > 0 {
				label = strconv.Itoa(v)
			}
			cells = append(cells, tileStyle(v).Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(strconv.Itoa(game.MaxPiece())))
	sb.WriteString("\n\n")
	sb.WriteString(boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Score: %d  Best: %d  Moves: %d\n", game.Score(), max(game.Score(), game.MaxScore()), m.session.Moves())
	if m.status != "" {
		sb.WriteString(statusStyle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("arrows/wasd/hjkl: move  r: restart  q: quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Run はTUIを起動し、終了するまでブロックする
func Run(ctx context.Context, session *usecase.Session) error {
	p := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
