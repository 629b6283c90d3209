package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/engine"
	"github.com/driftwall/driftwall/pkg/layout"
)

// Terminal cells are not square; a cell maps to roughly 10x20 screen pixels
// so world geometry keeps its proportions.
const (
	cellPixelsW = 10.0
	cellPixelsH = 20.0

	// flickDistance is the simulated drag length of one key press.
	flickDistance = 140.0

	// viewFrameInterval is the TUI tick rate.
	viewFrameInterval = 33 * time.Millisecond
)

// viewCommand creates the view command: an interactive terminal browser
// for a solved layout.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [layout.json]",
		Short: "Pan a solved layout interactively in the terminal",
		Long: `View opens a solved layout in the terminal. Arrow keys (or hjkl) flick
the camera in the matching direction, enter taps the tile under the
viewport center, c recenters, and q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf, err := loadLayoutFile(args[0])
			if err != nil {
				return err
			}
			model := newViewModel(lf.Layout)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// tickMsg advances the engine by one frame.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(viewFrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// viewModel is the bubbletea model wrapping one engine.
type viewModel struct {
	layout layout.Layout
	eng    *engine.Engine
	frame  engine.Frame

	cols int
	rows int
}

func newViewModel(l layout.Layout) viewModel {
	cols, rows := 80, 24
	return viewModel{
		layout: l,
		eng:    engine.New(l, float64(cols)*cellPixelsW, float64(rows)*cellPixelsH),
		cols:   cols,
		rows:   rows,
	}
}

func (m viewModel) Init() tea.Cmd {
	return tick()
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.flick(0, flickDistance)
		case "down", "j":
			m.flick(0, -flickDistance)
		case "left", "h":
			m.flick(flickDistance, 0)
		case "right", "l":
			m.flick(-flickDistance, 0)
		case "enter", " ":
			m.tapCenter()
		case "esc":
			m.eng.ClearSelection()
		case "c":
			m.eng.Recenter(time.Now())
		}
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height - 2 // status lines
		if m.rows < 4 {
			m.rows = 4
		}
		m.eng.SetViewport(float64(m.cols)*cellPixelsW, float64(m.rows)*cellPixelsH)
	case tickMsg:
		m.frame = m.eng.Step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

// flick simulates a quick drag ending with enough velocity to glide.
func (m *viewModel) flick(dx, dy float64) {
	now := time.Now()
	cx := float64(m.cols) * cellPixelsW / 2
	cy := float64(m.rows) * cellPixelsH / 2
	m.eng.PointerDown(now, cx, cy)
	m.eng.PointerMove(now.Add(8*time.Millisecond), cx+dx, cy+dy)
	m.eng.PointerUp(now.Add(16*time.Millisecond), cx+dx, cy+dy)
}

// tapCenter releases a stationary pointer at the viewport center, selecting
// the tile under it.
func (m *viewModel) tapCenter() {
	now := time.Now()
	cx := float64(m.cols) * cellPixelsW / 2
	cy := float64(m.rows) * cellPixelsH / 2
	m.eng.PointerDown(now, cx, cy)
	m.eng.PointerUp(now.Add(40*time.Millisecond), cx, cy)
}

var (
	viewTileStyle     = lipgloss.NewStyle().Foreground(colorGray)
	viewSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	viewStatusStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

func (m viewModel) View() string {
	grid := make([][]rune, m.rows)
	for r := range grid {
		grid[r] = make([]rune, m.cols)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}
	selected := make([][]bool, m.rows)
	for r := range selected {
		selected[r] = make([]bool, m.cols)
	}

	// Paint every visible tile copy into the character grid.
	period := m.layout.WorldSize * m.frame.Scale
	for _, set := range m.frame.Tiles {
		baseX := m.frame.Offset.X + float64(set.Offset.Col)*period
		baseY := m.frame.Offset.Y + float64(set.Offset.Row)*period
		for _, idx := range set.Indexes {
			it := m.layout.Items[idx]
			x0 := int((baseX + it.X*m.frame.Scale) / cellPixelsW)
			y0 := int((baseY + it.Y*m.frame.Scale) / cellPixelsH)
			x1 := int((baseX + (it.X+it.W)*m.frame.Scale) / cellPixelsW)
			y1 := int((baseY + (it.Y+it.H)*m.frame.Scale) / cellPixelsH)
			m.paintTile(grid, selected, x0, y0, x1, y1, idx == m.frame.Selected)
		}
	}

	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		run := strings.Builder{}
		for c := 0; c < m.cols; c++ {
			run.WriteRune(grid[r][c])
		}
		line := run.String()
		// Selected tiles repaint brighter; per-line styling keeps this cheap.
		if rowHasSelection(selected[r]) {
			b.WriteString(viewSelectedStyle.Render(line))
		} else {
			b.WriteString(viewTileStyle.Render(line))
		}
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%s  offset (%.0f, %.0f)", m.frame.Phase, m.frame.Offset.X, m.frame.Offset.Y)
	if m.layout.Title != "" {
		status = m.layout.Title + "  " + status
	}
	if m.frame.Selected >= 0 {
		status += "  selected " + m.layout.Items[m.frame.Selected].ID
	}
	if m.frame.ShowRecenter {
		status += "  [c] recenter"
	}
	b.WriteString(viewStatusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(viewStatusStyle.Render("←↓↑→/hjkl pan  ⏎ select  esc clear  c recenter  q quit"))

	return b.String()
}

// paintTile fills a cell rectangle, clipped to the grid.
func (m viewModel) paintTile(grid [][]rune, sel [][]bool, x0, y0, x1, y1 int, isSelected bool) {
	for y := y0; y <= y1; y++ {
		if y < 0 || y >= m.rows {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= m.cols {
				continue
			}
			ch := '░'
			if y == y0 || y == y1 || x == x0 || x == x1 {
				ch = '▒'
			}
			if isSelected {
				ch = '█'
				sel[y][x] = true
			}
			grid[y][x] = ch
		}
	}
}

func rowHasSelection(row []bool) bool {
	for _, v := range row {
		if v {
			return true
		}
	}
	return false
}
