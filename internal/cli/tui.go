package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/okplanar/pkg/pipeline"
)

// recentRows is how many finished graphs the live view lists.
const recentRows = 8

var (
	barDoneStyle = lipgloss.NewStyle().Foreground(colorGreen)
	barTodoStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

type itemStartedMsg struct{ index int }

type itemDoneMsg struct{ result pipeline.BatchResult }

type batchDoneMsg struct{ err error }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// batchModel - Live batch progress
// =============================================================================

// batchModel is the bubbletea model behind "batch --tui".
type batchModel struct {
	total   int
	done    int
	failed  int
	running map[int]bool
	recent  []pipeline.BatchResult
	hist    map[int]int
	start   time.Time
	now     time.Time
	cancel  context.CancelFunc

	finished bool
	err      error
}

func newBatchModel(total int, cancel context.CancelFunc) batchModel {
	now := time.Now()
	return batchModel{
		total:   total,
		running: map[int]bool{},
		hist:    map[int]int{},
		start:   now,
		now:     now,
		cancel:  cancel,
	}
}

func (m batchModel) Init() tea.Cmd {
	return tick()
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case itemStartedMsg:
		m.running[msg.index] = true
	case itemDoneMsg:
		res := msg.result
		delete(m.running, res.Index)
		m.done++
		if res.Report == nil {
			m.failed++
		} else {
			m.hist[res.Report.CrossingNumber]++
		}
		m.recent = append([]pipeline.BatchResult{res}, m.recent...)
		if len(m.recent) > recentRows {
			m.recent = m.recent[:recentRows]
		}
	case batchDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Solving graphs"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.progressBar(40))
	fmt.Fprintf(&b, "  %d/%d", m.done, m.total)
	if m.failed > 0 {
		b.WriteString("  " + StyleError.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	elapsed := m.now.Sub(m.start).Round(100 * time.Millisecond)
	b.WriteString("  " + StyleDim.Render(elapsed.String()))
	b.WriteString("\n")
	if n := len(m.running); n > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d running", n)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.recent) > 0 {
		rows := make([][]string, len(m.recent))
		for i, res := range m.recent {
			k, order := "-", ""
			if res.Report != nil {
				k = strconv.Itoa(res.Report.CrossingNumber)
				order = joinInts(res.Report.Order)
			} else if res.Err != nil {
				order = res.Err.Error()
			}
			rows[i] = []string{strconv.Itoa(res.Index + 1), res.Name, k, order}
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("#", "Graph", "k", "Order").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return styleHeader
				}
				if row < len(m.recent) && m.recent[row].Report == nil {
					return lipgloss.NewStyle().Foreground(colorRed)
				}
				return lipgloss.NewStyle()
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if len(m.hist) > 0 {
		keys := make([]int, 0, len(m.hist))
		for k := range m.hist {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("k=%d: %d", k, m.hist[k])
		}
		b.WriteString(StyleDim.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m batchModel) progressBar(width int) string {
	filled := 0
	if m.total > 0 {
		filled = m.done * width / m.total
	}
	return barDoneStyle.Render(strings.Repeat("█", filled)) +
		barTodoStyle.Render(strings.Repeat("░", width-filled))
}
