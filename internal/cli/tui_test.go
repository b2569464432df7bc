package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/okplanar/pkg/errors"
	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/pipeline"
)

func update(t *testing.T, m batchModel, msg tea.Msg) (batchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(batchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm, cmd
}

func TestBatchModelProgress(t *testing.T) {
	m := newBatchModel(3, nil)

	m, _ = update(t, m, itemStartedMsg{index: 0})
	m, _ = update(t, m, itemStartedMsg{index: 1})
	if len(m.running) != 2 {
		t.Fatalf("running = %v", m.running)
	}

	m, _ = update(t, m, itemDoneMsg{pipeline.BatchResult{
		Index:  0,
		Name:   "C~",
		Report: &gio.Report{CrossingNumber: 1, Order: []int{0, 2, 1, 3}},
	}})
	m, _ = update(t, m, itemDoneMsg{pipeline.BatchResult{
		Index: 1,
		Name:  "C?",
		Err:   errors.New(errors.ErrCodeNotConnected, "graph is not connected"),
	}})

	if m.done != 2 || m.failed != 1 {
		t.Errorf("done=%d failed=%d", m.done, m.failed)
	}
	if len(m.running) != 0 {
		t.Errorf("running = %v", m.running)
	}
	if m.hist[1] != 1 {
		t.Errorf("hist = %v", m.hist)
	}
	if m.recent[0].Name != "C?" {
		t.Errorf("most recent first, got %q", m.recent[0].Name)
	}

	view := m.View()
	for _, want := range []string{"2/3", "1 failed", "C~", "0 2 1 3", "not connected", "k=1: 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBatchModelRecentCapped(t *testing.T) {
	m := newBatchModel(20, nil)
	for i := 0; i < 20; i++ {
		m, _ = update(t, m, itemDoneMsg{pipeline.BatchResult{Index: i, Report: &gio.Report{}}})
	}
	if len(m.recent) != recentRows {
		t.Errorf("recent = %d, want %d", len(m.recent), recentRows)
	}
	if m.recent[0].Index != 19 {
		t.Errorf("recent[0] = %d, want 19", m.recent[0].Index)
	}
	if m.hist[0] != 20 {
		t.Errorf("hist = %v", m.hist)
	}
}

func TestBatchModelQuit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newBatchModel(1, cancel)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if ctx.Err() == nil {
		t.Error("q should cancel the batch")
	}
}

func TestBatchModelDone(t *testing.T) {
	m := newBatchModel(1, nil)
	want := errors.New(errors.ErrCodeTimeout, "deadline")

	m, cmd := update(t, m, batchDoneMsg{err: want})
	if !m.finished || m.err != want {
		t.Errorf("finished=%v err=%v", m.finished, m.err)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestBatchModelTick(t *testing.T) {
	m := newBatchModel(1, nil)
	later := m.start.Add(1500 * time.Millisecond)

	m, cmd := update(t, m, tickMsg(later))
	if !m.now.Equal(later) {
		t.Errorf("now = %v", m.now)
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if !strings.Contains(m.View(), "1.5s") {
		t.Errorf("view missing elapsed time:\n%s", m.View())
	}
}

func TestProgressBar(t *testing.T) {
	m := newBatchModel(4, nil)
	m.done = 2
	bar := m.progressBar(8)
	if strings.Count(bar, "█") != 4 || strings.Count(bar, "░") != 4 {
		t.Errorf("bar = %q", bar)
	}
	empty := newBatchModel(0, nil).progressBar(5)
	if strings.Count(empty, "░") != 5 {
		t.Errorf("empty bar = %q", empty)
	}
}
