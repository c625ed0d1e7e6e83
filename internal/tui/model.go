// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/theseus/internal/client"
	"github.com/julianstephens/theseus/internal/dashboard"
	"github.com/julianstephens/theseus/internal/models"
)

// Backend feeds the dashboard and accepts task edits. *client.Client and
// dashboard.LocalSource both satisfy it.
type Backend interface {
	dashboard.Source
	CreateTask(ctx context.Context, t client.NewTask) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, p models.TaskPatch) (models.Task, error)
}

type SessionState int

const (
	StateOverview SessionState = iota
	StateTasks
	StateHabits
	StateSleep
	StateFinance
	StateAddTask
)

var tabTitles = []string{"Overview", "Tasks", "Habits", "Sleep", "Finance"}

const tabCount = 5

type TaskFormModel struct {
	Title    string
	Priority string
	DueDate  string
}

// Messages produced by commands.
type (
	snapshotMsg  dashboard.Snapshot
	taskSavedMsg struct{ err error }
)

type Model struct {
	backend  Backend
	now      func() time.Time
	state    SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	loading  bool
	snap     dashboard.Snapshot
	cursor   int
	form     *huh.Form
	taskForm *TaskFormModel
	status   string
	quitting bool
	width    int
	height   int
}

func NewModel(b Backend) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headingStyle.UnsetMarginTop()
	return Model{
		backend: b,
		now:     time.Now,
		state:   StateOverview,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		loading: true,
		snap:    dashboard.Empty(time.Now()),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	b, now := m.backend, m.now
	return func() tea.Msg {
		return snapshotMsg(dashboard.LoadAt(context.Background(), b, now()))
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Add}
	if m.state == StateTasks {
		keys = append(keys, m.keys.Toggle)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down},
		{m.keys.Refresh, m.keys.Add, m.keys.Toggle},
	}
}
