package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/dashboard"
	"github.com/julianstephens/theseus/internal/logger"
	"github.com/julianstephens/theseus/internal/models"
)

// Update applies load and save results in every state; the add-task form
// only receives keys and its own messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.state == StateAddTask {
			return m.updateAddTask(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.snap = dashboard.Snapshot(msg)
		m.loading = false
		if m.cursor >= len(m.snap.Agenda) {
			m.cursor = max(len(m.snap.Agenda)-1, 0)
		}
		if len(m.snap.Warnings) > 0 {
			m.status = fmt.Sprintf("%d section(s) unavailable", len(m.snap.Warnings))
		}
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			logger.Warn("Task save failed", "error", msg.err)
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		return m.refresh()

	case tea.KeyMsg:
		if m.state == StateAddTask {
			return m.updateAddTask(msg)
		}
		return m.handleKey(msg)
	}
	if m.state == StateAddTask {
		return m.updateAddTask(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state + tabCount - 1) % tabCount
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Add):
		m.taskForm = &TaskFormModel{Priority: constants.PriorityMedium}
		m.form = NewTaskForm(m.taskForm)
		m.state = StateAddTask
		return m, m.form.Init()
	case m.state != StateTasks:
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Agenda)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleSelected()
	}
	return m, nil
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.loading = true
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, m.load())
}

// toggleSelected flips the task under the cursor between done and todo.
func (m Model) toggleSelected() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.snap.Agenda) {
		return nil
	}
	t := m.snap.Agenda[m.cursor].Task
	status := constants.TaskStatusDone
	if t.Status == constants.TaskStatusDone {
		status = constants.TaskStatusTodo
	}
	b := m.backend
	return func() tea.Msg {
		_, err := b.UpdateTask(context.Background(), t.ID, models.TaskPatch{Status: &status})
		return taskSavedMsg{err: err}
	}
}

func (m Model) updateAddTask(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateTasks
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		nt := m.taskForm.newTask()
		b := m.backend
		cmds = append(cmds, func() tea.Msg {
			_, err := b.CreateTask(context.Background(), nt)
			return taskSavedMsg{err: err}
		})
		m.state = StateTasks
	case huh.StateAborted:
		m.state = StateTasks
	}
	return m, tea.Batch(cmds...)
}
