package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateOverview:
		content = RenderSnapshot(m.snap)
	case StateTasks:
		content = m.viewTasks()
	case StateHabits:
		content = m.viewHabits()
	case StateSleep:
		content = m.viewSleep()
	case StateFinance:
		content = m.viewFinance()
	case StateAddTask:
		content = m.form.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	if active == StateAddTask {
		active = StateTasks
	}
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	switch {
	case m.loading:
		return m.spinner.View() + " Loading…"
	case m.status != "":
		return warningStyle.Render(m.status)
	default:
		return dimStyle.Render("Updated " + m.snap.LoadedAt.Format("15:04:05"))
	}
}

func (m Model) viewTasks() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.UnsetMarginTop().Render(fmt.Sprintf("Agenda (%d open)", len(m.snap.Agenda))),
		renderAgenda(m.snap.Agenda, m.cursor, -1),
	)
}

func (m Model) viewHabits() string {
	s := m.snap.HabitStats
	rate := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f%%", *v)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			tile("Active", fmt.Sprintf("%d/%d", s.ActiveHabits, s.TotalHabits)),
			tile("7 days", rate(s.CompletionRate7d)),
			tile("30 days", rate(s.CompletionRate30d)),
			tile("Streaks", fmt.Sprintf("%d", s.ActiveStreaks)),
		),
		headingStyle.Render("Past year"),
		RenderHeatmap(m.snap.Heatmap),
	)
}

func (m Model) viewSleep() string {
	sc := m.snap.SleepScore
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			tile("Score", fmt.Sprintf("%d", sc.Score)),
			tile("Duration", fmt.Sprintf("%d", sc.Components.Duration)),
			tile("Quality", fmt.Sprintf("%d", sc.Components.Quality)),
			tile("Consistency", fmt.Sprintf("%d", sc.Components.Consistency)),
			tile("Nights", fmt.Sprintf("%d", sc.Nights)),
		),
		headingStyle.Render("Last 7 nights"),
		renderSleepChart(m.snap.SleepChart),
		headingStyle.Render("Today"),
		renderToday(m.snap.Today),
	)
}

func (m Model) viewFinance() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.UnsetMarginTop().Render("This month"),
		renderFinance(m.snap.Finance),
		headingStyle.Render(fmt.Sprintf("Subscriptions (%d, %s/yr)", m.snap.Subscriptions.Count, formatMoney(m.snap.Subscriptions.YearlyTotal))),
		renderRenewals(m.snap.Subscriptions),
	)
}
