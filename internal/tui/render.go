package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/dashboard"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
)

// RenderSnapshot lays out every section of a snapshot as one block of text.
// The dashboard command prints it directly.
func RenderSnapshot(s dashboard.Snapshot) string {
	parts := []string{
		renderTiles(s),
		headingStyle.Render("Agenda"),
		renderAgenda(s.Agenda, -1, 8),
		headingStyle.Render("Habits"),
		RenderHeatmap(s.Heatmap),
		headingStyle.Render("Sleep"),
		renderSleepChart(s.SleepChart),
		headingStyle.Render("Finance"),
		renderFinance(s.Finance),
		headingStyle.Render("Renewals"),
		renderRenewals(s.Subscriptions),
	}
	if w := renderWarnings(s.Warnings); w != "" {
		parts = append(parts, "", w)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTiles(s dashboard.Snapshot) string {
	mood := "-"
	if s.Today != nil && s.Today.Mood != nil {
		mood = fmt.Sprintf("%d/5", *s.Today.Mood)
	}
	rate := "-"
	if s.HabitStats.CompletionRate7d != nil {
		rate = fmt.Sprintf("%.1f%%", *s.HabitStats.CompletionRate7d)
	}
	tiles := []string{
		tile("Open tasks", fmt.Sprintf("%d", len(s.Agenda))),
		tile("Habits 7d", rate),
		tile("Sleep score", fmt.Sprintf("%d", s.SleepScore.Score)),
		tile("Mood today", mood),
		tile("Net this month", formatMoney(s.Finance.Net)),
		tile("Subscriptions", formatMoney(s.Subscriptions.MonthlyTotal)+"/mo"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func tile(label, value string) string {
	return tileStyle.Render(dimStyle.Render(label) + "\n" + value)
}

// renderAgenda lists up to limit items; limit < 0 shows all. The item at
// cursor is highlighted.
func renderAgenda(items []metrics.AgendaItem, cursor, limit int) string {
	if len(items) == 0 {
		return dimStyle.Render("Nothing on the agenda.")
	}
	var b strings.Builder
	for i, it := range items {
		if limit >= 0 && i >= limit {
			fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("… %d more", len(items)-limit)))
			break
		}
		check := "○"
		if it.Status == constants.TaskStatusDone {
			check = "✓"
		}
		line := fmt.Sprintf("%s %-8s %s%s", check, it.Priority, it.Title, dueLabel(it))
		if i == cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func dueLabel(it metrics.AgendaItem) string {
	if it.DueDate == nil {
		return ""
	}
	switch it.Due {
	case metrics.DueOverdue:
		return " " + dangerStyle.Render("overdue "+*it.DueDate)
	case metrics.DueToday:
		return " " + warningStyle.Render("due today")
	default:
		return " " + dimStyle.Render("due "+*it.DueDate)
	}
}

// RenderHeatmap draws the grid with one row per weekday and one column per
// week, headed by month labels.
func RenderHeatmap(h metrics.Heatmap) string {
	if len(h.Weeks) == 0 {
		return dimStyle.Render("No habit data.")
	}
	header := make([]rune, len(h.Weeks))
	for i := range header {
		header[i] = ' '
	}
	for _, m := range h.Months {
		for j, r := range m.Label {
			if m.Week+j < len(header) {
				header[m.Week+j] = r
			}
		}
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render(string(header)) + "\n")
	for wd := 0; wd < 7; wd++ {
		for _, week := range h.Weeks {
			if wd >= len(week) || week[wd].Padding {
				b.WriteString(" ")
				continue
			}
			level := week[wd].Level
			if level < 0 || level >= len(heatmapLevelStyles) {
				level = 0
			}
			b.WriteString(heatmapLevelStyles[level].Render("■"))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s", dimStyle.Render(fmt.Sprintf("%d completions %s to %s", h.Total, h.Start, h.End)))
	return b.String()
}

func renderSleepChart(points []metrics.Point) string {
	if len(points) == 0 {
		return dimStyle.Render("No sleep data.")
	}
	var b strings.Builder
	for _, p := range points {
		d := p.Values["duration"]
		q := p.Values["quality"]
		if d == nil {
			fmt.Fprintf(&b, "%-6s %s\n", p.Label, dimStyle.Render("no entry"))
			continue
		}
		bar := strings.Repeat("█", int(*d+0.5))
		quality := ""
		if q != nil {
			quality = dimStyle.Render(fmt.Sprintf(" q%.0f", *q))
		}
		fmt.Fprintf(&b, "%-6s %s %.1fh%s\n", p.Label, okStyle.Render(bar), *d, quality)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFinance(r metrics.BudgetRollup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "income %s  expenses %s  net %s\n", formatMoney(r.Income), formatMoney(r.Expenses), formatMoney(r.Net))
	for _, c := range r.Categories {
		fmt.Fprintf(&b, "  %-14s %10s  %5.1f%%\n", c.Category, formatMoney(c.Amount), c.PercentOfTotal)
	}
	for _, bs := range r.Budgets {
		line := fmt.Sprintf("  budget %-10s %s / %s", bs.Category, formatMoney(bs.Spent), formatMoney(bs.MonthlyLimit))
		if bs.Over && bs.OverBy != nil {
			line += " " + dangerStyle.Render("over by "+formatMoney(*bs.OverBy))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRenewals(s metrics.SubscriptionStats) string {
	if len(s.UpcomingRenewals) == 0 {
		return dimStyle.Render("No renewals in the next 30 days.")
	}
	var b strings.Builder
	for _, r := range s.UpcomingRenewals {
		fmt.Fprintf(&b, "  %-16s %10s  %s\n", r.Name, formatMoney(r.Cost), renewalWhen(r.DaysUntil))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renewalWhen(days int) string {
	switch days {
	case 0:
		return warningStyle.Render("today")
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

func renderToday(n *models.DailyNote) string {
	if n == nil {
		return dimStyle.Render("No note for today.")
	}
	mood, energy := "-", "-"
	if n.Mood != nil {
		mood = fmt.Sprintf("%d", *n.Mood)
	}
	if n.Energy != nil {
		energy = fmt.Sprintf("%d", *n.Energy)
	}
	return fmt.Sprintf("mood %s  energy %s", mood, energy)
}

func renderWarnings(ws []dashboard.Warning) string {
	if len(ws) == 0 {
		return ""
	}
	lines := make([]string, len(ws))
	for i, w := range ws {
		lines[i] = warningStyle.Render("⚠ " + w.String())
	}
	return strings.Join(lines, "\n")
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
