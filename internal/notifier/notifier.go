package notifier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/logger"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
)

var (
	notifyFunc = beeep.Notify
	alertFunc  = beeep.Alert
)

// maxListed caps how many task titles go into one notification body.
const maxListed = 3

// Reminder is one desktop notification.
type Reminder struct {
	Title   string
	Message string
	// Urgent reminders use an alert (notification plus sound).
	Urgent bool
}

// Options selects which reminders Build produces.
type Options struct {
	Overdue     bool
	RenewalDays int
}

// Build turns overdue tasks and upcoming subscription renewals into
// reminders. Overdue tasks are grouped into a single urgent reminder;
// each renewal gets its own.
func Build(tasks []models.Task, subs []models.Subscription, opts Options, today time.Time) []Reminder {
	var out []Reminder

	if opts.Overdue {
		if overdue := metrics.Overdue(tasks, today); len(overdue) > 0 {
			out = append(out, overdueReminder(overdue))
		}
	}

	if opts.RenewalDays > 0 {
		for _, r := range metrics.UpcomingRenewals(subs, opts.RenewalDays, today) {
			out = append(out, Reminder{
				Title:   fmt.Sprintf("%s renews %s", r.Name, when(r.DaysUntil)),
				Message: fmt.Sprintf("%.2f, billed %s", r.Cost, r.BillingCycle),
			})
		}
	}
	return out
}

func overdueReminder(tasks []models.Task) Reminder {
	title := "1 overdue task"
	if len(tasks) > 1 {
		title = fmt.Sprintf("%d overdue tasks", len(tasks))
	}

	lines := make([]string, 0, maxListed+1)
	for i, t := range tasks {
		if i == maxListed {
			lines = append(lines, fmt.Sprintf("and %d more", len(tasks)-maxListed))
			break
		}
		lines = append(lines, fmt.Sprintf("%s (due %s)", t.Title, *t.DueDate))
	}
	return Reminder{Title: title, Message: strings.Join(lines, "\n"), Urgent: true}
}

func when(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// Notifier delivers reminders as desktop notifications.
type Notifier struct{}

// New returns a notifier that labels notifications with the app name.
func New() *Notifier {
	beeep.AppName = constants.AppName
	return &Notifier{}
}

// Send delivers every reminder, continuing past failures. It returns how
// many were delivered and the joined delivery errors.
func (n *Notifier) Send(reminders []Reminder) (int, error) {
	var errs []error
	sent := 0
	for _, r := range reminders {
		deliver := notifyFunc
		if r.Urgent {
			deliver = alertFunc
		}
		if err := deliver(r.Title, r.Message, ""); err != nil {
			logger.Warn("Failed to send notification", "title", r.Title, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", r.Title, err))
			continue
		}
		logger.Debug("Sent notification", "title", r.Title)
		sent++
	}
	return sent, errors.Join(errs...)
}
