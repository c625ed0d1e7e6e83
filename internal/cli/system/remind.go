package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/notifier"
)

// sender is swapped in tests.
var sender interface {
	Send([]notifier.Reminder) (int, error)
} = notifier.New()

// RemindCmd sends desktop notifications for overdue tasks and upcoming
// subscription renewals. It is meant to run from cron or a systemd timer.
type RemindCmd struct {
	Days      *int `help:"Renewal look-ahead in days (overrides reminders.renewal_days)."`
	NoOverdue bool `help:"Skip the overdue task reminder."`
	DryRun    bool `help:"Print reminders instead of sending them."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	opts := notifier.Options{
		Overdue:     ctx.Config.Reminders.Overdue && !c.NoOverdue,
		RenewalDays: ctx.Config.Reminders.RenewalDays,
	}
	if c.Days != nil {
		if *c.Days < 0 {
			return fmt.Errorf("--days must not be negative")
		}
		opts.RenewalDays = *c.Days
	}

	bg := context.Background()
	tasks, err := ctx.Store.ListTasks(bg, models.TaskFilter{})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	active := true
	subs, err := ctx.Store.ListSubscriptions(bg, &active)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	reminders := notifier.Build(tasks, subs, opts, ctx.Today())
	if len(reminders) == 0 {
		fmt.Println("Nothing to remind you about.")
		return nil
	}

	if c.DryRun {
		for _, r := range reminders {
			fmt.Printf("• %s: %s\n", r.Title, r.Message)
		}
		return nil
	}

	sent, err := sender.Send(reminders)
	fmt.Printf("Sent %d of %d reminder(s).\n", sent, len(reminders))
	return err
}
