package trackers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/storage"
	"github.com/julianstephens/theseus/internal/validation"
)

type SleepCmd struct {
	Log   SleepLogCmd   `cmd:"" help:"Log a night of sleep."`
	Score SleepScoreCmd `cmd:"" help:"Show the sleep score for the last week."`
}

type SleepLogCmd struct {
	Date    string  `help:"Night of YYYY-MM-DD, the day you woke up (default: today)."`
	Hours   float64 `help:"Hours slept."`
	Bedtime string  `help:"Bedtime as HH:MM on the previous evening."`
	Wake    string  `help:"Wake time as HH:MM."`
	Quality *int    `help:"Quality from 1 to 5."`
	Notes   string  `help:"Optional notes."`
}

func (c *SleepLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()

	day := c.Date
	if day == "" {
		day = ctx.Today().Format(constants.DateFormat)
	}

	e := models.SleepEntry{Date: day, Quality: c.Quality, Notes: optionalString(c.Notes)}
	if c.Hours > 0 {
		hours := c.Hours
		e.DurationHours = &hours
	}
	if c.Bedtime != "" || c.Wake != "" {
		bed, wake, err := clockTimes(day, c.Bedtime, c.Wake)
		if err != nil {
			return err
		}
		e.Bedtime, e.WakeTime = bed, wake
	}
	e.DeriveDuration()
	if err := validation.SleepEntry(e); err != nil {
		return err
	}

	existing, err := ctx.Store.GetSleep(bg, day)
	switch {
	case err == nil:
		e.ID = existing.ID
		if _, err := ctx.Store.UpdateSleep(bg, e); err != nil {
			return err
		}
		fmt.Printf("Updated sleep for %s\n", day)
	case errors.Is(err, storage.ErrNotFound):
		if _, err := ctx.Store.CreateSleep(bg, e); err != nil {
			return err
		}
		fmt.Printf("Logged sleep for %s\n", day)
	default:
		return err
	}
	return nil
}

// clockTimes anchors HH:MM values to the night ending on day. A bedtime
// later than the wake time belongs to the previous evening.
func clockTimes(day, bedtime, wake string) (*time.Time, *time.Time, error) {
	base, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", day)
	}
	parse := func(name, v string) (*time.Time, error) {
		if v == "" {
			return nil, nil
		}
		hm, err := time.Parse("15:04", strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q (expected HH:MM)", name, v)
		}
		t := base.Add(time.Duration(hm.Hour())*time.Hour + time.Duration(hm.Minute())*time.Minute)
		return &t, nil
	}

	bed, err := parse("bedtime", bedtime)
	if err != nil {
		return nil, nil, err
	}
	wakeAt, err := parse("wake time", wake)
	if err != nil {
		return nil, nil, err
	}
	if bed != nil && (wakeAt == nil || bed.After(*wakeAt)) {
		prev := bed.AddDate(0, 0, -1)
		bed = &prev
	}
	return bed, wakeAt, nil
}

type SleepScoreCmd struct{}

func (c *SleepScoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	score, err := ctx.Local().SleepScore(context.Background())
	if err != nil {
		return err
	}
	if score.Nights == 0 {
		fmt.Printf("No sleep logged in the last %d days.\n", constants.SleepScoreWindowDays)
		return nil
	}

	fmt.Printf("Sleep score: %d/100 (%d night(s))\n", score.Score, score.Nights)
	fmt.Printf("  Duration:    %d\n", score.Components.Duration)
	fmt.Printf("  Quality:     %d\n", score.Components.Quality)
	fmt.Printf("  Consistency: %d\n", score.Components.Consistency)
	return nil
}
