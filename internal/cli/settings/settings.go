package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/validation"
)

type SettingsCmd struct {
	List  bool     `help:"List current settings."`
	Set   []string `help:"Set a setting (repeatable)." placeholder:"KEY=VALUE"`
	Unset []string `help:"Clear a setting so its default applies (repeatable)." placeholder:"KEY"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()

	if c.List {
		return c.list(ctx)
	}

	if len(c.Set) == 0 && len(c.Unset) == 0 {
		fmt.Println("No changes specified. Use --list to view settings or --set key=value to update them.")
		return nil
	}

	values := make(map[string]*string, len(c.Set)+len(c.Unset))
	for _, assignment := range c.Set {
		key, value, err := cli.ParseAssignment(assignment)
		if err != nil {
			return err
		}
		if err := validation.SettingKey(key); err != nil {
			return err
		}
		if err := checkKnown(key, value); err != nil {
			return err
		}
		values[key] = &value
	}
	for _, key := range c.Unset {
		if err := validation.SettingKey(key); err != nil {
			return err
		}
		values[key] = nil
	}

	if err := ctx.Store.PutSettings(bg, values); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("Settings updated successfully (%d changed).\n", len(values))
	return nil
}

func (c *SettingsCmd) list(ctx *cli.Context) error {
	stored, err := ctx.Store.ListSettings(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	merged := constants.DefaultSettings()
	for _, s := range stored {
		if s.Value != nil {
			merged[s.Key] = *s.Value
		} else if _, ok := merged[s.Key]; !ok {
			merged[s.Key] = "(null)"
		}
	}

	keys := make([]string, 0, len(merged))
	width := 0
	for k := range merged {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	fmt.Println("Current Settings:")
	for _, k := range keys {
		fmt.Printf("  %-*s  %s\n", width, k, merged[k])
	}
	return nil
}

// checkKnown validates values for the keys the dashboard reads. Other keys
// are free-form.
func checkKnown(key, value string) error {
	switch key {
	case constants.SettingSleepTargetHours:
		hours, err := strconv.ParseFloat(value, 64)
		if err != nil || hours <= 0 || hours > 24 {
			return fmt.Errorf("%s must be a number of hours between 0 and 24", key)
		}
	case constants.SettingTimezone:
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("%s: unknown time zone %q", key, value)
		}
	case constants.SettingEnabledModules:
		var modules []string
		if err := json.Unmarshal([]byte(value), &modules); err != nil {
			return fmt.Errorf(`%s must be a JSON array of strings, e.g. ["tasks","habits"]`, key)
		}
	}
	return nil
}
